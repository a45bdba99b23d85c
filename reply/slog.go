package reply

import (
	"context"
	"log/slog"

	"github.com/joinchart/joinchart"
)

// SlogHooks builds a joinchart.Hooks that logs every diagnostic through
// logger. It sets every diagnostic hook field, each logging directly at its
// own level, so none of them falls back to ReportError, ReportInfo or Log;
// the Reply field is left unset.
func SlogHooks(logger *slog.Logger) joinchart.Hooks {
	ctx := context.Background()
	return joinchart.Hooks{
		Log: func(msg joinchart.MessageFactory) {
			logger.LogAttrs(ctx, slog.LevelDebug, msg())
		},
		ReportError: func(msg joinchart.MessageFactory) {
			logger.LogAttrs(ctx, slog.LevelError, msg())
		},
		ReportInfo: func(msg joinchart.MessageFactory) {
			logger.LogAttrs(ctx, slog.LevelInfo, msg())
		},
		ReportUnprocessedEvent: func() {
			logger.LogAttrs(ctx, slog.LevelWarn, "unprocessed event")
		},
		ReportUnprocessedReply: func(r any) {
			logger.LogAttrs(ctx, slog.LevelWarn, "unprocessed reply", slog.Any("reply", r))
		},
		ReportTransitionError: func(nodeType joinchart.NodeType) {
			logger.LogAttrs(ctx, slog.LevelError, "transition error", slog.String("node_type", string(nodeType)))
		},
		ReportNotInitiated: func() {
			logger.LogAttrs(ctx, slog.LevelWarn, "chart not initiated")
		},
		ReportTransitions: func(nodes []joinchart.NodeID) {
			ids := make([]string, len(nodes))
			for i, n := range nodes {
				ids[i] = string(n)
			}
			logger.LogAttrs(ctx, slog.LevelDebug, "transition", slog.Any("nodes", ids))
		},
		ReportEventFinished: func(event any) {
			logger.LogAttrs(ctx, slog.LevelDebug, "event finished", slog.Any("event", event))
		},
	}
}
