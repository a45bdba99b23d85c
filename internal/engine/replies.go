package engine

import "github.com/joinchart/joinchart/internal/model"

// replyBuffer accumulates replies during the event-handler phase so they
// can be flushed, in collected order, between exits and entries. Exit- and
// entry-handler replies bypass the buffer entirely and are dispatched
// immediately.
type replyBuffer struct {
	pending []any
}

func (b *replyBuffer) push(r any) {
	b.pending = append(b.pending, r)
}

func (b *replyBuffer) drain() []any {
	out := b.pending
	b.pending = nil
	return out
}

// replyHandler is one host-registered callback for a specific reply type:
// dispatched by reply type, one or many handlers per type, each receiving
// one reply instance.
type replyHandler func(r any)

// dispatchReply calls the catch-all Hooks.Reply sink, if set, then runs
// every registered handler for r's exact type. If no typed handler is
// registered, it reports UnprocessedReply: the reply is silently dropped
// from the typed-handler perspective, but the diagnostic still fires.
func (e *Engine) dispatchReply(r any) {
	e.hooks.reply(r)
	handlers := e.replyHandlers[model.TypeOf(r)]
	if len(handlers) == 0 {
		e.hooks.reportUnprocessedReply(r)
		return
	}
	for _, h := range handlers {
		h(r)
	}
}
