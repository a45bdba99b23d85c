package engine

import "github.com/joinchart/joinchart/internal/model"

// MessageFactory defers message formatting so the host only pays for it
// when Log is overridden.
type MessageFactory func() string

// Hooks is the engine-to-host diagnostic callback surface. Every field is
// optional; defaults chain as documented on each field.
type Hooks struct {
	// Reply is a low-level catch-all sink called once per dispatched reply,
	// in dispatch order: buffered handle-phase replies when they are flushed,
	// and enter/exit replies as they are emitted. Most hosts register typed
	// handlers instead (see OnReply)
	// and never set this field directly; it exists for hosts that want one
	// catch-all instead of per-type registration.
	Reply func(r any)

	// Log is the terminal sink every other hook chains to by default. A
	// no-op unless overridden.
	Log func(MessageFactory)

	// ReportError is the default target of the four specific-error hooks
	// below. Defaults to calling Log.
	ReportError func(MessageFactory)
	// ReportInfo is the default target of the two info hooks below.
	// Defaults to calling Log.
	ReportInfo func(MessageFactory)

	ReportUnprocessedEvent func()
	ReportUnprocessedReply func(r any)
	ReportTransitionError  func(nodeType model.NodeType)
	ReportNotInitiated     func()

	ReportTransitions  func(nodes []model.NodeID)
	ReportEventFinished func(event any)
}

// resolvedHooks fills in every fallback chain once so engine code never has
// to nil-check more than one level.
type resolvedHooks struct {
	h Hooks
}

func resolveHooks(h Hooks) *resolvedHooks {
	return &resolvedHooks{h: h}
}

func (r *resolvedHooks) reply(v any) {
	if r.h.Reply != nil {
		r.h.Reply(v)
	}
}

func (r *resolvedHooks) log(f MessageFactory) {
	if r.h.Log != nil {
		r.h.Log(f)
	}
}

func (r *resolvedHooks) reportError(f MessageFactory) {
	if r.h.ReportError != nil {
		r.h.ReportError(f)
		return
	}
	r.log(f)
}

func (r *resolvedHooks) reportInfo(f MessageFactory) {
	if r.h.ReportInfo != nil {
		r.h.ReportInfo(f)
		return
	}
	r.log(f)
}

func (r *resolvedHooks) reportUnprocessedEvent() {
	if r.h.ReportUnprocessedEvent != nil {
		r.h.ReportUnprocessedEvent()
		return
	}
	r.reportError(func() string { return "unprocessed event" })
}

func (r *resolvedHooks) reportUnprocessedReply(reply any) {
	if r.h.ReportUnprocessedReply != nil {
		r.h.ReportUnprocessedReply(reply)
		return
	}
	r.reportError(func() string { return "unprocessed reply" })
}

func (r *resolvedHooks) reportTransitionError(nodeType model.NodeType) {
	if r.h.ReportTransitionError != nil {
		r.h.ReportTransitionError(nodeType)
		return
	}
	r.reportError(func() string { return "transition error near node type " + string(nodeType) })
}

func (r *resolvedHooks) reportNotInitiated() {
	if r.h.ReportNotInitiated != nil {
		r.h.ReportNotInitiated()
		return
	}
	r.reportError(func() string { return "chart not initiated" })
}

func (r *resolvedHooks) reportTransitions(nodes []model.NodeID) {
	if r.h.ReportTransitions != nil {
		r.h.ReportTransitions(nodes)
		return
	}
	r.reportInfo(func() string { return "transition scheduled" })
}

func (r *resolvedHooks) reportEventFinished(event any) {
	if r.h.ReportEventFinished != nil {
		r.h.ReportEventFinished(event)
		return
	}
	r.reportInfo(func() string { return "event finished" })
}
