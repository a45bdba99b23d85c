package model

// DispatchContext is passed to every handler invocation. It carries the
// triggering event (nil for the lifecycle pseudo-events a host never sees
// directly) and two thin callbacks the engine wires in before dispatch:
// Transit and Reply. Handlers never see the engine directly; instead they
// get a thin dispatch-context object carrying just what a handler needs.
type DispatchContext struct {
	// Node is the node the handler was registered on.
	Node NodeID
	// Phase is the phase currently being dispatched.
	Phase Phase
	// Event is the event being processed.
	Event any

	// transitFn appends a requested target to the engine's pending-transit
	// set. Only meaningful during PhaseHandle.
	transitFn func(target NodeID)
	// replyFn appends (PhaseHandle) or immediately flushes (enter/exit) a
	// reply, depending on which phase is in flight; the engine decides.
	replyFn func(r any)
}

// NewDispatchContext is used by internal/engine to build the context handed
// to handler invocations.
func NewDispatchContext(node NodeID, phase Phase, event any, transitFn func(NodeID), replyFn func(any)) *DispatchContext {
	return &DispatchContext{Node: node, Phase: phase, Event: event, transitFn: transitFn, replyFn: replyFn}
}

// Transit requests that target become active as part of the transition this
// event produces. Valid only from handle-phase handlers; calling it from an
// enter/exit handler is reported via report_transition_error by the engine
// (the engine supplies a transitFn that does this reporting for those
// phases instead of accumulating the request).
func (c *DispatchContext) Transit(target NodeID) {
	if c.transitFn != nil {
		c.transitFn(target)
	}
}

// Reply emits a reply value. Handle-phase replies are buffered until the
// transition (or lack of one) is resolved; enter/exit replies are flushed
// immediately. The engine supplies the right replyFn for the phase.
func (c *DispatchContext) Reply(r any) {
	if c.replyFn != nil {
		c.replyFn(r)
	}
}
