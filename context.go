package joinchart

import "github.com/joinchart/joinchart/internal/model"

// Context is handed to every handler invocation. Transit and Reply forward
// to the engine; calling Transit from an exit or enter handler is reported
// as a transition error rather than honored (the exit/entry order for the
// current event is already fixed by the time those phases run).
type Context struct {
	dc *model.DispatchContext
}

func wrapContext(dc *model.DispatchContext) *Context {
	return &Context{dc: dc}
}

// Node returns the node the handler was registered on.
func (c *Context) Node() NodeID { return c.dc.Node }

// Transit requests target become part of the active configuration once the
// current event's handle phase finishes.
func (c *Context) Transit(target NodeID) { c.dc.Transit(target) }

// Reply emits a value to whichever reply handlers are registered for its
// type (see OnReply).
func (c *Context) Reply(r any) { c.dc.Reply(r) }
