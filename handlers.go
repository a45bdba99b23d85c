package joinchart

import "github.com/joinchart/joinchart/internal/model"

// OnEvent registers a typed handle-phase handler: it runs only while nb's
// node is in the active configuration and only for events whose dynamic
// type is exactly T. Returning false from fn means "refused" -- the event
// keeps propagating up the active-configuration path.
func OnEvent[T any](nb *NodeBuilder, fn func(ctx *Context, event T) bool) *NodeBuilder {
	var zero T
	nb.node.AddHandler(model.PhaseHandle, model.TypeOf(zero), func(dc *model.DispatchContext) bool {
		return fn(wrapContext(dc), dc.Event.(T))
	})
	return nb
}

// OnEnter registers a typed entry handler, run when nb's node becomes
// active as part of a transition triggered by an event of type T.
func OnEnter[T any](nb *NodeBuilder, fn func(ctx *Context, event T) bool) *NodeBuilder {
	var zero T
	nb.node.AddHandler(model.PhaseEnter, model.TypeOf(zero), func(dc *model.DispatchContext) bool {
		return fn(wrapContext(dc), dc.Event.(T))
	})
	return nb
}

// OnExit registers a typed exit handler, run when nb's node leaves the
// active configuration as part of a transition triggered by an event of
// type T.
func OnExit[T any](nb *NodeBuilder, fn func(ctx *Context, event T) bool) *NodeBuilder {
	var zero T
	nb.node.AddHandler(model.PhaseExit, model.TypeOf(zero), func(dc *model.DispatchContext) bool {
		return fn(wrapContext(dc), dc.Event.(T))
	})
	return nb
}

// OnAnyEnter registers a generic entry handler: it runs whenever nb's node
// is entered and either no typed entry handler exists for the triggering
// event's type, or every typed handler for that type refused. It also
// runs for the initiate/terminate cascades, where there is no triggering
// event at all.
func OnAnyEnter(nb *NodeBuilder, fn func(ctx *Context) bool) *NodeBuilder {
	nb.node.AddHandler(model.PhaseEnter, nil, func(dc *model.DispatchContext) bool {
		return fn(wrapContext(dc))
	})
	return nb
}

// OnAnyExit registers a generic exit handler, the exit-phase counterpart of
// OnAnyEnter.
func OnAnyExit(nb *NodeBuilder, fn func(ctx *Context) bool) *NodeBuilder {
	nb.node.AddHandler(model.PhaseExit, nil, func(dc *model.DispatchContext) bool {
		return fn(wrapContext(dc))
	})
	return nb
}
