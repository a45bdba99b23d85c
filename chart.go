package joinchart

import (
	"github.com/joinchart/joinchart/internal/engine"
	"github.com/joinchart/joinchart/internal/model"
)

// Chart is a validated state tree paired with a running engine. It is the
// single entry point a host interacts with once Builder.Build succeeds.
type Chart struct {
	tree *model.Tree
	eng  *engine.Engine
}

// Initiate runs the full default-entry cascade from the top node down and
// settles the joint configuration. Calling it twice without an intervening
// Terminate returns engine.ErrAlreadyInitiated.
func (c *Chart) Initiate() error {
	return c.eng.Initiate()
}

// Terminate runs the full exit cascade, leaving the chart able to be
// Initiate'd again. A no-op if the chart was never initiated.
func (c *Chart) Terminate() {
	c.eng.Terminate()
}

// Process submits event for handling. If an event is already mid-flight
// (including a Process call made from inside a handler), event is queued
// and runs after everything already ahead of it in that queue. Process
// returns ErrNotInitiated if called while the chart is not initiated:
// before Initiate succeeds, or after Terminate.
func (c *Chart) Process(event any) error {
	return c.eng.Process(event)
}

// IsActive reports whether id is in the current configuration.
func (c *Chart) IsActive(id NodeID) bool { return c.eng.IsActive(id) }

// IsJointActive reports whether the named joint's guard set is currently
// satisfied.
func (c *Chart) IsJointActive(id NodeID) bool { return c.eng.IsJointActive(id) }

// ActiveNodes returns the current configuration in declaration order.
func (c *Chart) ActiveNodes() []NodeID { return c.eng.ActiveNodes() }

// ActiveJoints returns the currently-active joints in declaration order.
func (c *Chart) ActiveJoints() []NodeID { return c.eng.ActiveJoints() }

// OnReply registers handler for every reply whose dynamic type exactly
// matches T, whether it was buffered during a handle phase and flushed
// between exits and entries, or emitted directly from an exit/enter handler.
func OnReply[T any](c *Chart, handler func(r T)) {
	engine.OnReply(c.eng, handler)
}
