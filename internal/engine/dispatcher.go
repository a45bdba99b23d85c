package engine

import "github.com/joinchart/joinchart/internal/model"

// runHandlerSet executes phase φ on node n for dispatch context dc:
//  1. T = typed handlers for the event's exact type.
//  2. If T non-empty, run every handler in T; a handler "refuses" by
//     returning false.
//  3. For enter/exit: if T is empty, or every handler in T refused, run
//     every generic handler.
//  4. For handle: there is no generic variant; the node's handled-ness is
//     "T non-empty and at least one handler in T did not refuse".
//
// The return value is the node's own handled-ness for this phase (used by
// the handle-phase propagation rule in dispatchHandleNode below); for enter/exit the
// return value is unused by callers but kept for symmetry/tests.
func runHandlerSet(n *model.Node, phase model.Phase, eventType model.EventType, dc *model.DispatchContext) bool {
	typed := n.Typed(phase, eventType)
	if len(typed) == 0 {
		if phase != model.PhaseHandle {
			runGeneric(n, phase, dc)
		}
		return false
	}

	anyHandled := false
	for _, h := range typed {
		if h(dc) {
			anyHandled = true
		}
	}

	if phase != model.PhaseHandle && !anyHandled {
		runGeneric(n, phase, dc)
	}
	return anyHandled
}

func runGeneric(n *model.Node, phase model.Phase, dc *model.DispatchContext) {
	for _, g := range n.Generic(phase) {
		g(dc)
	}
}

// dispatchHandle walks the active tree from the top node downward,
// implementing the event-propagation rule:
//
//   - Descend into active children first (all children for parallel, the
//     one active child for composite); children_handled is the OR of their
//     results.
//   - Joint states attached to a parallel dispatch after that parallel's
//     region children but before the parallel itself, and only when
//     active; their handled-ness feeds into children_handled.
//   - If children_handled is true, the node's own typed handlers do NOT
//     run.
//   - If children_handled is false, the node's own typed handlers run, and
//     the node's handled-ness comes from its own handlers only.
//
// It returns whether the top node ended up handled.
func (e *Engine) dispatchHandle(eventType model.EventType) bool {
	return e.dispatchHandleNode(e.tree.Top(), eventType)
}

func (e *Engine) dispatchHandleNode(id model.NodeID, eventType model.EventType) bool {
	n := e.tree.MustNode(id)

	childrenHandled := false
	switch n.Kind {
	case model.Composite:
		active := e.activeChild(n)
		if active != "" {
			childrenHandled = e.dispatchHandleNode(active, eventType)
		}
	case model.Parallel:
		for _, r := range n.Regions {
			if e.dispatchHandleNode(r, eventType) {
				childrenHandled = true
			}
		}
		for _, jid := range n.Joints {
			if !e.active.isJointActive(jid) {
				continue
			}
			if e.dispatchJoint(jid, eventType) {
				childrenHandled = true
			}
		}
	}

	if childrenHandled {
		return true
	}

	dc := e.newHandleContext(id, eventType)
	return runHandlerSet(n, model.PhaseHandle, eventType, dc)
}

func (e *Engine) dispatchJoint(id model.NodeID, eventType model.EventType) bool {
	n := e.tree.MustNode(id)
	dc := e.newHandleContext(id, eventType)
	return runHandlerSet(n, model.PhaseHandle, eventType, dc)
}

// activeChild returns composite n's currently active child, or "" if none
// is active (only true transiently, never after a settled transition).
func (e *Engine) activeChild(n *model.Node) model.NodeID {
	for _, c := range n.Children {
		if e.active.isActive(c) {
			return c
		}
	}
	return ""
}
