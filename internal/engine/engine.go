package engine

import (
	"errors"

	"github.com/joinchart/joinchart/internal/model"
)

// Sentinel errors surfaced by lifecycle operations. Diagnostic conditions
// that arise during steady-state processing never return an error -- they
// go through Hooks instead.
var (
	ErrNotInitiated    = errors.New("engine: not initiated")
	ErrAlreadyInitiated = errors.New("engine: already initiated")
)

// Engine is the mutable runtime over a built Tree: the active configuration,
// the single-threaded event pipeline, and the diagnostic/reply hook wiring.
type Engine struct {
	tree   *model.Tree
	active *activeSet
	hooks  *resolvedHooks

	replyHandlers map[model.EventType][]replyHandler
	replies       replyBuffer

	initiated  bool
	processing bool
	queue      []any

	// pending accumulates transit() targets requested during the current
	// event's handle phase; reset at the start of every runEvent.
	pending []model.NodeID

	// currentEventType is the dispatch key in scope for whichever phase is
	// currently running, so exit/entry handler lookups can be keyed by the
	// event that triggered them. nil during the initiate/terminate entry and
	// exit cascades, which are not triggered by an event.
	currentEventType model.EventType
	// currentEvent is the actual event value handed to handler contexts;
	// nil during initiate/terminate cascades.
	currentEvent any
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// New builds an Engine over tree. The tree must already be validated (it
// comes from model.Build); New does no further validation of its own.
func New(tree *model.Tree, opts ...Option) *Engine {
	e := &Engine{
		tree:          tree,
		active:        newActiveSet(tree),
		hooks:         resolveHooks(Hooks{}),
		replyHandlers: make(map[model.EventType][]replyHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OnReply registers handler for every flushed or immediately-dispatched
// reply whose dynamic type exactly matches a zero value of T.
func OnReply[T any](e *Engine, handler func(r T)) {
	var zero T
	key := model.TypeOf(zero)
	e.replyHandlers[key] = append(e.replyHandlers[key], func(r any) {
		handler(r.(T))
	})
}

// IsActive reports whether id is in the current configuration.
func (e *Engine) IsActive(id model.NodeID) bool { return e.active.isActive(id) }

// IsJointActive reports whether joint id's guard set is currently satisfied.
func (e *Engine) IsJointActive(id model.NodeID) bool { return e.active.isJointActive(id) }

// ActiveNodes returns the active configuration in declaration order.
func (e *Engine) ActiveNodes() []model.NodeID { return e.active.snapshot() }

// ActiveJoints returns the currently-active joints in declaration order.
func (e *Engine) ActiveJoints() []model.NodeID { return e.active.activeJointsSnapshot() }

// Initiate runs the full default-entry cascade from the top node downward
// and recomputes every joint against the settled configuration. Calling
// Initiate twice reports the misuse through ReportError and returns
// ErrAlreadyInitiated without touching the configuration. Initiate is process(Initiate): it reports the same
// ReportTransitions/ReportEventFinished hooks a regular event would, with
// Initiate itself standing in for the triggering event.
func (e *Engine) Initiate() error {
	if e.initiated {
		e.hooks.reportError(func() string { return "chart already initiated" })
		return ErrAlreadyInitiated
	}
	e.initiated = true
	e.currentEventType = nil
	e.currentEvent = nil

	top := e.tree.Top()
	enters := orderEntry(e.tree, toSet(expandDownward(e.tree, top)))
	e.hooks.reportTransitions(enters)
	e.runEntries(enters, nil)
	e.flushReplies()
	e.hooks.reportEventFinished(Initiate{})
	return nil
}

// Terminate runs the full exit cascade in reverse, leaving the engine able
// to be re-Initiated. Terminating a non-initiated engine is a no-op.
// Terminate is process(Terminate): it reports the same
// ReportTransitions/ReportEventFinished hooks a regular event would, with
// Terminate itself standing in for the triggering event.
func (e *Engine) Terminate() {
	if !e.initiated {
		return
	}
	e.currentEventType = nil
	e.currentEvent = nil
	exits := orderExit(e.tree, toSet(e.active.snapshot()))
	e.hooks.reportTransitions(exits)
	e.runExits(exits, nil)
	e.flushReplies()
	e.hooks.reportEventFinished(Terminate{})
	e.initiated = false
}

// Initiate and Terminate are the synthetic "event" values reported by
// ReportEventFinished for the Initiate/Terminate lifecycle operations, which
// have no real triggering event of their own.
type Initiate struct{}
type Terminate struct{}

// Process submits event to the engine. If an event is already being
// processed (including recursively, from within a handler), event is
// enqueued and runs after the current event and everything already queued
// ahead of it finishes. Process returns ErrNotInitiated (in addition to
// reporting ReportNotInitiated) if called while the engine is not
// initiated: before Initiate succeeds, or after Terminate.
func (e *Engine) Process(event any) error {
	if e.processing {
		e.queue = append(e.queue, event)
		return nil
	}
	if !e.initiated {
		e.hooks.reportNotInitiated()
		return ErrNotInitiated
	}

	e.processing = true
	e.runEvent(event)
	e.processing = false

	for len(e.queue) > 0 {
		next := e.queue[0]
		e.queue = e.queue[1:]
		e.processing = true
		e.runEvent(next)
		e.processing = false
	}
	return nil
}

func (e *Engine) runEvent(event any) {
	eventType := model.TypeOf(event)
	e.currentEventType = eventType
	e.currentEvent = event
	e.pending = nil

	handled := e.dispatchHandle(eventType)
	if !handled {
		e.hooks.reportUnprocessedEvent()
	}

	if len(e.pending) == 0 {
		e.flushReplies()
		e.hooks.reportEventFinished(event)
		return
	}

	requested := e.pending
	e.pending = nil
	p, terr := planTransition(e.tree, e.active, requested)
	if terr != nil {
		e.hooks.reportTransitionError(terr.nodeType)
		e.flushReplies()
		e.hooks.reportEventFinished(event)
		return
	}

	e.hooks.reportTransitions(append(append([]model.NodeID{}, p.exit...), p.enter...))
	e.runExits(p.exit, p.exit)
	e.flushReplies()
	e.runEntries(p.enter, p.enter)
	e.hooks.reportEventFinished(event)
}

func (e *Engine) flushReplies() {
	for _, r := range e.replies.drain() {
		e.dispatchReply(r)
	}
}

// runExits walks exits leaf-first, interleaving joint exits immediately
// before the first (in exit order) of their guards to leave the
// configuration. touched selects which joints are even considered; nil
// means "every currently active joint" (Terminate).
func (e *Engine) runExits(exits []model.NodeID, touched []model.NodeID) {
	goingInactive := e.jointsGoingInactive(exits, touched)
	exited := make(map[model.NodeID]bool, len(goingInactive))

	for _, id := range exits {
		for _, jid := range goingInactive {
			if exited[jid] {
				continue
			}
			if guardsContain(e.tree.MustNode(jid), id) {
				e.exitNode(jid)
				exited[jid] = true
			}
		}
		e.exitNode(id)
	}
	for _, jid := range goingInactive {
		if !exited[jid] {
			e.exitNode(jid)
		}
	}
}

// runEntries walks enters root-first, interleaving joint entries
// immediately after the last of their guards joins the configuration.
func (e *Engine) runEntries(enters []model.NodeID, touched []model.NodeID) {
	becomingActive := e.jointsBecomingActive(enters, touched)
	entered := make(map[model.NodeID]bool, len(becomingActive))

	for _, id := range enters {
		e.enterNode(id)
		for _, jid := range becomingActive {
			if entered[jid] {
				continue
			}
			if e.active.allGuardsActive(e.tree.MustNode(jid)) {
				e.enterNode(jid)
				entered[jid] = true
			}
		}
	}
}

// jointsGoingInactive returns, in reverse declaration order, the currently
// active joints that will lose at least one guard to exitSet.
func (e *Engine) jointsGoingInactive(exits []model.NodeID, touched []model.NodeID) []model.NodeID {
	exitSet := toSet(exits)
	candidates := e.active.candidateJoints(touched)
	var out []model.NodeID
	for i := len(candidates) - 1; i >= 0; i-- {
		jid := candidates[i]
		if !e.active.isJointActive(jid) {
			continue
		}
		if guardsIntersect(e.tree.MustNode(jid), exitSet) {
			out = append(out, jid)
		}
	}
	return out
}

// jointsBecomingActive returns, in forward declaration order, the
// currently-inactive joints whose guard set could newly be satisfied once
// enters lands (i.e. at least one guard is among the nodes being entered).
func (e *Engine) jointsBecomingActive(enters []model.NodeID, touched []model.NodeID) []model.NodeID {
	enterSet := toSet(enters)
	candidates := e.active.candidateJoints(touched)
	var out []model.NodeID
	for _, jid := range candidates {
		if e.active.isJointActive(jid) {
			continue
		}
		if guardsIntersect(e.tree.MustNode(jid), enterSet) {
			out = append(out, jid)
		}
	}
	return out
}

func (e *Engine) exitNode(id model.NodeID) {
	n := e.tree.MustNode(id)
	dc := e.newCascadeContext(id, model.PhaseExit)
	runHandlerSet(n, model.PhaseExit, e.currentEventType, dc)
	if n.Kind == model.Joint {
		delete(e.active.joints, id)
		return
	}
	e.active.deactivate(id)
}

func (e *Engine) enterNode(id model.NodeID) {
	n := e.tree.MustNode(id)
	if n.Kind == model.Joint {
		e.active.joints[id] = true
	} else {
		e.active.activate(id)
	}
	dc := e.newCascadeContext(id, model.PhaseEnter)
	runHandlerSet(n, model.PhaseEnter, e.currentEventType, dc)
}

// newHandleContext builds the dispatch context for a handle-phase call:
// transit() accumulates a target for the decision phase, reply() buffers.
func (e *Engine) newHandleContext(id model.NodeID, eventType model.EventType) *model.DispatchContext {
	return model.NewDispatchContext(id, model.PhaseHandle, e.currentEvent,
		func(target model.NodeID) { e.pending = append(e.pending, target) },
		func(r any) { e.replies.push(r) },
	)
}

// newCascadeContext builds the dispatch context for an exit or enter
// handler. transit() during these phases is a misuse: exit/entry order is
// already fixed for this event, so it escalates to TransitionError instead
// of silently accumulating a target. reply() dispatches immediately rather
// than buffering.
func (e *Engine) newCascadeContext(id model.NodeID, phase model.Phase) *model.DispatchContext {
	n := e.tree.MustNode(id)
	return model.NewDispatchContext(id, phase, e.currentEvent,
		func(model.NodeID) { e.hooks.reportTransitionError(n.Type) },
		func(r any) { e.dispatchReply(r) },
	)
}

func guardsContain(j *model.Node, id model.NodeID) bool {
	for _, g := range j.Guards {
		if g == id {
			return true
		}
	}
	return false
}

func guardsIntersect(j *model.Node, set map[model.NodeID]bool) bool {
	for _, g := range j.Guards {
		if set[g] {
			return true
		}
	}
	return false
}

func toSet(ids []model.NodeID) map[model.NodeID]bool {
	out := make(map[model.NodeID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}
