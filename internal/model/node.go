// Package model defines the static state-tree: node kinds, handler tables,
// and joint-state guard sets. Everything here is read-only once a Tree has
// been built and validated; the mutable configuration lives in
// internal/engine.
package model

import "reflect"

// NodeID is a node's stable identity, usable as a map key.
type NodeID string

// NodeType is the host-declared symbol for a node (e.g. the Go type the
// host used to describe it). Several nodes may share a NodeType.
type NodeType string

// Kind is one of the four node kinds a tree can declare.
type Kind int

const (
	// Simple is a leaf node with no children.
	Simple Kind = iota
	// Composite has an ordered list of children; exactly one is active.
	Composite
	// Parallel has region children (all active together) plus optional joints.
	Parallel
	// Joint is a pseudo-node active iff all of its guard nodes are active.
	Joint
)

func (k Kind) String() string {
	switch k {
	case Simple:
		return "simple"
	case Composite:
		return "composite"
	case Parallel:
		return "parallel"
	case Joint:
		return "joint"
	default:
		return "unknown"
	}
}

// Phase identifies which handler table is being consulted.
type Phase int

const (
	PhaseEnter Phase = iota
	PhaseExit
	PhaseHandle
)

func (p Phase) String() string {
	switch p {
	case PhaseEnter:
		return "enter"
	case PhaseExit:
		return "exit"
	case PhaseHandle:
		return "handle"
	default:
		return "unknown"
	}
}

// EventType is the nominal tag used for exact-match typed-handler lookup.
// Dispatch matches a handler's registered type to an event's dynamic type
// exactly -- no subtype or interface matching -- using reflect.Type
// identity as the stable token.
type EventType = reflect.Type

// TypeOf returns the dispatch key for an event or reply value.
func TypeOf(v any) EventType {
	return reflect.TypeOf(v)
}

// TypedHandler runs during a specific phase for events whose dispatch key
// exactly matches the type it was registered under. The bool result is the
// handled/refused signal (true == handled).
type TypedHandler func(ctx *DispatchContext) bool

// GenericHandler runs for enter/exit when no typed handler claimed the
// event, or every typed handler for that type refused. There is no generic
// variant for the handle phase.
type GenericHandler func(ctx *DispatchContext) bool

// handlerTable holds, per phase, the typed handlers keyed by exact event
// type plus (enter/exit only) the generic fallback list.
type handlerTable struct {
	typed   map[EventType][]TypedHandler
	generic []GenericHandler
}

func newHandlerTable() *handlerTable {
	return &handlerTable{typed: make(map[EventType][]TypedHandler)}
}

// Node is one entry of the declared state tree.
type Node struct {
	ID     NodeID
	Type   NodeType
	Kind   Kind
	Parent NodeID // "" only for the single top node

	// Composite-specific.
	Children []NodeID
	Initial  NodeID

	// Parallel-specific.
	Regions []NodeID
	Joints  []NodeID

	// Joint-specific: the set of guard nodes elsewhere in the tree.
	Guards []NodeID

	handlers [3]*handlerTable // indexed by Phase
}

// NewNode creates a bare node of the given kind, ready for its
// kind-specific fields (Children/Initial, Regions/Joints, or Guards) and
// handler registrations to be filled in before the owning Tree is built.
func NewNode(id NodeID, typ NodeType, kind Kind) *Node {
	return newNode(id, typ, kind)
}

func newNode(id NodeID, typ NodeType, kind Kind) *Node {
	return &Node{
		ID:   id,
		Type: typ,
		Kind: kind,
		handlers: [3]*handlerTable{
			newHandlerTable(),
			newHandlerTable(),
			newHandlerTable(),
		},
	}
}

// AddHandler registers a typed handler for (phase, eventType) on this node.
// Passing a nil eventType registers a generic handler; generic handlers are
// only meaningful for PhaseEnter and PhaseExit.
func (n *Node) AddHandler(phase Phase, eventType EventType, h TypedHandler) {
	t := n.handlers[phase]
	if eventType == nil {
		if phase == PhaseHandle {
			panic("model: handle phase has no generic handler variant")
		}
		t.generic = append(t.generic, func(ctx *DispatchContext) bool { return h(ctx) })
		return
	}
	t.typed[eventType] = append(t.typed[eventType], h)
}

// Typed returns the typed handlers for (phase, eventType), possibly empty.
func (n *Node) Typed(phase Phase, eventType EventType) []TypedHandler {
	return n.handlers[phase].typed[eventType]
}

// Generic returns the generic handlers for (phase), possibly empty. Always
// empty for PhaseHandle.
func (n *Node) Generic(phase Phase) []GenericHandler {
	return n.handlers[phase].generic
}

// IsInner reports whether the node is an inner node (Composite or Parallel):
// one whose activation pulls in children that must also be active.
func (n *Node) IsInner() bool {
	return n.Kind == Composite || n.Kind == Parallel
}
