package joinchart

import (
	"fmt"

	"github.com/joinchart/joinchart/internal/engine"
	"github.com/joinchart/joinchart/internal/model"
)

// NodeID and NodeType are the public names for the tree's node identity and
// host-declared symbol, re-exported so callers never need to import
// internal/model directly.
type (
	NodeID   = model.NodeID
	NodeType = model.NodeType
)

// Builder assembles a state tree with a fluent API, the way MachineBuilder
// did for the older guard/action model: declare nodes by kind, wire their
// structure, register handlers, then Build once everything is in place.
type Builder struct {
	top   NodeID
	nodes []*model.Node
	err   error
}

// NewBuilder starts a new, empty tree declaration.
func NewBuilder() *Builder {
	return &Builder{}
}

// Top declares which node is the tree's single root.
func (b *Builder) Top(id NodeID) *Builder {
	b.top = id
	return b
}

func (b *Builder) add(n *model.Node) *NodeBuilder {
	b.nodes = append(b.nodes, n)
	return &NodeBuilder{b: b, node: n}
}

// Simple declares a leaf node.
func (b *Builder) Simple(id NodeID, typ NodeType, parent NodeID) *NodeBuilder {
	n := model.NewNode(id, typ, model.Simple)
	n.Parent = parent
	return b.add(n)
}

// Composite declares a node with an ordered list of mutually-exclusive
// children, exactly one of which is active at a time.
func (b *Builder) Composite(id NodeID, typ NodeType, parent NodeID, initial NodeID, children ...NodeID) *NodeBuilder {
	n := model.NewNode(id, typ, model.Composite)
	n.Parent = parent
	n.Initial = initial
	n.Children = children
	return b.add(n)
}

// Parallel declares a node whose region children are all active together.
func (b *Builder) Parallel(id NodeID, typ NodeType, parent NodeID, regions ...NodeID) *NodeBuilder {
	n := model.NewNode(id, typ, model.Parallel)
	n.Parent = parent
	n.Regions = regions
	return b.add(n)
}

// Joint declares a pseudo-node attached to the named parallel node, active
// exactly when every node in guards is active. owner must be a Parallel
// node declared elsewhere in the same Builder, and must list id among its
// joint-children (not its regions) -- see JointsOf for wiring a parallel
// node's joint-children after the fact.
func (b *Builder) Joint(id NodeID, typ NodeType, owner NodeID, guards ...NodeID) *NodeBuilder {
	n := model.NewNode(id, typ, model.Joint)
	n.Parent = owner
	n.Guards = guards
	return b.add(n)
}

// JointsOf attaches joint-children to a previously declared Parallel node.
// Joint itself only records the joint's guard set and owner; a parallel
// node must separately list every joint attached to it so validation can
// cross-check the two declarations agree.
func (b *Builder) JointsOf(parallel NodeID, joints ...NodeID) *Builder {
	for _, n := range b.nodes {
		if n.ID == parallel {
			n.Joints = append(n.Joints, joints...)
			return b
		}
	}
	b.err = fmt.Errorf("joinchart: JointsOf references undeclared node %q", parallel)
	return b
}

// Build validates the declared tree and wraps it in a running Chart,
// applying any engine options (diagnostic hooks, reply wiring).
func (b *Builder) Build(opts ...engine.Option) (*Chart, error) {
	if b.err != nil {
		return nil, b.err
	}
	tree, err := model.Build(&model.TreeSpec{Top: b.top, Nodes: b.nodes})
	if err != nil {
		return nil, err
	}
	return &Chart{tree: tree, eng: engine.New(tree, opts...)}, nil
}

// NodeBuilder configures the node just declared on a Builder; every method
// returns the same NodeBuilder so calls chain.
type NodeBuilder struct {
	b    *Builder
	node *model.Node
}

// ID returns the node's identity, for referencing it from later Builder calls.
func (nb *NodeBuilder) ID() NodeID { return nb.node.ID }
