package joinchart

import "github.com/joinchart/joinchart/internal/model"

// Kind is one of the four node kinds a declared tree node may be.
type Kind = model.Kind

const (
	Simple    = model.Simple
	Composite = model.Composite
	Parallel  = model.Parallel
	Joint     = model.Joint
)

// NodeInfo is a read-only snapshot of one declared node's structure, for
// tooling that needs to walk the tree without depending on internal/model
// directly (export.DOT, yamlspec).
type NodeInfo struct {
	ID       NodeID
	Type     NodeType
	Kind     Kind
	Parent   NodeID
	Children []NodeID
	Initial  NodeID
	Regions  []NodeID
	Joints   []NodeID
	Guards   []NodeID
}

// Nodes returns every declared node's structure, in declaration order.
func (c *Chart) Nodes() []NodeInfo {
	all := c.tree.All()
	out := make([]NodeInfo, len(all))
	for i, n := range all {
		out[i] = NodeInfo{
			ID:       n.ID,
			Type:     n.Type,
			Kind:     n.Kind,
			Parent:   n.Parent,
			Children: n.Children,
			Initial:  n.Initial,
			Regions:  n.Regions,
			Joints:   n.Joints,
			Guards:   n.Guards,
		}
	}
	return out
}

// Top returns the tree's single root node ID.
func (c *Chart) Top() NodeID { return c.tree.Top() }
