package model

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Tree is the validated, read-only static state-tree: nodes, kinds,
// children, joint-state guards and per-node handler tables.
//
// Nodes and byType are insertion-ordered maps rather than plain Go maps:
// joint recompute ordering, validation error enumeration, and export
// ordering all rely on deterministic declaration order, which a plain map
// can't give without an extra sort pass on every read.
type Tree struct {
	top     NodeID
	nodes   *orderedmap.OrderedMap[NodeID, *Node]
	byType  *orderedmap.OrderedMap[NodeType, *orderedmap.OrderedMap[NodeID, *Node]]
	guarded map[NodeID][]NodeID // node -> joints whose guard set includes it
}

// ConfigError is returned by Build when the declared tree violates one of
// its structural invariants.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return e.msg }

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// Top returns the single root node's ID.
func (t *Tree) Top() NodeID { return t.top }

// Node looks up a node by identity.
func (t *Tree) Node(id NodeID) (*Node, bool) {
	return t.nodes.Get(id)
}

// MustNode looks up a node by identity, panicking if absent. Used
// internally once a Tree has passed Build's validation, where every
// referenced ID is already known to exist.
func (t *Tree) MustNode(id NodeID) *Node {
	n, ok := t.nodes.Get(id)
	if !ok {
		panic(fmt.Sprintf("model: unknown node %q", id))
	}
	return n
}

// NodesByType returns, in declaration order, the nodes that share a
// host-declared NodeType symbol.
func (t *Tree) NodesByType(typ NodeType) []*Node {
	group, ok := t.byType.Get(typ)
	if !ok {
		return nil
	}
	out := make([]*Node, 0, group.Len())
	for pair := group.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// All returns every node in declaration order.
func (t *Tree) All() []*Node {
	out := make([]*Node, 0, t.nodes.Len())
	for pair := t.nodes.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// JointsGuardedBy returns the joints (in declaration order) whose guard set
// includes node id: a mapping from every node to the set of joints whose
// guard set includes it, maintained once at construction so joint
// recomputation only ever consults joints whose guard set intersects the
// just-changed nodes.
func (t *Tree) JointsGuardedBy(id NodeID) []NodeID {
	return t.guarded[id]
}

// Ancestors returns id's ancestor chain, root-first, including id itself.
func (t *Tree) Ancestors(id NodeID) []NodeID {
	var rev []NodeID
	for cur := id; cur != ""; {
		rev = append(rev, cur)
		n := t.MustNode(cur)
		cur = n.Parent
	}
	out := make([]NodeID, len(rev))
	for i, id := range rev {
		out[len(rev)-1-i] = id
	}
	return out
}

// LCA returns the lowest common ancestor of a and b.
func (t *Tree) LCA(a, b NodeID) NodeID {
	ancA := t.Ancestors(a)
	ancB := t.Ancestors(b)
	var lca NodeID
	for i := 0; i < len(ancA) && i < len(ancB); i++ {
		if ancA[i] != ancB[i] {
			break
		}
		lca = ancA[i]
	}
	return lca
}

// IsAncestor reports whether a is an ancestor of (or equal to) b.
func (t *Tree) IsAncestor(a, b NodeID) bool {
	for cur := b; cur != ""; {
		if cur == a {
			return true
		}
		cur = t.MustNode(cur).Parent
	}
	return false
}

// Build validates a Builder's declared tree and returns the immutable Tree,
// or a *ConfigError enumerating the first violation found: missing child
// list on composite, unresolved guard reference, guard cycle among joints,
// guards that cannot be simultaneously active.
func Build(spec *TreeSpec) (*Tree, error) {
	if spec.Top == "" {
		return nil, configErrorf("tree has no root node")
	}
	t := &Tree{
		top:     spec.Top,
		nodes:   orderedmap.New[NodeID, *Node](),
		byType:  orderedmap.New[NodeType, *orderedmap.OrderedMap[NodeID, *Node]](),
		guarded: make(map[NodeID][]NodeID),
	}
	for _, n := range spec.Nodes {
		if _, exists := t.nodes.Get(n.ID); exists {
			return nil, configErrorf("duplicate node id %q", n.ID)
		}
		t.nodes.Set(n.ID, n)
		group, ok := t.byType.Get(n.Type)
		if !ok {
			group = orderedmap.New[NodeID, *Node]()
			t.byType.Set(n.Type, group)
		}
		group.Set(n.ID, n)
	}

	if _, ok := t.nodes.Get(t.top); !ok {
		return nil, configErrorf("root node %q not declared", t.top)
	}

	if err := t.validateAcyclicSingleRooted(); err != nil {
		return nil, err
	}
	if err := t.validateComposites(); err != nil {
		return nil, err
	}
	if err := t.validateJoints(); err != nil {
		return nil, err
	}

	return t, nil
}

// TreeSpec is the unvalidated input to Build: every declared node plus the
// root's ID. Builder assembles one of these from fluent calls; yamlspec
// assembles one from a parsed document.
type TreeSpec struct {
	Top   NodeID
	Nodes []*Node
}

func (t *Tree) validateAcyclicSingleRooted() error {
	// Every non-top node must have exactly one parent path back to top, with
	// no cycles. Composite children / parallel regions / joint guards are
	// all cross-checked here because guard edges don't constitute tree
	// membership (a joint is not a child of anything) but children/regions
	// do.
	visited := make(map[NodeID]bool)
	var walk func(id NodeID, trail map[NodeID]bool) error
	walk = func(id NodeID, trail map[NodeID]bool) error {
		if trail[id] {
			return configErrorf("cycle detected reaching node %q", id)
		}
		trail[id] = true
		visited[id] = true
		n := t.MustNode(id)
		switch n.Kind {
		case Composite:
			for _, c := range n.Children {
				if err := t.checkChildExists(n, c); err != nil {
					return err
				}
				if child := t.MustNode(c); child.Parent != id {
					return configErrorf("child %q of %q does not list %q as parent", c, id, id)
				}
				if err := walk(c, trail); err != nil {
					return err
				}
			}
		case Parallel:
			for _, r := range n.Regions {
				if err := t.checkChildExists(n, r); err != nil {
					return err
				}
				if child := t.MustNode(r); child.Parent != id {
					return configErrorf("region %q of %q does not list %q as parent", r, id, id)
				}
				if err := walk(r, trail); err != nil {
					return err
				}
			}
		}
		delete(trail, id)
		return nil
	}
	if err := walk(t.top, map[NodeID]bool{}); err != nil {
		return err
	}
	for pair := t.nodes.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Kind == Joint {
			continue // joints are not tree members; checked in validateJoints
		}
		if !visited[pair.Key] {
			return configErrorf("node %q is unreachable from root %q", pair.Key, t.top)
		}
	}
	return nil
}

func (t *Tree) checkChildExists(parent *Node, id NodeID) error {
	if _, ok := t.nodes.Get(id); !ok {
		return configErrorf("node %q references unknown child %q", parent.ID, id)
	}
	return nil
}

func (t *Tree) validateComposites() error {
	for pair := t.nodes.Oldest(); pair != nil; pair = pair.Next() {
		n := pair.Value
		switch n.Kind {
		case Composite:
			if len(n.Children) == 0 {
				return configErrorf("composite %q must have at least one child", n.ID)
			}
			found := false
			for _, c := range n.Children {
				if c == n.Initial {
					found = true
					break
				}
			}
			if !found {
				return configErrorf("composite %q initial child %q is not one of its children", n.ID, n.Initial)
			}
		case Parallel:
			if len(n.Regions) == 0 {
				return configErrorf("parallel %q must have at least one region", n.ID)
			}
		case Simple:
			if len(n.Children) != 0 {
				return configErrorf("simple state %q cannot have children", n.ID)
			}
		}
	}
	return nil
}

func (t *Tree) validateJoints() error {
	for pair := t.nodes.Oldest(); pair != nil; pair = pair.Next() {
		n := pair.Value
		if n.Kind != Joint {
			continue
		}
		if len(n.Guards) == 0 {
			return configErrorf("joint %q has no guards", n.ID)
		}
		owner := n.Parent
		if owner == "" {
			return configErrorf("joint %q is not attached to a parallel", n.ID)
		}
		parent, ok := t.nodes.Get(owner)
		if !ok || parent.Kind != Parallel {
			return configErrorf("joint %q is attached to %q which is not a parallel node", n.ID, owner)
		}
		attached := false
		for _, j := range parent.Joints {
			if j == n.ID {
				attached = true
				break
			}
		}
		if !attached {
			return configErrorf("joint %q is not listed among parallel %q's joint-children", n.ID, owner)
		}

		seen := map[NodeID]bool{}
		for _, g := range n.Guards {
			if g == n.ID {
				return configErrorf("joint %q may not guard itself", n.ID)
			}
			guard, ok := t.nodes.Get(g)
			if !ok {
				return configErrorf("joint %q references unknown guard %q", n.ID, g)
			}
			if guard.Kind == Joint {
				return configErrorf("joint %q cannot guard through another joint %q (joint cycles are not permitted)", n.ID, g)
			}
			seen[g] = true
		}

		if err := t.validateSimultaneous(n); err != nil {
			return err
		}

		// side index
		for _, g := range n.Guards {
			t.guarded[g] = append(t.guarded[g], n.ID)
		}
	}
	return nil
}

// validateSimultaneous checks that every pair of guards of j can be
// simultaneously active: they must not lie in different children of the
// same composite ancestor, recursively up to their LCA.
func (t *Tree) validateSimultaneous(j *Node) error {
	for i := 0; i < len(j.Guards); i++ {
		for k := i + 1; k < len(j.Guards); k++ {
			a, b := j.Guards[i], j.Guards[k]
			if a == b {
				continue
			}
			if err := t.checkCompatiblePair(j.ID, a, b); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *Tree) checkCompatiblePair(jointID NodeID, a, b NodeID) error {
	ancA := t.Ancestors(a)
	ancB := t.Ancestors(b)
	// Walk to the divergence point; if it's inside a Composite, the guards
	// can never be simultaneously active.
	for i := 0; i < len(ancA) && i < len(ancB); i++ {
		if ancA[i] != ancB[i] {
			divergedAt := ancA[i-1]
			n := t.MustNode(divergedAt)
			if n.Kind == Composite {
				return configErrorf("joint %q guards %q and %q diverge under composite %q and can never be simultaneously active", jointID, a, b, divergedAt)
			}
			return nil
		}
	}
	return nil
}

// PathContains reports whether path (root-first list of ancestors, as
// returned by Ancestors) contains id.
func PathContains(path []NodeID, id NodeID) bool {
	for _, p := range path {
		if p == id {
			return true
		}
	}
	return false
}
