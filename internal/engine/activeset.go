package engine

import "github.com/joinchart/joinchart/internal/model"

// activeSet is the mutable configuration: which nodes, and which joints,
// are currently active. The engine calls activate/deactivate as it runs an
// exit/entry plan, and allGuardsActive/candidateJoints to decide which
// joints flip along the way.
type activeSet struct {
	tree   *model.Tree
	active map[model.NodeID]bool
	joints map[model.NodeID]bool
}

func newActiveSet(tree *model.Tree) *activeSet {
	return &activeSet{
		tree:   tree,
		active: make(map[model.NodeID]bool),
		joints: make(map[model.NodeID]bool),
	}
}

func (a *activeSet) isActive(id model.NodeID) bool { return a.active[id] }

func (a *activeSet) activate(id model.NodeID)   { a.active[id] = true }
func (a *activeSet) deactivate(id model.NodeID) { delete(a.active, id) }

func (a *activeSet) isJointActive(id model.NodeID) bool { return a.joints[id] }

func (a *activeSet) snapshot() []model.NodeID {
	out := make([]model.NodeID, 0, len(a.active))
	for _, n := range a.tree.All() {
		if a.active[n.ID] {
			out = append(out, n.ID)
		}
	}
	return out
}

func (a *activeSet) activeJointsSnapshot() []model.NodeID {
	var out []model.NodeID
	for _, n := range a.tree.All() {
		if n.Kind == model.Joint && a.joints[n.ID] {
			out = append(out, n.ID)
		}
	}
	return out
}

func (a *activeSet) allGuardsActive(j *model.Node) bool {
	for _, g := range j.Guards {
		if !a.active[g] {
			return false
		}
	}
	return true
}

// candidateJoints returns, in declaration order and without duplicates, the
// joints whose guard set intersects touched. nil touched means "every
// joint in the tree" (used by initiate/terminate where the whole
// configuration changed at once).
func (a *activeSet) candidateJoints(touched []model.NodeID) []model.NodeID {
	if touched == nil {
		var all []model.NodeID
		for _, n := range a.tree.All() {
			if n.Kind == model.Joint {
				all = append(all, n.ID)
			}
		}
		return all
	}
	hit := make(map[model.NodeID]bool)
	for _, id := range touched {
		for _, jid := range a.tree.JointsGuardedBy(id) {
			hit[jid] = true
		}
	}
	var out []model.NodeID
	for _, n := range a.tree.All() {
		if n.Kind == model.Joint && hit[n.ID] {
			out = append(out, n.ID)
		}
	}
	return out
}
