package engine

import "github.com/joinchart/joinchart/internal/model"

// plan is the planner's output before joint interleaving: the plain
// (non-joint) nodes to exit, leaves-first/parents-last, and to enter,
// parents-first/leaves-last. Joint exits/entries are interleaved by the
// engine once the plan is known, because that needs the live active set to
// know which joints actually flip.
type plan struct {
	exit  []model.NodeID
	enter []model.NodeID
}

// transitionError reports an inconsistent or unresolvable transition
// request. The configuration is left unchanged and the caller still
// flushes any already-collected replies.
type transitionError struct {
	nodeType model.NodeType
	msg      string
}

func (e *transitionError) Error() string { return e.msg }

// planTransition computes the exit/entry plan for a batch of requested
// transition targets. requested is the list of target node IDs accumulated
// during dispatch, possibly with repeats; it is deduplicated here. A requested target that names a Joint is
// first rewritten to its guard set -- transit(J) behaves exactly as if the
// handler had called transit on every one of J's guards instead -- before
// any of the steps below run. For each (rewritten) target it then finds
// where the target's ancestor chain first stops being active -- that is the
// entry point; if that entry point's parent is a Composite, the parent's
// current active child's whole active subtree must exit first. A target
// that is already fully active instead gets the outer-transition treatment:
// its whole active subtree exits and its required subtree re-enters.
func planTransition(tree *model.Tree, active *activeSet, requested []model.NodeID) (*plan, *transitionError) {
	if len(requested) == 0 {
		return &plan{}, nil
	}

	requested = expandJointTargets(tree, requested)

	for _, r := range requested {
		if _, ok := tree.Node(r); !ok {
			return nil, &transitionError{msg: "transition targets unknown node " + string(r)}
		}
	}

	// Step 2: compatibility check over the rewritten requested set.
	for i := 0; i < len(requested); i++ {
		for j := i + 1; j < len(requested); j++ {
			if err := checkCompatible(tree, requested[i], requested[j]); err != nil {
				return nil, err
			}
		}
	}

	mustExit := map[model.NodeID]bool{}
	mustEnter := map[model.NodeID]bool{}

	for _, r := range dedup(requested) {
		if active.isActive(r) {
			for _, d := range activeSubtreeOf(tree, active, r) {
				mustExit[d] = true
			}
			for _, d := range expandDownward(tree, r) {
				mustEnter[d] = true
			}
			continue
		}

		anc := tree.Ancestors(r) // root-first, includes r
		entryIdx := 0
		for entryIdx < len(anc) && active.isActive(anc[entryIdx]) {
			entryIdx++
		}

		if entryIdx > 0 {
			parent := tree.MustNode(anc[entryIdx-1])
			if parent.Kind == model.Composite {
				if oldChild := activeChildOf(tree, active, parent); oldChild != "" {
					for _, d := range activeSubtreeOf(tree, active, oldChild) {
						mustExit[d] = true
					}
				}
			}
		}

		for _, id := range anc[entryIdx:] {
			mustEnter[id] = true
		}
		for _, id := range expandDownward(tree, r) {
			mustEnter[id] = true
		}
	}

	return &plan{
		exit:  orderExit(tree, mustExit),
		enter: orderEntry(tree, mustEnter),
	}, nil
}

// expandJointTargets rewrites every requested target that names a Joint
// into that joint's guards, in declaration order, leaving every other
// target untouched. A guard can never itself be a Joint (rejected at
// Build), so this expansion never needs to recurse.
func expandJointTargets(tree *model.Tree, requested []model.NodeID) []model.NodeID {
	out := make([]model.NodeID, 0, len(requested))
	for _, r := range requested {
		n, ok := tree.Node(r)
		if ok && n.Kind == model.Joint {
			out = append(out, n.Guards...)
			continue
		}
		out = append(out, r)
	}
	return out
}

// activeChildOf returns composite n's currently active child, or "" if none.
func activeChildOf(tree *model.Tree, active *activeSet, n *model.Node) model.NodeID {
	for _, c := range n.Children {
		if active.isActive(c) {
			return c
		}
	}
	return ""
}

func dedup(ids []model.NodeID) []model.NodeID {
	seen := make(map[model.NodeID]bool, len(ids))
	out := make([]model.NodeID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// checkCompatible walks up from a and b to their LCA; if the LCA is a
// Composite and the two paths diverge into different children, the request
// is inconsistent.
func checkCompatible(tree *model.Tree, a, b model.NodeID) *transitionError {
	if a == b {
		return nil
	}
	ancA := tree.Ancestors(a)
	ancB := tree.Ancestors(b)
	for i := 0; i < len(ancA) && i < len(ancB); i++ {
		if ancA[i] != ancB[i] {
			lca := ancA[i-1]
			if tree.MustNode(lca).Kind == model.Composite {
				bad := b
				return &transitionError{nodeType: tree.MustNode(bad).Type,
					msg: "transition requests " + string(a) + " and " + string(b) + " which diverge under composite " + string(lca)}
			}
			return nil
		}
	}
	return nil
}

// expandDownward returns r plus, for Composite, its initial child's
// expansion, and for Parallel, all regions' expansions. Simple nodes add
// nothing further.
func expandDownward(tree *model.Tree, r model.NodeID) []model.NodeID {
	n := tree.MustNode(r)
	out := []model.NodeID{r}
	switch n.Kind {
	case model.Composite:
		out = append(out, expandDownward(tree, n.Initial)...)
	case model.Parallel:
		for _, region := range n.Regions {
			out = append(out, expandDownward(tree, region)...)
		}
	}
	return out
}

// activeSubtreeOf returns r plus every currently active descendant of r (in
// no particular order; callers only use this as a set).
func activeSubtreeOf(tree *model.Tree, active *activeSet, r model.NodeID) []model.NodeID {
	if !active.isActive(r) {
		return nil
	}
	out := []model.NodeID{r}
	n := tree.MustNode(r)
	switch n.Kind {
	case model.Composite:
		for _, c := range n.Children {
			if active.isActive(c) {
				out = append(out, activeSubtreeOf(tree, active, c)...)
			}
		}
	case model.Parallel:
		for _, region := range n.Regions {
			out = append(out, activeSubtreeOf(tree, active, region)...)
		}
	}
	return out
}

// orderEntry returns the must-enter set in preorder: a node before its
// children, children visited in declaration order (composite Children,
// parallel Regions). This walks the whole tree from the top down rather
// than sorting the set directly, so one target subtree is fully entered --
// parent then every descendant -- before a sibling subtree is even started,
// exactly as for a single top-level target.
func orderEntry(tree *model.Tree, set map[model.NodeID]bool) []model.NodeID {
	var out []model.NodeID
	preorderWalk(tree, tree.Top(), func(id model.NodeID) {
		if set[id] {
			out = append(out, id)
		}
	})
	return out
}

// orderExit returns the must-exit set in the exact reverse of orderEntry's
// preorder: every descendant before its parent, and one target subtree
// fully exited before a sibling subtree is touched.
func orderExit(tree *model.Tree, set map[model.NodeID]bool) []model.NodeID {
	entry := orderEntry(tree, set)
	out := make([]model.NodeID, len(entry))
	for i, id := range entry {
		out[len(entry)-1-i] = id
	}
	return out
}

// preorderWalk visits id and then its structural children (composite
// Children or parallel Regions, in declaration order), calling visit on
// every node reached -- including ones outside whatever set the caller is
// filtering by, since reaching a deeply nested target may require walking
// through already-active ancestors that aren't themselves exiting/entering.
func preorderWalk(tree *model.Tree, id model.NodeID, visit func(model.NodeID)) {
	visit(id)
	n := tree.MustNode(id)
	switch n.Kind {
	case model.Composite:
		for _, c := range n.Children {
			preorderWalk(tree, c, visit)
		}
	case model.Parallel:
		for _, r := range n.Regions {
			preorderWalk(tree, r, visit)
		}
	}
}
