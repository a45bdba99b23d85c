// Package benchmarks provides shared chart generators for benchmark tests.
package benchmarks

import (
	"fmt"

	"github.com/joinchart/joinchart"
)

// GenFlatChart creates a flat chart with n simple states, all children of
// one root composite, cycling on tick.
func GenFlatChart(n int) *joinchart.Builder {
	if n < 1 {
		n = 1
	}
	bld := joinchart.NewBuilder().Top("root")
	ids := make([]joinchart.NodeID, n)
	for i := range ids {
		ids[i] = joinchart.NodeID(fmt.Sprintf("s%d", i))
	}
	bld.Composite("root", "Root", "", ids[0], ids...)
	for i := 0; i < n; i++ {
		id := ids[i]
		target := ids[(i+1)%n]
		nb := bld.Simple(id, "State", "root")
		joinchart.OnEvent(nb, func(ctx *joinchart.Context, e tickEvent) bool {
			ctx.Transit(target)
			return true
		})
	}
	return bld
}

// GenDeepChart creates a chain of depth nested composites, each containing
// only the next, with the two leaves flipping between each other on tick at
// the bottom of the chain.
func GenDeepChart(depth int) *joinchart.Builder {
	if depth < 1 {
		depth = 1
	}
	bld := joinchart.NewBuilder().Top("c0")
	leaf1 := joinchart.NodeID(fmt.Sprintf("c%d_leaf1", depth-1))
	leaf2 := joinchart.NodeID(fmt.Sprintf("c%d_leaf2", depth-1))
	for i := 0; i < depth; i++ {
		id := joinchart.NodeID(fmt.Sprintf("c%d", i))
		var parent joinchart.NodeID
		if i > 0 {
			parent = joinchart.NodeID(fmt.Sprintf("c%d", i-1))
		}
		if i < depth-1 {
			child := joinchart.NodeID(fmt.Sprintf("c%d", i+1))
			bld.Composite(id, "Compound", parent, child, child)
			continue
		}
		bld.Composite(id, "Compound", parent, leaf1, leaf1, leaf2)
		nb1 := bld.Simple(leaf1, "Leaf", id)
		joinchart.OnEvent(nb1, func(ctx *joinchart.Context, e tickEvent) bool {
			ctx.Transit(leaf2)
			return true
		})
		nb2 := bld.Simple(leaf2, "Leaf", id)
		joinchart.OnEvent(nb2, func(ctx *joinchart.Context, e tickEvent) bool {
			ctx.Transit(leaf1)
			return true
		})
	}
	return bld
}

// GenWideChart creates one main state with numTransitions candidate targets
// (all children of one root composite) and one tick handler per target on
// main;
// only the first-declared handler claims the event (highest priority, the
// rest refuse), matching the generator's original intent of benchmarking
// handler-set fan-out rather than actual branching.
func GenWideChart(numTransitions int) *joinchart.Builder {
	if numTransitions < 1 {
		numTransitions = 1
	}
	bld := joinchart.NewBuilder().Top("root")
	ids := []joinchart.NodeID{"main"}
	for i := 0; i < numTransitions; i++ {
		ids = append(ids, joinchart.NodeID(fmt.Sprintf("target%d", i)))
	}
	bld.Composite("root", "Root", "", "main", ids...)
	main := bld.Simple("main", "Main", "root")
	for i := 0; i < numTransitions; i++ {
		target := joinchart.NodeID(fmt.Sprintf("target%d", i))
		claims := i == 0
		joinchart.OnEvent(main, func(ctx *joinchart.Context, e tickEvent) bool {
			if !claims {
				return false
			}
			ctx.Transit(target)
			return true
		})
		nb := bld.Simple(target, "Target", "root")
		joinchart.OnEvent(nb, func(ctx *joinchart.Context, e tickEvent) bool {
			ctx.Transit("main")
			return true
		})
	}
	return bld
}
