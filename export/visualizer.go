// Package export renders a declared tree, together with its current
// active configuration, as Graphviz DOT source.
package export

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/joinchart/joinchart"
)

// DOT renders chart's tree as Graphviz DOT source. Active nodes (and active
// joints) are filled; composite and parallel nodes are drawn as labeled
// clusters containing their children; joint nodes are drawn as diamonds
// pointing at their guards with dashed edges.
func DOT(chart *joinchart.Chart) string {
	nodes := chart.Nodes()
	byID := make(map[joinchart.NodeID]joinchart.NodeInfo, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	active := make(map[joinchart.NodeID]bool)
	for _, id := range chart.ActiveNodes() {
		active[id] = true
	}
	activeJoints := make(map[joinchart.NodeID]bool)
	for _, id := range chart.ActiveJoints() {
		activeJoints[id] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph Statechart {\n  rankdir=LR;\n  node [shape=box, fontsize=10, style=rounded];\n  edge [fontsize=9, style=dashed];\n\n")

	renderNode(&buf, chart.Top(), byID, active, activeJoints, 1)

	for _, n := range nodes {
		if n.Kind != joinchart.Joint {
			continue
		}
		for _, g := range n.Guards {
			fmt.Fprintf(&buf, "  %q -> %q;\n", quoted(n.ID), quoted(g))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func renderNode(buf *bytes.Buffer, id joinchart.NodeID, byID map[joinchart.NodeID]joinchart.NodeInfo, active, activeJoints map[joinchart.NodeID]bool, indent int) {
	n, ok := byID[id]
	if !ok {
		return
	}
	pad := indentString(indent)

	switch n.Kind {
	case joinchart.Composite, joinchart.Parallel:
		fmt.Fprintf(buf, "%ssubgraph cluster_%s {\n", pad, quoted(n.ID))
		fmt.Fprintf(buf, "%s  label=%q;\n", pad, fmt.Sprintf("%s (%s)", n.ID, n.Type))
		if active[n.ID] {
			fmt.Fprintf(buf, "%s  style=filled; fillcolor=lightyellow;\n", pad)
		}
		children := n.Children
		if n.Kind == joinchart.Parallel {
			children = n.Regions
		}
		for _, c := range children {
			renderNode(buf, c, byID, active, activeJoints, indent+1)
		}
		sortedJoints := append([]joinchart.NodeID{}, n.Joints...)
		sort.Slice(sortedJoints, func(i, j int) bool { return sortedJoints[i] < sortedJoints[j] })
		for _, j := range sortedJoints {
			renderJoint(buf, byID[j], activeJoints, indent+1)
		}
		fmt.Fprintf(buf, "%s}\n", pad)
	default:
		fmt.Fprintf(buf, "%s%s [label=%q%s];\n", pad, quoted(n.ID), fmt.Sprintf("%s (%s)", n.ID, n.Type), fillIfActive(active[n.ID]))
	}
}

func renderJoint(buf *bytes.Buffer, n joinchart.NodeInfo, activeJoints map[joinchart.NodeID]bool, indent int) {
	pad := indentString(indent)
	fmt.Fprintf(buf, "%s%s [shape=diamond, label=%q%s];\n", pad, quoted(n.ID), fmt.Sprintf("%s (%s)", n.ID, n.Type), fillIfActive(activeJoints[n.ID]))
}

func fillIfActive(active bool) string {
	if active {
		return ", style=filled, fillcolor=lightgreen"
	}
	return ""
}

func quoted(id joinchart.NodeID) string { return string(id) }

func indentString(n int) string {
	out := make([]byte, n*2)
	for i := range out {
		out[i] = ' '
	}
	return string(out)
}
