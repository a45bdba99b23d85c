// Package yamlspec loads and exports the declarative YAML representation of
// a joinchart tree: a load/export surface for the tree's static structure,
// independent of any single running chart's snapshot state.
package yamlspec

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/joinchart/joinchart"
)

type document struct {
	Top   string `yaml:"top"`
	Nodes []node `yaml:"nodes"`
}

type node struct {
	ID       string   `yaml:"id"`
	Type     string   `yaml:"type"`
	Kind     string   `yaml:"kind"`
	Parent   string   `yaml:"parent,omitempty"`
	Initial  string   `yaml:"initial,omitempty"`
	Children []string `yaml:"children,omitempty"`
	Regions  []string `yaml:"regions,omitempty"`
	Joints   []string `yaml:"joints,omitempty"`
	Guards   []string `yaml:"guards,omitempty"`
}

// Load parses a YAML tree declaration into a Builder. The caller still
// registers handlers and calls Build before the tree is usable -- YAML has
// no representation for Go handler functions.
func Load(data []byte) (*joinchart.Builder, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("yamlspec: parse: %w", err)
	}

	b := joinchart.NewBuilder().Top(joinchart.NodeID(doc.Top))
	var joinsOf []node
	for _, n := range doc.Nodes {
		switch n.Kind {
		case "simple":
			b.Simple(joinchart.NodeID(n.ID), joinchart.NodeType(n.Type), joinchart.NodeID(n.Parent))
		case "composite":
			b.Composite(joinchart.NodeID(n.ID), joinchart.NodeType(n.Type), joinchart.NodeID(n.Parent),
				joinchart.NodeID(n.Initial), toNodeIDs(n.Children)...)
		case "parallel":
			b.Parallel(joinchart.NodeID(n.ID), joinchart.NodeType(n.Type), joinchart.NodeID(n.Parent),
				toNodeIDs(n.Regions)...)
			if len(n.Joints) > 0 {
				joinsOf = append(joinsOf, n)
			}
		case "joint":
			b.Joint(joinchart.NodeID(n.ID), joinchart.NodeType(n.Type), joinchart.NodeID(n.Parent),
				toNodeIDs(n.Guards)...)
		default:
			return nil, fmt.Errorf("yamlspec: node %q has unknown kind %q", n.ID, n.Kind)
		}
	}
	for _, n := range joinsOf {
		b.JointsOf(joinchart.NodeID(n.ID), toNodeIDs(n.Joints)...)
	}
	return b, nil
}

// Export serializes chart's declared tree structure to YAML. Handler
// registrations are not round-tripped.
func Export(chart *joinchart.Chart) ([]byte, error) {
	doc := document{Top: string(chart.Top())}
	for _, n := range chart.Nodes() {
		doc.Nodes = append(doc.Nodes, node{
			ID:       string(n.ID),
			Type:     string(n.Type),
			Kind:     kindName(n.Kind),
			Parent:   string(n.Parent),
			Initial:  string(n.Initial),
			Children: toStrings(n.Children),
			Regions:  toStrings(n.Regions),
			Joints:   toStrings(n.Joints),
			Guards:   toStrings(n.Guards),
		})
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("yamlspec: marshal: %w", err)
	}
	return out, nil
}

func kindName(k joinchart.Kind) string {
	switch k {
	case joinchart.Simple:
		return "simple"
	case joinchart.Composite:
		return "composite"
	case joinchart.Parallel:
		return "parallel"
	case joinchart.Joint:
		return "joint"
	default:
		return "unknown"
	}
}

func toNodeIDs(ss []string) []joinchart.NodeID {
	out := make([]joinchart.NodeID, len(ss))
	for i, s := range ss {
		out[i] = joinchart.NodeID(s)
	}
	return out
}

func toStrings(ids []joinchart.NodeID) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
