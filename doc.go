// Package joinchart implements a hierarchical state-chart runtime: composite
// and parallel regions, plus joint states -- pseudo-nodes that become active
// exactly when a declared set of guard nodes elsewhere in the tree are all
// active, without the guards needing to share a parent.
//
// A chart is assembled with Builder, validated and frozen into a Chart with
// Builder.Build, driven to life with Chart.Initiate, and stepped one event
// at a time with Chart.Process. Handlers are registered per node, per phase
// (enter/exit/handle) and, optionally, per exact event type; see OnEnter,
// OnExit and OnEvent.
package joinchart
