package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joinchart/joinchart/internal/model"
)

type goEvent struct{}
type stopEvent struct{}

// compositeTree builds top(composite) -> {a, b}, initial a, with a
// transitioning to b on goEvent.
func compositeTree(t *testing.T) (*model.Tree, *model.Node, *model.Node) {
	t.Helper()
	top := model.NewNode("top", "root", model.Composite)
	top.Initial = "a"
	top.Children = []model.NodeID{"a", "b"}
	a := model.NewNode("a", "leafA", model.Simple)
	a.Parent = "top"
	b := model.NewNode("b", "leafB", model.Simple)
	b.Parent = "top"

	a.AddHandler(model.PhaseHandle, model.TypeOf(goEvent{}), func(ctx *model.DispatchContext) bool {
		ctx.Transit("b")
		return true
	})

	tree, err := model.Build(&model.TreeSpec{Top: "top", Nodes: []*model.Node{top, a, b}})
	require.NoError(t, err)
	return tree, a, b
}

func TestInitiateEntersInitialPath(t *testing.T) {
	tree, _, _ := compositeTree(t)
	e := New(tree)
	require.NoError(t, e.Initiate())

	assert.True(t, e.IsActive("top"))
	assert.True(t, e.IsActive("a"))
	assert.False(t, e.IsActive("b"))
}

func TestInitiateTwiceErrors(t *testing.T) {
	tree, _, _ := compositeTree(t)
	e := New(tree)
	require.NoError(t, e.Initiate())
	assert.ErrorIs(t, e.Initiate(), ErrAlreadyInitiated)
}

func TestProcessRunsTransition(t *testing.T) {
	tree, _, _ := compositeTree(t)
	e := New(tree)
	require.NoError(t, e.Initiate())

	e.Process(goEvent{})

	assert.False(t, e.IsActive("a"))
	assert.True(t, e.IsActive("b"))
}

func TestProcessBeforeInitiateReportsNotInitiated(t *testing.T) {
	tree, _, _ := compositeTree(t)
	var reported bool
	e := New(tree, WithHooks(Hooks{
		ReportNotInitiated: func() { reported = true },
	}))
	e.Process(goEvent{})
	assert.True(t, reported)
}

func TestUnhandledEventReportsUnprocessed(t *testing.T) {
	tree, _, _ := compositeTree(t)
	var reported bool
	e := New(tree, WithHooks(Hooks{
		ReportUnprocessedEvent: func() { reported = true },
	}))
	require.NoError(t, e.Initiate())

	e.Process(stopEvent{})
	assert.True(t, reported)
}

// innerRefusalTree builds top -> mid(composite) -> leaf, where leaf refuses
// every goEvent and mid claims it: the force-forward rule should let mid
// handle it once leaf's own handlers all refuse.
func innerRefusalTree(t *testing.T) *model.Tree {
	t.Helper()
	top := model.NewNode("top", "root", model.Composite)
	top.Initial = "mid"
	top.Children = []model.NodeID{"mid"}
	mid := model.NewNode("mid", "mid", model.Composite)
	mid.Parent = "top"
	mid.Initial = "leaf"
	mid.Children = []model.NodeID{"leaf"}
	leaf := model.NewNode("leaf", "leaf", model.Simple)
	leaf.Parent = "mid"

	leaf.AddHandler(model.PhaseHandle, model.TypeOf(goEvent{}), func(ctx *model.DispatchContext) bool {
		return false
	})
	mid.AddHandler(model.PhaseHandle, model.TypeOf(goEvent{}), func(ctx *model.DispatchContext) bool {
		ctx.Reply("handled-by-mid")
		return true
	})

	tree, err := model.Build(&model.TreeSpec{Top: "top", Nodes: []*model.Node{top, mid, leaf}})
	require.NoError(t, err)
	return tree
}

func TestForceForwardOnUniversalRefusal(t *testing.T) {
	tree := innerRefusalTree(t)
	var got any
	e := New(tree)
	OnReply(e, func(r string) { got = r })
	require.NoError(t, e.Initiate())

	e.Process(goEvent{})
	assert.Equal(t, "handled-by-mid", got)
}

// parallelJointTree builds top(parallel) -> regions r1{a}, r2{b}, with joint
// j guarded by a and b, attached to top.
func parallelJointTree(t *testing.T) *model.Tree {
	t.Helper()
	top := model.NewNode("top", "root", model.Parallel)
	top.Regions = []model.NodeID{"r1", "r2"}
	top.Joints = []model.NodeID{"j"}
	r1 := model.NewNode("r1", "region", model.Composite)
	r1.Parent = "top"
	r1.Initial = "a"
	r1.Children = []model.NodeID{"a"}
	a := model.NewNode("a", "leafA", model.Simple)
	a.Parent = "r1"
	r2 := model.NewNode("r2", "region", model.Composite)
	r2.Parent = "top"
	r2.Initial = "b"
	r2.Children = []model.NodeID{"b"}
	b := model.NewNode("b", "leafB", model.Simple)
	b.Parent = "r2"
	joint := model.NewNode("j", "join", model.Joint)
	joint.Parent = "top"
	joint.Guards = []model.NodeID{"a", "b"}

	tree, err := model.Build(&model.TreeSpec{Top: "top", Nodes: []*model.Node{top, r1, a, r2, b, joint}})
	require.NoError(t, err)
	return tree
}

func TestJointActivatesWhenBothGuardsActive(t *testing.T) {
	tree := parallelJointTree(t)
	e := New(tree)
	require.NoError(t, e.Initiate())

	assert.True(t, e.IsActive("a"))
	assert.True(t, e.IsActive("b"))
	assert.True(t, e.IsJointActive("j"))
}

func TestJointDeactivatesWhenAGuardLeaves(t *testing.T) {
	top := model.NewNode("top", "root", model.Parallel)
	top.Regions = []model.NodeID{"r1", "r2"}
	top.Joints = []model.NodeID{"j"}
	r1 := model.NewNode("r1", "region", model.Composite)
	r1.Parent = "top"
	r1.Initial = "a"
	r1.Children = []model.NodeID{"a", "a2"}
	a := model.NewNode("a", "leafA", model.Simple)
	a.Parent = "r1"
	a2 := model.NewNode("a2", "leafA2", model.Simple)
	a2.Parent = "r1"
	r2 := model.NewNode("r2", "region", model.Composite)
	r2.Parent = "top"
	r2.Initial = "b"
	r2.Children = []model.NodeID{"b"}
	b := model.NewNode("b", "leafB", model.Simple)
	b.Parent = "r2"
	joint := model.NewNode("j", "join", model.Joint)
	joint.Parent = "top"
	joint.Guards = []model.NodeID{"a", "b"}

	a.AddHandler(model.PhaseHandle, model.TypeOf(goEvent{}), func(ctx *model.DispatchContext) bool {
		ctx.Transit("a2")
		return true
	})

	tree, err := model.Build(&model.TreeSpec{Top: "top", Nodes: []*model.Node{top, r1, a, a2, r2, b, joint}})
	require.NoError(t, err)

	e := New(tree)
	require.NoError(t, e.Initiate())
	require.True(t, e.IsJointActive("j"))

	e.Process(goEvent{})

	assert.True(t, e.IsActive("a2"))
	assert.False(t, e.IsActive("a"))
	assert.False(t, e.IsJointActive("j"))
}

// TestInitiateEntersOnePlainTreeDepthFirst builds top(parallel) -> regions
// r1{m1{x1}}, r2{y1}, where r1's subtree is two levels deep and r2's is one.
// Initiate must fully enter r1's whole subtree before starting r2's, even
// though m1/x1 sit deeper than r2/y1.
func TestInitiateEntersOnePlainTreeDepthFirst(t *testing.T) {
	top := model.NewNode("top", "root", model.Parallel)
	top.Regions = []model.NodeID{"r1", "r2"}
	r1 := model.NewNode("r1", "region", model.Composite)
	r1.Parent = "top"
	r1.Initial = "m1"
	r1.Children = []model.NodeID{"m1"}
	m1 := model.NewNode("m1", "mid", model.Composite)
	m1.Parent = "r1"
	m1.Initial = "x1"
	m1.Children = []model.NodeID{"x1"}
	x1 := model.NewNode("x1", "leafX1", model.Simple)
	x1.Parent = "m1"
	r2 := model.NewNode("r2", "region", model.Composite)
	r2.Parent = "top"
	r2.Initial = "y1"
	r2.Children = []model.NodeID{"y1"}
	y1 := model.NewNode("y1", "leafY1", model.Simple)
	y1.Parent = "r2"

	var order []model.NodeID
	record := func(id model.NodeID) func(*model.DispatchContext) bool {
		return func(ctx *model.DispatchContext) bool {
			order = append(order, id)
			return true
		}
	}
	for _, n := range []*model.Node{top, r1, m1, x1, r2, y1} {
		n.AddHandler(model.PhaseEnter, nil, record(n.ID))
	}

	tree, err := model.Build(&model.TreeSpec{Top: "top", Nodes: []*model.Node{top, r1, m1, x1, r2, y1}})
	require.NoError(t, err)

	e := New(tree)
	require.NoError(t, e.Initiate())

	assert.Equal(t, []model.NodeID{"top", "r1", "m1", "x1", "r2", "y1"}, order)
}

// TestTransitToJointRewritesToItsGuards builds top(parallel) -> regions
// left{x0,x1}, right{y0,y1}, joint j guarded by x1 and y1. A handler on top
// calls Transit("j") directly; that must behave as if it had called Transit
// on x1 and y1 instead, entering both regions' target leaves and settling j
// active -- never entering "j" itself as if it were an ordinary node.
func TestTransitToJointRewritesToItsGuards(t *testing.T) {
	top := model.NewNode("top", "root", model.Parallel)
	top.Regions = []model.NodeID{"left", "right"}
	top.Joints = []model.NodeID{"j"}
	left := model.NewNode("left", "region", model.Composite)
	left.Parent = "top"
	left.Initial = "x0"
	left.Children = []model.NodeID{"x0", "x1"}
	x0 := model.NewNode("x0", "leafX0", model.Simple)
	x0.Parent = "left"
	x1 := model.NewNode("x1", "leafX1", model.Simple)
	x1.Parent = "left"
	right := model.NewNode("right", "region", model.Composite)
	right.Parent = "top"
	right.Initial = "y0"
	right.Children = []model.NodeID{"y0", "y1"}
	y0 := model.NewNode("y0", "leafY0", model.Simple)
	y0.Parent = "right"
	y1 := model.NewNode("y1", "leafY1", model.Simple)
	y1.Parent = "right"
	joint := model.NewNode("j", "join", model.Joint)
	joint.Parent = "top"
	joint.Guards = []model.NodeID{"x1", "y1"}

	top.AddHandler(model.PhaseHandle, model.TypeOf(goEvent{}), func(ctx *model.DispatchContext) bool {
		ctx.Transit("j")
		return true
	})

	tree, err := model.Build(&model.TreeSpec{Top: "top", Nodes: []*model.Node{top, left, x0, x1, right, y0, y1, joint}})
	require.NoError(t, err)

	e := New(tree)
	require.NoError(t, e.Initiate())
	require.True(t, e.IsActive("x0"))
	require.True(t, e.IsActive("y0"))

	e.Process(goEvent{})

	assert.True(t, e.IsActive("x1"))
	assert.True(t, e.IsActive("y1"))
	assert.False(t, e.IsActive("x0"))
	assert.False(t, e.IsActive("y0"))
	assert.True(t, e.IsJointActive("j"))
}

func TestInitiateAndTerminateReportTransitionsAndEventFinished(t *testing.T) {
	tree, _, _ := compositeTree(t)
	var transitioned [][]model.NodeID
	var finished []any
	e := New(tree, WithHooks(Hooks{
		ReportTransitions:  func(nodes []model.NodeID) { transitioned = append(transitioned, nodes) },
		ReportEventFinished: func(event any) { finished = append(finished, event) },
	}))

	require.NoError(t, e.Initiate())
	e.Terminate()

	require.Len(t, transitioned, 2)
	assert.Equal(t, []model.NodeID{"top", "a"}, transitioned[0])
	require.Len(t, finished, 2)
	assert.Equal(t, Initiate{}, finished[0])
	assert.Equal(t, Terminate{}, finished[1])
}

func TestReentrantProcessQueuesFIFO(t *testing.T) {
	top := model.NewNode("top", "root", model.Composite)
	top.Initial = "a"
	top.Children = []model.NodeID{"a", "b"}
	a := model.NewNode("a", "leafA", model.Simple)
	a.Parent = "top"
	b := model.NewNode("b", "leafB", model.Simple)
	b.Parent = "top"

	var order []string
	a.AddHandler(model.PhaseHandle, model.TypeOf(goEvent{}), func(ctx *model.DispatchContext) bool {
		order = append(order, "a-handles-go")
		ctx.Reply("requeue")
		ctx.Transit("b")
		return true
	})
	b.AddHandler(model.PhaseEnter, nil, func(ctx *model.DispatchContext) bool {
		order = append(order, "b-enter")
		return true
	})
	b.AddHandler(model.PhaseHandle, model.TypeOf(stopEvent{}), func(ctx *model.DispatchContext) bool {
		order = append(order, "b-handles-stop")
		return true
	})

	tree, err := model.Build(&model.TreeSpec{Top: "top", Nodes: []*model.Node{top, a, b}})
	require.NoError(t, err)

	e := New(tree)
	// The reply handler runs during goEvent's reply flush; the stopEvent it
	// submits must wait until goEvent has finished entering b.
	OnReply(e, func(r string) { e.Process(stopEvent{}) })
	require.NoError(t, e.Initiate())
	e.Process(goEvent{})

	assert.Equal(t, []string{"a-handles-go", "b-enter", "b-handles-stop"}, order)
}
