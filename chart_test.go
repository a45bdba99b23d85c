package joinchart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joinchart/joinchart"
)

type readyEvent struct{}

// buildHandshake builds top(parallel) -> regions left{a,a2}, right{b},
// joint "bothReady" guarded by a2 and b, attached to top. a moves to a2 on
// readyEvent; b starts active.
func buildHandshake(t *testing.T) *joinchart.Chart {
	t.Helper()
	b := joinchart.NewBuilder().Top("top")
	b.Parallel("top", "Top", "", "left", "right")
	b.Composite("left", "Left", "top", "a", "a", "a2")
	left := b.Simple("a", "Waiting", "left")
	joinchart.OnEvent(left, func(ctx *joinchart.Context, e readyEvent) bool {
		ctx.Transit("a2")
		return true
	})
	b.Simple("a2", "Ready", "left")
	b.Composite("right", "Right", "top", "b", "b")
	b.Simple("b", "Ready", "right")
	b.Joint("bothReady", "BothReady", "top", "a2", "b")
	b.JointsOf("top", "bothReady")

	chart, err := b.Build()
	require.NoError(t, err)
	return chart
}

func TestJointBecomesActiveAcrossRegions(t *testing.T) {
	chart := buildHandshake(t)
	require.NoError(t, chart.Initiate())

	assert.False(t, chart.IsJointActive("bothReady"))
	chart.Process(readyEvent{})
	assert.True(t, chart.IsActive("a2"))
	assert.True(t, chart.IsActive("b"))
	assert.True(t, chart.IsJointActive("bothReady"))
}

type pongReply struct{ n int }

func TestReplyDispatchByType(t *testing.T) {
	b := joinchart.NewBuilder().Top("top")
	b.Composite("top", "Top", "", "a", "a")
	a := b.Simple("a", "A", "top")
	joinchart.OnEvent(a, func(ctx *joinchart.Context, e readyEvent) bool {
		ctx.Reply(pongReply{n: 7})
		return true
	})
	chart, err := b.Build()
	require.NoError(t, err)
	require.NoError(t, chart.Initiate())

	var got int
	joinchart.OnReply(chart, func(r pongReply) { got = r.n })
	chart.Process(readyEvent{})
	assert.Equal(t, 7, got)
}

func TestProcessBeforeInitiateReturnsErrNotInitiated(t *testing.T) {
	b := joinchart.NewBuilder().Top("top")
	b.Composite("top", "Top", "", "a", "a")
	b.Simple("a", "A", "top")
	chart, err := b.Build()
	require.NoError(t, err)

	err = chart.Process(readyEvent{})
	assert.ErrorIs(t, err, joinchart.ErrNotInitiated)
}

func TestUnprocessedReplyHookFiresWithoutHandler(t *testing.T) {
	b := joinchart.NewBuilder().Top("top")
	b.Composite("top", "Top", "", "a", "a")
	a := b.Simple("a", "A", "top")
	joinchart.OnEvent(a, func(ctx *joinchart.Context, e readyEvent) bool {
		ctx.Reply(pongReply{n: 1})
		return true
	})
	var reported bool
	chart, err := b.Build(joinchart.WithHooks(joinchart.Hooks{
		ReportUnprocessedReply: func(r any) { reported = true },
	}))
	require.NoError(t, err)
	require.NoError(t, chart.Initiate())

	chart.Process(readyEvent{})
	assert.True(t, reported)
}
