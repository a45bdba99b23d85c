package reply_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joinchart/joinchart"
	"github.com/joinchart/joinchart/reply"
)

type ackReply struct{ n int }
type nackReply struct{}
type pokeEvent struct{}

func TestRouterDispatchesByType(t *testing.T) {
	r := reply.NewRouter()
	var got []int
	reply.Register(r, func(a ackReply) { got = append(got, a.n) })
	reply.Register(r, func(a ackReply) { got = append(got, a.n*10) })

	ran := r.Dispatch(ackReply{n: 3})
	assert.True(t, ran)
	assert.Equal(t, []int{3, 30}, got)
}

func TestRouterReportsNoHandlerForUnregisteredType(t *testing.T) {
	r := reply.NewRouter()
	reply.Register(r, func(a ackReply) {})

	ran := r.Dispatch(nackReply{})
	assert.False(t, ran)
}

func TestRouterWiredThroughEngineHooksReply(t *testing.T) {
	r := reply.NewRouter()
	var got []int
	reply.Register(r, func(a ackReply) { got = append(got, a.n) })

	b := joinchart.NewBuilder().Top("top")
	b.Composite("top", "Top", "", "a", "a")
	a := b.Simple("a", "A", "top")
	joinchart.OnEvent(a, func(ctx *joinchart.Context, _ pokeEvent) bool {
		ctx.Reply(ackReply{n: 7})
		return true
	})

	chart, err := b.Build(joinchart.WithHooks(joinchart.Hooks{
		Reply: func(v any) { r.Dispatch(v) },
	}))
	require.NoError(t, err)
	require.NoError(t, chart.Initiate())

	chart.Process(pokeEvent{})

	assert.Equal(t, []int{7}, got)
}
