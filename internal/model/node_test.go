package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fooEvent struct{}
type barEvent struct{}

func TestAddHandlerTypedAndGeneric(t *testing.T) {
	n := NewNode("s", "state", Simple)

	var typedRan, genericRan bool
	n.AddHandler(PhaseEnter, TypeOf(fooEvent{}), func(ctx *DispatchContext) bool {
		typedRan = true
		return true
	})
	n.AddHandler(PhaseEnter, nil, func(ctx *DispatchContext) bool {
		genericRan = true
		return true
	})

	assert.Len(t, n.Typed(PhaseEnter, TypeOf(fooEvent{})), 1)
	assert.Empty(t, n.Typed(PhaseEnter, TypeOf(barEvent{})))
	assert.Len(t, n.Generic(PhaseEnter), 1)

	for _, h := range n.Typed(PhaseEnter, TypeOf(fooEvent{})) {
		h(NewDispatchContext(n.ID, PhaseEnter, fooEvent{}, nil, nil))
	}
	assert.True(t, typedRan)
	assert.False(t, genericRan)
}

func TestAddHandlerPanicsOnGenericHandlePhase(t *testing.T) {
	n := NewNode("s", "state", Simple)
	assert.Panics(t, func() {
		n.AddHandler(PhaseHandle, nil, func(ctx *DispatchContext) bool { return true })
	})
}

func TestIsInner(t *testing.T) {
	assert.False(t, NewNode("s", "t", Simple).IsInner())
	assert.True(t, NewNode("c", "t", Composite).IsInner())
	assert.True(t, NewNode("p", "t", Parallel).IsInner())
	assert.False(t, NewNode("j", "t", Joint).IsInner())
}
