package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/duskmantle/beacon/pkg/state"
	"github.com/duskmantle/beacon/pkg/story"
)

func TestApplyEffectNil(t *testing.T) {
	ps := state.NewPlayerState()
	ps.Sanity = 50

	assert.False(t, ApplyEffect(nil, ps))
	assert.Equal(t, 50, ps.Sanity)
}

func TestApplyEffectSanityUnclamped(t *testing.T) {
	ps := state.NewPlayerState()
	ps.Sanity = 10

	ApplyEffect(&story.Effect{Sanity: -25}, ps)
	assert.Equal(t, -15, ps.Sanity)

	ApplyEffect(&story.Effect{Sanity: 200}, ps)
	assert.Equal(t, 185, ps.Sanity)
}

func TestApplyEffectAddItemIdempotent(t *testing.T) {
	ps := state.NewPlayerState()

	ApplyEffect(&story.Effect{AddItem: story.ItemList{"lantern", "rope"}}, ps)
	assert.Equal(t, []string{"lantern", "rope"}, ps.Inventory)

	ApplyEffect(&story.Effect{AddItem: story.ItemList{"lantern"}}, ps)
	assert.Equal(t, []string{"lantern", "rope"}, ps.Inventory)
}

func TestApplyEffectUpdateStats(t *testing.T) {
	ps := state.NewPlayerState()

	// Untouched attributes stack on the base of 10.
	ApplyEffect(&story.Effect{UpdateStats: map[string]int{"resolve": 3}}, ps)
	assert.Equal(t, 13, ps.Attributes["resolve"])

	ApplyEffect(&story.Effect{UpdateStats: map[string]int{"resolve": -5}}, ps)
	assert.Equal(t, 8, ps.Attributes["resolve"])
}

func TestApplyEffectResetShortCircuits(t *testing.T) {
	ps := state.NewPlayerState()
	ps.Sanity = 42

	reset := ApplyEffect(&story.Effect{
		Reset:   true,
		Sanity:  -99,
		AddItem: story.ItemList{"skipped"},
	}, ps)

	assert.True(t, reset)
	assert.Equal(t, 42, ps.Sanity)
	assert.Empty(t, ps.Inventory)
}
