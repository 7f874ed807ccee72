package engine

import (
	"github.com/duskmantle/beacon/pkg/state"
	"github.com/duskmantle/beacon/pkg/story"
)

// ApplyEffect mutates player state with a choice's effect and reports
// whether the effect requested a session reset. On reset every other
// field of the effect is ignored; the caller restarts the session and
// skips the rest of the action.
//
// Sanity is unbounded in both directions. Items are added exactly once.
// Attribute deltas stack on a base of 10 for attributes content has
// never touched.
func ApplyEffect(effect *story.Effect, ps *state.PlayerState) bool {
	if effect == nil {
		return false
	}
	if effect.Reset {
		return true
	}

	ps.Sanity += effect.Sanity

	for _, item := range effect.AddItem {
		ps.AddItem(item)
	}

	if len(effect.UpdateStats) > 0 {
		if ps.Attributes == nil {
			ps.Attributes = make(map[string]int)
		}
		for name, delta := range effect.UpdateStats {
			ps.Attributes[name] = ps.Attribute(name) + delta
		}
	}
	return false
}
