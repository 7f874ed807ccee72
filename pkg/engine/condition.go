package engine

import (
	"github.com/duskmantle/beacon/pkg/state"
	"github.com/duskmantle/beacon/pkg/story"
)

// EvaluateCondition reports whether a choice's visibility gate passes
// against the current player state. It is total: a nil condition always
// passes, all present clauses must hold, and clause keys the model does
// not know are dropped at parse time rather than rejected here.
func EvaluateCondition(cond *story.Condition, ps *state.PlayerState) bool {
	if cond == nil {
		return true
	}
	for _, item := range cond.HasItem {
		if !ps.HasItem(item) {
			return false
		}
	}
	if cond.MinSanity != nil && ps.Sanity < *cond.MinSanity {
		return false
	}
	if cond.MaxSanity != nil && ps.Sanity > *cond.MaxSanity {
		return false
	}
	return true
}
