package engine

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/d20"

	"github.com/duskmantle/beacon/pkg/state"
	"github.com/duskmantle/beacon/pkg/story"
)

// Comparison operators accepted in roll specs. An absent operator means
// "gt"; a present but unrecognized operator resolves to "gte", matching
// the shipped content.
const (
	opGreaterThan  = "gt"
	opLessOrEqual  = "lte"
	opGreaterEqual = "gte"
)

const sheetNominalHP = 10

// RollResult is the outcome of one dice check. Destination is the
// unresolved success or failure ref; candidate-set draws belong to the
// transition resolver so the roll's own randomness stays independent.
type RollResult struct {
	Success     bool
	Summary     string
	Destination story.NodeRef
}

// ResolveRoll draws one die, applies the bonus stat, resolves the
// target, and compares. The summary is reproducible given the same draw.
func ResolveRoll(roll *story.Roll, ps *state.PlayerState, rng Rand) RollResult {
	attr := sheetLookup(ps)

	sides := roll.Dice.Sides()
	raw := rng.Intn(sides) + 1

	value := raw
	var summary strings.Builder
	fmt.Fprintf(&summary, "Rolled %d on d%d", raw, sides)

	if roll.BonusStat != "" {
		bonus := attr(roll.BonusStat)
		value += bonus
		fmt.Fprintf(&summary, " + %s %d = %d", roll.BonusStat, bonus, value)
	}

	target := roll.Target.Value
	if roll.Target.IsAttr() {
		target = attr(roll.Target.Attr)
	}

	op := operator(roll.Condition)
	var success bool
	switch op {
	case opLessOrEqual:
		success = value <= target
	case opGreaterEqual:
		success = value >= target
	default:
		success = value > target
	}

	fmt.Fprintf(&summary, " vs %d (%s): ", target, op)
	dest := roll.FailureNode
	if success {
		summary.WriteString("success")
		dest = roll.SuccessNode
	} else {
		summary.WriteString("failure")
	}

	return RollResult{Success: success, Summary: summary.String(), Destination: dest}
}

func operator(cond string) string {
	switch strings.ToLower(strings.TrimSpace(cond)) {
	case "":
		return opGreaterThan
	case opGreaterThan:
		return opGreaterThan
	case opLessOrEqual:
		return opLessOrEqual
	default:
		return opGreaterEqual
	}
}

// sheetLookup builds a d20 actor from the player's attributes for the
// duration of one roll. Sanity is tracked outside the actor, so the
// sheet carries a nominal hit pool.
func sheetLookup(ps *state.PlayerState) func(string) int {
	attrs := ps.Attributes
	if attrs == nil {
		attrs = make(map[string]int)
	}

	actor, err := d20.NewActor(ps.ID.String()).
		WithHP(sheetNominalHP).
		WithAttributes(attrs).
		Build()
	if err != nil || actor == nil {
		return ps.Attribute
	}

	return func(name string) int {
		if v, ok := actor.Attribute(name); ok {
			return v
		}
		return state.DefaultAttribute
	}
}
