package engine

import (
	"github.com/duskmantle/beacon/pkg/play"
	"github.com/duskmantle/beacon/pkg/state"
	"github.com/duskmantle/beacon/pkg/story"
)

// VisibleChoices filters a node's choices by their conditions and
// returns the list shown to the player plus the mapping from presented
// index to underlying choice position. Visibility is state-dependent, so
// the mapping is recomputed from current state on every call and never
// cached.
func VisibleChoices(node *story.Node, ps *state.PlayerState) ([]play.ChoiceView, []int) {
	views := make([]play.ChoiceView, 0, len(node.Choices))
	mapping := make([]int, 0, len(node.Choices))

	for pos, choice := range node.Choices {
		if !EvaluateCondition(choice.Condition, ps) {
			continue
		}
		views = append(views, play.ChoiceView{Text: choice.Text, Index: len(views)})
		mapping = append(mapping, pos)
	}
	return views, mapping
}

// selectChoice resolves a presented index to the underlying choice. The
// mapping is re-derived against current state rather than trusting the
// index the client rendered earlier; a choice whose condition no longer
// holds can never be selected.
func selectChoice(node *story.Node, ps *state.PlayerState, presented int) (*story.Choice, error) {
	_, mapping := VisibleChoices(node, ps)
	if presented < 0 || presented >= len(mapping) {
		return nil, ErrInvalidChoice
	}
	return &node.Choices[mapping[presented]], nil
}
