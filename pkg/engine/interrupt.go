package engine

import (
	"errors"

	"github.com/duskmantle/beacon/pkg/state"
	"github.com/duskmantle/beacon/pkg/story"
)

// resumeChoiceText labels the single choice of a synthetic event node.
const resumeChoiceText = "Continue"

// maybeInterrupt runs the Bernoulli trial that may detour the session
// through a random event before it reaches the provisional destination.
// The trial is only taken from the positioned state and only when the
// choice stays within the current chapter, so interrupts never nest and
// never straddle a chapter switch. It reports whether the interrupt was
// taken; when it is, the provisional destination is parked unresolved in
// the position's pending fields.
func (e *Engine) maybeInterrupt(ps *state.PlayerState, nextChapter string, dest story.NodeRef) bool {
	if ps.Position.IsInterrupted() {
		return false
	}
	if nextChapter != "" && nextChapter != ps.Position.Chapter {
		return false
	}
	events := e.library.Events()
	if len(events) == 0 {
		return false
	}
	if e.rng.Float64() >= e.EventChance {
		return false
	}

	event := events[e.rng.Intn(len(events))]
	ps.Position = state.InterruptedBy(&event, ps.Position.Chapter, dest)

	e.logger.Debug("Random event interrupt",
		"session", ps.ID,
		"chapter", ps.Position.Chapter,
		"pending", ps.Position.PendingNode)
	return true
}

// eventNode builds the transient one-choice node rendered while an
// interrupt is active. The event's effect rides on the resume choice so
// the normal effect path applies it.
func eventNode(event *story.Event) *story.Node {
	return &story.Node{
		Text:   story.TextVariants{event.Text},
		Visual: event.Visual,
		Choices: []story.Choice{
			{Text: resumeChoiceText, Effect: event.Effect},
		},
	}
}

// resume commits the parked destination and returns to the positioned
// state. The event's effect has already been applied by the caller. A
// vanished pending node falls back to the pending chapter's start node
// instead of erroring: an interrupt must never strand a session.
func (e *Engine) resume(ps *state.PlayerState) error {
	pendingChapter := ps.Position.PendingChapter
	pendingNode := ps.Position.PendingNode

	chapterID, nodeID, err := e.resolveDestination(pendingChapter, "", pendingNode)
	if err != nil {
		var nodeErr *NodeNotFoundError
		if !errors.As(err, &nodeErr) {
			return err
		}
		e.logger.Warn("Pending node missing after interrupt, falling back to chapter start",
			"session", ps.ID,
			"chapter", pendingChapter,
			"pending", pendingNode)
		chapterID, nodeID, err = e.resolveDestination(pendingChapter, "", nil)
		if err != nil {
			return err
		}
	}

	ps.Position = state.At(chapterID, nodeID)
	return nil
}
