package state

import "github.com/duskmantle/beacon/pkg/story"

// PositionMode tags the two states of the interrupt machine.
type PositionMode string

const (
	// ModePositioned means the session sits on a real node in a real chapter.
	ModePositioned PositionMode = "positioned"
	// ModeInterrupted means a random event is being shown; the real
	// destination is parked in the pending fields.
	ModeInterrupted PositionMode = "interrupted"
)

// Position is the session's place in the story, modeled as a tagged
// variant instead of a sentinel node id. The zero value means the
// session has not started. Interrupts cannot nest: entering one replaces
// the positioned form entirely, and the engine only draws the interrupt
// trial from the positioned state.
type Position struct {
	Mode    PositionMode `json:"mode,omitempty"`
	Chapter string       `json:"chapter,omitempty"`
	Node    string       `json:"node,omitempty"`

	// Interrupt-only fields. PendingNode keeps the unresolved ref so a
	// list-valued destination still draws through the one transition
	// code path at resume time.
	Event          *story.Event  `json:"event,omitempty"`
	PendingChapter string        `json:"pending_chapter,omitempty"`
	PendingNode    story.NodeRef `json:"pending_node,omitempty"`
}

// At places the session on a node.
func At(chapter, node string) Position {
	return Position{
		Mode:    ModePositioned,
		Chapter: chapter,
		Node:    node,
	}
}

// InterruptedBy parks the provisional destination and shows the event.
// The chapter stays current so conditions keep evaluating against it.
func InterruptedBy(event *story.Event, chapter string, pending story.NodeRef) Position {
	return Position{
		Mode:           ModeInterrupted,
		Chapter:        chapter,
		Event:          event,
		PendingChapter: chapter,
		PendingNode:    pending,
	}
}

// IsStarted reports whether the session has a position at all.
func (p Position) IsStarted() bool {
	return p.Mode != ""
}

// IsInterrupted reports whether an interrupt is active.
func (p Position) IsInterrupted() bool {
	return p.Mode == ModeInterrupted
}
