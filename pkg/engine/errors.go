package engine

import (
	"errors"
	"fmt"
)

// ErrNotStarted is returned for actions on a session with no position.
// The caller recovers by starting a new session.
var ErrNotStarted = errors.New("session not started")

// ErrInvalidChoice is returned when the presented index is missing,
// non-numeric, or outside the currently visible range. No state changes.
var ErrInvalidChoice = errors.New("invalid choice")

// ChapterNotFoundError is a content-graph defect: a transition names a
// chapter that was never loaded.
type ChapterNotFoundError struct {
	Chapter string
}

func (e *ChapterNotFoundError) Error() string {
	return fmt.Sprintf("chapter not found: %s", e.Chapter)
}

// NodeNotFoundError is a content-graph defect: a transition resolved to
// a node id that does not exist in its chapter.
type NodeNotFoundError struct {
	Chapter string
	Node    string
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("node not found: %s/%s", e.Chapter, e.Node)
}

// IsContentError reports whether err is a content-graph integrity
// failure rather than bad player input.
func IsContentError(err error) bool {
	var chapterErr *ChapterNotFoundError
	var nodeErr *NodeNotFoundError
	return errors.As(err, &chapterErr) || errors.As(err, &nodeErr)
}
