package engine

import (
	"github.com/duskmantle/beacon/pkg/story"
)

// resolveDestination turns a provisional (chapter, node ref) into a
// concrete node position. Chapter resolution happens first so "start
// node of the newly entered chapter" and "random destination within the
// current chapter" share the single candidate draw that follows. The
// returned chapter is the now-current one.
//
// A missing chapter or node is a content defect surfaced to the caller;
// nothing is committed on error.
func (e *Engine) resolveDestination(currentChapter, nextChapter string, ref story.NodeRef) (string, string, error) {
	chapterID := currentChapter
	if nextChapter != "" {
		chapterID = nextChapter
	}

	chapter, ok := e.library.Chapter(chapterID)
	if !ok {
		return "", "", &ChapterNotFoundError{Chapter: chapterID}
	}

	if ref.IsEmpty() {
		ref = chapter.StartNode
	}
	nodeID := ref.Resolve(e.rng)

	if _, ok := chapter.Nodes[nodeID]; !ok {
		return "", "", &NodeNotFoundError{Chapter: chapterID, Node: nodeID}
	}
	return chapterID, nodeID, nil
}
