package story

import "fmt"

// NodeKey addresses a node globally. Node ids are only unique within a
// chapter, so the pair is the identity.
type NodeKey struct {
	Chapter string
	Node    string
}

func (k NodeKey) String() string {
	return fmt.Sprintf("%s/%s", k.Chapter, k.Node)
}

// DeadLink is an edge whose destination does not exist.
type DeadLink struct {
	From NodeKey
	To   NodeKey
}

// BuildAdjacency builds the story graph over all chapters using the same
// edge rules the transition resolver follows at play time: roll-bearing
// choices branch to their success and failure nodes, everything else
// follows (next_chapter, next_node), a cross-chapter edge with no node
// fans out to the target chapter's start node set, and list-valued refs
// fan out to every candidate. The dummy placeholder is skipped.
func BuildAdjacency(chapters map[string]*Chapter) map[NodeKey][]NodeKey {
	adj := make(map[NodeKey][]NodeKey)

	for chapterID, chapter := range chapters {
		for nodeID, node := range chapter.Nodes {
			from := NodeKey{Chapter: chapterID, Node: nodeID}
			for _, choice := range node.Choices {
				for _, to := range choiceTargets(chapters, chapterID, choice) {
					adj[from] = append(adj[from], to)
				}
			}
		}
	}
	return adj
}

func choiceTargets(chapters map[string]*Chapter, chapterID string, choice Choice) []NodeKey {
	var targets []NodeKey

	if choice.Roll != nil {
		// Roll destinations stay within the current chapter and take
		// precedence over next_node.
		for _, ref := range []NodeRef{choice.Roll.SuccessNode, choice.Roll.FailureNode} {
			for _, node := range ref {
				if node == DummyNode {
					continue
				}
				targets = append(targets, NodeKey{Chapter: chapterID, Node: node})
			}
		}
		return targets
	}

	targetChapter := choice.NextChapter
	if targetChapter == "" {
		targetChapter = chapterID
	}

	if targetChapter != chapterID && choice.NextNode.IsEmpty() {
		// Entering a chapter with no explicit node lands on its start set.
		next, ok := chapters[targetChapter]
		if !ok {
			return []NodeKey{{Chapter: targetChapter}}
		}
		for _, start := range next.StartNode {
			targets = append(targets, NodeKey{Chapter: targetChapter, Node: start})
		}
		return targets
	}

	for _, node := range choice.NextNode {
		if node == DummyNode {
			continue
		}
		targets = append(targets, NodeKey{Chapter: targetChapter, Node: node})
	}
	return targets
}

// Reachable walks the graph from the start chapter's start node set and
// returns the visited node set plus every dead link encountered. A dead
// link is an edge to a missing chapter or a missing node.
func Reachable(chapters map[string]*Chapter, startChapter string) (map[NodeKey]bool, []DeadLink, error) {
	start, ok := chapters[startChapter]
	if !ok {
		return nil, nil, fmt.Errorf("start chapter not found: %s", startChapter)
	}

	adj := BuildAdjacency(chapters)
	visited := make(map[NodeKey]bool)
	var deadLinks []DeadLink
	var queue []NodeKey

	for _, node := range start.StartNode {
		key := NodeKey{Chapter: startChapter, Node: node}
		visited[key] = true
		queue = append(queue, key)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range adj[current] {
			chapter, ok := chapters[next.Chapter]
			if !ok {
				deadLinks = append(deadLinks, DeadLink{From: current, To: next})
				continue
			}
			if _, ok := chapter.Nodes[next.Node]; !ok {
				deadLinks = append(deadLinks, DeadLink{From: current, To: next})
				continue
			}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	return visited, deadLinks, nil
}
