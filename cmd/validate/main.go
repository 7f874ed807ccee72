package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/duskmantle/beacon/pkg/engine"
	"github.com/duskmantle/beacon/pkg/story"
)

func main() {
	dir := flag.String("dir", "./data", "content directory (chapters/ plus events.json)")
	start := flag.String("start", engine.DefaultStartChapter, "chapter to walk reachability from")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	library := story.NewLibrary(*dir, logger)
	if err := library.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load content: %v\n", err)
		os.Exit(1)
	}

	chapters := library.Chapters()
	fmt.Printf("Validating %d chapters from %s...\n", len(chapters), *dir)

	validator := &ContentValidator{}
	validator.validateChapters(chapters)
	validator.validateReachability(chapters, *start)

	if len(validator.errors) > 0 {
		fmt.Fprintf(os.Stderr, "Validation errors:\n%s\n", strings.Join(validator.errors, "\n"))
		os.Exit(1)
	}

	fmt.Println("Story content is valid!")
}

type ContentValidator struct {
	errors []string
}

func (v *ContentValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

func (v *ContentValidator) validateChapters(chapters map[string]*story.Chapter) {
	for chapterID, chapter := range chapters {
		v.validateIDFormat("chapter ID", chapterID)

		for _, node := range chapter.StartNode {
			if _, ok := chapter.Nodes[node]; !ok {
				v.addError(fmt.Sprintf("chapter %s start_node '%s' does not exist", chapterID, node))
			}
		}

		for nodeID, node := range chapter.Nodes {
			v.validateIDFormat("node ID", nodeID)
			v.validateNode(chapterID, nodeID, node)
		}
	}
}

func (v *ContentValidator) validateNode(chapterID, nodeID string, node story.Node) {
	where := fmt.Sprintf("%s/%s", chapterID, nodeID)

	if len(node.Text) == 0 {
		v.addError(fmt.Sprintf("node %s has no text", where))
	}

	for i, choice := range node.Choices {
		if choice.Text == "" {
			v.addError(fmt.Sprintf("node %s choice %d has no text", where, i))
		}
		if choice.Roll != nil {
			if choice.Roll.SuccessNode.IsEmpty() || choice.Roll.FailureNode.IsEmpty() {
				v.addError(fmt.Sprintf("node %s choice %d roll is missing success or failure node", where, i))
			}
			if !choice.Roll.Target.IsAttr() && choice.Roll.Target.Value == 0 {
				v.addError(fmt.Sprintf("node %s choice %d roll has no target", where, i))
			}
		}
	}
}

// validateReachability walks the story graph from the start chapter and
// reports dead links plus nodes no play path can reach.
func (v *ContentValidator) validateReachability(chapters map[string]*story.Chapter, startChapter string) {
	visited, deadLinks, err := story.Reachable(chapters, startChapter)
	if err != nil {
		v.addError(err.Error())
		return
	}

	for _, dl := range deadLinks {
		v.addError(fmt.Sprintf("dead link: %s references missing %s", dl.From, dl.To))
	}

	var unreachable []string
	for chapterID, chapter := range chapters {
		for nodeID := range chapter.Nodes {
			key := story.NodeKey{Chapter: chapterID, Node: nodeID}
			if !visited[key] {
				unreachable = append(unreachable, key.String())
			}
		}
	}
	sort.Strings(unreachable)
	for _, key := range unreachable {
		v.addError(fmt.Sprintf("unreachable node: %s", key))
	}
}

var validIDRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func (v *ContentValidator) validateIDFormat(fieldName, id string) {
	if id == "" {
		return
	}
	if !validIDRegex.MatchString(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowercase snake_case", fieldName, id))
	}
}
