package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/duskmantle/beacon/pkg/engine"
	"github.com/duskmantle/beacon/pkg/state"
	"github.com/duskmantle/beacon/pkg/story"
	"github.com/duskmantle/beacon/pkg/textfilter"
)

const liveSystemPrompt = `You are the narrator of an interactive horror story.
Reply with a single JSON object and nothing else:
{"text": "narrative paragraph", "visual": "one-word scene tag", "choices": ["choice 1", "choice 2", "choice 3"], "update_stats": {"stat_name": delta}}
Rules: 2-4 choices, each a short imperative sentence the player could take next.
update_stats holds integer deltas for the player attributes affected by their last action; use {} when none changed.
Only offer choices the player can currently take.`

// LiveDirector is the generative content adapter: it turns the player's
// last action plus current state into the next node, normalized to the
// content model's node shape. Every failure path degrades to the fixed
// placeholder node; the player never sees a generation fault.
type LiveDirector struct {
	llm    LLMService
	logger *slog.Logger
}

// Ensure LiveDirector implements engine.NodeSource
var _ engine.NodeSource = (*LiveDirector)(nil)

// NewLiveDirector creates a director over the given backend client.
func NewLiveDirector(llm LLMService, logger *slog.Logger) *LiveDirector {
	return &LiveDirector{
		llm:    llm,
		logger: logger,
	}
}

// liveReply is the structured document the backend is asked to produce.
type liveReply struct {
	Text        string         `json:"text"`
	Visual      string         `json:"visual"`
	Choices     []string       `json:"choices"`
	UpdateStats map[string]int `json:"update_stats"`
}

func (d *LiveDirector) NextNode(ctx context.Context, action string, ps *state.PlayerState) (*engine.LiveTurn, error) {
	if ps.Live == nil || ps.Live.Endpoint == "" {
		d.logger.Debug("Live mode without backend, serving placeholder", "session", ps.ID)
		return placeholderTurn(), nil
	}

	reply, err := d.llm.ChatCompletion(ctx, *ps.Live, d.buildMessages(action, ps))
	if err != nil {
		d.logger.Warn("Generation call failed", "session", ps.ID, "error", err)
		return placeholderTurn(), nil
	}

	turn, err := parseReply(reply)
	if err != nil {
		d.logger.Warn("Generation reply unparseable", "session", ps.ID, "error", err)
		return placeholderTurn(), nil
	}
	return turn, nil
}

func (d *LiveDirector) buildMessages(action string, ps *state.PlayerState) []ChatMessage {
	var sb strings.Builder
	sb.WriteString(liveSystemPrompt)
	if ps.Live.WorldPrompt != "" {
		sb.WriteString("\n\nWorld:\n")
		sb.WriteString(ps.Live.WorldPrompt)
	}
	fmt.Fprintf(&sb, "\n\nPlayer state: sanity %d, inventory %v", ps.Sanity, ps.Inventory)
	if len(ps.Attributes) > 0 {
		fmt.Fprintf(&sb, ", attributes %v", ps.Attributes)
	}

	userContent := action
	if userContent == "" {
		userContent = "Begin the story."
	}

	return []ChatMessage{
		{Role: ChatRoleSystem, Content: sb.String()},
		{Role: ChatRoleUser, Content: userContent},
	}
}

// parseReply normalizes a backend reply into a live turn. Replies come
// back wrapped in code fences or prose often enough that stripping is
// unconditional.
func parseReply(reply string) (*engine.LiveTurn, error) {
	doc := textfilter.ExtractJSON(reply)
	if doc == "" {
		return nil, fmt.Errorf("no JSON object in reply")
	}

	var parsed liveReply
	if err := json.Unmarshal([]byte(doc), &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reply: %w", err)
	}
	if parsed.Text == "" || len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("reply missing text or choices")
	}

	node := &story.Node{
		Text:    story.TextVariants{parsed.Text},
		Visual:  parsed.Visual,
		Choices: make([]story.Choice, 0, len(parsed.Choices)),
	}
	for _, text := range parsed.Choices {
		node.Choices = append(node.Choices, story.Choice{Text: text})
	}

	turn := &engine.LiveTurn{Node: node}
	if len(parsed.UpdateStats) > 0 {
		turn.Effect = &story.Effect{UpdateStats: parsed.UpdateStats}
	}
	return turn, nil
}

func placeholderTurn() *engine.LiveTurn {
	return &engine.LiveTurn{Node: story.PlaceholderNode()}
}
