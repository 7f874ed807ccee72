package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/duskmantle/beacon/pkg/play"
	"github.com/duskmantle/beacon/pkg/state"
	"github.com/duskmantle/beacon/pkg/story"
)

const (
	// DefaultStartChapter is the canonical first chapter of the story.
	DefaultStartChapter = "chapter01_arrival"

	// DefaultEventChance is the fixed probability of a random event
	// detour on a same-chapter transition.
	DefaultEventChance = 0.15
)

// LiveTurn is one generative turn: the node to show plus the stat
// changes the source attributed to the player's last action.
type LiveTurn struct {
	Node   *story.Node
	Effect *story.Effect
}

// NodeSource produces nodes for sessions in live mode. Implementations
// must degrade to a placeholder turn rather than fail on a broken or
// unconfigured backend; an error here is treated as a failed generation
// and replaced with the placeholder anyway.
type NodeSource interface {
	NextNode(ctx context.Context, action string, ps *state.PlayerState) (*LiveTurn, error)
}

// Engine processes player actions against loaded content. One action is
// processed start to finish with no internal suspension points; state
// lives entirely in the PlayerState value passed in, so concurrent
// sessions need no shared locking here.
type Engine struct {
	library *story.Library
	source  NodeSource
	rng     Rand
	logger  *slog.Logger

	StartChapter string
	EventChance  float64
}

// New creates an engine over loaded content. source may be nil when
// generative mode is not offered.
func New(library *story.Library, source NodeSource, rng Rand, logger *slog.Logger) *Engine {
	return &Engine{
		library:      library,
		source:       source,
		rng:          rng,
		logger:       logger,
		StartChapter: DefaultStartChapter,
		EventChance:  DefaultEventChance,
	}
}

// Start (re)initializes the session at the canonical start chapter and
// renders its start node. Any prior state, including live mode and an
// active interrupt, is discarded.
func (e *Engine) Start(ps *state.PlayerState) (*play.Response, error) {
	chapter, ok := e.library.Chapter(e.StartChapter)
	if !ok {
		return nil, &ChapterNotFoundError{Chapter: e.StartChapter}
	}

	ps.Sanity = state.DefaultSanity
	ps.Inventory = make([]string, 0)
	ps.Attributes = nil
	ps.Live = nil
	ps.LiveNode = nil

	if init := chapter.InitialState; init != nil {
		if init.Sanity != nil {
			ps.Sanity = *init.Sanity
		}
		if len(init.Inventory) > 0 {
			ps.Inventory = append(ps.Inventory, init.Inventory...)
		}
		if len(init.Stats) > 0 {
			ps.Attributes = make(map[string]int, len(init.Stats))
			for name, v := range init.Stats {
				ps.Attributes[name] = v
			}
		}
	}

	chapterID, nodeID, err := e.resolveDestination(chapter.ID, "", nil)
	if err != nil {
		return nil, err
	}
	ps.Position = state.At(chapterID, nodeID)

	e.logger.Debug("Session started", "session", ps.ID, "chapter", chapterID, "node", nodeID)
	return e.render(ps, "")
}

// Choose processes one player action: the selection of a presented
// index on the current node. Effects apply before transition
// resolution; a reset effect short-circuits everything else.
func (e *Engine) Choose(ctx context.Context, ps *state.PlayerState, presented int) (*play.Response, error) {
	if ps.IsLive() {
		return e.chooseLive(ctx, ps, presented)
	}
	if !ps.Position.IsStarted() {
		return nil, ErrNotStarted
	}

	node, err := e.currentNode(ps)
	if err != nil {
		return nil, err
	}

	choice, err := selectChoice(node, ps, presented)
	if err != nil {
		return nil, err
	}

	if reset := ApplyEffect(choice.Effect, ps); reset {
		return e.Start(ps)
	}

	if ps.Position.IsInterrupted() {
		if err := e.resume(ps); err != nil {
			return nil, err
		}
		return e.render(ps, "")
	}

	nextChapter := choice.NextChapter
	dest := choice.NextNode
	var rollSummary string
	if choice.Roll != nil {
		result := ResolveRoll(choice.Roll, ps, e.rng)
		rollSummary = result.Summary
		dest = result.Destination
		nextChapter = "" // roll destinations stay within the chapter
	}

	if e.maybeInterrupt(ps, nextChapter, dest) {
		return e.render(ps, rollSummary)
	}

	chapterID, nodeID, err := e.resolveDestination(ps.Position.Chapter, nextChapter, dest)
	if err != nil {
		return nil, err
	}
	ps.Position = state.At(chapterID, nodeID)

	return e.render(ps, rollSummary)
}

// LiveSetup switches the session to generative mode and renders its
// first turn. The session keeps its current stats; generation failures
// degrade to the placeholder node.
func (e *Engine) LiveSetup(ctx context.Context, ps *state.PlayerState, cfg state.LiveConfig) (*play.Response, error) {
	if e.source == nil {
		return nil, fmt.Errorf("no generative source configured")
	}

	ps.Live = &cfg
	turn, err := e.source.NextNode(ctx, "", ps)
	if err != nil || turn == nil || turn.Node == nil {
		e.logger.Warn("Live setup generation failed, using placeholder", "session", ps.ID, "error", err)
		ps.LiveNode = story.PlaceholderNode()
	} else {
		ps.LiveNode = turn.Node
	}
	return e.render(ps, "")
}

// Render re-renders the current node without processing an action.
// Clients use this to resume a session.
func (e *Engine) Render(ps *state.PlayerState) (*play.Response, error) {
	return e.render(ps, "")
}

func (e *Engine) chooseLive(ctx context.Context, ps *state.PlayerState, presented int) (*play.Response, error) {
	node := ps.LiveNode
	if node == nil {
		return nil, ErrNotStarted
	}
	// Live choices are plain display strings; the source only returns
	// currently-offerable choices, so visibility filtering is bypassed.
	if presented < 0 || presented >= len(node.Choices) {
		return nil, ErrInvalidChoice
	}
	action := node.Choices[presented].Text

	turn, err := e.source.NextNode(ctx, action, ps)
	if err != nil || turn == nil || turn.Node == nil {
		e.logger.Warn("Generation failed mid-session, using placeholder", "session", ps.ID, "error", err)
		ps.LiveNode = story.PlaceholderNode()
		return e.render(ps, "")
	}

	if reset := ApplyEffect(turn.Effect, ps); reset {
		return e.Start(ps)
	}
	ps.LiveNode = turn.Node
	return e.render(ps, "")
}

// currentNode returns the node the session is looking at: the live
// node, the synthetic event node while interrupted, or the addressed
// node in the content model.
func (e *Engine) currentNode(ps *state.PlayerState) (*story.Node, error) {
	if ps.IsLive() {
		if ps.LiveNode == nil {
			return nil, ErrNotStarted
		}
		return ps.LiveNode, nil
	}

	pos := ps.Position
	if !pos.IsStarted() {
		return nil, ErrNotStarted
	}
	if pos.IsInterrupted() {
		return eventNode(pos.Event), nil
	}

	chapter, ok := e.library.Chapter(pos.Chapter)
	if !ok {
		return nil, &ChapterNotFoundError{Chapter: pos.Chapter}
	}
	node, ok := chapter.Nodes[pos.Node]
	if !ok {
		return nil, &NodeNotFoundError{Chapter: pos.Chapter, Node: pos.Node}
	}
	return &node, nil
}

// render builds the payload for the current node against current state.
func (e *Engine) render(ps *state.PlayerState, rollSummary string) (*play.Response, error) {
	node, err := e.currentNode(ps)
	if err != nil {
		return nil, err
	}

	var choices []play.ChoiceView
	if ps.IsLive() {
		choices = make([]play.ChoiceView, 0, len(node.Choices))
		for i, c := range node.Choices {
			choices = append(choices, play.ChoiceView{Text: c.Text, Index: i})
		}
	} else {
		choices, _ = VisibleChoices(node, ps)
	}

	return &play.Response{
		SessionID: ps.ID,
		Text:      node.Text.Pick(e.rng),
		Visual:    node.Visual,
		Choices:   choices,
		Stats: play.Stats{
			Sanity:     ps.Sanity,
			Inventory:  ps.Inventory,
			Attributes: ps.Attributes,
		},
		Roll: rollSummary,
	}, nil
}
