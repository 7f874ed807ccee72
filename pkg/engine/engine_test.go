package engine

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskmantle/beacon/pkg/state"
	"github.com/duskmantle/beacon/pkg/story"
)

const introChapter = `{
	"start_node": "gate",
	"initial_state": {"sanity": 100, "inventory": [], "stats": {"resolve": 2}},
	"nodes": {
		"gate": {
			"text": "The gate.",
			"choices": [
				{"text": "Open the gate", "next_node": "hall"},
				{"text": "Unlock the side door", "condition": {"has_item": "key"}, "next_node": "vault"},
				{"text": "Grab the key", "effect": {"add_item": "key", "sanity": -10}, "next_node": "gate"}
			]
		},
		"hall": {
			"text": "The hall.",
			"choices": [
				{"text": "Leap the chasm", "roll": {
					"dice": "1d20",
					"bonus_stat": "resolve",
					"target": 15,
					"condition": "gt",
					"success_node": "vault",
					"failure_node": "gate"
				}, "next_node": "dummy"},
				{"text": "Take the stairs down", "next_chapter": "depths"}
			]
		},
		"vault": {
			"text": ["The vault.", "A vault of brass."],
			"choices": [
				{"text": "Climb into the pit", "next_chapter": "depths", "next_node": "pit"}
			]
		}
	}
}`

const depthsChapter = `{
	"start_node": ["pool", "ledge"],
	"nodes": {
		"pool": {"text": "A pool.", "choices": [{"text": "Swim back", "next_chapter": "intro"}]},
		"ledge": {"text": "A ledge.", "choices": []},
		"pit": {"text": "The pit.", "choices": [
			{"text": "Start over", "effect": {"reset": true}, "next_node": "dummy"}
		]}
	}
}`

const oneEvent = `[{"text": "A chill passes through you.", "effect": {"sanity": -5}}]`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, events string, rng Rand) *Engine {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "chapters"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chapters", "intro.json"), []byte(introChapter), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chapters", "depths.json"), []byte(depthsChapter), 0o644))
	if events != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "events.json"), []byte(events), 0o644))
	}

	library := story.NewLibrary(dir, testLogger())
	require.NoError(t, library.Load())

	e := New(library, nil, rng, testLogger())
	e.StartChapter = "intro"
	return e
}

func startedSession(t *testing.T, e *Engine) *state.PlayerState {
	t.Helper()
	ps := state.NewPlayerState()
	_, err := e.Start(ps)
	require.NoError(t, err)
	return ps
}

func TestStartAppliesInitialState(t *testing.T) {
	e := newTestEngine(t, "", &scriptRand{})
	ps := state.NewPlayerState()

	resp, err := e.Start(ps)
	require.NoError(t, err)

	assert.Equal(t, 100, ps.Sanity)
	assert.Empty(t, ps.Inventory)
	assert.Equal(t, map[string]int{"resolve": 2}, ps.Attributes)
	assert.Equal(t, state.At("intro", "gate"), ps.Position)

	assert.Equal(t, "The gate.", resp.Text)
	require.Len(t, resp.Choices, 2) // key-gated choice hidden
	assert.Equal(t, "Open the gate", resp.Choices[0].Text)
	assert.Equal(t, "Grab the key", resp.Choices[1].Text)
}

func TestStartMissingChapter(t *testing.T) {
	e := newTestEngine(t, "", &scriptRand{})
	e.StartChapter = "nowhere"

	_, err := e.Start(state.NewPlayerState())
	assert.True(t, IsContentError(err))
}

func TestChooseNotStarted(t *testing.T) {
	e := newTestEngine(t, "", &scriptRand{})

	_, err := e.Choose(context.Background(), state.NewPlayerState(), 0)
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestChooseInvalidIndex(t *testing.T) {
	e := newTestEngine(t, "", &scriptRand{})
	ps := startedSession(t, e)

	// Only two choices are visible at the gate without the key.
	_, err := e.Choose(context.Background(), ps, 2)
	assert.ErrorIs(t, err, ErrInvalidChoice)
}

func TestChooseSimpleTransition(t *testing.T) {
	e := newTestEngine(t, "", &scriptRand{})
	ps := startedSession(t, e)

	resp, err := e.Choose(context.Background(), ps, 0)
	require.NoError(t, err)

	assert.Equal(t, state.At("intro", "hall"), ps.Position)
	assert.Equal(t, "The hall.", resp.Text)
	assert.Empty(t, resp.Roll)
}

func TestChooseEffectThenVisibilityShift(t *testing.T) {
	e := newTestEngine(t, "", &scriptRand{})
	ps := startedSession(t, e)

	// Presented index 1 is "Grab the key" while the key is not held.
	resp, err := e.Choose(context.Background(), ps, 1)
	require.NoError(t, err)

	assert.Equal(t, 90, ps.Sanity)
	assert.Equal(t, []string{"key"}, ps.Inventory)

	// Back at the gate all three choices are now visible.
	require.Len(t, resp.Choices, 3)
	assert.Equal(t, "Unlock the side door", resp.Choices[1].Text)

	// The same presented index now selects the unlocked door.
	resp, err = e.Choose(context.Background(), ps, 1)
	require.NoError(t, err)
	assert.Equal(t, "vault", ps.Position.Node)
	assert.Contains(t, resp.Text, "vault")
}

func TestChooseRollSuccess(t *testing.T) {
	// Draw 15 gives raw 16, +resolve 2 = 18 > 15. The second int draw
	// picks the vault's first text variant.
	rng := &scriptRand{ints: []int{15, 0}}
	e := newTestEngine(t, "", rng)
	ps := startedSession(t, e)

	_, err := e.Choose(context.Background(), ps, 0) // to the hall
	require.NoError(t, err)

	resp, err := e.Choose(context.Background(), ps, 0)
	require.NoError(t, err)

	assert.Equal(t, state.At("intro", "vault"), ps.Position)
	assert.Equal(t, "Rolled 16 on d20 + resolve 2 = 18 vs 15 (gt): success", resp.Roll)
	assert.Equal(t, "The vault.", resp.Text)
}

func TestChooseRollFailure(t *testing.T) {
	// Draw 10 gives raw 11, +2 = 13, not > 15.
	rng := &scriptRand{ints: []int{10}}
	e := newTestEngine(t, "", rng)
	ps := startedSession(t, e)

	_, err := e.Choose(context.Background(), ps, 0)
	require.NoError(t, err)

	resp, err := e.Choose(context.Background(), ps, 0)
	require.NoError(t, err)

	assert.Equal(t, state.At("intro", "gate"), ps.Position)
	assert.Contains(t, resp.Roll, "failure")
}

func TestChooseChapterSwitchDrawsStartSet(t *testing.T) {
	rng := &scriptRand{ints: []int{0}}
	e := newTestEngine(t, "", rng)
	ps := startedSession(t, e)

	_, err := e.Choose(context.Background(), ps, 0) // to the hall
	require.NoError(t, err)

	resp, err := e.Choose(context.Background(), ps, 1) // stairs to depths
	require.NoError(t, err)

	assert.Equal(t, "depths", ps.Position.Chapter)
	assert.Contains(t, []string{"pool", "ledge"}, ps.Position.Node)
	assert.Equal(t, "A pool.", resp.Text)
}

func TestChooseResetRestartsSession(t *testing.T) {
	e := newTestEngine(t, "", &scriptRand{})
	ps := startedSession(t, e)
	ps.Position = state.At("depths", "pit")
	ps.Sanity = 13
	ps.AddItem("key")

	resp, err := e.Choose(context.Background(), ps, 0)
	require.NoError(t, err)

	assert.Equal(t, state.At("intro", "gate"), ps.Position)
	assert.Equal(t, 100, ps.Sanity)
	assert.Empty(t, ps.Inventory)
	assert.Equal(t, "The gate.", resp.Text)
}

func TestInterruptAndResume(t *testing.T) {
	// First float draw 0.1 < 0.15 takes the interrupt; the int draw picks
	// the only event.
	rng := &scriptRand{ints: []int{0}, floats: []float64{0.1}}
	e := newTestEngine(t, oneEvent, rng)
	ps := startedSession(t, e)

	resp, err := e.Choose(context.Background(), ps, 0)
	require.NoError(t, err)

	assert.True(t, ps.Position.IsInterrupted())
	assert.Equal(t, "intro", ps.Position.Chapter)
	assert.Equal(t, story.NodeRef{"hall"}, ps.Position.PendingNode)
	assert.Equal(t, "A chill passes through you.", resp.Text)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "Continue", resp.Choices[0].Text)

	// Resuming applies the event effect and lands on the parked node.
	resp, err = e.Choose(context.Background(), ps, 0)
	require.NoError(t, err)

	assert.Equal(t, 95, ps.Sanity)
	assert.Equal(t, state.At("intro", "hall"), ps.Position)
	assert.Equal(t, "The hall.", resp.Text)
}

func TestInterruptSkippedOnChapterSwitch(t *testing.T) {
	// Float 0.0 would always interrupt, but the choice crosses chapters
	// so the trial is never taken.
	rng := &scriptRand{ints: []int{0}, floats: []float64{0.0, 0.0}}
	e := newTestEngine(t, oneEvent, rng)
	ps := startedSession(t, e)

	_, err := e.Choose(context.Background(), ps, 0) // same chapter: interrupted
	require.NoError(t, err)
	require.True(t, ps.Position.IsInterrupted())

	_, err = e.Choose(context.Background(), ps, 0) // resume to hall
	require.NoError(t, err)
	require.True(t, !ps.Position.IsInterrupted())

	_, err = e.Choose(context.Background(), ps, 1) // stairs: cross-chapter
	require.NoError(t, err)
	assert.False(t, ps.Position.IsInterrupted())
	assert.Equal(t, "depths", ps.Position.Chapter)
}

func TestResumeFallsBackToChapterStart(t *testing.T) {
	rng := &scriptRand{ints: []int{1}}
	e := newTestEngine(t, oneEvent, rng)
	ps := startedSession(t, e)

	event := story.Event{Text: "A chill."}
	ps.Position = state.InterruptedBy(&event, "depths", story.NodeRef{"ghost"})

	resp, err := e.Choose(context.Background(), ps, 0)
	require.NoError(t, err)

	assert.Equal(t, "depths", ps.Position.Chapter)
	assert.Contains(t, []string{"pool", "ledge"}, ps.Position.Node)
	assert.Equal(t, "A ledge.", resp.Text)
}

func TestRenderResumesCurrentNode(t *testing.T) {
	e := newTestEngine(t, "", &scriptRand{})
	ps := startedSession(t, e)

	resp, err := e.Render(ps)
	require.NoError(t, err)
	assert.Equal(t, "The gate.", resp.Text)
	assert.Equal(t, ps.ID, resp.SessionID)
}
