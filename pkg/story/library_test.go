package story

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChapter = `{
	"start_node": "first",
	"initial_state": {"sanity": 80, "inventory": ["torch"], "stats": {"resolve": 11}},
	"nodes": {
		"first": {
			"text": "A beginning.",
			"choices": [{"text": "Go on", "next_node": "second"}]
		},
		"second": {
			"text": "An ending.",
			"choices": []
		}
	}
}`

const testEvents = `[
	{"text": "A cold draught.", "effect": {"sanity": -2}},
	{"text": "Distant bells."}
]`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeContentDir(t *testing.T, chapters map[string]string, events string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "chapters"), 0o755))
	for id, body := range chapters {
		path := filepath.Join(dir, "chapters", id+".json")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	if events != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "events.json"), []byte(events), 0o644))
	}
	return dir
}

func TestLibraryLoad(t *testing.T) {
	dir := writeContentDir(t, map[string]string{"intro": testChapter}, testEvents)

	lib := NewLibrary(dir, testLogger())
	require.NoError(t, lib.Load())

	chapter, ok := lib.Chapter("intro")
	require.True(t, ok)
	assert.Equal(t, "intro", chapter.ID)
	assert.Equal(t, NodeRef{"first"}, chapter.StartNode)
	assert.Len(t, chapter.Nodes, 2)
	require.NotNil(t, chapter.InitialState)
	assert.Equal(t, 80, *chapter.InitialState.Sanity)
	assert.Equal(t, []string{"torch"}, chapter.InitialState.Inventory)

	assert.Len(t, lib.Events(), 2)
	assert.Len(t, lib.Chapters(), 1)
}

func TestLibraryLoadMissingEventsIsFine(t *testing.T) {
	dir := writeContentDir(t, map[string]string{"intro": testChapter}, "")

	lib := NewLibrary(dir, testLogger())
	require.NoError(t, lib.Load())
	assert.Empty(t, lib.Events())
}

func TestLibraryLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		chapter string
	}{
		{name: "invalid json", chapter: `{not json`},
		{name: "missing start node", chapter: `{"nodes": {"a": {"text": "x", "choices": []}}}`},
		{name: "no nodes", chapter: `{"start_node": "a", "nodes": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeContentDir(t, map[string]string{"broken": tt.chapter}, "")
			lib := NewLibrary(dir, testLogger())
			assert.Error(t, lib.Load())
		})
	}
}

func TestLibraryLoadEmptyDirErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "chapters"), 0o755))

	lib := NewLibrary(dir, testLogger())
	assert.Error(t, lib.Load())
}

func TestLibraryReload(t *testing.T) {
	dir := writeContentDir(t, map[string]string{"intro": testChapter}, "")
	lib := NewLibrary(dir, testLogger())
	require.NoError(t, lib.Load())

	updated := `{
		"start_node": "first",
		"nodes": {"first": {"text": "Rewritten.", "choices": []}}
	}`
	path := filepath.Join(dir, "chapters", "intro.json")
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	require.NoError(t, lib.Reload("intro"))
	chapter, ok := lib.Chapter("intro")
	require.True(t, ok)
	assert.Len(t, chapter.Nodes, 1)
	assert.Equal(t, TextVariants{"Rewritten."}, chapter.Nodes["first"].Text)
}

func TestLibraryReloadKeepsOldOnParseError(t *testing.T) {
	dir := writeContentDir(t, map[string]string{"intro": testChapter}, "")
	lib := NewLibrary(dir, testLogger())
	require.NoError(t, lib.Load())

	path := filepath.Join(dir, "chapters", "intro.json")
	require.NoError(t, os.WriteFile(path, []byte(`{broken`), 0o644))

	assert.Error(t, lib.Reload("intro"))
	chapter, ok := lib.Chapter("intro")
	require.True(t, ok)
	assert.Len(t, chapter.Nodes, 2)
}
