package story

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Library holds all loaded chapters and the random event pool. It is a
// process-wide read-mostly store: content is parsed once at startup and
// shared across every session. Reload swaps a whole parsed chapter under
// the lock, so an in-flight action never observes half-old, half-new
// node data.
type Library struct {
	mu       sync.RWMutex
	dir      string
	chapters map[string]*Chapter
	events   []Event
	logger   *slog.Logger
}

// NewLibrary creates an empty library rooted at dir. Call Load before use.
func NewLibrary(dir string, logger *slog.Logger) *Library {
	return &Library{
		dir:      dir,
		chapters: make(map[string]*Chapter),
		logger:   logger,
	}
}

// Load parses every chapter under <dir>/chapters plus <dir>/events.json
// and swaps the whole content set in at once. A missing events file is
// not an error; sessions simply never interrupt.
func (l *Library) Load() error {
	chaptersDir := filepath.Join(l.dir, "chapters")
	entries, err := os.ReadDir(chaptersDir)
	if err != nil {
		return fmt.Errorf("failed to read chapters directory: %w", err)
	}

	chapters := make(map[string]*Chapter)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		chapter, err := parseChapterFile(filepath.Join(chaptersDir, entry.Name()), id)
		if err != nil {
			return err
		}
		chapters[id] = chapter
	}
	if len(chapters) == 0 {
		return fmt.Errorf("no chapters found in %s", chaptersDir)
	}

	events, err := loadEvents(filepath.Join(l.dir, "events.json"))
	if err != nil {
		return err
	}
	if len(events) == 0 {
		l.logger.Warn("No random events loaded", "dir", l.dir)
	}

	l.mu.Lock()
	l.chapters = chapters
	l.events = events
	l.mu.Unlock()

	l.logger.Info("Content loaded", "chapters", len(chapters), "events", len(events))
	return nil
}

// Reload re-parses a single chapter and swaps it in atomically. The old
// chapter stays current if parsing fails.
func (l *Library) Reload(id string) error {
	chapter, err := parseChapterFile(filepath.Join(l.dir, "chapters", id+".json"), id)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.chapters[id] = chapter
	l.mu.Unlock()

	l.logger.Info("Chapter reloaded", "chapter", id, "nodes", len(chapter.Nodes))
	return nil
}

// Chapter returns a loaded chapter by id.
func (l *Library) Chapter(id string) (*Chapter, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.chapters[id]
	return c, ok
}

// Chapters returns a snapshot of the chapter map. The chapters themselves
// are shared and must be treated as read-only.
func (l *Library) Chapters() map[string]*Chapter {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]*Chapter, len(l.chapters))
	for id, c := range l.chapters {
		out[id] = c
	}
	return out
}

// Events returns the random event pool.
func (l *Library) Events() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.events
}

func parseChapterFile(path, id string) (*Chapter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chapter file: %w", err)
	}

	var chapter Chapter
	if err := json.Unmarshal(data, &chapter); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chapter %s: %w", id, err)
	}
	chapter.ID = id

	if chapter.StartNode.IsEmpty() {
		return nil, fmt.Errorf("chapter %s has no start_node", id)
	}
	if len(chapter.Nodes) == 0 {
		return nil, fmt.Errorf("chapter %s has no nodes", id)
	}
	return &chapter, nil
}

func loadEvents(path string) ([]Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read events file: %w", err)
	}

	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal events: %w", err)
	}
	return events, nil
}
