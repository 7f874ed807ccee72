package state

import (
	"time"

	"github.com/google/uuid"

	"github.com/duskmantle/beacon/pkg/story"
)

// DefaultAttribute is the base value of any attribute that has never
// been touched by content.
const DefaultAttribute = 10

// DefaultSanity seeds sessions whose start chapter declares no initial
// sanity.
const DefaultSanity = 100

// LiveConfig holds the generative-mode settings captured by live_setup.
type LiveConfig struct {
	Endpoint    string `json:"endpoint"`
	APIKey      string `json:"api_key,omitempty"`
	Model       string `json:"model,omitempty"`
	WorldPrompt string `json:"world_prompt,omitempty"`
}

// PlayerState is the full state of one play session. It is an explicit
// value threaded through every engine operation; sessions never share
// mutable state, so the engine needs no cross-session locking.
type PlayerState struct {
	ID         uuid.UUID      `json:"id"`
	Position   Position       `json:"position"`
	Sanity     int            `json:"sanity"`
	Inventory  []string       `json:"inventory"`
	Attributes map[string]int `json:"attributes,omitempty"`

	// Generative mode. LiveNode is the current generated node; it lives
	// here because generated nodes exist in no chapter.
	Live     *LiveConfig `json:"live,omitempty"`
	LiveNode *story.Node `json:"live_node,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPlayerState creates an unstarted session.
func NewPlayerState() *PlayerState {
	return &PlayerState{
		ID:        uuid.New(),
		Inventory: make([]string, 0),
		CreatedAt: time.Now(),
	}
}

// Attribute returns the named attribute, defaulting to 10 when unset.
func (p *PlayerState) Attribute(name string) int {
	if v, ok := p.Attributes[name]; ok {
		return v
	}
	return DefaultAttribute
}

// HasItem reports inventory membership.
func (p *PlayerState) HasItem(item string) bool {
	for _, held := range p.Inventory {
		if held == item {
			return true
		}
	}
	return false
}

// AddItem appends an item unless already held. Insertion order is kept
// for display.
func (p *PlayerState) AddItem(item string) {
	if p.HasItem(item) {
		return
	}
	p.Inventory = append(p.Inventory, item)
}

// IsLive reports whether the session runs in generative mode.
func (p *PlayerState) IsLive() bool {
	return p.Live != nil
}
