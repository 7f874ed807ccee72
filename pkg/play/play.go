// Package play defines the wire shapes of the action protocol. The
// protocol is transport-agnostic; the HTTP handlers and the console
// client both speak these types.
package play

import (
	"fmt"

	"github.com/google/uuid"
)

// ChoiceView is one visible choice. Index is the presented index: the
// position within the currently visible subset, which is the only index
// a client may send back.
type ChoiceView struct {
	Text  string `json:"text"`
	Index int    `json:"index"`
}

// Stats is the player-facing slice of session state.
type Stats struct {
	Sanity     int            `json:"sanity"`
	Inventory  []string       `json:"inventory"`
	Attributes map[string]int `json:"attributes,omitempty"`
}

// Response is a rendered node payload.
type Response struct {
	SessionID uuid.UUID    `json:"session_id"`
	Text      string       `json:"text"`
	Visual    string       `json:"visual,omitempty"`
	Choices   []ChoiceView `json:"choices"`
	Stats     Stats        `json:"stats"`
	// Roll summarizes the dice check resolved by the prior action.
	Roll string `json:"roll,omitempty"`
}

// ChoiceRequest carries the presented index of the selected choice. The
// pointer distinguishes a missing index from index 0.
type ChoiceRequest struct {
	Index *int `json:"index"`
}

func (r *ChoiceRequest) Validate() error {
	if r.Index == nil {
		return fmt.Errorf("index is required")
	}
	return nil
}

// LiveRequest initializes generative mode for a session.
type LiveRequest struct {
	Endpoint    string `json:"endpoint"`
	Key         string `json:"key,omitempty"`
	Model       string `json:"model,omitempty"`
	WorldPrompt string `json:"world_prompt,omitempty"`
}

// ErrorResponse is the structured error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
