package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/duskmantle/beacon/pkg/state"
)

// Storage persists per-session player state. Content (chapters, events)
// is filesystem-backed and owned by story.Library; only session state
// needs a store.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// SaveSession stores the full player state under its session id.
	SaveSession(ctx context.Context, id uuid.UUID, ps *state.PlayerState) error
	// LoadSession returns (nil, nil) when the session does not exist.
	LoadSession(ctx context.Context, id uuid.UUID) (*state.PlayerState, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
}
