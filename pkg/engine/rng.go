package engine

import (
	"math/rand"
	"sync"
	"time"

	"github.com/duskmantle/beacon/pkg/story"
)

// Rand is the engine's injected randomness seam. Every draw the engine
// makes (roll die, destination set, interrupt trial, event pick, text
// variant) goes through it, so tests can script exact sequences.
type Rand = story.Rand

type lockedRand struct {
	mu  sync.Mutex
	src *rand.Rand
}

// NewRand returns a time-seeded source safe for use across concurrent
// sessions.
func NewRand() Rand {
	return &lockedRand{src: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Intn(n)
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Float64()
}
