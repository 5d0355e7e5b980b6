// Package duedate produces randomized due dates bounded by a user's settings.
package duedate

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/phrazzld/postpone/internal/domain"
)

// Generator picks due dates for tasks.
type Generator interface {
	// Generate returns a due date relative to the current time.
	Generate(settings domain.Settings) time.Time

	// GenerateAt returns a due date relative to now.
	GenerateAt(settings domain.Settings, now time.Time) time.Time
}

// randomGenerator is the standard implementation of the Generator interface
type randomGenerator struct {
	mu    sync.Mutex
	rng   *rand.Rand // nil means the package-level source
	clock func() time.Time
}

// NewGenerator creates a Generator backed by the runtime's random source and
// the system clock.
func NewGenerator() Generator {
	return &randomGenerator{clock: time.Now}
}

// NewGeneratorWithSource creates a Generator with an explicit random source and
// clock. A nil clock means time.Now.
func NewGeneratorWithSource(src rand.Source, clock func() time.Time) Generator {
	if clock == nil {
		clock = time.Now
	}
	g := &randomGenerator{clock: clock}
	if src != nil {
		g.rng = rand.New(src)
	}
	return g
}

// Generate implements the Generator interface.
func (g *randomGenerator) Generate(settings domain.Settings) time.Time {
	return g.GenerateAt(settings, g.clock())
}

// GenerateAt implements the Generator interface.
func (g *randomGenerator) GenerateAt(settings domain.Settings, now time.Time) time.Time {
	return compute(normalize(settings), now, settings.Location(), g.intN)
}

// intN returns a uniform integer in [0, n).
func (g *randomGenerator) intN(n int) int {
	if g.rng == nil {
		return rand.IntN(n)
	}
	// rand.Rand is not safe for concurrent use.
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.IntN(n)
}
