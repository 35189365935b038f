package engine

import (
	"math/rand"
	"time"

	"github.com/tutu-network/amas/internal/domain"
)

// SystemClock is the production domain.Clock: real wall-clock time.
type SystemClock struct{}

// NowMs returns the current Unix time in milliseconds.
func (SystemClock) NowMs() int64 { return time.Now().UnixMilli() }

// NowTimestamp returns the current wall-clock time.
func (SystemClock) NowTimestamp() time.Time { return time.Now() }

// SeededRNG is the production domain.RNG: a math/rand source seeded once
// at construction. It is not safe for concurrent use on its own — the
// Engine wraps every collaborator's access to it in sharedRNG.
type SeededRNG struct {
	r *rand.Rand
}

// NewSeededRNG returns an RNG seeded from the current time.
func NewSeededRNG() *SeededRNG {
	return &SeededRNG{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Float64 returns a uniform value in [0, 1).
func (s *SeededRNG) Float64() float64 { return s.r.Float64() }

var _ domain.Clock = SystemClock{}
var _ domain.RNG = (*SeededRNG)(nil)
