// Package variation supplies the random choices used when a caller asks for
// varied output (score jitter, phrasing variants).
package variation

import (
	"math/rand/v2"
	"sync"
)

// Source picks a value in [0, n). Implementations must be safe for
// concurrent use when shared between requests.
type Source interface {
	IntN(n int) int
}

type lockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Source backed by a PCG generator seeded with seed1 and seed2.
func New(seed1, seed2 uint64) Source {
	return &lockedSource{rnd: rand.New(rand.NewPCG(seed1, seed2))}
}

// Default returns a Source seeded from the runtime's random state.
func Default() Source {
	return New(rand.Uint64(), rand.Uint64())
}

func (s *lockedSource) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.IntN(n)
}

// Fixed always returns the same index, clamped into [0, n). Useful for tests
// that need a specific phrasing variant.
type Fixed int

func (f Fixed) IntN(n int) int {
	if n <= 0 || f < 0 {
		return 0
	}
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}

// Sequence replays the provided values in order and then repeats the last one.
// Each value is clamped into [0, n).
type Sequence struct {
	mu     sync.Mutex
	values []int
	pos    int
}

func NewSequence(values ...int) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n <= 0 || len(s.values) == 0 {
		return 0
	}

	v := s.values[len(s.values)-1]
	if s.pos < len(s.values) {
		v = s.values[s.pos]
		s.pos++
	}

	return Fixed(v).IntN(n)
}

// Pick returns one element of items. Without variation the first element is
// returned so output stays deterministic.
func Pick[T any](src Source, vary bool, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	if !vary || src == nil {
		return items[0]
	}
	return items[src.IntN(len(items))]
}
