// Package entropy provides the random sources driving every stochastic sim
// outcome. Simulation code takes a Source rather than touching math/rand
// directly, so tests can pin draws and independent simulations never share
// generator state.
package entropy

import "math/rand"

// Source yields uniform random draws.
type Source interface {
	// Float64 returns a draw in [0, 1).
	Float64() float64
	// Intn returns a draw in [0, n). n must be > 0.
	Intn(n int) int
}

// Seeded is a deterministic Source backed by math/rand.
type Seeded struct {
	rng *rand.Rand
}

// NewSeeded creates a deterministic source from the seed.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewSource(seed))}
}

func (s *Seeded) Float64() float64 { return s.rng.Float64() }
func (s *Seeded) Intn(n int) int   { return s.rng.Intn(n) }

// Fixed replays a queued sequence of draws, cycling when exhausted. Tests
// use it to force outcomes like a guaranteed miss or a guaranteed breeding
// roll.
type Fixed struct {
	Values []float64
	next   int
}

// NewFixed creates a source that cycles through the given draws.
func NewFixed(values ...float64) *Fixed {
	if len(values) == 0 {
		values = []float64{0.5}
	}
	return &Fixed{Values: values}
}

func (f *Fixed) Float64() float64 {
	v := f.Values[f.next%len(f.Values)]
	f.next++
	return v
}

func (f *Fixed) Intn(n int) int {
	idx := int(f.Float64() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// Between returns a draw uniformly distributed in [lo, hi).
func Between(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}
