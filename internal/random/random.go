package random

import (
	"math/rand"
)

// Source is the uniform generator the simulation engines draw from.
// *rand.Rand satisfies it, as does Seeded.
type Source interface {
	Float64() float64
	Seed(seed int64)
}

// Seeded is a reproducible Source. Two instances created with the same seed
// produce the same sequence.
type Seeded struct {
	rng *rand.Rand
}

func New(seed int64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewSource(seed))}
}

func (s *Seeded) Float64() float64 {
	return s.rng.Float64()
}

// Seed resets the sequence to the start for the given seed.
func (s *Seeded) Seed(seed int64) {
	s.rng = rand.New(rand.NewSource(seed))
}

// Range returns a uniform value in [lo, hi).
func Range(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}
