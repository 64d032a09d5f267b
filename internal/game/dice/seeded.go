package dice

import "math/rand/v2"

// seededSource implements Source using a PCG generator with a fixed seed.
// It is NOT safe for concurrent use; the battle engine drives it from a
// single goroutine.
type seededSource struct {
	rng *rand.Rand
}

// NewSeededSource returns a deterministic Source seeded with seed.
// Two sources built from the same seed produce identical draw sequences,
// which in turn makes two battles with the same setup produce identical
// event logs.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewSeededSource(seed uint64) Source {
	return &seededSource{rng: rand.New(rand.NewPCG(seed, seed))}
}

// Intn returns a deterministic pseudo-random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	return s.rng.IntN(n)
}
