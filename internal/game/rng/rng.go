// Package rng provides the deterministic pseudo-random source used for every
// chance event in a simulation. All shuffles and random target picks flow
// through an RNG seeded from a string, so two runs with the same seed and the
// same call sequence produce identical results on every platform.
package rng

import "fmt"

// Linear congruential parameters (Numerical Recipes).
const (
	lcgMultiplier = 1664525
	lcgIncrement  = 1013904223
	lcgModulus    = 1 << 32
)

// RNG is a seeded linear-congruential generator. It is not safe for
// concurrent use; the engine is single-threaded by design.
type RNG struct {
	seed  string
	state uint32
}

// New creates an RNG from a string seed. The seed is hashed into the initial
// 32-bit state with a djb2-style rolling hash.
func New(seed string) *RNG {
	var h uint32
	for i := 0; i < len(seed); i++ {
		h = h*31 + uint32(seed[i])
	}
	if h == 0 {
		h = 1
	}
	return &RNG{seed: seed, state: h}
}

// Derive creates a fresh RNG whose state is a pure function of the global
// seed, the turn number, and the identity of the acting card. Effect-level
// randomness derived this way does not depend on how many RNG calls other
// subsystems issued earlier in the same tick, which is what lets the battle
// iterator and the synchronous battle loop agree.
func Derive(globalSeed string, turn int, identity string) *RNG {
	return New(fmt.Sprintf("%s:%d:%s", globalSeed, turn, identity))
}

// Seed returns the seed string this RNG was constructed from.
func (r *RNG) Seed() string {
	return r.seed
}

// Next returns the next value in [0, 1).
func (r *RNG) Next() float64 {
	r.state = r.state*lcgMultiplier + lcgIncrement
	return float64(r.state) / float64(lcgModulus)
}

// NextInt returns a uniformly distributed integer in [min, max].
func (r *RNG) NextInt(min, max int) int {
	if max <= min {
		return min
	}
	return min + int(r.Next()*float64(max-min+1))
}

// Intn returns a uniformly distributed integer in [0, n).
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() * float64(n))
}

// Choice returns the index of a uniformly chosen element of a slice of the
// given length, or -1 when the slice is empty.
func (r *RNG) Choice(length int) int {
	if length <= 0 {
		return -1
	}
	return r.Intn(length)
}

// Shuffle performs a Fisher-Yates shuffle over n elements using the supplied
// swap function.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		swap(i, j)
	}
}
