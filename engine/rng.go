package engine

import "math/rand"

// RNG wraps math/rand.Rand with deterministic position tracking.
// Every draw consumes exactly one Float64 from the source, so a saved
// position can be replayed and chaos rolls come out identical after
// save/restore.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Chance returns true with probability p (clamped to [0,1]).
// The draw is consumed even for p=0 and p=1 to keep positions stable.
func (r *RNG) Chance(p float64) bool {
	r.pos++
	roll := r.src.Float64()
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return roll < p
}

// Roll returns a random integer in [1, sides].
func (r *RNG) Roll(sides int) int {
	r.pos++
	return int(r.src.Float64()*float64(sides)) + 1
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of draws made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}

// RestoreRNG creates an RNG and advances it to the given position.
// This reproduces the exact RNG state for save/load.
func RestoreRNG(seed int64, position int64) *RNG {
	rng := NewRNG(seed)
	for i := int64(0); i < position; i++ {
		rng.src.Float64()
	}
	rng.pos = position
	return rng
}
