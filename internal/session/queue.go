package session

import (
	"math/rand/v2"
	"slices"

	"github.com/sepme/sepme/internal/corpus"
)

// BuildQueue shuffles a copy of items and keeps the first count. A nil rng
// keeps the input order, which callers use for reproducible runs. items is
// expected in key order, as returned by the loader, so a seeded rng yields
// the same queue for the same corpus.
func BuildQueue(items []corpus.Item, count int, rng *rand.Rand) []corpus.Item {
	q := slices.Clone(items)
	if rng != nil {
		rng.Shuffle(len(q), func(i, j int) { q[i], q[j] = q[j], q[i] })
	}
	if count >= 0 && count < len(q) {
		q = q[:count]
	}
	return q
}

// NewRand returns a seeded generator for BuildQueue. Seed 0 draws a random
// seed.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
