// Package shuffle produces deterministic permutations of item indices.
//
// The same (length, seed) pair always yields the same permutation. Runs that
// are started with an explicit seed are therefore reproducible across
// processes and platforms.
package shuffle

import "time"

// ShuffledIndices returns a permutation of [0, n) driven by seed.
//
// It performs a Fisher-Yates shuffle from the last position down to 1,
// choosing each swap partner as Next() % (i+1).
func ShuffledIndices(n uint32, seed uint32) []uint32 {
	indices := make([]uint32, n)
	for i := range indices {
		indices[i] = uint32(i)
	}
	if n <= 1 {
		return indices
	}

	g := NewLCG(seed)
	for i := n - 1; i >= 1; i-- {
		j := g.Next() % (i + 1)
		indices[i], indices[j] = indices[j], indices[i]
	}
	return indices
}

// SeedFromTime derives a seed from the unix millisecond clock, keeping the
// low 32 bits.
func SeedFromTime(t time.Time) uint32 {
	return uint32(uint64(t.UnixMilli()) & 0xFFFFFFFF)
}

// ResolveSeed returns *seed when set, otherwise a seed derived from now().
func ResolveSeed(seed *uint32, now func() time.Time) uint32 {
	if seed != nil {
		return *seed
	}
	if now == nil {
		now = time.Now
	}
	return SeedFromTime(now())
}
