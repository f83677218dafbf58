package shuffle

// LCG multiplier and increment. Changing either changes every permutation
// ever produced for a given seed.
const (
	lcgMultiplier uint32 = 1664525
	lcgIncrement  uint32 = 1013904223
)

// LCG is a 32-bit linear congruential generator. The zero value is a valid
// generator seeded with 0.
type LCG struct {
	state uint32
}

// NewLCG returns a generator whose state starts at seed.
func NewLCG(seed uint32) *LCG {
	return &LCG{state: seed}
}

// Next advances the state and returns it.
func (g *LCG) Next() uint32 {
	g.state = g.state*lcgMultiplier + lcgIncrement
	return g.state
}
