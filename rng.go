package snesim

// RNG is a deterministic 32-bit uniform generator seeded by a single
// unsigned integer. It implements the Mersenne Twister (MT19937) recurrence:
// every result is a pure function of the seed and the sequence of prior
// calls, with no implicit global state, so a run can be replayed byte for
// byte given the same seed and call order.
type RNG struct {
	state [624]uint32
	index int
}

const (
	mtN         = 624
	mtM         = 397
	mtMatrixA   = 0x9908b0df
	mtUpperMask = 0x80000000
	mtLowerMask = 0x7fffffff
)

// NewRNG constructs an RNG seeded by a single unsigned integer.
func NewRNG(seed uint32) *RNG {
	r := &RNG{}
	r.Seed(seed)
	return r
}

// Seed re-initializes the generator's internal state from scratch. It does
// not mutate any other RNG's state and carries no package-level state.
func (r *RNG) Seed(seed uint32) {
	r.state[0] = seed
	for i := 1; i < mtN; i++ {
		prev := r.state[i-1]
		r.state[i] = uint32(1812433253)*(prev^(prev>>30)) + uint32(i)
	}
	r.index = mtN
}

// NextU32 returns the next 32-bit uniform draw.
func (r *RNG) NextU32() uint32 {
	if r.index >= mtN {
		r.regenerate()
	}
	y := r.state[r.index]
	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	r.index++
	return y
}

func (r *RNG) regenerate() {
	for i := 0; i < mtN; i++ {
		y := (r.state[i] & mtUpperMask) | (r.state[(i+1)%mtN] & mtLowerMask)
		next := r.state[(i+mtM)%mtN] ^ (y >> 1)
		if y&1 != 0 {
			next ^= mtMatrixA
		}
		r.state[i] = next
	}
	r.index = 0
}

// NextInRange returns a value in the half-open interval [lo, hi) via
// modulus reduction on a fresh draw. Bias from the modulus is acceptable for
// the small ranges used by this package (path shuffles, category counts).
func (r *RNG) NextInRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	span := uint32(hi - lo)
	return lo + int(r.NextU32()%span)
}

// NextUnitDouble maps a fresh draw to [0, 1) by division by 2^32.
func (r *RNG) NextUnitDouble() float64 {
	return float64(r.NextU32()) / 4294967296.0
}
