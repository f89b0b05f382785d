package daily

const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// Rand is a linear congruential generator with a single 32-bit state. It is
// a value type so that independent streams (one per question, one per
// session) can coexist without interfering; it is deliberately not backed
// by any process-global source.
type Rand struct {
	state uint32
}

// NewRand returns a generator initialized from the derived seed.
func NewRand(seed uint32) *Rand {
	return &Rand{state: seed}
}

// Next advances the stream and returns a float in [0, 1). The product is
// formed in 64 bits; seeds above 461775 would otherwise wrap at 2^32 before
// the modulus and produce a different stream.
func (r *Rand) Next() float64 {
	r.state = uint32((uint64(r.state)*lcgMultiplier + lcgIncrement) % lcgModulus)
	return float64(r.state) / lcgModulus
}

// Shuffle runs a Fisher-Yates shuffle over n elements, consuming exactly one
// draw per step from index n-1 down to 1.
func (r *Rand) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := int(r.Next() * float64(i+1))
		swap(i, j)
	}
}

// Perm returns a shuffled copy of the identity permutation of length n.
func (r *Rand) Perm(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	r.Shuffle(n, func(i, j int) {
		p[i], p[j] = p[j], p[i]
	})
	return p
}
