package daily

import (
	"math"
	"testing"
)

// Frozen fixture: the seed for ("2024-01-15", 3) locks the hashing algorithm
// against accidental changes. Recomputing it with any other fold breaks
// every historical session.
func TestSeedFixture(t *testing.T) {
	if got := Seed("2024-01-15", 3); got != 1010753719 {
		t.Fatalf("Seed(2024-01-15, 3) = %d, want 1010753719", got)
	}
}

func TestSeedDistinguishesKeys(t *testing.T) {
	a := Seed("2024-01-15", 3)
	if b := Seed("2024-01-15", 1); b == a {
		t.Fatalf("different cohorts produced identical seed %d", a)
	}
	if c := Seed("2024-01-16", 3); c == a {
		t.Fatalf("different dates produced identical seed %d", a)
	}
}

func TestSeedStable(t *testing.T) {
	for i := 0; i < 5; i++ {
		if Seed("2024-03-09", 7) != 953521360 {
			t.Fatal("seed derivation is not stable across calls")
		}
	}
}

// Frozen fixture: the first three draws for seed 42 lock the LCG constants
// (9301, 49297, 233280).
func TestRandFixture(t *testing.T) {
	r := NewRand(42)
	want := []float64{
		float64(206659) / 233280,
		float64(190736) / 233280,
		float64(223713) / 233280,
	}
	for i, w := range want {
		got := r.Next()
		if math.Abs(got-w) > 1e-15 {
			t.Fatalf("draw %d = %.17f, want %.17f", i, got, w)
		}
	}
}

// Frozen fixture: a seed large enough that state*9301 exceeds 2^32. The
// product must be formed in 64 bits; a 32-bit multiply wraps before the
// modulus and yields state 9748 instead of 152276 on the first draw.
func TestRandFixtureLargeSeed(t *testing.T) {
	r := NewRand(Seed("2024-01-15", 3))
	want := []uint32{152276, 125493, 159850, 120707}
	for i, w := range want {
		got := r.Next()
		if math.Abs(got-float64(w)/233280) > 1e-15 {
			t.Fatalf("draw %d = %.17f, want state %d", i, got, w)
		}
	}
}

func TestRandRange(t *testing.T) {
	r := NewRand(12345)
	for i := 0; i < 1000; i++ {
		v := r.Next()
		if v < 0 || v >= 1 {
			t.Fatalf("draw %d out of [0,1): %f", i, v)
		}
	}
}

func TestIndependentStreams(t *testing.T) {
	a, b := NewRand(7), NewRand(7)
	for i := 0; i < 10; i++ {
		if a.Next() != b.Next() {
			t.Fatal("equal seeds must yield identical streams")
		}
	}
	// Advancing one stream must not disturb another.
	c, d := NewRand(7), NewRand(8)
	_ = d.Next()
	e := NewRand(7)
	for i := 0; i < 10; i++ {
		if c.Next() != e.Next() {
			t.Fatal("streams are not independent")
		}
	}
}

func TestPermFixture(t *testing.T) {
	got := NewRand(7).Perm(4)
	want := []int{2, 0, 3, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Perm(4) seed 7 = %v, want %v", got, want)
		}
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	for seed := uint32(0); seed < 50; seed++ {
		p := NewRand(seed).Perm(10)
		seen := make([]bool, len(p))
		for _, v := range p {
			if v < 0 || v >= len(p) || seen[v] {
				t.Fatalf("seed %d: not a permutation: %v", seed, p)
			}
			seen[v] = true
		}
	}
}

func TestShuffleConsumesOneDrawPerStep(t *testing.T) {
	r := NewRand(42)
	r.Shuffle(5, func(i, j int) {})
	// Four swap steps consume four draws; the fifth draw must match a fresh
	// stream advanced by four.
	fresh := NewRand(42)
	for i := 0; i < 4; i++ {
		fresh.Next()
	}
	if r.Next() != fresh.Next() {
		t.Fatal("shuffle consumed an unexpected number of draws")
	}
}
