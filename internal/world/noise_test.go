package world

import (
	"math"
	"math/rand"
	"testing"
)

func TestNoiseDeterministic(t *testing.T) {
	a := NewNoiseGenerator(42)
	b := NewNoiseGenerator(42)
	if a.lattice != b.lattice {
		t.Fatal("same seed produced different lattices")
	}
	if NewNoiseGenerator(43).lattice == a.lattice {
		t.Fatal("different seeds produced identical lattices")
	}
}

// The lattice follows the math/rand stream for the seed, so stored worlds keep
// their caves across releases.
func TestNoiseLatticeStream(t *testing.T) {
	n := NewNoiseGenerator(1337)
	cases := []struct {
		i, j, k int
		want    float32
	}{
		{0, 0, 0, 0.628738522529602},
		{0, 0, 1, 0.34221479296684265},
		{15, 15, 15, 0.7929755449295044},
	}
	for _, tc := range cases {
		if got := n.At(tc.i, tc.j, tc.k); got != tc.want {
			t.Errorf("At(%d,%d,%d) = %v, want %v", tc.i, tc.j, tc.k, got, tc.want)
		}
	}
}

func TestNoiseRange(t *testing.T) {
	n := NewNoiseGenerator(1337)
	rng := rand.New(rand.NewSource(1))
	for range 10000 {
		x := (rng.Float32() - 0.5) * 1000
		y := (rng.Float32() - 0.5) * 1000
		z := (rng.Float32() - 0.5) * 1000
		v := n.Sample(x, y, z)
		if v < 0 || v >= 1 {
			t.Fatalf("Sample(%v,%v,%v) = %v outside [0,1)", x, y, z, v)
		}
	}
}

func TestNoisePeriodic(t *testing.T) {
	n := NewNoiseGenerator(7)
	points := [][3]float32{{0, 0, 0}, {3.25, 7.5, 1.125}, {15.75, 0.5, 9}, {-2.5, -0.25, -13}}
	for _, p := range points {
		want := n.Sample(p[0], p[1], p[2])
		for _, shift := range []float32{NoiseLatticeSize, -NoiseLatticeSize, 4 * NoiseLatticeSize} {
			if got := n.Sample(p[0]+shift, p[1], p[2]+shift); got != want {
				t.Errorf("Sample(%v) shifted by %v = %v, want %v", p, shift, got, want)
			}
		}
	}
}

func TestNoiseHitsLatticeAtIntegers(t *testing.T) {
	n := NewNoiseGenerator(99)
	for _, c := range [][3]int{{0, 0, 0}, {1, 2, 3}, {15, 15, 15}, {-1, 4, 20}} {
		got := n.Sample(float32(c[0]), float32(c[1]), float32(c[2]))
		if want := n.At(c[0], c[1], c[2]); got != want {
			t.Errorf("Sample%v = %v, want lattice value %v", c, got, want)
		}
	}
}

func TestNoiseInterpolatesBetweenCorners(t *testing.T) {
	n := NewNoiseGenerator(5)
	a, b := n.At(2, 3, 4), n.At(2, 3, 5)
	got := n.Sample(2, 3, 4.5)
	want := a + (b-a)*0.5
	if math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("midpoint = %v, want %v", got, want)
	}
}

func BenchmarkNoiseSample(b *testing.B) {
	n := NewNoiseGenerator(1337)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = n.Sample(float32(i)*0.065, 3.1, 7.7)
	}
}
