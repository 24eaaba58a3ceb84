package world

import (
	"math"
	"math/rand"
)

// NoiseLatticeSize is the period of the value-noise field on every axis.
const NoiseLatticeSize = 16

// NoiseGenerator is a seeded periodic 3D value-noise field.
// The lattice is filled once at construction and never written again, so a
// NoiseGenerator is safe for concurrent readers.
type NoiseGenerator struct {
	lattice [NoiseLatticeSize][NoiseLatticeSize][NoiseLatticeSize]float32
}

// NewNoiseGenerator fills the lattice from a private source seeded with seed.
func NewNoiseGenerator(seed int64) *NoiseGenerator {
	rng := rand.New(rand.NewSource(seed))
	n := &NoiseGenerator{}
	for i := range NoiseLatticeSize {
		for j := range NoiseLatticeSize {
			for k := range NoiseLatticeSize {
				n.lattice[i][j][k] = rng.Float32()
			}
		}
	}
	return n
}

// repeat wraps v into [0, NoiseLatticeSize).
func repeat(v float32) float32 {
	r := v - float32(math.Floor(float64(v/NoiseLatticeSize)))*NoiseLatticeSize
	if r < 0 || r >= NoiseLatticeSize {
		// float rounding on tiny negative inputs can land exactly on the period
		return 0
	}
	return r
}

// cells returns the floor index, the wrapped ceiling index and the fractional part.
func cells(v float32) (lo, hi int, frac float32) {
	f := math.Floor(float64(v))
	lo = int(f) % NoiseLatticeSize
	hi = int(math.Ceil(float64(v))) % NoiseLatticeSize
	return lo, hi, v - float32(f)
}

// lerp32 rounds the product before adding so no platform fuses it into an FMA.
func lerp32(a, b, t float32) float32 {
	return a + float32((b-a)*t)
}

// Sample returns the trilinearly interpolated field value at (x, y, z), in [0,1).
func (n *NoiseGenerator) Sample(x, y, z float32) float32 {
	x0, x1, rx := cells(repeat(x))
	y0, y1, ry := cells(repeat(y))
	z0, z1, rz := cells(repeat(z))

	l := &n.lattice
	// Z first, then Y, then X
	a := lerp32(l[x0][y0][z0], l[x0][y0][z1], rz)
	b := lerp32(l[x0][y1][z0], l[x0][y1][z1], rz)
	c := lerp32(l[x1][y0][z0], l[x1][y0][z1], rz)
	d := lerp32(l[x1][y1][z0], l[x1][y1][z1], rz)

	e := lerp32(a, b, ry)
	f := lerp32(c, d, ry)

	return lerp32(e, f, rx)
}

// At returns the raw lattice value at integer cell (i, j, k), wrapped.
func (n *NoiseGenerator) At(i, j, k int) float32 {
	w := func(v int) int {
		v %= NoiseLatticeSize
		if v < 0 {
			v += NoiseLatticeSize
		}
		return v
	}
	return n.lattice[w(i)][w(j)][w(k)]
}
