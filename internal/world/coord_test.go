package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestSplitJoinRoundTrip(t *testing.T) {
	for x := -40; x <= 40; x += 3 {
		for y := -40; y <= 40; y += 7 {
			for z := -40; z <= 40; z += 5 {
				b := BlockCoord{x, y, z}
				id, l := b.Split()
				if !l.InBounds() {
					t.Fatalf("%v: local %v out of bounds", b, l)
				}
				if got := Join(id, l); got != b {
					t.Fatalf("Join(Split(%v)) = %v", b, got)
				}
				if id != b.ChunkID() || l != b.Local() {
					t.Fatalf("%v: Split disagrees with ChunkID/Local", b)
				}
			}
		}
	}
}

func TestNegativeCoordinates(t *testing.T) {
	cases := []struct {
		v, chunk, local int
	}{
		{0, 0, 0},
		{15, 0, 15},
		{16, 1, 0},
		{-1, -1, 15},
		{-16, -1, 0},
		{-17, -2, 15},
		{-32, -2, 0},
	}
	for _, tc := range cases {
		id, l := BlockCoord{tc.v, tc.v, tc.v}.Split()
		if id.X != tc.chunk || id.Y != tc.chunk || id.Z != tc.chunk {
			t.Errorf("v=%d: chunk = %v, want %d", tc.v, id, tc.chunk)
		}
		if l.X != tc.local || l.Y != tc.local || l.Z != tc.local {
			t.Errorf("v=%d: local = %v, want %d", tc.v, l, tc.local)
		}
	}
}

func TestBlockCoordAt(t *testing.T) {
	cases := []struct {
		p    mgl32.Vec3
		want BlockCoord
	}{
		{mgl32.Vec3{0.5, 0.5, 0.5}, BlockCoord{0, 0, 0}},
		{mgl32.Vec3{-0.5, 1.99, -16}, BlockCoord{-1, 1, -16}},
		{mgl32.Vec3{-16.01, 0, 31}, BlockCoord{-17, 0, 31}},
	}
	for _, tc := range cases {
		if got := BlockCoordAt(tc.p); got != tc.want {
			t.Errorf("BlockCoordAt(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestChebyshev(t *testing.T) {
	a := ChunkID{1, -2, 3}
	if d := a.Chebyshev(ChunkID{-2, 0, 4}); d != 3 {
		t.Errorf("distance = %d, want 3", d)
	}
	if d := a.Chebyshev(a); d != 0 {
		t.Errorf("self distance = %d", d)
	}
}

func TestNeighborsMatchFaceNormals(t *testing.T) {
	id := ChunkID{4, -1, 9}
	nbs := id.Neighbors()
	seen := map[ChunkID]bool{}
	for _, nb := range nbs {
		if id.Chebyshev(nb) != 1 || seen[nb] {
			t.Fatalf("bad neighbor %v", nb)
		}
		seen[nb] = true
	}
	for f := FacePosX; f <= FaceNegZ; f++ {
		n := f.Normal()
		if !seen[id.Add(n.X, n.Y, n.Z)] {
			t.Errorf("face %v has no matching neighbor", f)
		}
	}
}

func TestFaceNormalsOppose(t *testing.T) {
	pairs := [][2]Face{{FacePosX, FaceNegX}, {FacePosY, FaceNegY}, {FacePosZ, FaceNegZ}}
	for _, p := range pairs {
		if p[0].Normal().Add(p[1].Normal()) != (BlockCoord{}) {
			t.Errorf("%v and %v are not opposite", p[0], p[1])
		}
	}
	if Face(42).Normal() != (BlockCoord{}) || Face(42).String() != "?" {
		t.Error("unknown face must have a zero normal")
	}
}
