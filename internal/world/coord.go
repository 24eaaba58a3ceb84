package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ChunkSize is the edge length of a cubic chunk in voxels.
const ChunkSize = 16

// ChunkVolume is the number of voxels stored by one chunk.
const ChunkVolume = ChunkSize * ChunkSize * ChunkSize

// BlockCoord identifies one voxel in world space.
type BlockCoord struct {
	X, Y, Z int
}

// ChunkID identifies one chunk; it is the floor division of a BlockCoord by ChunkSize.
type ChunkID struct {
	X, Y, Z int
}

// LocalCoord is a voxel position inside a chunk, each axis in [0, ChunkSize).
type LocalCoord struct {
	X, Y, Z int
}

// floorDiv divides rounding towards negative infinity.
func floorDiv(v, n int) int {
	if v >= 0 {
		return v / n
	}
	return (v+1)/n - 1
}

// Add returns the component-wise sum.
func (b BlockCoord) Add(o BlockCoord) BlockCoord {
	return BlockCoord{b.X + o.X, b.Y + o.Y, b.Z + o.Z}
}

// ChunkID returns the chunk that owns the voxel.
func (b BlockCoord) ChunkID() ChunkID {
	return ChunkID{floorDiv(b.X, ChunkSize), floorDiv(b.Y, ChunkSize), floorDiv(b.Z, ChunkSize)}
}

// Local returns the voxel position relative to its owning chunk's origin.
func (b BlockCoord) Local() LocalCoord {
	id := b.ChunkID()
	return LocalCoord{b.X - id.X*ChunkSize, b.Y - id.Y*ChunkSize, b.Z - id.Z*ChunkSize}
}

// Split returns ChunkID and LocalCoord together.
func (b BlockCoord) Split() (ChunkID, LocalCoord) {
	id := b.ChunkID()
	return id, LocalCoord{b.X - id.X*ChunkSize, b.Y - id.Y*ChunkSize, b.Z - id.Z*ChunkSize}
}

// Join is the inverse of Split: id*ChunkSize + local.
func Join(id ChunkID, local LocalCoord) BlockCoord {
	return BlockCoord{id.X*ChunkSize + local.X, id.Y*ChunkSize + local.Y, id.Z*ChunkSize + local.Z}
}

// BlockCoordAt floors a world-space position to the voxel that contains it.
func BlockCoordAt(p mgl32.Vec3) BlockCoord {
	return BlockCoord{
		int(math.Floor(float64(p.X()))),
		int(math.Floor(float64(p.Y()))),
		int(math.Floor(float64(p.Z()))),
	}
}

// Add returns the component-wise sum.
func (c ChunkID) Add(dx, dy, dz int) ChunkID {
	return ChunkID{c.X + dx, c.Y + dy, c.Z + dz}
}

// Origin returns the world position of the chunk's minimum corner.
func (c ChunkID) Origin() mgl32.Vec3 {
	return mgl32.Vec3{float32(c.X * ChunkSize), float32(c.Y * ChunkSize), float32(c.Z * ChunkSize)}
}

// Chebyshev returns max(|dx|,|dy|,|dz|) between two chunk ids.
func (c ChunkID) Chebyshev(o ChunkID) int {
	return max(abs(c.X-o.X), abs(c.Y-o.Y), abs(c.Z-o.Z))
}

// Neighbors returns the six face-adjacent chunk ids in -X,+X,-Y,+Y,-Z,+Z order.
func (c ChunkID) Neighbors() [6]ChunkID {
	return [6]ChunkID{
		c.Add(-1, 0, 0), c.Add(1, 0, 0),
		c.Add(0, -1, 0), c.Add(0, 1, 0),
		c.Add(0, 0, -1), c.Add(0, 0, 1),
	}
}

// InBounds reports whether every axis lies in [0, ChunkSize).
func (l LocalCoord) InBounds() bool {
	return l.X >= 0 && l.X < ChunkSize && l.Y >= 0 && l.Y < ChunkSize && l.Z >= 0 && l.Z < ChunkSize
}

// index maps a local coordinate into the row-major voxel array (x major, z minor).
func (l LocalCoord) index() int {
	return l.X*ChunkSize*ChunkSize + l.Y*ChunkSize + l.Z
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
