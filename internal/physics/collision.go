package physics

import (
	"math"

	"voxelworld/internal/registry"
	"voxelworld/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// BodyHalfWidth is the horizontal half extent of the probe box used by Collides.
const BodyHalfWidth = 0.3

// Collides reports whether an upright box standing at pos with the given
// height overlaps any opaque voxel.
func Collides(r BlockReader, pos mgl32.Vec3, height float32) bool {
	lo := world.BlockCoordAt(pos.Sub(mgl32.Vec3{BodyHalfWidth, 0, BodyHalfWidth}))
	hi := world.BlockCoordAt(pos.Add(mgl32.Vec3{BodyHalfWidth, height, BodyHalfWidth}))

	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				if !registry.IsOpaque(r.ReadBlock(world.BlockCoord{X: x, Y: y, Z: z})) {
					continue
				}
				fx, fy, fz := float32(x), float32(y), float32(z)
				if pos.X()-BodyHalfWidth < fx+1 && pos.X()+BodyHalfWidth > fx &&
					pos.Y() < fy+1 && pos.Y()+height > fy &&
					pos.Z()-BodyHalfWidth < fz+1 && pos.Z()+BodyHalfWidth > fz {
					return true
				}
			}
		}
	}
	return false
}

// GroundLevel scans down from fromY to minY at column (x, z) and returns the
// top surface of the first opaque voxel, or false if none was found.
func GroundLevel(r BlockReader, x, z float32, fromY, minY int) (float32, bool) {
	bx := int(math.Floor(float64(x)))
	bz := int(math.Floor(float64(z)))
	for y := fromY; y >= minY; y-- {
		if registry.IsOpaque(r.ReadBlock(world.BlockCoord{X: bx, Y: y, Z: bz})) {
			return float32(y) + 1, true
		}
	}
	return 0, false
}
