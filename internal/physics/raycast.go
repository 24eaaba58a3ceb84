package physics

import (
	"voxelworld/internal/profiling"
	"voxelworld/internal/registry"
	"voxelworld/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// StepSize is the fixed advance per raycast sample in world units.
	StepSize = 0.1
	// MaxReachDistance is the default interaction reach.
	MaxReachDistance = 5.0
)

// BlockReader is the read side of a voxel world. Unloaded voxels read as Air.
type BlockReader interface {
	ReadBlock(c world.BlockCoord) world.BlockType
}

// Result describes the first non-empty voxel found by Raycast.
type Result struct {
	Start mgl32.Vec3
	Hit   mgl32.Vec3
	Block world.BlockCoord
	Type  registry.BlockDefinition
	Face  world.Face
}

// PlacementPosition returns the voxel adjacent to the struck face.
func (r Result) PlacementPosition() world.BlockCoord {
	return r.Block.Add(r.Face.Normal())
}

// Raycast marches from origin along direction in StepSize increments and
// returns the first voxel that is not Air. It is a sampling walk, not an exact
// grid traversal: a step that crosses two voxel boundaries at once reports the
// face of the first changed axis in X, Y, Z order.
func Raycast(r BlockReader, origin, direction mgl32.Vec3, maxDistance float32) (Result, bool) {
	defer profiling.Track("physics.Raycast")()

	if direction.Len() == 0 || maxDistance <= 0 {
		return Result{}, false
	}
	step := direction.Normalize().Mul(StepSize)

	pos := origin
	prev := world.BlockCoordAt(pos)
	for dist := float32(0); dist < maxDistance; dist += StepSize {
		pos = pos.Add(step)
		cur := world.BlockCoordAt(pos)
		id := r.ReadBlock(cur)
		if id != world.BlockTypeAir {
			def, _ := registry.Get(id)
			return Result{
				Start: origin,
				Hit:   pos,
				Block: cur,
				Type:  def,
				Face:  struckFace(prev, cur),
			}, true
		}
		prev = cur
	}
	return Result{}, false
}

// struckFace picks the face through which the ray entered cur from prev.
// Entering towards +X means the -X face was struck, and so on. When no axis
// changed the ray started inside the block and +X is reported.
func struckFace(prev, cur world.BlockCoord) world.Face {
	switch {
	case prev.X < cur.X:
		return world.FaceNegX
	case prev.X > cur.X:
		return world.FacePosX
	case prev.Y < cur.Y:
		return world.FaceNegY
	case prev.Y > cur.Y:
		return world.FacePosY
	case prev.Z < cur.Z:
		return world.FaceNegZ
	case prev.Z > cur.Z:
		return world.FacePosZ
	}
	return world.FacePosX
}
