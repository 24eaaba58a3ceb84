package render

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Handle refers to one render/collision resource owned by a ResourcePool.
// The zero Handle is never returned by Allocate.
type Handle uint64

// ResourcePool is the renderer/collision backend that turns chunk geometry
// into drawable, collidable resources.
type ResourcePool interface {
	// Allocate creates an empty resource.
	Allocate() Handle
	// Update replaces the resource's geometry. buckets holds one triangle index
	// list per material, indexing into vertices/uvs.
	Update(h Handle, vertices []mgl32.Vec3, uvs []mgl32.Vec2, buckets [][]uint32)
	// Release destroys the resource; h must not be used afterwards.
	Release(h Handle)
	// SetWorldPosition places the resource in world space.
	SetWorldPosition(h Handle, pos mgl32.Vec3)
}
