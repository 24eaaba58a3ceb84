package meshing

import (
	"voxelworld/internal/profiling"
	"voxelworld/internal/registry"
	"voxelworld/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxVertices is the 16-bit index range a single chunk mesh may use.
const MaxVertices = 65536

// ChunkSource resolves neighbor chunks while culling boundary faces.
type ChunkSource interface {
	Get(id world.ChunkID) *world.Chunk
}

// Mesh is chunk-local geometry with one triangle index bucket per non-Air block type.
type Mesh struct {
	Vertices []mgl32.Vec3
	UVs      []mgl32.Vec2
	// Buckets[id-1] holds the triangle indices of block id.
	Buckets [][]uint32
	// Truncated is set when emission stopped at MaxVertices.
	Truncated bool
}

// Faces returns the number of emitted quads.
func (m *Mesh) Faces() int {
	return len(m.Vertices) / 4
}

// Triangles returns the triangle count across all buckets.
func (m *Mesh) Triangles() int {
	n := 0
	for _, b := range m.Buckets {
		n += len(b) / 3
	}
	return n
}

type faceSpec struct {
	dx, dy, dz int
	corners    [4]mgl32.Vec3
	uvs        [4]mgl32.Vec2
	order      [6]uint32
}

// faces lists -X,+X,-Y,+Y,-Z,+Z with their winding and uv layout.
var faces = [6]faceSpec{
	{
		dx: -1,
		corners: [4]mgl32.Vec3{{0, 0, 0}, {0, 0, 1}, {0, 1, 0}, {0, 1, 1}},
		uvs:     [4]mgl32.Vec2{{1, 0}, {0, 0}, {1, 1}, {0, 1}},
		order:   [6]uint32{0, 1, 2, 2, 1, 3},
	},
	{
		dx: 1,
		corners: [4]mgl32.Vec3{{1, 0, 0}, {1, 0, 1}, {1, 1, 0}, {1, 1, 1}},
		uvs:     [4]mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		order:   [6]uint32{2, 1, 0, 3, 1, 2},
	},
	{
		dy: -1,
		corners: [4]mgl32.Vec3{{0, 0, 0}, {0, 0, 1}, {1, 0, 0}, {1, 0, 1}},
		uvs:     [4]mgl32.Vec2{{0, 1}, {0, 0}, {1, 1}, {1, 0}},
		order:   [6]uint32{2, 1, 0, 3, 1, 2},
	},
	{
		dy: 1,
		corners: [4]mgl32.Vec3{{0, 1, 0}, {0, 1, 1}, {1, 1, 0}, {1, 1, 1}},
		uvs:     [4]mgl32.Vec2{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
		order:   [6]uint32{0, 1, 2, 2, 1, 3},
	},
	{
		dz: -1,
		corners: [4]mgl32.Vec3{{0, 0, 0}, {0, 1, 0}, {1, 0, 0}, {1, 1, 0}},
		uvs:     [4]mgl32.Vec2{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
		order:   [6]uint32{0, 1, 2, 2, 1, 3},
	},
	{
		dz: 1,
		corners: [4]mgl32.Vec3{{0, 0, 1}, {0, 1, 1}, {1, 0, 1}, {1, 1, 1}},
		uvs:     [4]mgl32.Vec2{{1, 0}, {1, 1}, {0, 0}, {0, 1}},
		order:   [6]uint32{2, 1, 0, 3, 1, 2},
	},
}

// BuildChunkMesh emits one quad per voxel face whose neighbor is absent, Air or
// non-opaque. Faces on the chunk boundary consult the neighbor chunk through src;
// callers are expected to have all six neighbors resident.
func BuildChunkMesh(c *world.Chunk, src ChunkSource) *Mesh {
	return buildLimited(c, src, MaxVertices)
}

func buildLimited(c *world.Chunk, src ChunkSource, limit int) *Mesh {
	defer profiling.Track("meshing.BuildChunkMesh")()

	m := &Mesh{Buckets: make([][]uint32, registry.Len()-1)}
	if c == nil {
		return m
	}

	var visible [6]bool
	for x := range world.ChunkSize {
		for y := range world.ChunkSize {
			for z := range world.ChunkSize {
				id := c.GetBlock(world.LocalCoord{X: x, Y: y, Z: z})
				if id == world.BlockTypeAir || int(id) >= registry.Len() {
					continue
				}

				n := 0
				for f, spec := range faces {
					visible[f] = !opaqueAt(c, src, x+spec.dx, y+spec.dy, z+spec.dz)
					if visible[f] {
						n++
					}
				}
				if n == 0 {
					continue
				}
				if len(m.Vertices)+4*n > limit {
					m.Truncated = true
					return m
				}

				offset := mgl32.Vec3{float32(x), float32(y), float32(z)}
				bucket := &m.Buckets[id-1]
				for f, spec := range faces {
					if !visible[f] {
						continue
					}
					base := uint32(len(m.Vertices))
					for i := range spec.corners {
						m.Vertices = append(m.Vertices, spec.corners[i].Add(offset))
						m.UVs = append(m.UVs, spec.uvs[i])
					}
					for _, o := range spec.order {
						*bucket = append(*bucket, base+o)
					}
				}
			}
		}
	}
	return m
}

// opaqueAt resolves a possibly out-of-chunk local position and reports opacity.
// An absent neighbor chunk counts as not opaque.
func opaqueAt(c *world.Chunk, src ChunkSource, x, y, z int) bool {
	l := world.LocalCoord{X: x, Y: y, Z: z}
	if l.InBounds() {
		return registry.IsOpaque(c.GetBlock(l))
	}
	if src == nil {
		return false
	}
	id, local := world.Join(c.ID(), l).Split()
	nb := src.Get(id)
	if nb == nil {
		return false
	}
	return registry.IsOpaque(nb.GetBlock(local))
}
