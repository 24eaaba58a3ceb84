package meshing

import (
	"testing"

	"voxelworld/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

type chunkMap map[world.ChunkID]*world.Chunk

func (m chunkMap) Get(id world.ChunkID) *world.Chunk { return m[id] }

// surround returns a source holding c and six empty neighbors.
func surround(c *world.Chunk) chunkMap {
	src := chunkMap{c.ID(): c}
	for _, id := range c.ID().Neighbors() {
		src[id] = world.NewChunk(id)
	}
	return src
}

func TestSingleBlockMesh(t *testing.T) {
	c := world.NewChunk(world.ChunkID{})
	c.SetBlock(world.LocalCoord{X: 4, Y: 5, Z: 6}, world.BlockTypeStone)

	m := BuildChunkMesh(c, surround(c))
	if m.Faces() != 6 {
		t.Fatalf("faces = %d, want 6", m.Faces())
	}
	if len(m.Vertices) != 24 || len(m.UVs) != 24 {
		t.Fatalf("vertices/uvs = %d/%d, want 24/24", len(m.Vertices), len(m.UVs))
	}
	if m.Triangles() != 12 {
		t.Fatalf("triangles = %d, want 12", m.Triangles())
	}
	if got := len(m.Buckets[world.BlockTypeStone-1]); got != 36 {
		t.Errorf("stone bucket has %d indices, want 36", got)
	}
	for i, b := range m.Buckets {
		if i != int(world.BlockTypeStone-1) && len(b) != 0 {
			t.Errorf("bucket %d should be empty, has %d indices", i, len(b))
		}
	}
	lo, hi := bounds(m.Vertices)
	if lo != (mgl32.Vec3{4, 5, 6}) || hi != (mgl32.Vec3{5, 6, 7}) {
		t.Errorf("bounds = %v..%v, want unit cube at (4,5,6)", lo, hi)
	}
}

func TestTwoBlocksTouchingHideSharedFace(t *testing.T) {
	c := world.NewChunk(world.ChunkID{})
	c.SetBlock(world.LocalCoord{X: 0, Y: 0, Z: 0}, world.BlockTypeDirt)
	c.SetBlock(world.LocalCoord{X: 1, Y: 0, Z: 0}, world.BlockTypeDirt)

	m := BuildChunkMesh(c, surround(c))
	if m.Faces() != 10 {
		t.Fatalf("faces = %d, want 10", m.Faces())
	}
	// no quad may lie entirely on the shared plane x=1
	for q := 0; q < len(m.Vertices); q += 4 {
		onPlane := true
		for _, v := range m.Vertices[q : q+4] {
			if v.X() != 1 {
				onPlane = false
			}
		}
		if onPlane {
			t.Fatalf("quad %d lies on the interior face x=1", q/4)
		}
	}
}

func TestTwoBlocksSeparated(t *testing.T) {
	c := world.NewChunk(world.ChunkID{})
	c.SetBlock(world.LocalCoord{X: 0, Y: 0, Z: 0}, world.BlockTypeGrass)
	c.SetBlock(world.LocalCoord{X: 2, Y: 0, Z: 0}, world.BlockTypeGrass)

	m := BuildChunkMesh(c, surround(c))
	if m.Faces() != 12 {
		t.Fatalf("faces = %d, want 12", m.Faces())
	}
}

func TestMaterialsGetSeparateBuckets(t *testing.T) {
	c := world.NewChunk(world.ChunkID{})
	c.SetBlock(world.LocalCoord{X: 3, Y: 3, Z: 3}, world.BlockTypeStone)
	c.SetBlock(world.LocalCoord{X: 3, Y: 4, Z: 3}, world.BlockTypeSnow)

	m := BuildChunkMesh(c, surround(c))
	if got := len(m.Buckets[world.BlockTypeStone-1]) / 6; got != 5 {
		t.Errorf("stone faces = %d, want 5", got)
	}
	if got := len(m.Buckets[world.BlockTypeSnow-1]) / 6; got != 5 {
		t.Errorf("snow faces = %d, want 5", got)
	}
}

func TestCrossChunkFaceCulling(t *testing.T) {
	c := world.NewChunk(world.ChunkID{})
	c.SetBlock(world.LocalCoord{X: world.ChunkSize - 1, Y: 0, Z: 0}, world.BlockTypeStone)
	src := surround(c)
	src[world.ChunkID{X: 1}].SetBlock(world.LocalCoord{}, world.BlockTypeStone)

	m := BuildChunkMesh(c, src)
	if m.Faces() != 5 {
		t.Fatalf("cross-chunk culling: faces = %d, want 5", m.Faces())
	}
}

func TestNegativeChunkBoundary(t *testing.T) {
	id := world.ChunkID{X: -1, Y: -1, Z: -1}
	c := world.NewChunk(id)
	c.SetBlock(world.LocalCoord{X: 0, Y: 0, Z: 0}, world.BlockTypeStone)
	src := surround(c)
	// voxel (-17,-16,-16) sits at local (15,0,0) of chunk (-2,-1,-1)
	src[world.ChunkID{X: -2, Y: -1, Z: -1}].SetBlock(world.LocalCoord{X: 15}, world.BlockTypeStone)

	m := BuildChunkMesh(c, src)
	if m.Faces() != 5 {
		t.Fatalf("faces = %d, want 5", m.Faces())
	}
}

func TestAbsentNeighborEmitsFace(t *testing.T) {
	c := world.NewChunk(world.ChunkID{})
	c.Fill(world.BlockTypeStone)

	// fully solid chunk, nothing around it: only the 6 outer surfaces are visible
	m := BuildChunkMesh(c, chunkMap{})
	want := 6 * world.ChunkSize * world.ChunkSize
	if m.Faces() != want {
		t.Fatalf("faces = %d, want %d", m.Faces(), want)
	}
}

func TestSolidNeighborsHideEverything(t *testing.T) {
	c := world.NewChunk(world.ChunkID{})
	c.Fill(world.BlockTypeStone)
	src := chunkMap{c.ID(): c}
	for _, id := range c.ID().Neighbors() {
		nb := world.NewChunk(id)
		nb.Fill(world.BlockTypeDirt)
		src[id] = nb
	}

	m := BuildChunkMesh(c, src)
	if m.Faces() != 0 {
		t.Fatalf("faces = %d, want 0", m.Faces())
	}
}

func TestVertexLimitTruncates(t *testing.T) {
	c := world.NewChunk(world.ChunkID{})
	c.SetBlock(world.LocalCoord{X: 0, Y: 0, Z: 0}, world.BlockTypeStone)
	c.SetBlock(world.LocalCoord{X: 5, Y: 0, Z: 0}, world.BlockTypeStone)

	m := buildLimited(c, surround(c), 30)
	if !m.Truncated {
		t.Fatal("expected truncation")
	}
	if len(m.Vertices) != 24 {
		t.Fatalf("vertices = %d, want 24 (second voxel dropped)", len(m.Vertices))
	}

	full := BuildChunkMesh(c, surround(c))
	if full.Truncated {
		t.Fatal("two voxels must not hit MaxVertices")
	}
}

func TestCheckerboardStaysUnderLimit(t *testing.T) {
	c := world.NewChunk(world.ChunkID{})
	for x := range world.ChunkSize {
		for y := range world.ChunkSize {
			for z := range world.ChunkSize {
				if (x+y+z)%2 == 0 {
					c.SetBlock(world.LocalCoord{X: x, Y: y, Z: z}, world.BlockTypeStone)
				}
			}
		}
	}
	m := BuildChunkMesh(c, surround(c))
	if m.Truncated {
		t.Fatal("worst-case chunk must fit in MaxVertices")
	}
	if m.Faces() != world.ChunkVolume/2*6 {
		t.Errorf("faces = %d, want %d", m.Faces(), world.ChunkVolume/2*6)
	}
}

func bounds(vs []mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	lo, hi := vs[0], vs[0]
	for _, v := range vs[1:] {
		for i := range 3 {
			lo[i] = min(lo[i], v[i])
			hi[i] = max(hi[i], v[i])
		}
	}
	return lo, hi
}

func BenchmarkBuildChunkMesh(b *testing.B) {
	gen := world.NewGenerator(1337)
	c := gen.Generate(world.ChunkID{X: 0, Y: 3, Z: 0})
	src := chunkMap{c.ID(): c}
	for _, id := range c.ID().Neighbors() {
		src[id] = gen.Generate(id)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = BuildChunkMesh(c, src)
	}
}
