package world

import (
	"math"

	"voxelworld/internal/profiling"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
)

// Terrain shaping constants.
const (
	baseElevation = 64.0

	detailFrequency    = 0.035
	detailAmplitude    = 96.0
	hillsFrequency     = 0.01
	hillsAmplitude     = 384.0
	continentFrequency = 0.001

	caveFrequency = 0.065
	caveThreshold = 0.3

	snowLine       = 128.0
	snowLineJitter = 16.0

	// dirtDepth counts the surface voxel, so grass/snow sits on two dirt voxels.
	dirtDepth = 3
)

// Perlin settings for the 2D height fields.
const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 3
)

// Generator deterministically fills chunks from a seed. All of its state is
// built in NewGenerator and only read afterwards, so Generate may be called
// from several goroutines.
type Generator struct {
	seed  int64
	noise *NoiseGenerator

	detail    *perlin.Perlin
	hills     *perlin.Perlin
	continent *perlin.Perlin
}

// NewGenerator creates a generator for seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		seed:      seed,
		noise:     NewNoiseGenerator(seed),
		detail:    perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed),
		hills:     perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed+1),
		continent: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed+2),
	}
}

// Seed returns the seed the generator was built with.
func (g *Generator) Seed() int64 {
	return g.seed
}

// smooth samples a perlin field and maps it from [-1,1] to [0,1].
func smooth(p *perlin.Perlin, freq float64, x, z int) float64 {
	v := (p.Noise2D(freq*float64(x), freq*float64(z)) + 1) / 2
	return min(max(v, 0), 1)
}

// HeightAt returns the terrain elevation of world column (x, z).
func (g *Generator) HeightAt(x, z int) int {
	f1 := smooth(g.detail, detailFrequency, x, z)
	f2 := smooth(g.hills, hillsFrequency, x, z)
	f3 := smooth(g.continent, continentFrequency, x, z)
	return int(math.Floor((f1*detailAmplitude+f2*hillsAmplitude)*f3*f3 + baseElevation))
}

// Generate builds the chunk id. The result depends only on the seed and id.
func (g *Generator) Generate(id ChunkID) *Chunk {
	defer profiling.Track("world.Generate")()

	c := NewChunk(id)
	baseX, baseY, baseZ := id.X*ChunkSize, id.Y*ChunkSize, id.Z*ChunkSize

	for i := range ChunkSize {
		for j := range ChunkSize {
			elevation := g.HeightAt(baseX+i, baseZ+j)
			above := elevation - baseY
			localHeight := min(ChunkSize, above)
			surfaceHere := above <= ChunkSize

			for k := 0; k < localHeight; k++ {
				hole := g.noise.Sample(
					caveFrequency*float32(baseX+i),
					caveFrequency*float32(baseY+k),
					caveFrequency*float32(baseZ+j),
				)
				if hole <= caveThreshold {
					continue
				}

				t := BlockTypeStone
				switch {
				case surfaceHere && k+1 == localHeight:
					jitter := g.noise.Sample(float32(i), float32(j), float32(k)) * snowLineJitter
					if float32(elevation) >= snowLine+jitter {
						t = BlockTypeSnow
					} else {
						t = BlockTypeGrass
					}
				case surfaceHere && k+dirtDepth >= localHeight:
					t = BlockTypeDirt
				}
				c.blocks[LocalCoord{i, k, j}.index()] = t
			}
		}
	}
	return c
}

// PickSpawnPoint returns a position two voxels above the surface of the origin column.
func (g *Generator) PickSpawnPoint() mgl32.Vec3 {
	return mgl32.Vec3{0, float32(g.HeightAt(0, 0) + 2), 0}
}
