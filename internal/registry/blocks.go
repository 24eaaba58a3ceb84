package registry

import (
	"sync"

	"voxelworld/internal/world"
)

// BlockDefinition holds the immutable attributes of one block type.
type BlockDefinition struct {
	ID       world.BlockType
	Name     string
	Hardness float32
	IsOpaque bool
	// Material is the drawable reference supplied by the MaterialProvider.
	// It is stored and forwarded, never interpreted.
	Material any
}

// MaterialProvider resolves a block to its drawable material reference.
type MaterialProvider interface {
	Material(id world.BlockType, name string) any
}

// MaterialFunc adapts a function to MaterialProvider.
type MaterialFunc func(id world.BlockType, name string) any

func (f MaterialFunc) Material(id world.BlockType, name string) any {
	return f(id, name)
}

// materialPath is the default reference when no provider is given.
func materialPath(_ world.BlockType, name string) any {
	return "Materials/" + name
}

var (
	once   sync.Once
	blocks []BlockDefinition
)

// InitRegistry populates the block table. Only the first call has any effect;
// later calls, whatever their provider, leave the table as it is.
func InitRegistry(p MaterialProvider) {
	once.Do(func() {
		if p == nil {
			p = MaterialFunc(materialPath)
		}
		defs := []BlockDefinition{
			{ID: world.BlockTypeAir, Name: "Air", Hardness: 0, IsOpaque: false},
			{ID: world.BlockTypeStone, Name: "Stone", Hardness: 5, IsOpaque: true},
			{ID: world.BlockTypeDirt, Name: "Dirt", Hardness: 2, IsOpaque: true},
			{ID: world.BlockTypeGrass, Name: "Grass", Hardness: 3, IsOpaque: true},
			{ID: world.BlockTypeSnow, Name: "Snow", Hardness: 1, IsOpaque: true},
		}
		for i := range defs {
			defs[i].Material = p.Material(defs[i].ID, defs[i].Name)
		}
		blocks = defs
	})
}

func ensure() {
	InitRegistry(nil)
}

// Get returns the definition for id, or false when id is outside the table.
func Get(id world.BlockType) (BlockDefinition, bool) {
	ensure()
	if int(id) >= len(blocks) {
		return BlockDefinition{}, false
	}
	return blocks[id], true
}

// Len returns the number of registered block types, Air included.
func Len() int {
	ensure()
	return len(blocks)
}

// IsOpaque reports whether id names a known opaque block.
func IsOpaque(id world.BlockType) bool {
	def, ok := Get(id)
	return ok && def.IsOpaque
}

// BucketMaterials returns the materials of every non-Air block, indexed by id-1,
// matching the mesh bucket layout.
func BucketMaterials() []any {
	ensure()
	out := make([]any, 0, len(blocks)-1)
	for _, def := range blocks[1:] {
		out = append(out, def.Material)
	}
	return out
}
