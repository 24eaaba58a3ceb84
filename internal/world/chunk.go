package world

import (
	"fmt"

	"voxelworld/internal/render"
)

// Chunk is a dense ChunkSize^3 grid of block ids plus the render resource
// associated with it, if any.
type Chunk struct {
	id     ChunkID
	blocks [ChunkVolume]BlockType

	handle    render.Handle
	hasHandle bool

	// modified is set by writes after generation/load; persistence clears it.
	modified bool
}

// NewChunk creates an empty (all Air) chunk.
func NewChunk(id ChunkID) *Chunk {
	return &Chunk{id: id}
}

// ID returns the chunk's id.
func (c *Chunk) ID() ChunkID {
	return c.id
}

// GetBlock returns the block at the local coordinate. Out-of-range coordinates read as Air.
func (c *Chunk) GetBlock(l LocalCoord) BlockType {
	if !l.InBounds() {
		return BlockTypeAir
	}
	return c.blocks[l.index()]
}

// SetBlock writes the block at the local coordinate and marks the chunk modified.
// Out-of-range coordinates are ignored.
func (c *Chunk) SetBlock(l LocalCoord, t BlockType) {
	if !l.InBounds() {
		return
	}
	i := l.index()
	if c.blocks[i] != t {
		c.blocks[i] = t
		c.modified = true
	}
}

// Fill sets every voxel to t.
func (c *Chunk) Fill(t BlockType) {
	for i := range c.blocks {
		c.blocks[i] = t
	}
	c.modified = true
}

// IsEmpty reports whether every voxel is Air.
func (c *Chunk) IsEmpty() bool {
	for _, b := range c.blocks {
		if b != BlockTypeAir {
			return false
		}
	}
	return true
}

// Modified reports whether the chunk was written since it was generated, loaded or last saved.
func (c *Chunk) Modified() bool {
	return c.modified
}

// MarkSaved clears the modified flag.
func (c *Chunk) MarkSaved() {
	c.modified = false
}

// Handle returns the render resource handle attached on first mesh build.
func (c *Chunk) Handle() (render.Handle, bool) {
	return c.handle, c.hasHandle
}

// SetHandle attaches h, replacing any previous association.
func (c *Chunk) SetHandle(h render.Handle) {
	c.handle = h
	c.hasHandle = true
}

// ReleaseHandle detaches and returns the handle, if one was attached.
func (c *Chunk) ReleaseHandle() (render.Handle, bool) {
	h, ok := c.handle, c.hasHandle
	c.handle = 0
	c.hasHandle = false
	return h, ok
}

// Bytes returns a copy of the voxel array in row-major order (x major, z minor).
func (c *Chunk) Bytes() []byte {
	out := make([]byte, ChunkVolume)
	for i, b := range c.blocks {
		out[i] = byte(b)
	}
	return out
}

// ChunkFromBytes rebuilds a chunk from the row-major layout produced by Bytes.
func ChunkFromBytes(id ChunkID, data []byte) (*Chunk, error) {
	if len(data) != ChunkVolume {
		return nil, fmt.Errorf("chunk %v: expected %d voxels, got %d", id, ChunkVolume, len(data))
	}
	c := NewChunk(id)
	for i, b := range data {
		c.blocks[i] = BlockType(b)
	}
	return c, nil
}
