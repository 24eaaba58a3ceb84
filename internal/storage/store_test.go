package storage

import (
	"testing"

	"voxelworld/internal/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMem(t *testing.T) *BadgerStore {
	t.Helper()
	s, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openMem(t)
	id := world.ChunkID{X: -3, Y: 2, Z: 7}
	c := world.NewChunk(id)
	c.SetBlock(world.LocalCoord{X: 0, Y: 0, Z: 0}, world.BlockTypeStone)
	c.SetBlock(world.LocalCoord{X: 15, Y: 1, Z: 9}, world.BlockTypeSnow)
	require.True(t, c.Modified())

	require.NoError(t, s.Save(c))
	assert.False(t, c.Modified(), "Save must clear the modified flag")
	assert.True(t, s.Has(id))

	got, err := s.Load(id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID())
	assert.Equal(t, c.Bytes(), got.Bytes())
	assert.False(t, got.Modified())
}

func TestLoadMissing(t *testing.T) {
	s := openMem(t)
	_, err := s.Load(world.ChunkID{X: 1})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, s.Has(world.ChunkID{X: 1}))
}

func TestKeysDoNotCollide(t *testing.T) {
	s := openMem(t)
	a := world.NewChunk(world.ChunkID{X: 1, Y: 11, Z: 0})
	a.Fill(world.BlockTypeDirt)
	b := world.NewChunk(world.ChunkID{X: 11, Y: 1, Z: 0})
	b.Fill(world.BlockTypeGrass)
	require.NoError(t, s.Save(a))
	require.NoError(t, s.Save(b))

	got, err := s.Load(a.ID())
	require.NoError(t, err)
	assert.Equal(t, world.BlockTypeDirt, got.GetBlock(world.LocalCoord{}))
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	id := world.ChunkID{Y: -1}

	s, err := Open(Options{Path: dir})
	require.NoError(t, err)
	c := world.NewChunk(id)
	c.SetBlock(world.LocalCoord{X: 4, Y: 4, Z: 4}, world.BlockTypeGrass)
	require.NoError(t, s.Save(c))
	require.NoError(t, s.Close())

	s, err = Open(Options{Path: dir})
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Load(id)
	require.NoError(t, err)
	assert.Equal(t, world.BlockTypeGrass, got.GetBlock(world.LocalCoord{X: 4, Y: 4, Z: 4}))
}

func TestClosedStore(t *testing.T) {
	s, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.Error(t, s.Save(world.NewChunk(world.ChunkID{})))
	_, err = s.Load(world.ChunkID{})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
