package storage

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"voxelworld/internal/world"

	"github.com/dgraph-io/badger/v3"
	"github.com/klauspost/compress/zstd"
)

// ErrNotFound is returned by Load when no chunk was saved under the id.
var ErrNotFound = errors.New("storage: chunk not found")

// Options configures a BadgerStore.
type Options struct {
	// Path is the badger directory. Ignored when InMemory is set.
	Path     string
	InMemory bool
}

// BadgerStore persists chunk voxel arrays in badger. Each value is the
// zstd-compressed row-major voxel array of one chunk.
type BadgerStore struct {
	db  *badger.DB
	enc *zstd.Encoder
	dec *zstd.Decoder

	mu     sync.RWMutex
	closed bool
}

// Open opens or creates a store.
func Open(opts Options) (*BadgerStore, error) {
	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.Logger = nil

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	if opts.InMemory {
		log.Printf("Chunk store opened in memory")
	} else {
		log.Printf("Chunk store opened at %s", opts.Path)
	}
	return &BadgerStore{db: db, enc: enc, dec: dec}, nil
}

func chunkKey(id world.ChunkID) []byte {
	return []byte(fmt.Sprintf("chunk:%d:%d:%d", id.X, id.Y, id.Z))
}

// Save writes the chunk's voxels and marks it saved.
func (s *BadgerStore) Save(c *world.Chunk) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return fmt.Errorf("save chunk %v: store closed", c.ID())
	}

	payload := s.enc.EncodeAll(c.Bytes(), nil)
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(chunkKey(c.ID()), payload)
	})
	if err != nil {
		return fmt.Errorf("save chunk %v: %w", c.ID(), err)
	}
	c.MarkSaved()
	return nil
}

// Load reads a previously saved chunk. It returns ErrNotFound if id was never saved.
func (s *BadgerStore) Load(id world.ChunkID) (*world.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, fmt.Errorf("load chunk %v: store closed", id)
	}

	var payload []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(chunkKey(id))
		if err != nil {
			return err
		}
		payload, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load chunk %v: %w", id, err)
	}

	raw, err := s.dec.DecodeAll(payload, make([]byte, 0, world.ChunkVolume))
	if err != nil {
		return nil, fmt.Errorf("decode chunk %v: %w", id, err)
	}
	return world.ChunkFromBytes(id, raw)
}

// Has reports whether a chunk was saved under id.
func (s *BadgerStore) Has(id world.ChunkID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(chunkKey(id))
		return err
	})
	return err == nil
}

// Close flushes and closes the database. Further calls are no-ops.
func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.enc.Close()
	s.dec.Close()
	log.Printf("Chunk store closed")
	return s.db.Close()
}
