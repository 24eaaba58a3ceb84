package game

import (
	"errors"
	"fmt"
	"log"

	"voxelworld/internal/chunkmanager"
	"voxelworld/internal/config"
	"voxelworld/internal/metrics"
	"voxelworld/internal/physics"
	"voxelworld/internal/registry"
	"voxelworld/internal/render"
	"voxelworld/internal/storage"
	"voxelworld/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// BodyHeight is the height of the anchor's probe box.
	BodyHeight = 1.8
	// eyeOffset lifts the anchor above the ground it walks on.
	eyeOffset = 2
	// groundScan is how far above and below the anchor GroundLevel searches.
	groundScan = 3 * world.ChunkSize
)

// Session wires a chunk manager to a headless resource pool and drives an
// anchor through the world.
type Session struct {
	Config  *config.Config
	Manager *chunkmanager.Manager
	Pool    *render.MemoryPool
	Metrics *metrics.Metrics

	// Anchor is the streaming center; it moves by Velocity each step.
	Anchor   mgl32.Vec3
	Velocity mgl32.Vec3

	store *storage.BadgerStore
}

// NewSession builds the world described by cfg and places the anchor at the
// spawn point. reg may be nil to skip metric registration.
func NewSession(cfg *config.Config, reg prometheus.Registerer) (*Session, error) {
	registry.InitRegistry(nil)

	var store *storage.BadgerStore
	if cfg.Storage.Enabled() {
		var err error
		store, err = storage.Open(storage.Options{Path: cfg.Storage.Path, InMemory: cfg.Storage.InMemory})
		if err != nil {
			return nil, fmt.Errorf("new session: %w", err)
		}
	}

	gen := world.NewGenerator(cfg.World.Seed)
	pool := render.NewMemoryPool(registry.BucketMaterials())
	met := metrics.New(reg)
	opts := chunkmanager.Options{
		Radius:  cfg.World.Radius,
		Budget:  cfg.World.TickBudget,
		Metrics: met,
		Workers: cfg.World.Workers,
	}
	// a nil *BadgerStore must not become a non-nil interface
	if store != nil {
		opts.Store = store
	}
	m := chunkmanager.New(gen, pool, opts)

	spawn := m.PickSpawnPoint()
	m.Refresh(spawn)
	log.Printf("Session started: seed=%d radius=%d spawn=%v", gen.Seed(), m.Radius(), spawn)

	return &Session{
		Config:  cfg,
		Manager: m,
		Pool:    pool,
		Metrics: met,
		Anchor:  spawn,
		store:   store,
	}, nil
}

// Step moves the anchor, keeps it above resident ground and ticks the manager.
func (s *Session) Step(dt float64) {
	s.Anchor = s.Anchor.Add(s.Velocity.Mul(float32(dt)))
	top := int(s.Anchor.Y())
	if ground, ok := physics.GroundLevel(s.Manager, s.Anchor.X(), s.Anchor.Z(), top+groundScan, top-groundScan); ok {
		s.Anchor[1] = ground + eyeOffset
	}
	s.Manager.Tick(dt, s.Anchor)
}

// Respawn moves the anchor back to the spawn point and drops chunks that
// are now out of range.
func (s *Session) Respawn() {
	s.Anchor = s.Manager.PickSpawnPoint()
	s.Manager.Refresh(s.Anchor)
}

// Dig removes the first block along dir from the anchor within reach.
func (s *Session) Dig(dir mgl32.Vec3) (world.BlockCoord, bool) {
	hit, ok := s.Manager.Raycast(s.Anchor, dir, physics.MaxReachDistance)
	if !ok {
		return world.BlockCoord{}, false
	}
	return hit.Block, s.Manager.WriteBlock(hit.Block, world.BlockTypeAir)
}

// Place puts t against the face struck along dir. A block that would
// intersect the anchor's body is taken back.
func (s *Session) Place(dir mgl32.Vec3, t world.BlockType) (world.BlockCoord, bool) {
	hit, ok := s.Manager.Raycast(s.Anchor, dir, physics.MaxReachDistance)
	if !ok {
		return world.BlockCoord{}, false
	}
	pos := s.Manager.PlacementPosition(hit)
	prev := s.Manager.ReadBlock(pos)
	if !s.Manager.WriteBlock(pos, t) {
		return pos, false
	}
	feet := s.Anchor.Sub(mgl32.Vec3{0, eyeOffset, 0})
	if physics.Collides(s.Manager, feet, BodyHeight) {
		s.Manager.WriteBlock(pos, prev)
		return pos, false
	}
	return pos, true
}

// Cleanup saves modified chunks and closes the store.
func (s *Session) Cleanup() error {
	err := s.Manager.Close()
	if s.store != nil {
		err = errors.Join(err, s.store.Close())
	}
	st := s.Manager.Stats()
	log.Printf("Session closed: ticks=%d generated=%d loaded=%d evicted=%d meshes=%d",
		st.Ticks, st.Generated, st.Loaded, st.Evicted, st.MeshesBuilt)
	return err
}
