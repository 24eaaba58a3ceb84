package chunkmanager

import (
	"cmp"
	"errors"
	"fmt"
	"log"
	"slices"

	"voxelworld/internal/meshing"
	"voxelworld/internal/metrics"
	"voxelworld/internal/physics"
	"voxelworld/internal/profiling"
	"voxelworld/internal/registry"
	"voxelworld/internal/render"
	"voxelworld/internal/storage"
	"voxelworld/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultRadius = 6
	DefaultBudget = 1
	// poolQueueSize bounds outstanding background generation requests.
	poolQueueSize = 1024
)

// ChunkStore persists edited chunks. Load returns storage.ErrNotFound for ids
// that were never saved.
type ChunkStore interface {
	Load(id world.ChunkID) (*world.Chunk, error)
	Save(c *world.Chunk) error
}

// Options configures a Manager. Zero values select the defaults.
type Options struct {
	// Radius is the streaming radius R in chunks.
	Radius int
	// Budget is the number of load-or-build operations allowed per Tick.
	Budget int
	// Store, if set, is consulted before generating and receives modified chunks on eviction.
	Store ChunkStore
	// Metrics may be nil.
	Metrics *metrics.Metrics
	// Workers > 0 generates chunks on a background pool.
	Workers int
}

// Stats is a snapshot of manager counters.
type Stats struct {
	Ticks       uint64
	Elapsed     float64
	Generated   int
	Loaded      int
	Evicted     int
	MeshesBuilt int
	Resident    int
	Pending     int
	// Queued counts generation jobs not yet picked up by a worker.
	Queued int
}

// Manager owns the resident chunk map and streams it around an anchor. It is
// not safe for concurrent use: every method must be called from the tick goroutine.
type Manager struct {
	chunks map[world.ChunkID]*world.Chunk
	gen    *world.Generator
	pool   render.ResourcePool

	radius int
	budget int

	lastAnchor world.ChunkID
	hasAnchor  bool

	store   ChunkStore
	metrics *metrics.Metrics

	genPool *world.GenerationPool
	pending map[world.ChunkID]struct{}

	stats Stats
}

// New creates a manager generating with gen and publishing meshes to pool.
func New(gen *world.Generator, pool render.ResourcePool, opts Options) *Manager {
	if opts.Radius <= 0 {
		opts.Radius = DefaultRadius
	}
	if opts.Budget <= 0 {
		opts.Budget = DefaultBudget
	}
	m := &Manager{
		chunks:  make(map[world.ChunkID]*world.Chunk),
		gen:     gen,
		pool:    pool,
		radius:  opts.Radius,
		budget:  opts.Budget,
		store:   opts.Store,
		metrics: opts.Metrics,
		pending: make(map[world.ChunkID]struct{}),
	}
	if opts.Workers > 0 {
		m.genPool = world.NewGenerationPool(gen, opts.Workers, poolQueueSize)
	}
	return m
}

// Radius returns the streaming radius.
func (m *Manager) Radius() int {
	return m.radius
}

// Get returns the resident chunk or nil.
func (m *Manager) Get(id world.ChunkID) *world.Chunk {
	return m.chunks[id]
}

// Len returns the number of resident chunks.
func (m *Manager) Len() int {
	return len(m.chunks)
}

// Chunks returns the resident ids sorted by X, Y, Z.
func (m *Manager) Chunks() []world.ChunkID {
	ids := make([]world.ChunkID, 0, len(m.chunks))
	for id := range m.chunks {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b world.ChunkID) int {
		return cmp.Or(cmp.Compare(a.X, b.X), cmp.Compare(a.Y, b.Y), cmp.Compare(a.Z, b.Z))
	})
	return ids
}

// Stats returns a snapshot of the counters.
func (m *Manager) Stats() Stats {
	s := m.stats
	s.Resident = len(m.chunks)
	s.Pending = len(m.pending)
	if m.genPool != nil {
		s.Queued = m.genPool.QueueLength()
	}
	return s
}

// Insert installs a prebuilt chunk. It returns false if the id is already resident.
func (m *Manager) Insert(c *world.Chunk) bool {
	if _, ok := m.chunks[c.ID()]; ok {
		return false
	}
	m.chunks[c.ID()] = c
	m.metrics.SetResident(len(m.chunks))
	return true
}

// GetOrGenerate returns the chunk for id, restoring it from the store or
// generating it when absent. created reports whether the chunk was absent.
func (m *Manager) GetOrGenerate(id world.ChunkID) (c *world.Chunk, created bool) {
	if c := m.chunks[id]; c != nil {
		return c, false
	}
	if c := m.loadStored(id); c != nil {
		m.Insert(c)
		return c, true
	}
	c = m.gen.Generate(id)
	m.stats.Generated++
	m.metrics.ChunkGenerated()
	m.Insert(c)
	return c, true
}

func (m *Manager) loadStored(id world.ChunkID) *world.Chunk {
	if m.store == nil {
		return nil
	}
	c, err := m.store.Load(id)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("Chunk %v: load failed, regenerating: %v", id, err)
		}
		return nil
	}
	m.stats.Loaded++
	m.metrics.ChunkLoaded()
	return c
}

// NeighborsLoaded reports whether all six face-adjacent chunks are resident.
func (m *Manager) NeighborsLoaded(id world.ChunkID) bool {
	for _, nb := range id.Neighbors() {
		if _, ok := m.chunks[nb]; !ok {
			return false
		}
	}
	return true
}

// BuildMesh meshes c and publishes the geometry to the resource pool,
// allocating a handle on the first successful build. It does nothing and
// returns false unless every face neighbor of c is resident.
func (m *Manager) BuildMesh(c *world.Chunk) bool {
	if !m.NeighborsLoaded(c.ID()) {
		return false
	}
	defer profiling.Track("chunkmanager.BuildMesh")()

	mesh := meshing.BuildChunkMesh(c, m)
	h, ok := c.Handle()
	if !ok {
		h = m.pool.Allocate()
		c.SetHandle(h)
		m.pool.SetWorldPosition(h, c.ID().Origin())
	}
	m.pool.Update(h, mesh.Vertices, mesh.UVs, mesh.Buckets)

	m.stats.MeshesBuilt++
	m.metrics.MeshBuilt(mesh.Truncated)
	return true
}

// ReadBlock returns the voxel at coord, or Air when its chunk is not resident.
func (m *Manager) ReadBlock(coord world.BlockCoord) world.BlockType {
	id, l := coord.Split()
	c := m.chunks[id]
	if c == nil {
		return world.BlockTypeAir
	}
	return c.GetBlock(l)
}

// WriteBlock sets the voxel at coord and remeshes its chunk plus, per axis,
// the face neighbor across a boundary the voxel touches. Edge and corner
// neighbors are not remeshed. It returns false without mutating anything when
// the chunk is not resident or t is not a registered block.
func (m *Manager) WriteBlock(coord world.BlockCoord, t world.BlockType) bool {
	if _, ok := registry.Get(t); !ok {
		return false
	}
	id, l := coord.Split()
	c := m.chunks[id]
	if c == nil {
		return false
	}
	c.SetBlock(l, t)
	m.BuildMesh(c)

	m.rebuildAcross(id, l.X, 1, 0, 0)
	m.rebuildAcross(id, l.Y, 0, 1, 0)
	m.rebuildAcross(id, l.Z, 0, 0, 1)
	return true
}

func (m *Manager) rebuildAcross(id world.ChunkID, local, dx, dy, dz int) {
	var nb world.ChunkID
	switch local {
	case 0:
		nb = id.Add(-dx, -dy, -dz)
	case world.ChunkSize - 1:
		nb = id.Add(dx, dy, dz)
	default:
		return
	}
	if c := m.chunks[nb]; c != nil {
		m.BuildMesh(c)
	}
}

// Tick advances streaming by one step around anchor. dt is the host's frame
// time in seconds and only feeds Stats.
func (m *Manager) Tick(dt float64, anchor mgl32.Vec3) {
	defer profiling.Track("chunkmanager.Tick")()
	m.stats.Ticks++
	m.stats.Elapsed += dt

	center := world.BlockCoordAt(anchor).ChunkID()
	m.drainGenerated(center)

	budget := m.budget
	if m.visit(center, &budget) {
	shells:
		for r := 1; r <= m.radius; r++ {
			for j := -r; j <= r; j++ {
				for k := -r; k <= r; k++ {
					for l := -r; l <= r; l++ {
						if max(abs(j), abs(k), abs(l)) != r {
							continue
						}
						if !m.visit(center.Add(j, k, l), &budget) {
							break shells
						}
					}
				}
			}
		}
	}

	if !m.hasAnchor || center != m.lastAnchor {
		m.evictBeyond(center, m.radius+1)
	}
	m.lastAnchor = center
	m.hasAnchor = true
}

// visit spends budget on id if it needs loading or meshing. It returns false
// once the budget is exhausted.
func (m *Manager) visit(id world.ChunkID, budget *int) bool {
	c := m.chunks[id]
	switch {
	case c == nil && m.genPool != nil:
		if _, ok := m.pending[id]; ok {
			break
		}
		if stored := m.loadStored(id); stored != nil {
			m.Insert(stored)
			*budget--
		} else if m.genPool.Submit(id) {
			m.pending[id] = struct{}{}
			*budget--
		}
	case c == nil:
		m.GetOrGenerate(id)
		*budget--
	default:
		if _, ok := c.Handle(); !ok && m.BuildMesh(c) {
			*budget--
		}
	}
	return *budget > 0
}

// drainGenerated installs finished background chunks. Chunks the anchor has
// moved away from, and ids that were generated synchronously meanwhile, are dropped.
func (m *Manager) drainGenerated(center world.ChunkID) {
	if m.genPool == nil {
		return
	}
	for _, c := range m.genPool.Drain() {
		delete(m.pending, c.ID())
		if c.ID().Chebyshev(center) > m.radius+1 {
			continue
		}
		if m.Insert(c) {
			m.stats.Generated++
			m.metrics.ChunkGenerated()
		}
	}
}

// Refresh makes anchor's chunk the current one and evicts every chunk farther
// than the streaming radius from it. Hosts call it after a discontinuous anchor
// move such as a respawn.
func (m *Manager) Refresh(anchor mgl32.Vec3) {
	center := world.BlockCoordAt(anchor).ChunkID()
	m.lastAnchor = center
	m.hasAnchor = true
	m.evictBeyond(center, m.radius)
}

func (m *Manager) evictBeyond(center world.ChunkID, dist int) {
	for id := range m.chunks {
		if id.Chebyshev(center) > dist {
			m.Evict(id)
		}
	}
}

// Evict releases the chunk's render resource, saves it if it was modified,
// and drops it from the map. Evicting an absent id is a no-op.
func (m *Manager) Evict(id world.ChunkID) {
	c := m.chunks[id]
	if c == nil {
		return
	}
	if h, ok := c.ReleaseHandle(); ok {
		m.pool.Release(h)
	}
	if m.store != nil && c.Modified() {
		if err := m.store.Save(c); err != nil {
			log.Printf("Chunk %v: save on evict failed: %v", id, err)
		}
	}
	delete(m.chunks, id)
	m.stats.Evicted++
	m.metrics.ChunkEvicted()
	m.metrics.SetResident(len(m.chunks))
}

// Raycast casts against the resident chunks; unloaded space reads as Air.
func (m *Manager) Raycast(origin, direction mgl32.Vec3, maxDistance float32) (physics.Result, bool) {
	return physics.Raycast(m, origin, direction, maxDistance)
}

// PlacementPosition returns the voxel in front of the struck face.
func (m *Manager) PlacementPosition(r physics.Result) world.BlockCoord {
	return r.PlacementPosition()
}

// PickSpawnPoint returns a position just above the terrain at the origin column.
func (m *Manager) PickSpawnPoint() mgl32.Vec3 {
	return m.gen.PickSpawnPoint()
}

// Close stops background generation and saves every modified chunk.
func (m *Manager) Close() error {
	if m.genPool != nil {
		m.genPool.Shutdown()
		clear(m.pending)
	}
	if m.store == nil {
		return nil
	}
	var errs []error
	for _, id := range m.Chunks() {
		c := m.chunks[id]
		if !c.Modified() {
			continue
		}
		if err := m.store.Save(c); err != nil {
			errs = append(errs, fmt.Errorf("chunk %v: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
