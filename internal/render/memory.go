package render

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Resource is the state a MemoryPool keeps per handle.
type Resource struct {
	Position  mgl32.Vec3
	Vertices  []mgl32.Vec3
	UVs       []mgl32.Vec2
	Buckets   [][]uint32
	Updates   int
	Materials []any
}

// Triangles returns the triangle count across all buckets.
func (r Resource) Triangles() int {
	n := 0
	for _, b := range r.Buckets {
		n += len(b) / 3
	}
	return n
}

// MemoryPool is a headless ResourcePool that keeps geometry in memory.
// It backs the simulator and tests.
type MemoryPool struct {
	mu        sync.Mutex
	next      Handle
	resources map[Handle]*Resource
	materials []any

	allocs   int
	releases int
}

// NewMemoryPool creates a pool whose resources report the given per-bucket materials.
func NewMemoryPool(materials []any) *MemoryPool {
	return &MemoryPool{
		resources: make(map[Handle]*Resource),
		materials: materials,
	}
}

func (p *MemoryPool) Allocate() Handle {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next++
	p.resources[p.next] = &Resource{Materials: p.materials}
	p.allocs++
	return p.next
}

func (p *MemoryPool) Update(h Handle, vertices []mgl32.Vec3, uvs []mgl32.Vec2, buckets [][]uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.resources[h]
	if !ok {
		return
	}
	r.Vertices = vertices
	r.UVs = uvs
	r.Buckets = buckets
	r.Updates++
}

func (p *MemoryPool) Release(h Handle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.resources[h]; ok {
		delete(p.resources, h)
		p.releases++
	}
}

func (p *MemoryPool) SetWorldPosition(h Handle, pos mgl32.Vec3) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if r, ok := p.resources[h]; ok {
		r.Position = pos
	}
}

// Get returns a copy of the resource behind h.
func (p *MemoryPool) Get(h Handle) (Resource, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.resources[h]
	if !ok {
		return Resource{}, false
	}
	return *r, true
}

// Live returns the number of allocated, unreleased resources.
func (p *MemoryPool) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.resources)
}

// Counts returns the total Allocate and Release calls seen.
func (p *MemoryPool) Counts() (allocs, releases int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.allocs, p.releases
}
