package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "voxel"

// Metrics holds the streaming counters of one chunk manager. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	Generated   prometheus.Counter
	Loaded      prometheus.Counter
	Evicted     prometheus.Counter
	MeshesBuilt prometheus.Counter
	Truncations prometheus.Counter
	Resident    prometheus.Gauge
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which is what tests usually want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Generated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_generated_total",
			Help:      "Chunks produced by the terrain generator.",
		}),
		Loaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_loaded_total",
			Help:      "Chunks restored from the chunk store.",
		}),
		Evicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_evicted_total",
			Help:      "Chunks removed from the resident set.",
		}),
		MeshesBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meshes_built_total",
			Help:      "Successful chunk mesh builds, rebuilds included.",
		}),
		Truncations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mesh_truncations_total",
			Help:      "Meshes cut short at the vertex limit.",
		}),
		Resident: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chunks_resident",
			Help:      "Chunks currently held in memory.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Generated, m.Loaded, m.Evicted, m.MeshesBuilt, m.Truncations, m.Resident)
	}
	return m
}

func (m *Metrics) ChunkGenerated() {
	if m != nil {
		m.Generated.Inc()
	}
}

func (m *Metrics) ChunkLoaded() {
	if m != nil {
		m.Loaded.Inc()
	}
}

func (m *Metrics) ChunkEvicted() {
	if m != nil {
		m.Evicted.Inc()
	}
}

// MeshBuilt records one mesh build and whether it hit the vertex limit.
func (m *Metrics) MeshBuilt(truncated bool) {
	if m == nil {
		return
	}
	m.MeshesBuilt.Inc()
	if truncated {
		m.Truncations.Inc()
	}
}

// SetResident updates the resident chunk gauge.
func (m *Metrics) SetResident(n int) {
	if m != nil {
		m.Resident.Set(float64(n))
	}
}
