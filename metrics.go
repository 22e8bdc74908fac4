package strtree

import (
	"time"

	"github.com/rcrowley/go-metrics"
)

// Metrics collects statistics over the builds of one or more Builders.
type Metrics struct {
	Registry metrics.Registry

	Builds    metrics.Counter
	Failures  metrics.Counter
	BuildTime metrics.Timer
	Leaves    metrics.Histogram
	Nodes     metrics.Gauge
	Height    metrics.Gauge
}

// NewMetrics returns Metrics registered in a new registry.
func NewMetrics() *Metrics {
	r := metrics.NewRegistry()
	return &Metrics{
		Registry:  r,
		Builds:    metrics.NewRegisteredCounter("builds", r),
		Failures:  metrics.NewRegisteredCounter("build_failures", r),
		BuildTime: metrics.NewRegisteredTimer("build_time", r),
		Leaves:    metrics.NewRegisteredHistogram("build_leaves", r, metrics.NewUniformSample(1028)),
		Nodes:     metrics.NewRegisteredGauge("last_build_nodes", r),
		Height:    metrics.NewRegisteredGauge("last_build_height", r),
	}
}

func (m *Metrics) observe(t *Tree, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Builds.Inc(1)
	m.BuildTime.Update(elapsed)
	m.Leaves.Update(int64(t.Len()))
	m.Nodes.Update(int64(len(t.nodes)))
	m.Height.Update(int64(t.Height()))
}

func (m *Metrics) fail() {
	if m == nil {
		return
	}
	m.Failures.Inc(1)
}
