// Package prometheus provides a Prometheus-based stats collector.
package prometheus

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/50shades0fGraei/cypher/internal/stats"
)

// Collector implements stats.Collector using Prometheus metrics.
type Collector struct {
	registry  prometheus.Registerer
	namespace string
	buckets   []float64

	mu         sync.RWMutex
	counters   map[string]prometheus.Counter
	gauges     map[string]prometheus.Gauge
	histograms map[string]prometheus.Histogram
}

// Compile-time check that Collector implements stats.Collector.
var _ stats.Collector = (*Collector)(nil)

// Option configures a Collector.
type Option func(*Collector)

// WithNamespace prefixes every metric name with namespace and an underscore.
func WithNamespace(namespace string) Option {
	return func(c *Collector) {
		c.namespace = namespace
	}
}

// WithBuckets sets the histogram buckets. Default is prometheus.DefBuckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Collector) {
		c.buckets = buckets
	}
}

// New creates a new Prometheus collector.
// If registry is nil, prometheus.DefaultRegisterer is used.
func New(registry prometheus.Registerer, opts ...Option) *Collector {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	c := &Collector{
		registry:   registry,
		buckets:    prometheus.DefBuckets,
		counters:   make(map[string]prometheus.Counter),
		gauges:     make(map[string]prometheus.Gauge),
		histograms: make(map[string]prometheus.Histogram),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IncCounter increments a counter metric.
func (c *Collector) IncCounter(name string, delta int64) {
	counter := getOrCreate(c, c.counters, name, func() prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: c.namespace,
			Name:      name,
			Help:      name,
		})
	})
	counter.Add(float64(delta))
}

// SetGauge sets a gauge metric.
func (c *Collector) SetGauge(name string, value int64) {
	gauge := getOrCreate(c, c.gauges, name, func() prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: c.namespace,
			Name:      name,
			Help:      name,
		})
	})
	gauge.Set(float64(value))
}

// ObserveHistogram records a value in a histogram.
func (c *Collector) ObserveHistogram(name string, value float64) {
	histogram := getOrCreate(c, c.histograms, name, func() prometheus.Histogram {
		return prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: c.namespace,
			Name:      name,
			Help:      name,
			Buckets:   c.buckets,
		})
	})
	histogram.Observe(value)
}

// getOrCreate returns the cached metric for name, registering a new one on
// first use. A metric already registered elsewhere under the same name is
// reused.
func getOrCreate[M prometheus.Collector](c *Collector, cache map[string]M, name string, create func() M) M {
	c.mu.RLock()
	m, ok := cache[name]
	c.mu.RUnlock()
	if ok {
		return m
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock.
	if m, ok = cache[name]; ok {
		return m
	}

	m = create()
	if err := c.registry.Register(m); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(M); ok {
				m = existing
			}
		}
		// Otherwise the unregistered metric still works, it just isn't exported.
	}
	cache[name] = m
	return m
}
