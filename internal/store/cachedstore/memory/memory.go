// Package memory caches store objects in process memory.
package memory

import (
	"sync/atomic"

	"github.com/50shades0fGraei/cypher/internal/stats"
	"github.com/50shades0fGraei/cypher/internal/store/cachedstore"
	"github.com/50shades0fGraei/cypher/internal/store/cachedstore/cachestrategy"
)

var _ cachedstore.Backend = (*Backend)(nil)

// Backend counts hits, misses and evictions around a cachestrategy and
// reports them to a stats.Collector. Locking is left to the strategy.
type Backend struct {
	strategy  cachestrategy.Strategy
	collector stats.Collector

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// New returns a Backend over strategy. A nil collector discards metrics.
func New(strategy cachestrategy.Strategy, collector stats.Collector) *Backend {
	if collector == nil {
		collector = stats.NewNoop()
	}
	return &Backend{
		strategy:  strategy,
		collector: collector,
	}
}

func (b *Backend) Get(key string) ([]byte, bool) {
	if val, ok := b.strategy.Get(key); ok {
		b.hits.Add(1)
		b.collector.IncCounter(stats.MetricCacheHits, 1)
		return val, true
	}
	b.misses.Add(1)
	b.collector.IncCounter(stats.MetricCacheMisses, 1)
	return nil, false
}

func (b *Backend) Set(key string, data []byte) {
	if b.strategy.Add(key, data) {
		b.evictions.Add(1)
		b.collector.IncCounter(stats.MetricCacheEvictions, 1)
	}
	b.collector.SetGauge(stats.MetricCacheSize, int64(b.strategy.Len()))
}

func (b *Backend) Delete(key string) {
	if b.strategy.Remove(key) {
		b.collector.SetGauge(stats.MetricCacheSize, int64(b.strategy.Len()))
	}
}

func (b *Backend) Stats() cachedstore.Stats {
	return cachedstore.Stats{
		Hits:      b.hits.Load(),
		Misses:    b.misses.Load(),
		Evictions: b.evictions.Load(),
		Size:      b.strategy.Len(),
	}
}

// Len returns the number of cached objects.
func (b *Backend) Len() int {
	return b.strategy.Len()
}
