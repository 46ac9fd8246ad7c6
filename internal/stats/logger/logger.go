// Package logger provides a zap-based stats collector that logs metrics
// and keeps running totals for end-of-run reports.
package logger

import (
	"sync"

	"go.uber.org/zap"

	"github.com/50shades0fGraei/cypher/internal/stats"
)

// Collector implements stats.Collector by logging metrics via zap.
type Collector struct {
	logger *zap.Logger

	mu         sync.Mutex
	counters   map[string]int64
	gauges     map[string]int64
	histograms map[string]Summary
}

// Summary aggregates the observations of one histogram.
type Summary struct {
	Count int64
	Sum   float64
	Min   float64
	Max   float64
}

// Mean returns the average observation, or 0 when there are none.
func (s Summary) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

// Snapshot is a point-in-time copy of every metric seen so far.
type Snapshot struct {
	Counters   map[string]int64
	Gauges     map[string]int64
	Histograms map[string]Summary
}

// Compile-time check that Collector implements stats.Collector.
var _ stats.Collector = (*Collector)(nil)

// New creates a new logger-based collector.
// If logger is nil, a no-op logger is used.
func New(logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		logger:     logger,
		counters:   make(map[string]int64),
		gauges:     make(map[string]int64),
		histograms: make(map[string]Summary),
	}
}

// IncCounter logs a counter increment.
func (c *Collector) IncCounter(name string, delta int64) {
	c.mu.Lock()
	c.counters[name] += delta
	total := c.counters[name]
	c.mu.Unlock()

	c.logger.Debug("counter",
		zap.String("metric", name),
		zap.Int64("delta", delta),
		zap.Int64("total", total),
	)
}

// SetGauge logs a gauge value.
func (c *Collector) SetGauge(name string, value int64) {
	c.mu.Lock()
	c.gauges[name] = value
	c.mu.Unlock()

	c.logger.Debug("gauge",
		zap.String("metric", name),
		zap.Int64("value", value),
	)
}

// ObserveHistogram logs a histogram observation.
func (c *Collector) ObserveHistogram(name string, value float64) {
	c.mu.Lock()
	s, ok := c.histograms[name]
	if !ok || value < s.Min {
		s.Min = value
	}
	if !ok || value > s.Max {
		s.Max = value
	}
	s.Count++
	s.Sum += value
	c.histograms[name] = s
	c.mu.Unlock()

	c.logger.Debug("histogram",
		zap.String("metric", name),
		zap.Float64("value", value),
	)
}

// Snapshot returns a copy of the running totals.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Counters:   make(map[string]int64, len(c.counters)),
		Gauges:     make(map[string]int64, len(c.gauges)),
		Histograms: make(map[string]Summary, len(c.histograms)),
	}
	for k, v := range c.counters {
		snap.Counters[k] = v
	}
	for k, v := range c.gauges {
		snap.Gauges[k] = v
	}
	for k, v := range c.histograms {
		snap.Histograms[k] = v
	}
	return snap
}
