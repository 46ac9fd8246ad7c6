package memory

import (
	"testing"

	"github.com/50shades0fGraei/cypher/internal/stats"
	"github.com/50shades0fGraei/cypher/internal/stats/logger"
	"github.com/50shades0fGraei/cypher/internal/store/cachedstore/cachestrategy/lru"
)

const (
	keyA = "archives/a/00000.jsonl.zst"
	keyB = "archives/a/00001.jsonl.zst"
	keyC = "archives/a/00002.jsonl.zst"
)

func TestBackend_GetSet(t *testing.T) {
	strategy, err := lru.New(10)
	if err != nil {
		t.Fatalf("lru.New() error = %v", err)
	}
	b := New(strategy, nil)

	// Initially empty.
	if _, ok := b.Get(keyA); ok {
		t.Error("Get() should return false for missing key")
	}

	// Set and get.
	b.Set(keyA, []byte("hello"))
	data, ok := b.Get(keyA)
	if !ok {
		t.Error("Get() should return true after Set")
	}
	if string(data) != "hello" {
		t.Errorf("Get() = %q, want %q", data, "hello")
	}
}

func TestBackend_Stats(t *testing.T) {
	strategy, err := lru.New(10)
	if err != nil {
		t.Fatalf("lru.New() error = %v", err)
	}
	collector := logger.New(nil)
	b := New(strategy, collector)

	b.Set(keyA, []byte("data"))

	// Hit.
	b.Get(keyA)
	// Miss.
	b.Get(keyB)

	st := b.Stats()
	if st.Hits != 1 {
		t.Errorf("Stats().Hits = %d, want 1", st.Hits)
	}
	if st.Misses != 1 {
		t.Errorf("Stats().Misses = %d, want 1", st.Misses)
	}
	if st.Size != 1 {
		t.Errorf("Stats().Size = %d, want 1", st.Size)
	}

	snap := collector.Snapshot()
	if snap.Counters[stats.MetricCacheHits] != 1 || snap.Counters[stats.MetricCacheMisses] != 1 {
		t.Errorf("collector counters = %v, want one hit and one miss", snap.Counters)
	}
	if snap.Gauges[stats.MetricCacheSize] != 1 {
		t.Errorf("collector cache size = %d, want 1", snap.Gauges[stats.MetricCacheSize])
	}
}

func TestBackend_LRUEviction(t *testing.T) {
	strategy, err := lru.New(2) // Capacity of 2.
	if err != nil {
		t.Fatalf("lru.New() error = %v", err)
	}
	b := New(strategy, nil)

	b.Set(keyA, []byte("one"))
	b.Set(keyB, []byte("two"))
	b.Set(keyC, []byte("three")) // Should evict keyA.

	if _, ok := b.Get(keyA); ok {
		t.Error("Get(keyA) should return false after eviction")
	}
	if _, ok := b.Get(keyB); !ok {
		t.Error("Get(keyB) should return true")
	}
	if _, ok := b.Get(keyC); !ok {
		t.Error("Get(keyC) should return true")
	}
	if got := b.Stats().Evictions; got != 1 {
		t.Errorf("Stats().Evictions = %d, want 1", got)
	}
}

func TestBackend_Delete(t *testing.T) {
	strategy, err := lru.New(10)
	if err != nil {
		t.Fatalf("lru.New() error = %v", err)
	}
	collector := logger.New(nil)
	b := New(strategy, collector)

	b.Set(keyA, []byte("one"))
	b.Set(keyB, []byte("two"))
	b.Delete(keyA)
	b.Delete(keyC) // Missing keys are ignored.

	if _, ok := b.Get(keyA); ok {
		t.Error("Get(keyA) should return false after Delete")
	}
	if b.Len() != 1 {
		t.Errorf("Len() = %d, want 1", b.Len())
	}
	if got := collector.Snapshot().Gauges[stats.MetricCacheSize]; got != 1 {
		t.Errorf("collector cache size = %d, want 1", got)
	}
}

func TestLRU_InvalidCapacity(t *testing.T) {
	_, err := lru.New(0)
	if err == nil {
		t.Error("lru.New(0) should return error")
	}

	_, err = lru.New(-1)
	if err == nil {
		t.Error("lru.New(-1) should return error")
	}
}

// fakeStrategy is a simple strategy for testing injection.
type fakeStrategy struct {
	data map[string][]byte
}

func (s *fakeStrategy) Get(key string) ([]byte, bool) {
	v, ok := s.data[key]
	return v, ok
}

func (s *fakeStrategy) Add(key string, value []byte) bool {
	s.data[key] = value
	return false
}

func (s *fakeStrategy) Remove(key string) bool {
	_, ok := s.data[key]
	delete(s.data, key)
	return ok
}

func (s *fakeStrategy) Len() int {
	return len(s.data)
}

func TestBackend_InjectableStrategy(t *testing.T) {
	strategy := &fakeStrategy{data: make(map[string][]byte)}
	b := New(strategy, nil)

	b.Set(keyA, []byte("test"))
	data, ok := b.Get(keyA)
	if !ok || string(data) != "test" {
		t.Error("injectable strategy should work")
	}
}
