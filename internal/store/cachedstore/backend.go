// Package cachedstore keeps recently read archive chunks and dictionary
// objects in a cache in front of a slower Store.
package cachedstore

// Backend holds cached objects by store key.
type Backend interface {
	// Get returns the cached bytes for key. Callers must not modify them.
	Get(key string) ([]byte, bool)

	// Set caches data for key, possibly evicting other keys.
	Set(key string, data []byte)

	// Delete drops key from the cache.
	Delete(key string)

	// Stats returns cache statistics.
	Stats() Stats
}

// Stats contains cache statistics.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int // Cached objects.
}

// HitRate returns the cache hit rate as a percentage.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}
