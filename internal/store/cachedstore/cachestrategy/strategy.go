// Package cachestrategy defines how a cache backend picks objects to keep.
package cachestrategy

// Strategy stores objects by key and decides which ones to evict when full.
// Implementations must be safe for concurrent use.
type Strategy interface {
	Get(key string) ([]byte, bool)

	// Add stores value and reports whether another key was evicted.
	Add(key string, value []byte) bool

	// Remove drops key and reports whether it was present.
	Remove(key string) bool

	Len() int
}
