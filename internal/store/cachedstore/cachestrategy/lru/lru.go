// Package lru keeps the most recently used store objects.
package lru

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/50shades0fGraei/cypher/internal/store/cachedstore/cachestrategy"
)

var _ cachestrategy.Strategy = (*Strategy)(nil)

// Strategy evicts the least recently used key once capacity objects are
// cached. Capacity counts objects, not bytes: a chunk of chunk.Lines(1024)
// and a syllable list each take one slot.
type Strategy struct {
	cache *lru.Cache[string, []byte]
}

// New returns a Strategy holding at most capacity objects.
func New(capacity int) (*Strategy, error) {
	c, err := lru.New[string, []byte](capacity)
	if err != nil {
		return nil, err
	}
	return &Strategy{cache: c}, nil
}

func (s *Strategy) Get(key string) ([]byte, bool) {
	return s.cache.Get(key)
}

func (s *Strategy) Add(key string, value []byte) bool {
	return s.cache.Add(key, value)
}

func (s *Strategy) Remove(key string) bool {
	return s.cache.Remove(key)
}

func (s *Strategy) Len() int {
	return s.cache.Len()
}
