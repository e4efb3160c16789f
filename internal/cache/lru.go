// internal/cache/lru.go
package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRU keeps at most size entries and evicts the least recently read one.
type LRU struct {
	items *lru.Cache[string, string]
}

func NewLRU(size int) (*LRU, error) {
	items, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &LRU{items: items}, nil
}

func (l *LRU) Get(key string) (string, bool) {
	return l.items.Get(key)
}

func (l *LRU) Put(key, value string) {
	l.items.Add(key, value)
}

func (l *LRU) Len() int {
	return l.items.Len()
}
