// internal/cache/store.go
package cache

import "sync"

// Store is the key-value table behind a ResponseCache. Implementations decide
// the eviction policy and must be safe for concurrent use.
type Store interface {
	Get(key string) (string, bool)
	Put(key, value string)
	Len() int
}

// New returns a bounded LRU store for size > 0 and an unbounded one otherwise.
func New(size int) (Store, error) {
	if size <= 0 {
		return NewUnbounded(), nil
	}
	return NewLRU(size)
}

// Unbounded never evicts.
type Unbounded struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewUnbounded() *Unbounded {
	return &Unbounded{items: make(map[string]string)}
}

func (u *Unbounded) Get(key string) (string, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	v, ok := u.items[key]
	return v, ok
}

func (u *Unbounded) Put(key, value string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.items[key] = value
}

func (u *Unbounded) Len() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.items)
}
