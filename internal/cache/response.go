// internal/cache/response.go
package cache

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Stats reports cache performance.
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// ResponseCache memoizes generated narratives by the exact text that produced them.
type ResponseCache struct {
	store  Store
	flight singleflight.Group
	hits   atomic.Int64
	misses atomic.Int64
}

func NewResponseCache(store Store) *ResponseCache {
	return &ResponseCache{store: store}
}

type flightResult struct {
	text      string
	fromStore bool
}

// GetOrGenerate returns the cached text for key or calls generate and stores
// its result. Concurrent misses for the same key share one generate call.
// Errors are returned to every waiter and nothing is stored.
// Each call counts as exactly one hit or one miss.
func (c *ResponseCache) GetOrGenerate(ctx context.Context, key string, generate func(context.Context) (string, error)) (text string, cached bool, err error) {
	if v, ok := c.store.Get(key); ok {
		c.hits.Add(1)
		return v, true, nil
	}

	v, err, _ := c.flight.Do(key, func() (interface{}, error) {
		// Another flight may have filled the key between our lookup and Do.
		if v, ok := c.store.Get(key); ok {
			return flightResult{text: v, fromStore: true}, nil
		}
		out, err := generate(ctx)
		if err != nil {
			return nil, err
		}
		c.store.Put(key, out)
		return flightResult{text: out}, nil
	})
	if err != nil {
		c.misses.Add(1)
		return "", false, err
	}

	res := v.(flightResult)
	if res.fromStore {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return res.text, res.fromStore, nil
}

func (c *ResponseCache) Stats() Stats {
	return Stats{
		Entries: c.store.Len(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}
