package query

import "context"

type Fetcher[T any] func(ctx context.Context, key int) ([]T, error)

// State is the loading / error / data triple for one key. Data is nil unless
// the last request for the key succeeded.
type State[T any] struct {
	Key       int
	Data      []T
	IsLoading bool
	Err       error
}

func (s State[T]) Settled() bool {
	return !s.IsLoading && (s.Data != nil || s.Err != nil)
}

type CacheKey struct {
	Endpoint string
	Key      int
}

type entry[T any] struct {
	state  State[T]
	seq    uint64
	cancel context.CancelFunc
}

// Cache is owned by a single Query and is not safe for use on its own.
type Cache[T any] struct {
	entries map[CacheKey]*entry[T]
}

func NewCache[T any]() *Cache[T] {
	return &Cache[T]{entries: make(map[CacheKey]*entry[T])}
}

func (c *Cache[T]) Get(k CacheKey) (State[T], bool) {
	e, ok := c.entries[k]
	if !ok {
		return State[T]{}, false
	}
	return e.state, true
}

func (c *Cache[T]) Len() int {
	return len(c.entries)
}

func (c *Cache[T]) slot(k CacheKey) *entry[T] {
	e, ok := c.entries[k]
	if !ok {
		e = &entry[T]{state: State[T]{Key: k.Key}}
		c.entries[k] = e
	}
	return e
}
