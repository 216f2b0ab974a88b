package query

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type Option func(*options)

type options struct {
	timeout time.Duration
	logger  *slog.Logger
}

func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

type Query[T any] struct {
	endpoint string
	fetch    Fetcher[T]
	opts     options

	mu       sync.Mutex
	cache    *Cache[T]
	key      int
	bound    bool
	seq      uint64
	closed   bool
	onChange func()

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New[T any](endpoint string, fetch Fetcher[T], opts ...Option) *Query[T] {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Query[T]{
		endpoint: endpoint,
		fetch:    fetch,
		opts:     o,
		cache:    NewCache[T](),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// OnChange registers fn to run after a response has been applied. It runs
// outside the query's lock.
func (q *Query[T]) OnChange(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.onChange = fn
}

// SetKey binds the query to key and reports whether a request was issued.
// Keys that already hold an in-flight or settled entry are not fetched again.
func (q *Query[T]) SetKey(key int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.key = key
	q.bound = true

	if s, ok := q.cache.Get(q.cacheKey(key)); ok && (s.IsLoading || s.Settled()) {
		return false
	}

	q.issue(key, false)
	return true
}

// Refetch issues a new request for the bound key. A request already in flight
// for the key is superseded and its response discarded.
func (q *Query[T]) Refetch() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || !q.bound {
		return false
	}

	q.issue(q.key, true)
	return true
}

func (q *Query[T]) State() State[T] {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.bound {
		return State[T]{}
	}

	s, _ := q.cache.Get(q.cacheKey(q.key))
	return s
}

func (q *Query[T]) Key() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.key
}

func (q *Query[T]) Endpoint() string {
	return q.endpoint
}

// Close cancels outstanding requests and waits for their goroutines to exit.
// No state changes and no OnChange calls happen once Close returns.
func (q *Query[T]) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.onChange = nil
	q.mu.Unlock()

	q.cancel()
	q.wg.Wait()
}

func (q *Query[T]) cacheKey(key int) CacheKey {
	return CacheKey{Endpoint: q.endpoint, Key: key}
}

// issue must be called with q.mu held.
func (q *Query[T]) issue(key int, refetch bool) {
	e := q.cache.slot(q.cacheKey(key))
	if e.cancel != nil {
		e.cancel()
	}

	q.seq++
	seq := q.seq
	e.seq = seq
	e.state.IsLoading = true

	var ctx context.Context
	var cancel context.CancelFunc
	if q.opts.timeout > 0 {
		ctx, cancel = context.WithTimeout(q.ctx, q.opts.timeout)
	} else {
		ctx, cancel = context.WithCancel(q.ctx)
	}
	e.cancel = cancel
	if refetch {
		ctx = withRefetch(ctx)
	}

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		defer cancel()

		data, err := q.run(ctx, key)
		q.apply(key, seq, data, err)
	}()
}

func (q *Query[T]) run(ctx context.Context, key int) (data []T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("fetch %s key %d panicked: %v", q.endpoint, key, rec)
		}
	}()

	data, err = q.fetch(ctx, key)
	if err == nil && data == nil {
		data = []T{}
	}
	return data, err
}

func (q *Query[T]) apply(key int, seq uint64, data []T, err error) {
	q.mu.Lock()

	if q.closed {
		q.mu.Unlock()
		return
	}

	e := q.cache.slot(q.cacheKey(key))
	if e.seq != seq {
		q.mu.Unlock()
		q.opts.logger.Debug("discarding superseded response",
			slog.String("endpoint", q.endpoint), slog.Int("key", key), slog.Uint64("seq", seq))
		return
	}

	e.cancel = nil
	if err != nil {
		q.opts.logger.Error(fmt.Sprintf("Error occured: %s", err.Error()),
			slog.String("endpoint", q.endpoint), slog.Int("key", key))
		e.state = State[T]{Key: key, Err: err}
	} else {
		e.state = State[T]{Key: key, Data: data}
	}

	fn := q.onChange
	q.mu.Unlock()

	if fn != nil {
		fn()
	}
}
