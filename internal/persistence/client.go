package persistence

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/felixbrock/catalogview/internal/query"
)

// Client issues outbound requests for the repos. Identical concurrent GETs
// share one round trip, which is cancelled once every caller waiting on it
// has gone away.
type Client struct {
	HTTP    *http.Client
	Limiter *rate.Limiter

	group singleflight.Group
	mu    sync.Mutex
	calls map[string]*flight
}

// flight is the context shared by the callers of one coalesced GET.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

func NewClient(httpClient *http.Client, perSecond float64, burst int) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}

	return &Client{HTTP: httpClient, Limiter: rate.NewLimiter(limit, burst)}
}

func (c *Client) do(ctx context.Context, config reqConfig, expectedResCode int) ([]byte, error) {
	if config.Method != http.MethodGet || config.Body != nil || query.Refetching(ctx) {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		return send(ctx, c.HTTP, config, expectedResCode)
	}

	key := flightKey(config, expectedResCode)
	ch := c.join(ctx, key, config, expectedResCode)
	defer c.leave(key)

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrTransport, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// join registers the caller as a waiter on key and returns the channel the
// shared result is delivered on.
func (c *Client) join(ctx context.Context, key string, config reqConfig, expectedResCode int) <-chan singleflight.Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.calls == nil {
		c.calls = make(map[string]*flight)
	}

	f, ok := c.calls[key]
	if !ok {
		shared, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: shared, cancel: cancel}
		c.calls[key] = f
	}
	f.waiters++

	shared := f.ctx
	return c.group.DoChan(key, func() (any, error) {
		if err := c.wait(shared); err != nil {
			return nil, err
		}
		return send(shared, c.HTTP, config, expectedResCode)
	})
}

// leave drops one waiter from key. The last one out cancels the round trip
// and forgets it, so a later caller starts a fresh request.
func (c *Client) leave(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, ok := c.calls[key]
	if !ok {
		return
	}
	f.waiters--
	if f.waiters > 0 {
		return
	}

	f.cancel()
	delete(c.calls, key)
	c.group.Forget(key)
}

func (c *Client) wait(ctx context.Context) error {
	if c.Limiter == nil {
		return nil
	}
	if err := c.Limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return nil
}

func flightKey(config reqConfig, expectedResCode int) string {
	return fmt.Sprintf("%s %s %d\n%s", config.Method, config.target(), expectedResCode, strings.Join(config.Headers, "\n"))
}
