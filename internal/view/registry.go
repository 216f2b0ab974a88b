package view

import (
	"log/slog"
	"sync"
	"time"
)

type mounted struct {
	view    View
	touched time.Time
}

// Registry tracks mounted views by id. Views share nothing but the registry.
type Registry struct {
	logger *slog.Logger
	now    func() time.Time

	mu    sync.Mutex
	views map[string]*mounted
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger, now: time.Now, views: make(map[string]*mounted)}
}

func (r *Registry) Mount(v View) string {
	r.mu.Lock()
	r.views[v.Id()] = &mounted{view: v, touched: r.now()}
	r.mu.Unlock()

	r.logger.Debug("view mounted", slog.String("view", v.Id()))
	return v.Id()
}

func (r *Registry) Get(id string) (View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.views[id]
	if !ok {
		return nil, false
	}
	m.touched = r.now()
	return m.view, true
}

// Lookup returns the view mounted under id when it has type V.
func Lookup[V View](r *Registry, id string) (V, bool) {
	var zero V
	v, ok := r.Get(id)
	if !ok {
		return zero, false
	}
	typed, ok := v.(V)
	return typed, ok
}

// Unmount removes the view and cancels its outstanding requests.
func (r *Registry) Unmount(id string) bool {
	r.mu.Lock()
	m, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()

	if !ok {
		return false
	}

	m.view.Close()
	r.logger.Debug("view unmounted", slog.String("view", id))
	return true
}

// Sweep unmounts views that have not been requested for maxIdle.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	var idle []string
	for id, m := range r.views {
		if m.touched.Before(cutoff) {
			idle = append(idle, id)
		}
	}
	r.mu.Unlock()

	n := 0
	for _, id := range idle {
		if r.Unmount(id) {
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

func (r *Registry) Close() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.views))
	for id := range r.views {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		r.Unmount(id)
	}
}
