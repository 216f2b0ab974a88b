package view

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixbrock/catalogview/internal/domain"
)

type fakeProducts struct {
	mu      sync.Mutex
	pages   []int
	err     error
	block   chan struct{}
	started chan int
}

func (f *fakeProducts) List(ctx context.Context, page int) ([]domain.Product, error) {
	f.mu.Lock()
	f.pages = append(f.pages, page)
	block, err := f.block, f.err
	f.mu.Unlock()

	if f.started != nil {
		f.started <- page
	}
	if block != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-block:
		}
	}
	if err != nil {
		return nil, err
	}
	return []domain.Product{{Id: page*100 + 1, Name: "Widget", Price: 9.5}}, nil
}

func (f *fakeProducts) calls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.pages...)
}

type fakeUsers struct {
	users []domain.User
}

func (f fakeUsers) List(ctx context.Context) ([]domain.User, error) {
	return f.users, nil
}

func render(t *testing.T, v View) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, v.Render().Render(context.Background(), &buf))
	return buf.String()
}

func TestProductListPaging(t *testing.T) {
	repo := &fakeProducts{}
	v := NewProductList(repo)
	defer v.Close()

	require.Eventually(t, func() bool { return v.State().Settled() }, time.Second, time.Millisecond)
	assert.Equal(t, 1, v.Page())
	assert.Equal(t, []int{1}, repo.calls())

	assert.Equal(t, 2, v.Next())
	require.Eventually(t, func() bool { return v.State().Settled() && v.State().Key == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, []int{1, 2}, repo.calls())
	assert.Equal(t, 201, v.State().Data[0].Id)

	out := render(t, v)
	assert.Contains(t, out, `data-row-key="201"`)
	assert.Contains(t, out, `data-page="2"`)
	assert.Contains(t, out, "$9.5")
}

func TestProductListRenderSeesMatchingPageAndState(t *testing.T) {
	v := NewProductList(&fakeProducts{})
	defer v.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			v.Next()
		}
	}()

	for {
		state, page := v.snapshot()
		require.Equal(t, page, state.Key)
		select {
		case <-done:
			return
		default:
		}
	}
}

func TestProductListError(t *testing.T) {
	repo := &fakeProducts{err: errors.New("unexpected response status code error")}
	v := NewProductList(repo)
	defer v.Close()

	require.Eventually(t, func() bool { return v.State().Settled() }, time.Second, time.Millisecond)
	out := render(t, v)
	assert.Contains(t, out, "Error: unexpected response status code error")
	assert.NotContains(t, out, "data-row-key")
}

func TestUserList(t *testing.T) {
	v := NewUserList(fakeUsers{users: []domain.User{{Id: 1, Name: "Leanne Graham"}}})
	defer v.Close()

	require.Eventually(t, func() bool { return v.State().Settled() }, time.Second, time.Millisecond)
	assert.Contains(t, render(t, v), "Leanne Graham")
	assert.True(t, v.Refresh())
}

func TestRegistryUnmountWithOutstandingRequest(t *testing.T) {
	repo := &fakeProducts{block: make(chan struct{}), started: make(chan int, 1)}
	reg := NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))

	v := NewProductList(repo)
	changed := false
	v.OnChange(func() { changed = true })
	id := reg.Mount(v)
	<-repo.started

	got, ok := Lookup[*ProductList](reg, id)
	require.True(t, ok)
	assert.Same(t, v, got)

	_, ok = Lookup[*UserList](reg, id)
	assert.False(t, ok)

	assert.NotPanics(t, func() { assert.True(t, reg.Unmount(id)) })
	close(repo.block)
	time.Sleep(10 * time.Millisecond)

	assert.True(t, v.State().IsLoading)
	assert.False(t, changed)
	assert.False(t, reg.Unmount(id))
	_, ok = reg.Get(id)
	assert.False(t, ok)
}

func TestRegistrySweep(t *testing.T) {
	reg := NewRegistry(nil)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }

	stale := NewUserList(fakeUsers{})
	fresh := NewUserList(fakeUsers{})
	reg.Mount(stale)
	reg.Mount(fresh)

	now = now.Add(10 * time.Minute)
	_, ok := reg.Get(fresh.Id())
	require.True(t, ok)

	now = now.Add(time.Minute)
	assert.Equal(t, 1, reg.Sweep(5*time.Minute))
	assert.Equal(t, 1, reg.Len())
	_, ok = reg.Get(stale.Id())
	assert.False(t, ok)

	reg.Close()
	assert.Equal(t, 0, reg.Len())
}

func TestViewsAreIsolated(t *testing.T) {
	bad := NewProductList(&fakeProducts{err: errors.New("boom")})
	good := NewProductList(&fakeProducts{})
	defer bad.Close()
	defer good.Close()

	require.Eventually(t, func() bool { return bad.State().Settled() && good.State().Settled() }, time.Second, time.Millisecond)
	assert.Error(t, bad.State().Err)
	assert.NoError(t, good.State().Err)
	assert.NotEqual(t, bad.Id(), good.Id())
}
