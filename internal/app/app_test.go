package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixbrock/catalogview/internal/domain"
	"github.com/felixbrock/catalogview/internal/view"
)

type stubProducts struct {
	mu    sync.Mutex
	pages []int
	err   error
}

func (s *stubProducts) List(ctx context.Context, page int) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = append(s.pages, page)
	if s.err != nil {
		return nil, s.err
	}
	return []domain.Product{{Id: 7, Name: "Widget", Price: 9.5}}, nil
}

func (s *stubProducts) calls() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.pages...)
}

type stubUsers struct{}

func (stubUsers) List(ctx context.Context) ([]domain.User, error) {
	return []domain.User{{Id: 1, Name: "Leanne Graham"}}, nil
}

var viewIdPattern = regexp.MustCompile(`id="view-([0-9a-f-]+)"`)

func newTestApp(products ProductRepo) (App, *httptest.Server) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := App{
		ProductRepo: products,
		UserRepo:    stubUsers{},
		Views:       view.NewRegistry(logger),
		Config:      Config{FetchTimeout: time.Second},
		Logger:      logger,
	}
	return a, httptest.NewServer(a.Routes())
}

func do(t *testing.T, method string, url string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func mountedId(t *testing.T, body string) string {
	t.Helper()
	m := viewIdPattern.FindStringSubmatch(body)
	require.Len(t, m, 2, body)
	return m[1]
}

func awaitSettled(t *testing.T, srv *httptest.Server, id string) string {
	t.Helper()
	var body string
	require.Eventually(t, func() bool {
		_, body = do(t, http.MethodGet, srv.URL+"/views/"+id)
		return !regexp.MustCompile(`class="spin"`).MatchString(body)
	}, time.Second, 5*time.Millisecond)
	return body
}

func TestIndex(t *testing.T) {
	_, srv := newTestApp(&stubProducts{})
	defer srv.Close()

	code, body := do(t, http.MethodGet, srv.URL+"/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Welcome to my app! Alice")
	assert.Contains(t, body, "This is inside a card 2!")
}

func TestProductsFlow(t *testing.T) {
	products := &stubProducts{}
	a, srv := newTestApp(products)
	defer srv.Close()
	defer a.Views.Close()

	code, body := do(t, http.MethodGet, srv.URL+"/products")
	require.Equal(t, http.StatusOK, code)
	id := mountedId(t, body)

	body = awaitSettled(t, srv, id)
	assert.Contains(t, body, `data-row-key="7"`)
	assert.Contains(t, body, "$9.5")
	assert.Contains(t, body, "Load More")

	code, body = do(t, http.MethodPost, srv.URL+"/views/"+id+"/next")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `data-page="2"`)

	awaitSettled(t, srv, id)
	assert.Equal(t, []int{1, 2}, products.calls())

	code, _ = do(t, http.MethodDelete, srv.URL+"/views/"+id)
	assert.Equal(t, http.StatusNoContent, code)
	assert.Equal(t, 0, a.Views.Len())

	code, body = do(t, http.MethodGet, srv.URL+"/views/"+id)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, body, "no longer mounted")

	code, _ = do(t, http.MethodDelete, srv.URL+"/views/"+id)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestProductsError(t *testing.T) {
	_, srv := newTestApp(&stubProducts{err: errors.New("unexpected response status code error")})
	defer srv.Close()

	_, body := do(t, http.MethodGet, srv.URL+"/products")
	body = awaitSettled(t, srv, mountedId(t, body))
	assert.Contains(t, body, "Error: unexpected response status code error")
	assert.NotContains(t, body, "data-row-key")
}

func TestUsersFlow(t *testing.T) {
	a, srv := newTestApp(&stubProducts{})
	defer srv.Close()
	defer a.Views.Close()

	_, body := do(t, http.MethodGet, srv.URL+"/users")
	id := mountedId(t, body)
	body = awaitSettled(t, srv, id)
	assert.Contains(t, body, "Leanne Graham")

	code, _ := do(t, http.MethodPost, srv.URL+"/views/"+id+"/refresh")
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, http.MethodPost, srv.URL+"/views/"+id+"/next")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestStartStopsOnCancel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := App{
		ProductRepo: &stubProducts{},
		UserRepo:    stubUsers{},
		Views:       view.NewRegistry(logger),
		Config:      Config{Port: "0", ViewIdle: time.Minute},
		Logger:      logger,
	}
	a.Views.Mount(view.NewUserList(stubUsers{}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Start(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return")
	}
	assert.Equal(t, 0, a.Views.Len())
}

func TestHtmxErrorsRenderAsSwappable(t *testing.T) {
	_, srv := newTestApp(&stubProducts{})
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/views/missing", nil)
	require.NoError(t, err)
	req.Header.Set("HX-Request", "true")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `data-code="404"`)
}
