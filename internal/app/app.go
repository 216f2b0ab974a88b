package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixbrock/catalogview/internal/domain"
	"github.com/felixbrock/catalogview/internal/query"
	"github.com/felixbrock/catalogview/internal/view"
)

type ProductRepo interface {
	List(ctx context.Context, page int) ([]domain.Product, error)
}

type UserRepo interface {
	List(ctx context.Context) ([]domain.User, error)
}

type App struct {
	ProductRepo ProductRepo
	UserRepo    UserRepo
	Views       *view.Registry
	Config      Config
	Logger      *slog.Logger
}

func (a App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

func (a App) queryOpts() []query.Option {
	opts := []query.Option{query.WithLogger(a.logger())}
	if a.Config.FetchTimeout > 0 {
		opts = append(opts, query.WithTimeout(a.Config.FetchTimeout))
	}
	return opts
}

func (a App) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /{$}", ComponentHandler(a.index))
	mux.Handle("GET /products", ComponentHandler(a.products))
	mux.Handle("GET /users", ComponentHandler(a.users))
	mux.Handle("GET /views/{id}", ComponentHandler(a.renderView))
	mux.Handle("POST /views/{id}/next", ComponentHandler(a.nextPage))
	mux.Handle("POST /views/{id}/refresh", ComponentHandler(a.refresh))
	mux.Handle("DELETE /views/{id}", AppHandler(a.unmount))

	return mux
}

// Start serves until ctx is cancelled, then shuts the server down and
// unmounts every view.
func (a App) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", a.Config.Port),
		Handler:           a.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	defer a.Views.Close()

	if a.Config.ViewIdle > 0 {
		go a.sweep(ctx, a.Config.ViewIdle)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger().Info(fmt.Sprintf("App running on %s...", a.Config.Port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a App) sweep(ctx context.Context, maxIdle time.Duration) {
	ticker := time.NewTicker(maxIdle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.Views.Sweep(maxIdle); n > 0 {
				a.logger().Info("unmounted idle views", slog.Int("count", n))
			}
		}
	}
}
