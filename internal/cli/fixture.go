package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixbrock/catalogview/internal/fixture"
)

func fixtureCmd() *cobra.Command {
	var (
		addr     string
		dsn      string
		seedPath string
	)

	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Serve a local products API for the products screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed := fixture.DefaultSeed
			if seedPath != "" {
				data, err := os.ReadFile(seedPath)
				if err != nil {
					return err
				}
				seed = data
			}

			products, err := fixture.LoadSeed(seed)
			if err != nil {
				return err
			}

			store, err := fixture.Open(dsn, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					logger.Error(fmt.Sprintf("Error occured: %s", err.Error()))
				}
			}()

			if err := store.Seed(cmd.Context(), products); err != nil {
				return err
			}

			srv := &http.Server{Addr: addr, Handler: fixture.Handler{Store: store}.Routes(), ReadHeaderTimeout: 10 * time.Second}
			return listen(cmd.Context(), srv)
		},
	}

	f := cmd.Flags()
	f.StringVar(&addr, "addr", envOr("FIXTURE_ADDR", ":3001"), "listen address")
	f.StringVar(&dsn, "db", envOr("FIXTURE_DB", "file::memory:?cache=shared"), "sqlite DSN")
	f.StringVar(&seedPath, "seed", envOr("FIXTURE_SEED", ""), "YAML seed file (embedded seed when empty)")

	return cmd
}

func listen(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Fixture API running on %s...", srv.Addr))
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
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
