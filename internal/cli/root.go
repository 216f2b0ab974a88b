package cli

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *slog.Logger
)

func envOr(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalogview",
		Short:         "Server-rendered product and user list screens",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", envBool("VERBOSE", false), "debug logging")

	root.AddCommand(serveCmd(), fixtureCmd())
	return root
}

func Execute(ctx context.Context) error {
	return NewRoot().ExecuteContext(ctx)
}
