package cli

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/felixbrock/catalogview/internal/app"
	"github.com/felixbrock/catalogview/internal/persistence"
	"github.com/felixbrock/catalogview/internal/view"
)

func serveCmd() *cobra.Command {
	defaults := app.DefaultConfig()
	config := app.Config{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo, products and users screens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := persistence.NewClient(&http.Client{Timeout: config.FetchTimeout}, config.RateLimit, 5)

			a := app.App{
				ProductRepo: persistence.ProductRepo{Client: client, BaseUrl: config.ProductsUrl, SendPage: config.SendPage},
				UserRepo:    persistence.UserRepo{Client: client, BaseUrl: config.UsersUrl},
				Views:       view.NewRegistry(logger),
				Config:      config,
				Logger:      logger,
			}

			return a.Start(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.StringVar(&config.Port, "port", envOr("GOPORT", defaults.Port), "listen port")
	f.StringVar(&config.ProductsUrl, "products-url", envOr("PRODUCTS_URL", defaults.ProductsUrl), "base URL of the products endpoint")
	f.StringVar(&config.UsersUrl, "users-url", envOr("USERS_URL", defaults.UsersUrl), "base URL of the users endpoint")
	f.BoolVar(&config.SendPage, "send-page", envBool("SEND_PAGE", defaults.SendPage), "send the page counter as _page")
	f.DurationVar(&config.FetchTimeout, "fetch-timeout", envDuration("FETCH_TIMEOUT", defaults.FetchTimeout), "timeout per fetch")
	f.DurationVar(&config.ViewIdle, "view-idle", envDuration("VIEW_IDLE", defaults.ViewIdle), "unmount views idle this long (0 disables)")
	f.Float64Var(&config.RateLimit, "rate-limit", defaults.RateLimit, "outbound requests per second (0 is unlimited)")

	return cmd
}
