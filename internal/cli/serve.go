package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/internal/server"
	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Long: `Run the layout HTTP API.

POST /layout computes a layout for the graph in the request body and
POST /layout/stream streams every snapshot as newline-delimited JSON.
Layouts are cached in memory by default; pass --redis to share the cache
across instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := serveCache(redisURL, noCache)
			if err != nil {
				return fmt.Errorf("initialize cache: %w", err)
			}

			runner := pipeline.NewRunner(store, nil, c.Logger)
			defer runner.Close()

			printInfo("Serving layout API on %s", addr)
			return server.New(runner, c.Logger).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", c.Config.Addr, "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", c.Config.RedisURL, "redis URL for a shared layout cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// serveCache picks the cache backend for the server: redis when configured,
// otherwise in-process memory.
func serveCache(redisURL string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisURL != "" {
		return cache.NewRedisCache(redisURL)
	}
	return cache.NewMemoryCache(), nil
}
