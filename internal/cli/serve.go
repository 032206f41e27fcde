package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/observability/prom"
	"github.com/matzehuels/treemap/pkg/server"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		backend string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the treemap HTTP API",
		Long: `Serve the treemap HTTP API.

Clients upload JSON trees to POST /api/trees and fetch layouts from
GET /api/trees/{id}/layout. Uploaded trees are kept in the cache, so use the
redis backend when running more than one instance. Prometheus metrics are
served at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			if cmd.Flags().Changed("cache") {
				c.Config.Cache.Backend = backend
			}
			if err := c.Config.Validate(); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), timeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&backend, "cache", "", "cache backend: file, redis or none (default from config)")
	completeValues(cmd, "cache", backendValues...)
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "per-request timeout, 0 to disable")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, timeout time.Duration) error {
	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prom.New().Install()

	defaults := c.defaultOptions()
	srv := server.New(server.Config{
		Runner:   runner,
		Defaults: defaults,
		Gatherer: prometheus.DefaultGatherer,
		Timeout:  timeout,
	})

	printInfo("Serving on %s", StyleHighlight.Render(c.Config.Server.Addr))
	printDetail("Cache: %s", c.Config.Cache.Backend)

	err = srv.ListenAndServe(ctx, c.Config.Server.Addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
