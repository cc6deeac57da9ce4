package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/hirecast/internal/api"
	"github.com/spf13/cobra"
)

// serveCmd starts the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Hirecast HTTP API",
	Long: `Serve the four pipelines as JSON endpoints for dashboards.

Endpoints:
  GET /api/analytics/skill-gap-trends
  GET /api/analytics/quality-distribution
  GET /api/analytics/application-forecast
  GET /api/analytics/skill-demand
  GET /healthz

Every analytics endpoint accepts optional now, top and horizon query parameters.
Without --now, each request measures its windows from the current time.

Examples:
  # Serve on the default address
  hirecast serve

  # Serve on another port with run history enabled
  hirecast serve --addr :9090 --history-backend sqlite`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return api.StartServer(ctx, cfg, recordSource, cacheManager)
	},
}
