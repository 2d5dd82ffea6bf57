package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/opsboard-labs/opsboard/internal/assets"
	"github.com/opsboard-labs/opsboard/internal/metrics"
	"github.com/opsboard-labs/opsboard/internal/proxy"
	"github.com/opsboard-labs/opsboard/internal/server"
	"github.com/opsboard-labs/opsboard/internal/storage"
	"github.com/opsboard-labs/opsboard/internal/store"
	"github.com/opsboard-labs/opsboard/internal/ui"
)

// newServeCommand creates the serve command.
func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the admin backend",
		Long: `Start the HTTP server: the embedded admin console under the UI
prefix, the JSON API under the API prefix, plus health, metrics, and
debug endpoints.`,
		Example: `  # Serve with defaults (console at http://localhost:8330/admin/)
  opsboard serve

  # Custom port and database
  opsboard serve --port 9000 --database-url postgres://ops@localhost/opsboard`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := newLogger(cfg.Verbose)

	// The registry is populated here, before the listener opens, and is
	// immutable afterward.
	bundle, err := ui.Bundle(cfg.UIDir)
	if err != nil {
		return fmt.Errorf("open UI bundle: %w", err)
	}
	registry, err := assets.NewRegistry(bundle, cfg.UIPrefix)
	if err != nil {
		return fmt.Errorf("build asset registry: %w", err)
	}

	var users server.UserStore
	if cfg.DatabaseURL != "" {
		st, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer st.Close()
		users = st
	} else {
		logger.Info("no database configured, user routes disabled")
	}

	objects, err := storage.NewDirStore(cfg.UploadsDir)
	if err != nil {
		return fmt.Errorf("open object store: %w", err)
	}

	var imageProxy http.Handler
	if len(cfg.ProxyAllowHosts) > 0 {
		imageProxy = proxy.New(cfg.ProxyAllowHosts, logger)
	}

	srv := server.New(server.Options{
		Config:     cfg,
		Logger:     logger,
		Registry:   registry,
		Users:      users,
		Objects:    objects,
		Metrics:    metrics.New(),
		ImageProxy: imageProxy,
	})
	return srv.Serve(ctx)
}
