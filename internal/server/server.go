// Package server wires the admin backend together: the embedded asset
// service under the UI prefix and the JSON glue routes under the API
// prefix.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/opsboard-labs/opsboard/internal/assets"
	"github.com/opsboard-labs/opsboard/internal/config"
	"github.com/opsboard-labs/opsboard/internal/metrics"
	"github.com/opsboard-labs/opsboard/internal/storage"
	"github.com/opsboard-labs/opsboard/internal/store"
)

// UserStore is the slice of the database layer the API routes consume.
// A nil UserStore disables the database-backed routes.
type UserStore interface {
	ListUsers(ctx context.Context) ([]store.User, error)
	TouchLogin(ctx context.Context, email string) error
}

// Options collects the collaborators the server is built from.
type Options struct {
	Config   *config.Config
	Logger   *slog.Logger
	Registry *assets.Registry

	Users      UserStore           // optional
	Objects    storage.ObjectStore // optional
	Metrics    *metrics.Metrics
	ImageProxy http.Handler // optional
}

// Server is the admin backend HTTP server.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger

	resolver     *assets.Resolver
	assetHandler *assets.Handler

	users      UserStore
	objects    storage.ObjectStore
	metrics    *metrics.Metrics
	imageProxy http.Handler
	sessions   *sessions.CookieStore
}

// New assembles a server. The registry must already be populated; it is
// never touched again after this point.
func New(opts Options) *Server {
	sessionStore := sessions.NewCookieStore([]byte(opts.Config.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	resolver := assets.NewResolver(opts.Registry, opts.Config.UIPrefix, opts.Config.APIPrefix)

	var observer assets.Observer
	if opts.Metrics != nil {
		observer = opts.Metrics
	}

	return &Server{
		cfg:          opts.Config,
		logger:       opts.Logger,
		resolver:     resolver,
		assetHandler: assets.NewHandler(resolver, opts.Logger, observer),
		users:        opts.Users,
		objects:      opts.Objects,
		metrics:      opts.Metrics,
		imageProxy:   opts.ImageProxy,
		sessions:     sessionStore,
	}
}

// Serve starts the HTTP server and blocks until the context is
// cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.logger.Info("starting admin backend",
		"addr", fmt.Sprintf("http://localhost:%d%s/", s.cfg.Port, s.cfg.UIPrefix),
		"assets", s.resolver.Registry().Len(),
		"bundle_healthy", s.resolver.Healthy())

	if !s.resolver.Healthy() {
		// Still serve so /healthz can report the condition, but make
		// the misconfiguration loud.
		s.logger.Warn("admin bundle missing: console requests will return 503")
	}

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.routes(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down admin backend...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
