package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// routes builds the chi mux. Everything that is not an API, health,
// metrics, or debug route falls through to the asset service, which
// applies the SPA fallback rules itself.
func (s *Server) routes() *chi.Mux {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Get("/healthz", s.assetHandler.Health)
	r.Get("/debug/assets", s.assetHandler.Keys)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route(s.cfg.APIPrefix, func(api chi.Router) {
		api.Use(s.countAPIRequests)

		api.Post("/session", s.handleLogin)
		api.Delete("/session", s.handleLogout)

		api.Group(func(priv chi.Router) {
			priv.Use(s.requireSession)
			priv.Get("/users", s.handleListUsers)
			priv.Post("/uploads", s.handleUpload)
			priv.Get("/uploads/{key}", s.handleGetUpload)
			priv.Delete("/uploads/{key}", s.handleDeleteUpload)
			priv.Get("/imageproxy", s.handleImageProxy)
		})
	})

	// The bare site root is not part of the console namespace; send
	// browsers to it.
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, s.cfg.UIPrefix+"/", http.StatusTemporaryRedirect)
	})

	r.Handle(s.cfg.UIPrefix, s.assetHandler)
	r.Handle(s.cfg.UIPrefix+"/*", s.assetHandler)

	// Unmatched paths (including unknown API routes, which the resolver
	// refuses to fall back for) go through asset resolution.
	r.NotFound(s.assetHandler.ServeHTTP)

	return r
}

// countAPIRequests feeds the per-route counters. The route pattern is
// only known after the subrouter has matched, so the status recorder
// wraps downstream handlers.
func (s *Server) countAPIRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		s.metrics.APIRequest(route, strconv.Itoa(status))
	})
}
