package assets

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

// Observer counts resolved asset requests by outcome. Implemented by the
// metrics package; a nil observer disables counting.
type Observer interface {
	AssetRequest(outcome string)
}

// Handler serves the embedded admin console over HTTP. All state it
// touches is immutable, so a single handler is shared by every request.
type Handler struct {
	resolver *Resolver
	logger   *slog.Logger
	observer Observer
}

// NewHandler returns a handler serving resolver's bundle. observer may
// be nil.
func NewHandler(resolver *Resolver, logger *slog.Logger, observer Observer) *Handler {
	return &Handler{resolver: resolver, logger: logger, observer: observer}
}

const unavailableBody = "admin interface not available: the UI bundle was not built into this binary; rebuild with the console assets in place\n"

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res := h.resolver.Resolve(r.URL.Path)
	if h.observer != nil {
		h.observer.AssetRequest(res.Outcome.String())
	}

	// Applies to every outcome, including error bodies.
	w.Header().Set("X-Content-Type-Options", "nosniff")

	switch res.Outcome {
	case Hit:
		// Bundled assets are content-addressed by the UI build, so a
		// changed file always gets a new name and indefinite caching
		// is safe.
		w.Header().Set("Content-Type", res.ContentType)
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		w.Header().Set("Content-Length", strconv.FormatInt(res.Asset.Size, 10))
		_, _ = w.Write(res.Asset.Data)

	case Fallback:
		w.Header().Set("Content-Type", res.ContentType)
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Content-Length", strconv.FormatInt(res.Asset.Size, 10))
		_, _ = w.Write(res.Asset.Data)

	case Miss:
		// Routine, not an error-level event.
		h.logger.Debug("asset miss", "path", r.URL.Path, "bundle_missing", res.BundleMissing)
		if res.BundleMissing {
			http.Error(w, unavailableBody, http.StatusServiceUnavailable)
			return
		}
		http.Error(w, "asset not found", http.StatusNotFound)
	}
}

// Health reports 200 when the root document resolves and 503 otherwise,
// so deployment tooling can detect a missing bundle before routing
// traffic at the console.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if !h.resolver.Healthy() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("unavailable: admin bundle missing\n"))
		return
	}
	_, _ = w.Write([]byte("ok\n"))
}

// Keys writes the registry key list as a JSON array. Operational
// visibility only; not part of the resolution contract.
func (h *Handler) Keys(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.resolver.Registry().Keys())
}
