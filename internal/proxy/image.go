// Package proxy implements the outbound image fetcher behind
// /api/imageproxy. It exists so the console can display remote images
// without exposing browser clients to third-party hosts directly.
package proxy

import (
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// maxImageBytes caps a proxied response body.
const maxImageBytes = 10 << 20 // 10 MiB

// ImageProxy fetches allowlisted remote images on behalf of the console.
type ImageProxy struct {
	client  *http.Client
	allowed map[string]struct{}
	logger  *slog.Logger
}

// New returns a proxy that will only fetch from the given hosts. An
// empty allowlist disables the proxy entirely.
func New(allowedHosts []string, logger *slog.Logger) *ImageProxy {
	allowed := make(map[string]struct{}, len(allowedHosts))
	for _, h := range allowedHosts {
		allowed[h] = struct{}{}
	}
	return &ImageProxy{
		client:  &http.Client{Timeout: 15 * time.Second},
		allowed: allowed,
		logger:  logger,
	}
}

// ServeHTTP fetches the image named by the url query parameter and
// relays body and content type. Fetch failures map to 502; policy
// violations to 4xx.
func (p *ImageProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		http.Error(w, "missing url parameter", http.StatusBadRequest)
		return
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		http.Error(w, "invalid url", http.StatusBadRequest)
		return
	}
	if _, ok := p.allowed[u.Hostname()]; !ok {
		http.Error(w, "host not allowed", http.StatusForbidden)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, u.String(), nil)
	if err != nil {
		http.Error(w, "invalid url", http.StatusBadRequest)
		return
	}
	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Warn("image fetch failed", "url", u.String(), "error", err)
		http.Error(w, "upstream fetch failed", http.StatusBadGateway)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		http.Error(w, "upstream returned "+resp.Status, http.StatusBadGateway)
		return
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if _, err := io.Copy(w, io.LimitReader(resp.Body, maxImageBytes)); err != nil {
		p.logger.Debug("image relay interrupted", "url", u.String(), "error", err)
	}
}
