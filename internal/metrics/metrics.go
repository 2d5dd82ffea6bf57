// Package metrics owns the Prometheus registry for the admin backend.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the process-local registry and the counters the HTTP
// layer increments. A single instance is shared by all requests.
type Metrics struct {
	registry *prometheus.Registry

	assetRequests *prometheus.CounterVec
	apiRequests   *prometheus.CounterVec
	uploadBytes   prometheus.Counter
}

// New creates a registry with the standard Go and process collectors
// plus the opsboard counters.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		assetRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "opsboard",
			Name:      "asset_requests_total",
			Help:      "Console asset requests by resolution outcome.",
		}, []string{"outcome"}),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "opsboard",
			Name:      "api_requests_total",
			Help:      "API requests by route and status code.",
		}, []string{"route", "status"}),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "opsboard",
			Name:      "upload_bytes_total",
			Help:      "Bytes accepted by the upload endpoint.",
		}),
	}
	reg.MustRegister(m.assetRequests, m.apiRequests, m.uploadBytes)
	return m
}

// AssetRequest counts one asset resolution with the given outcome
// (hit, fallback, miss). Satisfies assets.Observer.
func (m *Metrics) AssetRequest(outcome string) {
	m.assetRequests.WithLabelValues(outcome).Inc()
}

// APIRequest counts one API call.
func (m *Metrics) APIRequest(route, status string) {
	m.apiRequests.WithLabelValues(route, status).Inc()
}

// UploadBytes adds accepted upload payload bytes.
func (m *Metrics) UploadBytes(n int64) {
	m.uploadBytes.Add(float64(n))
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
