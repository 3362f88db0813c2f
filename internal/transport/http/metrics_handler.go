package http

import (
	"net/http"
)

// MetricsHandler exposes the Prometheus registry fed by the OpenTelemetry meter
type MetricsHandler struct {
	exposition http.Handler
}

// NewMetricsHandler wraps the exposition handler. A nil handler means
// metrics are disabled and the endpoint answers 404.
func NewMetricsHandler(exposition http.Handler) *MetricsHandler {
	return &MetricsHandler{exposition: exposition}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.exposition == nil {
		http.NotFound(w, r)
		return
	}
	h.exposition.ServeHTTP(w, r)
}
