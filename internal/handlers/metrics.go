package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler serves the default Prometheus registry, which holds the
// mosaic_gallery_ collectors.
func (h *Handlers) MetricsHandler() http.Handler {
	return promhttp.Handler()
}
