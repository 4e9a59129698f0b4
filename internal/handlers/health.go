package handlers

import (
	"net/http"
	"time"

	"mosaic-gallery/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusStarting = "starting"
	statusDegraded = "degraded"
)

// HealthResponse reports whether galleries can be served and what the
// catalog behind them holds.
type HealthResponse struct {
	Status  string        `json:"status"`
	Ready   bool          `json:"ready"`
	Version string        `json:"version"`
	Uptime  string        `json:"uptime"`
	Index   IndexHealth   `json:"index"`
	Catalog CatalogHealth `json:"catalog"`
}

// IndexHealth describes the indexer.
type IndexHealth struct {
	Running      bool   `json:"running"`
	LastIndexed  string `json:"lastIndexed,omitempty"`
	Duration     string `json:"duration,omitempty"`
	Files        int64  `json:"files"`
	Authors      int64  `json:"authors"`
	InitialError string `json:"initialError,omitempty"`
}

// CatalogHealth holds the catalog totals from the last index run.
type CatalogHealth struct {
	Images      int `json:"images"`
	Authors     int `json:"authors"`
	Sensitive   int `json:"sensitive"`
	AlwaysShown int `json:"alwaysShown"`
}

// HealthCheck answers 503 until the first index run has finished. A failed
// first run still reports ready, as degraded.
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	hs := h.indexer.GetHealthStatus()
	stats := h.catalog.GetStats()

	response := HealthResponse{
		Status:  statusStarting,
		Ready:   hs.Ready,
		Version: startup.Version,
		Uptime:  hs.Uptime,
		Index: IndexHealth{
			Running:      hs.Indexing,
			Duration:     stats.IndexDuration,
			Files:        hs.FilesIndexed,
			Authors:      hs.AuthorsIndexed,
			InitialError: hs.InitialIndexError,
		},
		Catalog: CatalogHealth{
			Images:      stats.TotalImages,
			Authors:     stats.TotalAuthors,
			Sensitive:   stats.SensitiveImages,
			AlwaysShown: stats.AlwaysShownImages,
		},
	}
	if !hs.LastIndexed.IsZero() {
		response.Index.LastIndexed = hs.LastIndexed.Format(time.RFC3339)
	}

	code := http.StatusServiceUnavailable
	switch {
	case hs.Ready && hs.InitialIndexError != "":
		response.Status = statusDegraded
		code = http.StatusOK
	case hs.Ready:
		response.Status = statusHealthy
		code = http.StatusOK
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	writeJSON(w, response)
}

// LivenessCheck always returns 200 while the process is serving.
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{"status": "alive"})
	}
}

// ReadinessCheck returns 200 only when the service is ready to accept traffic
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	if h.indexer.IsReady() {
		writeJSONStatus(w, http.StatusOK, "ready")
		return
	}
	writeJSONStatus(w, http.StatusServiceUnavailable, "not_ready")
}

// GetStats returns catalog statistics from the last index run.
func (h *Handlers) GetStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, h.catalog.GetStats())
}

// TriggerReindex starts an index run in the background.
func (h *Handlers) TriggerReindex(w http.ResponseWriter, _ *http.Request) {
	if !h.indexer.TriggerIndex() {
		writeJSONError(w, "indexing already in progress", http.StatusConflict)
		return
	}
	writeJSONStatus(w, http.StatusAccepted, "started")
}
