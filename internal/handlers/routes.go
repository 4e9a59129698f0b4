package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes installs the API and health routes on router.
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/livez", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/readyz", h.ReadinessCheck).Methods(http.MethodGet)
	router.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/photographers", h.ListPhotographers).Methods(http.MethodGet)
	api.HandleFunc("/gallery", h.GetGallery).Methods(http.MethodGet)
	api.HandleFunc("/images/{id:[0-9]+}", h.GetImage).Methods(http.MethodGet)
	api.HandleFunc("/layout", h.GetLayout).Methods(http.MethodGet)
	api.HandleFunc("/layout/detail-header", h.GetDetailHeader).Methods(http.MethodGet)
	api.HandleFunc("/folder", h.GetFolder).Methods(http.MethodGet)
	api.HandleFunc("/stats", h.GetStats).Methods(http.MethodGet)
	api.HandleFunc("/reindex", h.TriggerReindex).Methods(http.MethodPost)
}
