package router

import (
	"net/http"

	"github.com/sessionforge/session-enrichment-api/internal/handlers"
	"github.com/sessionforge/session-enrichment-api/internal/middleware"
	"github.com/sessionforge/session-enrichment-api/internal/utils"

	"github.com/gorilla/mux"
)

func NewRouter(sessionHandler *handlers.SessionHandler, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Recovery(logger))

	// Routes
	api := r.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	// Session endpoints
	api.HandleFunc("/sessions/upload", sessionHandler.UploadSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/process", sessionHandler.ProcessSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", sessionHandler.GetSession).Methods(http.MethodGet)

	return r
}
