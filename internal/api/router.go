package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/guesswho-go/internal/api/handler"
	"github.com/mcoot/guesswho-go/internal/api/middleware"
	"github.com/mcoot/guesswho-go/internal/model"
	"github.com/mcoot/guesswho-go/internal/services/session"
	"github.com/mcoot/guesswho-go/internal/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	SessionController session.ControllerInterface
	WSHandler         *ws.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	sessionHandler := handler.NewSessionHandler(cfg.SessionController)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Session lifecycle
	api.HandleFunc("/sessions", sessionHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/sessions", sessionHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{code}", sessionHandler.Get).Methods(http.MethodGet)

	// Game actions. Every mutation fans the updated snapshot out to all
	// websocket clients of the session.
	api.HandleFunc("/sessions/{code}/participants", sessionHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{code}/sentences", sessionHandler.Submit).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{code}/sentences/{id}/select", sessionHandler.Select).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{code}/sentences/{id}/guess", sessionHandler.Guess).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{code}/sentences/{id}/reveal", sessionHandler.Reveal).Methods(http.MethodPost)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Websocket endpoint, outside the API prefix so the upgrade response
	// is not wrapped by the logging response writer
	if cfg.WSHandler != nil {
		r.HandleFunc("/session/{code}/ws", func(w http.ResponseWriter, r *http.Request) {
			cfg.WSHandler.Serve(w, r, model.SessionCode(mux.Vars(r)["code"]))
		}).Methods(http.MethodGet)
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
