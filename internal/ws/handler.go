package ws

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mcoot/guesswho-go/internal/model"
	"github.com/mcoot/guesswho-go/internal/protocol"
	"github.com/mcoot/guesswho-go/internal/services/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// Display-name-only access model; origin checks add nothing here
		return true
	},
}

// Handler upgrades HTTP requests to session websocket connections
type Handler struct {
	hubManager *HubManager
	controller session.ControllerInterface
	logger     *slog.Logger
}

// NewHandler creates a websocket handler
func NewHandler(hubManager *HubManager, controller session.ControllerInterface, logger *slog.Logger) *Handler {
	return &Handler{
		hubManager: hubManager,
		controller: controller,
		logger:     logger.With(slog.String("component", "ws-handler")),
	}
}

// Serve upgrades the request and attaches the client to the session hub.
// The client immediately receives the current snapshot so reconnecting
// clients do not have to wait for the next mutation.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, code model.SessionCode) {
	if _, err := h.controller.Snapshot(r.Context(), code); err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		h.logger.Error("ws failed to load session",
			slog.String("session", string(code)),
			slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.logger.Info("ws upgrade failed", slog.String("error", err.Error()))
		return
	}

	hub := h.hubManager.GetOrCreateHub(code)
	client := NewClient(hub, conn, h.controller, code, h.logger)
	client.Start()

	// Load the seed snapshot only after the client is in the hub's fan-out.
	// A mutation landing between an earlier load and registration would
	// broadcast past this client and leave it on stale state until the
	// next mutation; loading after registration bounds the staleness to
	// one out-of-order frame at worst.
	snapshot, err := h.controller.Snapshot(client.ctx, code)
	if err != nil {
		h.logger.Error("ws failed to load seed snapshot",
			slog.String("session", string(code)),
			slog.String("error", err.Error()))
		return
	}

	if frame, err := protocol.EncodeState(snapshot); err == nil {
		client.Enqueue(frame)
	}
}
