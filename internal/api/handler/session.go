package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/guesswho-go/internal/api/request"
	"github.com/mcoot/guesswho-go/internal/api/response"
	"github.com/mcoot/guesswho-go/internal/model"
	"github.com/mcoot/guesswho-go/internal/services/session"
)

// SessionHandler handles session lifecycle and game action endpoints
type SessionHandler struct {
	controller session.ControllerInterface
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(controller session.ControllerInterface) *SessionHandler {
	return &SessionHandler{controller: controller}
}

// Create handles POST /sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, err := h.controller.CreateSession(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionFromModel(sess))
}

// List handles GET /sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	codes, err := h.controller.ListSessions(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	sessions := make([]string, len(codes))
	for i, code := range codes {
		sessions[i] = string(code)
	}

	response.JSON(w, http.StatusOK, response.SessionList{Sessions: sessions})
}

// Get handles GET /sessions/{code}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := sessionCode(r)

	snapshot, err := h.controller.Snapshot(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SnapshotFromModel(snapshot))
}

// Register handles POST /sessions/{code}/participants
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	code := sessionCode(r)

	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid JSON body"))
		return
	}

	name, _, err := h.controller.Register(r.Context(), code, req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RegisterResponse{
		Name:   name,
		Avatar: model.Avatar(name),
	})
}

// Submit handles POST /sessions/{code}/sentences
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	code := sessionCode(r)

	var req request.SubmitSentenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid JSON body"))
		return
	}

	id, err := h.controller.SubmitEntry(r.Context(), code, req.Author, req.Text, req.Image)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SubmitResponse{SentenceID: int64(id)})
}

// Select handles POST /sessions/{code}/sentences/{id}/select
func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	code := sessionCode(r)

	id, err := sentenceID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.controller.SelectActive(r.Context(), code, id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Guess handles POST /sessions/{code}/sentences/{id}/guess
func (h *SessionHandler) Guess(w http.ResponseWriter, r *http.Request) {
	code := sessionCode(r)

	id, err := sentenceID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.GuessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid JSON body"))
		return
	}

	correct, err := h.controller.GuessAuthor(r.Context(), code, id, req.Guesser, req.Guess)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GuessResponse{
		SentenceID: int64(id),
		Guess:      req.Guess,
		Correct:    correct,
	})
}

// Reveal handles POST /sessions/{code}/sentences/{id}/reveal
func (h *SessionHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	code := sessionCode(r)

	id, err := sentenceID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	author, err := h.controller.RevealAuthor(r.Context(), code, id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RevealResponse{
		SentenceID: int64(id),
		Author:     author,
	})
}

func sessionCode(r *http.Request) model.SessionCode {
	return model.SessionCode(mux.Vars(r)["code"])
}

func sentenceID(r *http.Request) (model.EntryID, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewInvalidRequestError("Sentence id must be a positive integer")
	}
	return model.EntryID(id), nil
}
