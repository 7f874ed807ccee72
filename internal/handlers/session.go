package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/duskmantle/beacon/internal/storage"
	"github.com/duskmantle/beacon/pkg/engine"
	"github.com/duskmantle/beacon/pkg/play"
	"github.com/duskmantle/beacon/pkg/state"
)

// SessionHandler owns the /v1/session surface: session lifecycle plus
// the per-session action endpoints (choice, live).
type SessionHandler struct {
	engine  *engine.Engine
	storage storage.Storage
	logger  *slog.Logger
}

func NewSessionHandler(engine *engine.Engine, storage storage.Storage, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		engine:  engine,
		storage: storage,
		logger:  logger,
	}
}

// writeError sends a structured error payload.
func (h *SessionHandler) writeError(w http.ResponseWriter, status int, msg string, details string) {
	w.WriteHeader(status)
	response := play.ErrorResponse{
		Error:   msg,
		Details: details,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode error response", "error", err)
	}
}

// ServeHTTP handles HTTP requests for session operations
// Routes:
// POST /v1/session               - Create session and render start node
// GET /v1/session/{id}           - Render current node of a session
// DELETE /v1/session/{id}        - Delete session
// POST /v1/session/{id}/choice   - Select a presented choice
// POST /v1/session/{id}/live     - Switch session to generative mode
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/session"), "/")

	if path == "" {
		if r.Method != http.MethodPost {
			h.logger.Warn("Method not allowed for session collection", "method", r.Method)
			h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST", "")
			return
		}
		h.handleCreate(w, r)
		return
	}

	segments := strings.Split(path, "/")
	sessionID, err := uuid.Parse(segments[0])
	if err != nil {
		h.logger.Warn("Invalid session ID", "id", segments[0], "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid session ID format", "")
		return
	}

	if len(segments) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.handleRead(w, r, sessionID)
		case http.MethodDelete:
			h.handleDelete(w, r, sessionID)
		default:
			h.logger.Warn("Method not allowed for session endpoint", "method", r.Method)
			h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET, DELETE", "")
		}
		return
	}

	if len(segments) == 2 && r.Method == http.MethodPost {
		switch segments[1] {
		case "choice":
			h.handleChoice(w, r, sessionID)
			return
		case "live":
			h.handleLive(w, r, sessionID)
			return
		}
	}

	h.writeError(w, http.StatusNotFound, "Unknown session endpoint", "")
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Creating new session")

	ps := state.NewPlayerState()
	resp, err := h.engine.Start(ps)
	if err != nil {
		h.logger.Error("Failed to start session", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to start session", err.Error())
		return
	}

	if err := h.storage.SaveSession(r.Context(), ps.ID, ps); err != nil {
		h.logger.Error("Failed to save new session", "error", err, "id", ps.ID.String())
		h.writeError(w, http.StatusInternalServerError, "Failed to create session", "")
		return
	}

	h.logger.Debug("Session created", "id", ps.ID.String())
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Failed to encode session response", "error", err)
	}
}

// loadSession fetches a session or writes the appropriate error. The
// returned state is nil when a response has already been written.
func (h *SessionHandler) loadSession(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) *state.PlayerState {
	ps, err := h.storage.LoadSession(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to load session", "error", err, "id", sessionID.String())
		h.writeError(w, http.StatusInternalServerError, "Failed to load session", "")
		return nil
	}
	if ps == nil {
		h.logger.Warn("Session not found", "id", sessionID.String())
		h.writeError(w, http.StatusNotFound, "Session not found", "")
		return nil
	}
	return ps
}

func (h *SessionHandler) handleRead(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) {
	ps := h.loadSession(w, r, sessionID)
	if ps == nil {
		return
	}

	resp, err := h.engine.Render(ps)
	if err != nil {
		h.logger.Error("Failed to render session", "error", err, "id", sessionID.String())
		h.writeError(w, http.StatusInternalServerError, "Failed to render session", err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Failed to encode session response", "error", err)
	}
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) {
	if err := h.storage.DeleteSession(r.Context(), sessionID); err != nil {
		h.logger.Error("Failed to delete session", "error", err, "id", sessionID.String())
		h.writeError(w, http.StatusInternalServerError, "Failed to delete session", "")
		return
	}
	h.logger.Debug("Session deleted", "id", sessionID.String())
	w.WriteHeader(http.StatusNoContent)
}
