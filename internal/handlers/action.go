package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/duskmantle/beacon/pkg/engine"
	"github.com/duskmantle/beacon/pkg/play"
	"github.com/duskmantle/beacon/pkg/state"
)

func (h *SessionHandler) handleChoice(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) {
	ps := h.loadSession(w, r, sessionID)
	if ps == nil {
		return
	}

	var req play.ChoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in choice request", "error", err, "id", sessionID.String())
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body", "")
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	resp, err := h.engine.Choose(r.Context(), ps, *req.Index)
	if err != nil {
		h.writeEngineError(w, err, sessionID)
		return
	}

	if err := h.storage.SaveSession(r.Context(), ps.ID, ps); err != nil {
		h.logger.Error("Failed to save session after choice", "error", err, "id", sessionID.String())
		h.writeError(w, http.StatusInternalServerError, "Failed to save session", "")
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Failed to encode choice response", "error", err)
	}
}

func (h *SessionHandler) handleLive(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) {
	ps := h.loadSession(w, r, sessionID)
	if ps == nil {
		return
	}

	var req play.LiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in live request", "error", err, "id", sessionID.String())
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body", "")
		return
	}

	cfg := state.LiveConfig{
		Endpoint:    req.Endpoint,
		APIKey:      req.Key,
		Model:       req.Model,
		WorldPrompt: req.WorldPrompt,
	}
	resp, err := h.engine.LiveSetup(r.Context(), ps, cfg)
	if err != nil {
		h.logger.Error("Failed to enter live mode", "error", err, "id", sessionID.String())
		h.writeError(w, http.StatusInternalServerError, "Failed to enter live mode", err.Error())
		return
	}

	if err := h.storage.SaveSession(r.Context(), ps.ID, ps); err != nil {
		h.logger.Error("Failed to save session after live setup", "error", err, "id", sessionID.String())
		h.writeError(w, http.StatusInternalServerError, "Failed to save session", "")
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Failed to encode live response", "error", err)
	}
}

// writeEngineError maps engine errors to HTTP status codes. Content
// errors (dangling references inside the loaded story) are server
// faults; the rest are client faults.
func (h *SessionHandler) writeEngineError(w http.ResponseWriter, err error, sessionID uuid.UUID) {
	switch {
	case errors.Is(err, engine.ErrNotStarted):
		h.writeError(w, http.StatusConflict, "Session has not been started", "")
	case errors.Is(err, engine.ErrInvalidChoice):
		h.writeError(w, http.StatusBadRequest, "Invalid choice index", "")
	case engine.IsContentError(err):
		h.logger.Error("Story content error", "error", err, "id", sessionID.String())
		h.writeError(w, http.StatusInternalServerError, "Story content error", err.Error())
	default:
		h.logger.Error("Failed to process action", "error", err, "id", sessionID.String())
		h.writeError(w, http.StatusInternalServerError, "Failed to process action", "")
	}
}
