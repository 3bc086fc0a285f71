package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/evergarden-code/vova/internal/services"
	"github.com/evergarden-code/vova/pkg/session"
	"github.com/evergarden-code/vova/pkg/story"
)

// SessionHandler persists session snapshots so a front end can resume a
// visit after a reload.
type SessionHandler struct {
	storage services.Storage
	logger  *slog.Logger
}

func NewSessionHandler(storage services.Storage, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		storage: storage,
		logger:  logger,
	}
}

// CreateSessionRequest defines the request body for starting a session.
// Material is optional: an empty one is a bare "visit" with no topic.
type CreateSessionRequest struct {
	Material story.Material `json:"material"`
}

// ServeHTTP handles session snapshot operations.
// Routes:
//
//	POST /v1/session          - Create a new session
//	GET /v1/session/{id}      - Read a session by ID
//	PUT /v1/session/{id}      - Replace a session snapshot
//	DELETE /v1/session/{id}   - Delete a session by ID
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.TrimPrefix(r.URL.Path, "/v1/session")
	var sessionID uuid.UUID
	var err error

	if path != "" && path != "/" {
		idStr := strings.Trim(path, "/")
		sessionID, err = uuid.Parse(idStr)
		if err != nil {
			h.logger.Warn("Invalid session ID", "id", idStr, "error", err)
			writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format", "")
			return
		}
	}

	switch r.Method {
	case http.MethodPost:
		h.handleCreate(w, r)

	case http.MethodGet:
		if sessionID == uuid.Nil {
			writeError(w, h.logger, http.StatusBadRequest, "Session ID is required for GET requests", "")
			return
		}
		h.handleRead(w, r, sessionID)

	case http.MethodPut:
		if sessionID == uuid.Nil {
			writeError(w, h.logger, http.StatusBadRequest, "Session ID is required for PUT requests", "")
			return
		}
		h.handleReplace(w, r, sessionID)

	case http.MethodDelete:
		if sessionID == uuid.Nil {
			writeError(w, h.logger, http.StatusBadRequest, "Session ID is required for DELETE requests", "")
			return
		}
		h.handleDelete(w, r, sessionID)

	default:
		h.logger.Warn("Method not allowed for session endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed,
			"Method not allowed. Supported methods: POST, GET, PUT, DELETE", "")
	}
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body", "")
		return
	}

	if req.Material.Type == "" {
		req.Material.Type = story.MaterialText
	}

	s := session.New(req.Material, h.logger)
	if err := h.storage.SaveSession(r.Context(), s.ID, s); err != nil {
		h.logger.Error("Failed to save new session", "error", err, "id", s.ID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create session", "")
		return
	}

	h.logger.Debug("Session created",
		"id", s.ID,
		"iq", s.Personality.IQ,
		"base_mood", s.Personality.BaseMood)
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(s); err != nil {
		h.logger.Error("Failed to encode session response", "error", err)
	}
}

func (h *SessionHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	s, err := h.storage.LoadSession(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load session", "error", err, "id", id)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session", "")
		return
	}
	if s == nil {
		writeError(w, h.logger, http.StatusNotFound, "Session not found", "")
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(s); err != nil {
		h.logger.Error("Failed to encode session response", "error", err)
	}
}

func (h *SessionHandler) handleReplace(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	existing, err := h.storage.LoadSession(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load session for replace", "error", err, "id", id)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session", "")
		return
	}
	if existing == nil {
		writeError(w, h.logger, http.StatusNotFound, "Session not found", "")
		return
	}

	var s session.Session
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		h.logger.Warn("Invalid JSON in PUT request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body", "")
		return
	}
	s.ID = id
	s.Attach(h.logger)

	if err := h.storage.SaveSession(r.Context(), id, &s); err != nil {
		h.logger.Error("Failed to save session", "error", err, "id", id)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save session", "")
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(&s); err != nil {
		h.logger.Error("Failed to encode session response", "error", err)
	}
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.storage.DeleteSession(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete session", "error", err, "id", id)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete session", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
