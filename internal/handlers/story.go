package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/evergarden-code/vova/internal/services"
)

// ErrorResponse is the JSON error envelope shared by all handlers.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// StoryHandler relays story generation requests to the narrative
// oracle, keeping the upstream credential out of the client.
type StoryHandler struct {
	oracle services.Oracle
	logger *slog.Logger
}

// NewStoryHandler creates a new story relay handler.
func NewStoryHandler(oracle services.Oracle, logger *slog.Logger) *StoryHandler {
	return &StoryHandler{
		oracle: oracle,
		logger: logger,
	}
}

// ServeHTTP handles POST /api/generate-story.
func (h *StoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for story endpoint",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr)
		writeError(w, h.logger, http.StatusMethodNotAllowed,
			"Method not allowed. Only POST is supported.", "")
		return
	}

	var req services.GenerateStoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest,
			"Invalid request body. Expected JSON.", "")
		return
	}

	if err := req.Validate(); err != nil {
		h.logger.Warn("Invalid story request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, err.Error(), "")
		return
	}

	body, err := h.oracle.GenerateStory(r.Context(), &req)
	if err != nil {
		var upstream *services.UpstreamError
		if errors.As(err, &upstream) {
			// Forward the upstream verdict with its status and detail.
			h.logger.Error("Oracle request rejected upstream",
				"status", upstream.StatusCode)
			writeError(w, h.logger, upstream.StatusCode,
				"Story generation failed upstream.", upstream.Detail)
			return
		}
		h.logger.Error("Error generating story", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError,
			"Failed to generate story. Please try again.", "")
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Error("Error writing story response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg, details string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg, Details: details}); err != nil {
		logger.Error("Error encoding error response", "error", err)
	}
}
