// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/N0Z0My/xlsx-data-app/internal/grader"
	"github.com/N0Z0My/xlsx-data-app/internal/question"
	"github.com/N0Z0My/xlsx-data-app/internal/quiz"
	"github.com/N0Z0My/xlsx-data-app/internal/quizlog"
	"github.com/N0Z0My/xlsx-data-app/internal/store"
)

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	sessions     store.Repository
	questions    *question.Store
	grader       grader.Grader
	sinks        []quizlog.Sink
	logReader    quizlog.Reader
	maxQuestions int
	logger       *slog.Logger
}

// NewHandler creates a Handler with the given dependencies. logReader may
// be nil when no readable sink is configured; the admin endpoints then
// report 503.
func NewHandler(
	sessions store.Repository,
	questions *question.Store,
	g grader.Grader,
	sinks []quizlog.Sink,
	logReader quizlog.Reader,
	maxQuestions int,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		sessions:     sessions,
		questions:    questions,
		grader:       g,
		sinks:        sinks,
		logReader:    logReader,
		maxQuestions: maxQuestions,
		logger:       logger,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into v. On failure it writes a 400
// and returns false (caller should return).
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	return true
}

// session fetches the session from the path, writing a 404 on a miss.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*quiz.Session, bool) {
	id := r.PathValue("sessionID")
	s, err := h.sessions.Get(id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "session not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		h.logger.Error("session lookup failed", "error", err, "session_id", id)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}
	return s, true
}
