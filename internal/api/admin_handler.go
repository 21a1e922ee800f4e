package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/N0Z0My/xlsx-data-app/internal/admin"
	"github.com/N0Z0My/xlsx-data-app/internal/quizlog"
)

// ── Response types ──────────────────────────────────────────────────────────

type LogEventResponse struct {
	Timestamp      string `json:"timestamp"`
	UserID         string `json:"user_id"`
	Level          string `json:"level"`
	Kind           string `json:"kind"`
	QuestionNumber int    `json:"question_number,omitempty"`
	QuestionText   string `json:"question_text,omitempty"`
	UserAnswer     string `json:"user_answer,omitempty"`
	Result         string `json:"result,omitempty"`
	Message        string `json:"message"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /admin/logs?user=&level=&limit=
func (h *Handler) listLogs(w http.ResponseWriter, r *http.Request) {
	events, ok := h.readEvents(w, r)
	if !ok {
		return
	}

	response := make([]LogEventResponse, len(events))
	for i, ev := range events {
		resp := LogEventResponse{
			Timestamp:      ev.Time.Format(time.RFC3339),
			UserID:         ev.UserID,
			Level:          string(ev.Level),
			Kind:           string(ev.Kind),
			QuestionNumber: ev.QuestionNumber,
			QuestionText:   ev.QuestionText,
			UserAnswer:     ev.UserAnswer,
			Message:        ev.Message,
		}
		if ev.Kind == admin.EventAnswerGraded {
			if ev.Correct {
				resp.Result = "correct"
			} else {
				resp.Result = "incorrect"
			}
		}
		response[i] = resp
	}

	respondJSON(w, http.StatusOK, response)
}

// GET /admin/stats
func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	events, ok := h.readEvents(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, admin.BuildStats(events))
}

// readEvents loads and parses log entries per the request's filters.
// Writes the error response itself when something goes wrong.
func (h *Handler) readEvents(w http.ResponseWriter, r *http.Request) ([]admin.Event, bool) {
	if h.logReader == nil {
		http.Error(w, "no readable log sink configured", http.StatusServiceUnavailable)
		return nil, false
	}

	q := quizlog.Query{
		UserID: r.URL.Query().Get("user"),
		Level:  quizlog.Level(r.URL.Query().Get("level")),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return nil, false
		}
		q.Limit = limit
	}

	entries, err := h.logReader.Entries(q)
	if err != nil {
		h.logger.Error("failed to read activity log", "error", err)
		http.Error(w, "failed to read logs", http.StatusInternalServerError)
		return nil, false
	}
	return admin.ParseEntries(entries), true
}
