package api

import (
	"errors"
	"net/http"

	"github.com/N0Z0My/xlsx-data-app/internal/quiz"
	"github.com/N0Z0My/xlsx-data-app/internal/quizlog"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateSessionRequest struct {
	UserID string `json:"user_id"`
}

type QuestionResponse struct {
	Number         int      `json:"number"`
	Text           string   `json:"text"`
	Options        []string `json:"options"`
	TotalAttempted int      `json:"total_attempted"`
	CorrectCount   int      `json:"correct_count"`
	MaxQuestions   int      `json:"max_questions"`
}

type SessionResponse struct {
	SessionID string            `json:"session_id"`
	UserID    string            `json:"user_id"`
	Screen    string            `json:"screen"`
	Question  *QuestionResponse `json:"question,omitempty"`
}

type SubmitAnswerRequest struct {
	SelectedOption string `json:"selected_option"`
}

type SubmitAnswerResponse struct {
	Number         int    `json:"number"`
	Correct        bool   `json:"correct"`
	UserAnswer     string `json:"user_answer"`
	CorrectAnswer  string `json:"correct_answer"`
	Explanation    string `json:"explanation"`
	DisplayText    string `json:"display_text,omitempty"`
	TotalAttempted int    `json:"total_attempted"`
	CorrectCount   int    `json:"correct_count"`
	MaxQuestions   int    `json:"max_questions"`
}

type AnswerHistoryEntry struct {
	Number        int    `json:"number"`
	UserAnswer    string `json:"user_answer"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

type ResultResponse struct {
	SessionID      string               `json:"session_id"`
	TotalQuestions int                  `json:"total_questions"`
	CorrectCount   int                  `json:"correct_count"`
	Accuracy       float64              `json:"accuracy"`
	Message        string               `json:"message"`
	History        []AnswerHistoryEntry `json:"history"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /sessions
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	rec := quizlog.NewRecorder(req.UserID, h.sinks, h.logger)
	session := quiz.NewSession(req.UserID, h.questions, h.grader, rec, h.maxQuestions)
	session.Begin()
	h.sessions.Put(session)

	respondJSON(w, http.StatusCreated, h.sessionResponse(session))
}

// GET /sessions/{sessionID}
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.sessionResponse(session))
}

// POST /sessions/{sessionID}/answers
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	feedback, err := session.Submit(r.Context(), req.SelectedOption)
	if errors.Is(err, quiz.ErrNoSelection) {
		http.Error(w, "please select an option", http.StatusBadRequest)
		return
	}
	if errors.Is(err, quiz.ErrUnknownOption) {
		http.Error(w, "selected option is not one of the choices", http.StatusBadRequest)
		return
	}
	if errors.Is(err, quiz.ErrNotActive) {
		http.Error(w, "quiz is already finished", http.StatusConflict)
		return
	}
	if err != nil {
		h.logger.Error("submit failed", "error", err, "session_id", session.ID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, SubmitAnswerResponse{
		Number:         feedback.Number,
		Correct:        feedback.IsCorrect,
		UserAnswer:     feedback.UserAnswer,
		CorrectAnswer:  feedback.CorrectOption,
		Explanation:    feedback.Explanation,
		DisplayText:    feedback.DisplayText,
		TotalAttempted: feedback.TotalAttempted,
		CorrectCount:   feedback.CorrectCount,
		MaxQuestions:   feedback.MaxQuestions,
	})
}

// POST /sessions/{sessionID}/next
func (h *Handler) advanceSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := session.Advance(); err != nil && !errors.Is(err, quiz.ErrNotActive) {
		h.logger.Error("advance failed", "error", err, "session_id", session.ID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, h.sessionResponse(session))
}

// GET /sessions/{sessionID}/result
func (h *Handler) getResult(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	snapshot, err := session.Results()
	if errors.Is(err, quiz.ErrNotFinished) {
		http.Error(w, "quiz is not finished yet", http.StatusConflict)
		return
	}
	if err != nil {
		h.logger.Error("result failed", "error", err, "session_id", session.ID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	history := make([]AnswerHistoryEntry, 0, len(snapshot.History))
	for index := 0; index < h.questions.Len(); index++ {
		rec, answered := snapshot.History[index]
		if !answered {
			continue
		}
		history = append(history, AnswerHistoryEntry{
			Number:        index + 1,
			UserAnswer:    rec.UserAnswer,
			Correct:       rec.IsCorrect,
			CorrectAnswer: rec.CorrectOption,
			Explanation:   rec.Explanation,
		})
	}

	respondJSON(w, http.StatusOK, ResultResponse{
		SessionID:      session.ID,
		TotalQuestions: snapshot.TotalQuestions,
		CorrectCount:   snapshot.CorrectCount,
		Accuracy:       snapshot.Accuracy,
		Message:        snapshot.Message,
		History:        history,
	})
}

// POST /sessions/{sessionID}/reset
func (h *Handler) resetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	session.Reset()
	respondJSON(w, http.StatusOK, h.sessionResponse(session))
}

// DELETE /sessions/{sessionID}
func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	h.sessions.Delete(session.ID)
	w.WriteHeader(http.StatusNoContent)
}

// sessionResponse renders the session's current state: the question to
// display while the quiz runs, or just the result screen marker once done.
func (h *Handler) sessionResponse(session *quiz.Session) SessionResponse {
	resp := SessionResponse{
		SessionID: session.ID,
		UserID:    session.UserID,
	}

	view, active := session.CurrentQuestion()
	if active {
		resp.Screen = string(quiz.ScreenQuiz)
		resp.Question = &QuestionResponse{
			Number:         view.Number,
			Text:           view.Text,
			Options:        view.Options[:],
			TotalAttempted: view.TotalAttempted,
			CorrectCount:   view.CorrectCount,
			MaxQuestions:   view.MaxQuestions,
		}
		return resp
	}

	resp.Screen = string(session.CurrentScreen())
	return resp
}
