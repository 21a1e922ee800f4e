// Package quiz holds the per-user quiz progression state machine:
// which question is current, which have been answered, and the running
// score, with at-most-once counting per question index.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/N0Z0My/xlsx-data-app/internal/grader"
	"github.com/N0Z0My/xlsx-data-app/internal/id"
	"github.com/N0Z0My/xlsx-data-app/internal/question"
	"github.com/N0Z0My/xlsx-data-app/internal/quizlog"
)

// Screen is the quiz flow state: login → quiz → result.
type Screen string

const (
	ScreenLogin  Screen = "login"
	ScreenQuiz   Screen = "quiz"
	ScreenResult Screen = "result"
)

var (
	// ErrNoSelection: submit without a chosen option. Recoverable — no
	// state changes, the user may resubmit.
	ErrNoSelection = errors.New("no option selected")
	// ErrUnknownOption: the submitted text is not one of the question's
	// options. Recoverable, same as ErrNoSelection.
	ErrUnknownOption = errors.New("selected option is not one of the choices")
	// ErrNotActive: submit or advance outside the quiz screen.
	ErrNotActive = errors.New("quiz is not active")
	// ErrNotFinished: results requested before the quiz completed.
	ErrNotFinished = errors.New("quiz is not finished")
)

// AnswerRecord is the per-question history entry kept for the result view.
type AnswerRecord struct {
	UserAnswer    string
	IsCorrect     bool
	CorrectOption string
	Explanation   string
}

// QuestionView is what the presentation layer needs to render the
// current question.
type QuestionView struct {
	Index   int // zero-based
	Number  int // 1-based, as shown to the user and in logs
	Text    string
	Options [3]string
	Progress
}

// Progress is the running score, exposed on every view.
type Progress struct {
	TotalAttempted int
	CorrectCount   int
	MaxQuestions   int
}

// Feedback is returned from a counted or repeated submission.
type Feedback struct {
	Number        int
	IsCorrect     bool
	UserAnswer    string
	CorrectOption string
	Explanation   string
	DisplayText   string // raw grader response with verdict markers stripped
	Progress
}

// Snapshot is the immutable summary of a completed quiz attempt.
type Snapshot struct {
	TotalQuestions int
	CorrectCount   int
	Accuracy       float64 // percentage
	Message        string
	History        map[int]AnswerRecord
}

// Session is one user's quiz attempt. All methods are safe for concurrent
// use; the internal mutex also guarantees that only one grading call can
// be outstanding per session — further submits block until it resolves.
type Session struct {
	ID     string
	UserID string

	questions *question.Store
	grader    grader.Grader
	rec       *quizlog.Recorder
	max       int

	mu             sync.Mutex
	screen         Screen
	current        int
	totalAttempted int
	correctCount   int
	answered       map[int]bool
	history        map[int]AnswerRecord
}

// NewSession creates a session on the login screen. maxQuestions is
// clamped to the size of the question set; values below 1 mean the whole
// set. The recorder is injected per session rather than shared globally
// so concurrent users never interleave through one logger.
func NewSession(userID string, store *question.Store, g grader.Grader, rec *quizlog.Recorder, maxQuestions int) *Session {
	max := maxQuestions
	if max < 1 || max > store.Len() {
		max = store.Len()
	}
	return &Session{
		ID:        id.NewSessionID(),
		UserID:    userID,
		questions: store,
		grader:    g,
		rec:       rec,
		max:       max,
		screen:    ScreenLogin,
		answered:  make(map[int]bool),
		history:   make(map[int]AnswerRecord),
	}
}

// Begin moves the session from login to the quiz screen.
func (s *Session) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.screen != ScreenLogin {
		return
	}
	s.screen = ScreenQuiz
	s.rec.SessionStarted()
}

// CurrentQuestion applies the entry and skip guards and returns the
// question to display. ok is false once the session has reached the
// result screen. Each call emits one question-shown log event.
func (s *Session) CurrentQuestion() (QuestionView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyGuards()
	if s.screen != ScreenQuiz {
		return QuestionView{}, false
	}

	q, _ := s.questions.Get(s.current)
	s.rec.QuestionShown(s.current+1, q.Text)
	return QuestionView{
		Index:    s.current,
		Number:   s.current + 1,
		Text:     q.Text,
		Options:  q.Options(),
		Progress: s.progress(),
	}, true
}

// Submit grades the selected option for the current question. An empty
// selection, or text that is not one of the question's options, is a
// validation error with no state mutation. A counted
// submission happens at most once per question index; resubmitting an
// already-answered index returns fresh feedback without touching any
// counter. The grading call blocks the session until it resolves.
func (s *Session) Submit(ctx context.Context, selected string) (Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Only the entry guard applies here: a resubmission on an answered
	// index must grade that same index again, not slide to the next one —
	// the answered-set keeps it from being counted twice.
	if s.screen == ScreenQuiz && s.totalAttempted >= s.max {
		s.finish()
	}
	if s.screen != ScreenQuiz {
		return Feedback{}, ErrNotActive
	}

	number := s.current + 1
	if selected == "" {
		s.rec.NoSelection(number)
		return Feedback{}, ErrNoSelection
	}

	q, ok := s.questions.Get(s.current)
	if !ok {
		return Feedback{}, fmt.Errorf("question index %d out of range", s.current)
	}
	if !q.HasOption(selected) {
		s.rec.UnknownOption(number, selected)
		return Feedback{}, ErrUnknownOption
	}

	result := s.grader.Grade(ctx, q.Text, q.Options(), selected)
	if result.Failed {
		s.rec.GradingFailed(number)
	}

	if !s.answered[s.current] {
		s.answered[s.current] = true
		s.totalAttempted++
		if result.IsCorrect() {
			s.correctCount++
		}
		s.history[s.current] = AnswerRecord{
			UserAnswer:    selected,
			IsCorrect:     result.IsCorrect(),
			CorrectOption: result.CorrectOption,
			Explanation:   result.Explanation,
		}
		s.rec.AnswerGraded(number, result.IsCorrect(), selected)
	}

	return Feedback{
		Number:        number,
		IsCorrect:     result.IsCorrect(),
		UserAnswer:    result.UserAnswer,
		CorrectOption: result.CorrectOption,
		Explanation:   result.Explanation,
		DisplayText:   result.Raw,
		Progress:      s.progress(),
	}, nil
}

// Advance moves to the next unanswered question, or to the result screen
// when none remain or the attempt limit is reached.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyGuards()
	if s.screen != ScreenQuiz {
		return ErrNotActive
	}

	if next, ok := s.nextUnanswered(s.current); ok {
		s.current = next
		return nil
	}
	s.finish()
	return nil
}

// Results returns the terminal snapshot. It fails with ErrNotFinished
// while the quiz is still running.
func (s *Session) Results() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyGuards()
	if s.screen != ScreenResult {
		return Snapshot{}, ErrNotFinished
	}

	accuracy := float64(s.correctCount) / float64(s.max) * 100

	history := make(map[int]AnswerRecord, len(s.history))
	for i, rec := range s.history {
		history[i] = rec
	}

	return Snapshot{
		TotalQuestions: s.max,
		CorrectCount:   s.correctCount,
		Accuracy:       accuracy,
		Message:        resultMessage(accuracy),
		History:        history,
	}, nil
}

// Reset discards all progress and returns the session to the quiz screen
// for another attempt.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen = ScreenQuiz
	s.current = 0
	s.totalAttempted = 0
	s.correctCount = 0
	s.answered = make(map[int]bool)
	s.history = make(map[int]AnswerRecord)
	s.rec.QuizReset()
}

// Progress returns the running counters.
func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress()
}

// CurrentScreen returns the current flow state.
func (s *Session) CurrentScreen() Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen
}

// ── internal (callers hold s.mu) ────────────────────────────────────────────

// applyGuards implements the quiz-state entry guard and the skip guard:
// finish once the attempt limit is reached, otherwise make sure the
// current index points at an unanswered question (wraparound search).
func (s *Session) applyGuards() {
	if s.screen != ScreenQuiz {
		return
	}
	if s.totalAttempted >= s.max {
		s.finish()
		return
	}
	if s.answered[s.current] {
		if next, ok := s.nextUnanswered(s.current); ok {
			s.current = next
		} else {
			s.finish()
		}
	}
}

// nextUnanswered searches forward from the given index, wrapping around,
// for the next index without a counted answer.
func (s *Session) nextUnanswered(from int) (int, bool) {
	n := s.questions.Len()
	for off := 1; off <= n; off++ {
		i := (from + off) % n
		if !s.answered[i] {
			return i, true
		}
	}
	return 0, false
}

func (s *Session) finish() {
	if s.screen == ScreenResult {
		return
	}
	s.screen = ScreenResult
	s.rec.QuizFinished(s.correctCount, s.max)
}

func (s *Session) progress() Progress {
	return Progress{
		TotalAttempted: s.totalAttempted,
		CorrectCount:   s.correctCount,
		MaxQuestions:   s.max,
	}
}

func resultMessage(accuracy float64) string {
	switch {
	case accuracy >= 100:
		return "Perfect score! Outstanding!"
	case accuracy >= 80:
		return "Excellent work!"
	case accuracy >= 60:
		return "Well done!"
	default:
		return "Keep practicing — aim higher next time!"
	}
}
