// Package quizlog is the append-only activity log behind the admin
// surface: one entry per question display and per graded answer, plus
// session lifecycle events. Writing is strictly best-effort — a sink
// failure must never block or fail the quiz flow.
package quizlog

import (
	"fmt"
	"log/slog"
	"time"
)

// Level mirrors the levels the admin surface filters on.
type Level string

const (
	LevelInfo    Level = "INFO"
	LevelWarning Level = "WARNING"
	LevelError   Level = "ERROR"
)

// Entry is one activity log record.
type Entry struct {
	Time    time.Time
	UserID  string
	Level   Level
	Message string
}

// Query filters entries when reading the log back.
// Zero values mean "no filter"; Limit 0 means no limit.
type Query struct {
	UserID string
	Level  Level
	Limit  int
}

// Sink appends entries somewhere durable. Implementations must tolerate
// concurrent appends.
type Sink interface {
	Append(e Entry) error
	Close() error
}

// Reader reads entries back for the admin surface. Both sinks in this
// package also implement Reader.
type Reader interface {
	Entries(q Query) ([]Entry, error)
}

// Recorder is the per-session logging handle the quiz state machine gets
// injected with. It stamps entries with its user id and fans them out to
// every configured sink; sink errors are reported to the server logger
// and otherwise swallowed.
type Recorder struct {
	userID string
	sinks  []Sink
	logger *slog.Logger
}

// NewRecorder binds a recorder to a user id.
func NewRecorder(userID string, sinks []Sink, logger *slog.Logger) *Recorder {
	return &Recorder{userID: userID, sinks: sinks, logger: logger}
}

func (r *Recorder) emit(level Level, msg string) {
	e := Entry{
		Time:    time.Now(),
		UserID:  r.userID,
		Level:   level,
		Message: msg,
	}
	for _, sink := range r.sinks {
		if err := sink.Append(e); err != nil {
			r.logger.Warn("activity log append failed", "error", err, "user_id", r.userID)
		}
	}
}

func (r *Recorder) Info(msg string)  { r.emit(LevelInfo, msg) }
func (r *Recorder) Warn(msg string)  { r.emit(LevelWarning, msg) }
func (r *Recorder) Error(msg string) { r.emit(LevelError, msg) }

// ── Domain events ───────────────────────────────────────────────────────────
// Message formats below are a contract with internal/admin, which parses
// them back out of the raw log with regular expressions. Question numbers
// are 1-based in messages.

func (r *Recorder) SessionStarted() {
	r.Info("session started")
}

func (r *Recorder) QuestionShown(number int, text string) {
	r.Info(fmt.Sprintf("question shown - number: %d, question: %s", number, text))
}

func (r *Recorder) AnswerGraded(number int, correct bool, userAnswer string) {
	result := "incorrect"
	if correct {
		result = "correct"
	}
	r.Info(fmt.Sprintf("answer %s - number: %d, answer: %s", result, number, userAnswer))
}

func (r *Recorder) NoSelection(number int) {
	r.Warn(fmt.Sprintf("no option selected - number: %d", number))
}

func (r *Recorder) UnknownOption(number int, selected string) {
	r.Warn(fmt.Sprintf("unknown option - number: %d, answer: %s", number, selected))
}

func (r *Recorder) GradingFailed(number int) {
	r.Error(fmt.Sprintf("grading failed - number: %d", number))
}

func (r *Recorder) QuizFinished(correctCount, totalQuestions int) {
	r.Info(fmt.Sprintf("quiz finished - correct: %d, total: %d", correctCount, totalQuestions))
}

func (r *Recorder) QuizReset() {
	r.Info("quiz reset")
}
