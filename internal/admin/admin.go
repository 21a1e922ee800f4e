// Package admin turns the raw activity log back into tabular data for the
// admin screens: an event table reconstructed with regular expressions,
// and aggregate per-question statistics.
package admin

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/N0Z0My/xlsx-data-app/internal/quizlog"
)

// Message patterns written by quizlog.Recorder.
var (
	questionShownRe = regexp.MustCompile(`^question shown - number: (\d+), question: (.*)$`)
	answerGradedRe  = regexp.MustCompile(`^answer (correct|incorrect) - number: (\d+), answer: (.*)$`)
)

// EventKind classifies a reconstructed log row.
type EventKind string

const (
	EventQuestionShown EventKind = "question_shown"
	EventAnswerGraded  EventKind = "answer_graded"
	EventOther         EventKind = "other"
)

// Event is one reconstructed row of the admin log table.
type Event struct {
	Time           time.Time
	UserID         string
	Level          quizlog.Level
	Kind           EventKind
	QuestionNumber int    // 1-based; 0 when not applicable
	QuestionText   string // question_shown only
	UserAnswer     string // answer_graded only
	Correct        bool   // answer_graded only
	Message        string // the raw message, always present
}

// ParseEntry classifies a single log entry.
func ParseEntry(e quizlog.Entry) Event {
	ev := Event{
		Time:    e.Time,
		UserID:  e.UserID,
		Level:   e.Level,
		Kind:    EventOther,
		Message: e.Message,
	}

	if m := questionShownRe.FindStringSubmatch(e.Message); m != nil {
		ev.Kind = EventQuestionShown
		ev.QuestionNumber, _ = strconv.Atoi(m[1])
		ev.QuestionText = m[2]
		return ev
	}
	if m := answerGradedRe.FindStringSubmatch(e.Message); m != nil {
		ev.Kind = EventAnswerGraded
		ev.Correct = m[1] == "correct"
		ev.QuestionNumber, _ = strconv.Atoi(m[2])
		ev.UserAnswer = m[3]
		return ev
	}
	return ev
}

// ParseEntries classifies a batch of entries, preserving order.
func ParseEntries(entries []quizlog.Entry) []Event {
	events := make([]Event, len(entries))
	for i, e := range entries {
		events[i] = ParseEntry(e)
	}
	return events
}

// QuestionStats aggregates answer events for one question number.
type QuestionStats struct {
	QuestionNumber int     `json:"question_number"`
	QuestionText   string  `json:"question_text,omitempty"`
	Attempts       int     `json:"attempts"`
	Correct        int     `json:"correct"`
	Accuracy       float64 `json:"accuracy"` // percentage
}

// Stats is the aggregate view shown on the statistics tab.
type Stats struct {
	TotalAttempts int             `json:"total_attempts"`
	TotalCorrect  int             `json:"total_correct"`
	Accuracy      float64         `json:"accuracy"` // percentage
	Questions     []QuestionStats `json:"questions"`
}

// BuildStats computes aggregate statistics from reconstructed events.
// Question text is filled in from display events when available.
func BuildStats(events []Event) Stats {
	perQuestion := make(map[int]*QuestionStats)
	texts := make(map[int]string)

	var stats Stats
	for _, ev := range events {
		switch ev.Kind {
		case EventQuestionShown:
			texts[ev.QuestionNumber] = ev.QuestionText
		case EventAnswerGraded:
			qs, ok := perQuestion[ev.QuestionNumber]
			if !ok {
				qs = &QuestionStats{QuestionNumber: ev.QuestionNumber}
				perQuestion[ev.QuestionNumber] = qs
			}
			qs.Attempts++
			stats.TotalAttempts++
			if ev.Correct {
				qs.Correct++
				stats.TotalCorrect++
			}
		}
	}

	for number, qs := range perQuestion {
		qs.QuestionText = texts[number]
		if qs.Attempts > 0 {
			qs.Accuracy = float64(qs.Correct) / float64(qs.Attempts) * 100
		}
		stats.Questions = append(stats.Questions, *qs)
	}
	sort.Slice(stats.Questions, func(i, j int) bool {
		return stats.Questions[i].QuestionNumber < stats.Questions[j].QuestionNumber
	})

	if stats.TotalAttempts > 0 {
		stats.Accuracy = float64(stats.TotalCorrect) / float64(stats.TotalAttempts) * 100
	}
	return stats
}
