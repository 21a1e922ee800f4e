package grader

import "strings"

// Verdict is the typed correctness judgement extracted from the model's
// response. It is parsed exactly once, at the grading boundary; downstream
// code never inspects the raw response text for correctness.
type Verdict string

const (
	VerdictCorrect   Verdict = "correct"
	VerdictIncorrect Verdict = "incorrect"
)

// Result is what one grading call yields.
type Result struct {
	Verdict       Verdict
	UserAnswer    string // the user's answer as restated by the model
	CorrectOption string // the option the model judged best
	Explanation   string // short rationale, never empty
	Raw           string // full response with the verdict markers stripped
	Failed        bool   // set when this is a synthetic result standing in for a failed call
}

// IsCorrect reports whether the verdict is Correct.
func (r Result) IsCorrect() bool {
	return r.Verdict == VerdictCorrect
}

// The model is instructed to answer in a fixed template. The verdict
// markers are authoritative; the labelled lines are best-effort.
const (
	markerCorrect   = "RESULT:[CORRECT]"
	markerIncorrect = "RESULT:[INCORRECT]"

	labelUserAnswer    = "Your answer:"
	labelCorrectOption = "Correct answer:"
	labelExplanation   = "Explanation:"

	fieldMissing = "(not provided)"
)

// parseResponse extracts a Result from the model's free-text response.
// ok is false when no verdict marker is present; such a response violates
// the grading contract and must take the same fallback path as a
// transport error.
func parseResponse(response, userAnswer string) (Result, bool) {
	var verdict Verdict
	switch {
	case strings.Contains(response, markerCorrect):
		verdict = VerdictCorrect
	case strings.Contains(response, markerIncorrect):
		verdict = VerdictIncorrect
	default:
		return Result{}, false
	}

	r := Result{
		Verdict:       verdict,
		UserAnswer:    labelledLine(response, labelUserAnswer),
		CorrectOption: labelledLine(response, labelCorrectOption),
		Explanation:   labelledLine(response, labelExplanation),
		Raw:           stripMarkers(response),
	}
	if r.UserAnswer == fieldMissing && userAnswer != "" {
		r.UserAnswer = userAnswer
	}
	if r.Explanation == fieldMissing && r.Raw != "" {
		// Degrade gracefully: show the whole response instead.
		r.Explanation = r.Raw
	}
	return r, true
}

// labelledLine finds the first line starting with the given label and
// returns the text after it. Absent or empty lines yield a placeholder so
// rendering never deals with missing fields.
func labelledLine(response, label string) string {
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, label) {
			if v := strings.TrimSpace(strings.TrimPrefix(line, label)); v != "" {
				return v
			}
		}
	}
	return fieldMissing
}

func stripMarkers(response string) string {
	response = strings.ReplaceAll(response, markerCorrect, "")
	response = strings.ReplaceAll(response, markerIncorrect, "")
	return strings.TrimSpace(response)
}
