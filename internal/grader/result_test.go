package grader

import "testing"

func TestParseResponse_FullTemplate(t *testing.T) {
	response := `RESULT:[CORRECT]
Your answer: Tokyo
Correct answer: Tokyo
Explanation: Tokyo has been the capital since 1868.`

	result, ok := parseResponse(response, "Tokyo")
	if !ok {
		t.Fatal("expected the response to parse")
	}
	if result.Verdict != VerdictCorrect {
		t.Errorf("expected correct verdict, got %q", result.Verdict)
	}
	if result.UserAnswer != "Tokyo" {
		t.Errorf("expected user answer Tokyo, got %q", result.UserAnswer)
	}
	if result.CorrectOption != "Tokyo" {
		t.Errorf("expected correct option Tokyo, got %q", result.CorrectOption)
	}
	if result.Explanation != "Tokyo has been the capital since 1868." {
		t.Errorf("unexpected explanation %q", result.Explanation)
	}
}

func TestParseResponse_MarkerStrippedFromRaw(t *testing.T) {
	result, ok := parseResponse("RESULT:[INCORRECT]\nExplanation: wrong city", "Osaka")
	if !ok {
		t.Fatal("expected the response to parse")
	}
	if result.Raw != "Explanation: wrong city" {
		t.Errorf("expected markers stripped from raw text, got %q", result.Raw)
	}
}

func TestParseResponse_MissingLabelledLines(t *testing.T) {
	// Only the marker is present; labelled fields degrade to placeholders
	// or fall back to the user's own answer / the raw text.
	result, ok := parseResponse("RESULT:[INCORRECT]\nsome unstructured commentary", "Osaka")
	if !ok {
		t.Fatal("expected the response to parse")
	}
	if result.UserAnswer != "Osaka" {
		t.Errorf("expected the submitted answer as fallback, got %q", result.UserAnswer)
	}
	if result.CorrectOption != "(not provided)" {
		t.Errorf("expected a placeholder correct option, got %q", result.CorrectOption)
	}
	if result.Explanation != "some unstructured commentary" {
		t.Errorf("expected the raw text as fallback explanation, got %q", result.Explanation)
	}
}

func TestParseResponse_NoMarker(t *testing.T) {
	if _, ok := parseResponse("I think that's right!", "Tokyo"); ok {
		t.Fatal("expected a response without a verdict marker to fail parsing")
	}
}

func TestParseResponse_CorrectMarkerWins(t *testing.T) {
	// The correct marker is checked first; a response echoing both
	// template alternatives counts as correct rather than unparseable.
	result, ok := parseResponse("RESULT:[CORRECT] or RESULT:[INCORRECT]\nExplanation: echoed the template", "Tokyo")
	if !ok {
		t.Fatal("expected the response to parse")
	}
	if result.Verdict != VerdictCorrect {
		t.Errorf("expected correct verdict, got %q", result.Verdict)
	}
}
