package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/N0Z0My/xlsx-data-app/internal/api"
	"github.com/N0Z0My/xlsx-data-app/internal/grader"
	"github.com/N0Z0My/xlsx-data-app/internal/question"
	"github.com/N0Z0My/xlsx-data-app/internal/quizlog"
	"github.com/N0Z0My/xlsx-data-app/internal/store/memory"
)

// scriptedGrader returns verdicts in order, incorrect once exhausted.
type scriptedGrader struct {
	verdicts []grader.Verdict
	calls    int
}

func (g *scriptedGrader) Grade(_ context.Context, _ string, options [3]string, userAnswer string) grader.Result {
	verdict := grader.VerdictIncorrect
	if g.calls < len(g.verdicts) {
		verdict = g.verdicts[g.calls]
	}
	g.calls++
	return grader.Result{
		Verdict:       verdict,
		UserAnswer:    userAnswer,
		CorrectOption: options[0],
		Explanation:   "the first option is correct",
	}
}

func testQuestions() *question.Store {
	return question.NewStore([]question.Question{
		{Text: "Capital of Japan?", OptionA: "Tokyo", OptionB: "Osaka", OptionC: "Kyoto"},
		{Text: "Currency of Japan?", OptionA: "Yen", OptionB: "Won", OptionC: "Yuan"},
	})
}

func newTestServer(t *testing.T, g grader.Grader, sinks []quizlog.Sink, reader quizlog.Reader) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := api.NewHandler(memory.NewSessionStore(), testQuestions(), g, sinks, reader, 2, logger)

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, h)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &decoded)
	return resp, decoded
}

func createSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/sessions", `{"user_id": "alice"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	id, _ := body["session_id"].(string)
	if id == "" {
		t.Fatal("expected a session_id in the response")
	}
	return id
}

func TestCreateSession_ReturnsFirstQuestion(t *testing.T) {
	srv := newTestServer(t, &scriptedGrader{}, nil, nil)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/sessions", `{"user_id": "alice"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if body["screen"] != "quiz" {
		t.Errorf("expected quiz screen, got %v", body["screen"])
	}
	q, ok := body["question"].(map[string]any)
	if !ok {
		t.Fatal("expected a question in the response")
	}
	if q["number"].(float64) != 1 {
		t.Errorf("expected question 1, got %v", q["number"])
	}
	if len(q["options"].([]any)) != 3 {
		t.Errorf("expected 3 options, got %v", q["options"])
	}
}

func TestCreateSession_RequiresUserID(t *testing.T) {
	srv := newTestServer(t, &scriptedGrader{}, nil, nil)
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/sessions", `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSubmit_EmptySelection(t *testing.T) {
	srv := newTestServer(t, &scriptedGrader{}, nil, nil)
	id := createSession(t, srv)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/sessions/"+id+"/answers", `{"selected_option": ""}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty selection, got %d", resp.StatusCode)
	}

	// Nothing counted; question 1 still current.
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/sessions/"+id, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	q := body["question"].(map[string]any)
	if q["number"].(float64) != 1 {
		t.Errorf("expected question 1 to remain current, got %v", q["number"])
	}
	if q["total_attempted"].(float64) != 0 {
		t.Errorf("expected total_attempted 0, got %v", q["total_attempted"])
	}
}

func TestSubmit_UnknownOption(t *testing.T) {
	srv := newTestServer(t, &scriptedGrader{}, nil, nil)
	id := createSession(t, srv)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/sessions/"+id+"/answers", `{"selected_option": "Paris"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unknown option, got %d", resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/sessions/"+id, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	q := body["question"].(map[string]any)
	if q["total_attempted"].(float64) != 0 {
		t.Errorf("expected total_attempted 0, got %v", q["total_attempted"])
	}
}

func TestFullQuizFlow(t *testing.T) {
	srv := newTestServer(t, &scriptedGrader{verdicts: []grader.Verdict{
		grader.VerdictCorrect, grader.VerdictIncorrect,
	}}, nil, nil)
	id := createSession(t, srv)

	// Question 1: correct.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/sessions/"+id+"/answers", `{"selected_option": "Tokyo"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["correct"] != true {
		t.Errorf("expected a correct answer, got %v", body["correct"])
	}
	if body["explanation"] == "" {
		t.Error("expected an explanation")
	}

	// Result not available mid-quiz.
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/sessions/"+id+"/result", "")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 before the quiz finishes, got %d", resp.StatusCode)
	}

	// Advance, question 2: incorrect.
	doJSON(t, http.MethodPost, srv.URL+"/sessions/"+id+"/next", "")
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/sessions/"+id+"/answers", `{"selected_option": "Won"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["correct"] != false {
		t.Errorf("expected an incorrect answer, got %v", body["correct"])
	}

	// Quiz finished: session shows the result screen, result is served.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/sessions/"+id, "")
	if body["screen"] != "result" {
		t.Errorf("expected result screen, got %v", body["screen"])
	}

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/sessions/"+id+"/result", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["total_questions"].(float64) != 2 {
		t.Errorf("expected total_questions 2, got %v", body["total_questions"])
	}
	if body["correct_count"].(float64) != 1 {
		t.Errorf("expected correct_count 1, got %v", body["correct_count"])
	}
	if len(body["history"].([]any)) != 2 {
		t.Errorf("expected 2 history entries, got %v", body["history"])
	}

	// Further submits are rejected.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/sessions/"+id+"/answers", `{"selected_option": "Tokyo"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 after the quiz finished, got %d", resp.StatusCode)
	}
}

func TestResetSession(t *testing.T) {
	srv := newTestServer(t, &scriptedGrader{verdicts: []grader.Verdict{
		grader.VerdictCorrect, grader.VerdictCorrect,
	}}, nil, nil)
	id := createSession(t, srv)

	doJSON(t, http.MethodPost, srv.URL+"/sessions/"+id+"/answers", `{"selected_option": "Tokyo"}`)
	doJSON(t, http.MethodPost, srv.URL+"/sessions/"+id+"/next", "")
	doJSON(t, http.MethodPost, srv.URL+"/sessions/"+id+"/answers", `{"selected_option": "Yen"}`)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/sessions/"+id+"/reset", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["screen"] != "quiz" {
		t.Errorf("expected quiz screen after reset, got %v", body["screen"])
	}
	q := body["question"].(map[string]any)
	if q["total_attempted"].(float64) != 0 {
		t.Errorf("expected counters reset, got %v", q["total_attempted"])
	}
}

func TestDeleteSession(t *testing.T) {
	srv := newTestServer(t, &scriptedGrader{}, nil, nil)
	id := createSession(t, srv)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/sessions/"+id, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	getResp, _ := doJSON(t, http.MethodGet, srv.URL+"/sessions/"+id, "")
	if getResp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", getResp.StatusCode)
	}
}

func TestUnknownSession(t *testing.T) {
	srv := newTestServer(t, &scriptedGrader{}, nil, nil)
	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/sessions/doesnotexist", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
