package grader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// OpenAIGrader grades answers by calling an OpenAI-compatible chat
// completions endpoint (api.openai.com, LM Studio, vLLM, etc.).
type OpenAIGrader struct {
	baseURL     string // e.g. "https://api.openai.com"
	apiKey      string
	model       string  // e.g. "gpt-4"
	temperature float64 // affects wording, not the correctness contract
	timeout     time.Duration
	client      *http.Client // reused across calls
	logger      *slog.Logger
}

// Compile-time check: *OpenAIGrader satisfies the Grader interface.
var _ Grader = (*OpenAIGrader)(nil)

// GradeError is the grader-internal failure type, so logs can distinguish
// "the model answered off-contract" from "the endpoint was unreachable."
type GradeError struct {
	Reason  string
	Wrapped error
}

func (e *GradeError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("grading failed: %s: %v", e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("grading failed: %s", e.Reason)
}

func (e *GradeError) Unwrap() error {
	return e.Wrapped
}

// Options configures an OpenAIGrader.
type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// NewOpenAIGrader creates a grader that calls the given endpoint.
func NewOpenAIGrader(opts Options, logger *slog.Logger) *OpenAIGrader {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAIGrader{
		baseURL:     opts.BaseURL,
		apiKey:      opts.APIKey,
		model:       opts.Model,
		temperature: opts.Temperature,
		timeout:     timeout,
		client:      &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// ============================================================================
// Grader interface
// ============================================================================

// Grade sends the question, options and user answer to the model and
// parses the templated response. It never returns an error: any transport
// failure, timeout or off-contract response becomes a synthetic incorrect
// Result so the quiz state machine always receives a well-formed value.
// The call is bounded by the configured timeout; no retries.
func (g *OpenAIGrader) Grade(ctx context.Context, questionText string, options [3]string, userAnswer string) Result {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	response, err := g.callModel(ctx, buildPrompt(questionText, options, userAnswer))
	if err != nil {
		g.logger.Error("grading call failed", "error", err)
		return fallbackResult(userAnswer)
	}

	result, ok := parseResponse(response, userAnswer)
	if !ok {
		g.logger.Error("grading response violated the template",
			"error", &GradeError{Reason: "no verdict marker in model response"},
			"response", response,
		)
		return fallbackResult(userAnswer)
	}
	return result
}

// fallbackResult satisfies the grading contract when the model could not:
// the answer is marked incorrect and the explanation apologizes.
func fallbackResult(userAnswer string) Result {
	return Result{
		Verdict:       VerdictIncorrect,
		UserAnswer:    userAnswer,
		CorrectOption: "an error occurred during evaluation",
		Explanation:   "Sorry, something went wrong while evaluating your answer. Please try the next question.",
		Raw:           "",
		Failed:        true,
	}
}

// ============================================================================
// Model communication
// ============================================================================

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const systemPrompt = "You are a knowledgeable and rigorous quiz examiner. " +
	"You evaluate whether a user's answer to a multiple-choice question is correct, " +
	"and you always respond in exactly the format you are asked to use."

// callModel sends a single chat completion request and returns the raw
// text response.
func (g *OpenAIGrader) callModel(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: g.temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &GradeError{Reason: "model request failed", Wrapped: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &GradeError{Reason: fmt.Sprintf("model returned status %d", resp.StatusCode)}
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", &GradeError{Reason: "failed to decode model response", Wrapped: err}
	}

	if len(chatResp.Choices) == 0 {
		return "", &GradeError{Reason: "model returned no choices"}
	}

	content := chatResp.Choices[0].Message.Content
	if content == "" {
		return "", &GradeError{Reason: "model returned empty content"}
	}

	return content, nil
}

// ============================================================================
// Prompt builder — short and directive so the templated answer is the
// last thing the model sees.
// ============================================================================

func buildPrompt(questionText string, options [3]string, userAnswer string) string {
	return fmt.Sprintf(`Question: %s
Options:
A. %s
B. %s
C. %s
User's answer: %s

Evaluate the user's answer by following these steps, and answer strictly in the requested format:

1. Silently determine which option best answers the question. (Do not output this step.)
2. Silently compare the user's answer against that option, allowing rephrasing and semantically equivalent wording. (Do not output this step.)
3. Respond in exactly this format:

RESULT:[CORRECT] or RESULT:[INCORRECT]
Your answer: [the user's answer]
Correct answer: [the best option]
Explanation: [a brief explanation]`,
		questionText, options[0], options[1], options[2], userAnswer)
}
