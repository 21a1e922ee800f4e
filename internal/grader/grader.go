package grader

import "context"

// Grader judges a user's selected option against a question.
// Implementations may call an LLM or return canned results (for tests).
type Grader interface {
	// Grade evaluates the user's answer and always returns a well-formed
	// Result: transport failures and unparseable model output are folded
	// into a synthetic incorrect Result before it reaches the caller.
	Grade(ctx context.Context, questionText string, options [3]string, userAnswer string) Result
}
