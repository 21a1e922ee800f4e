package question

// Question is one multiple-choice question with exactly three options.
// Questions are immutable once loaded and addressed by their zero-based
// position in the loaded set.
type Question struct {
	Text    string
	OptionA string
	OptionB string
	OptionC string
}

// Options returns the answer options in their fixed A, B, C order.
func (q Question) Options() [3]string {
	return [3]string{q.OptionA, q.OptionB, q.OptionC}
}

// HasOption reports whether the given text matches one of the three options.
func (q Question) HasOption(text string) bool {
	return text == q.OptionA || text == q.OptionB || text == q.OptionC
}

// Store is a read-only, fully in-memory question set.
type Store struct {
	questions []Question
}

// NewStore wraps an already-built question slice. Used by tests and by
// the xlsx loader.
func NewStore(questions []Question) *Store {
	return &Store{questions: questions}
}

// Len returns the number of loaded questions.
func (s *Store) Len() int {
	return len(s.questions)
}

// Get returns the question at the given zero-based index.
// ok is false when the index is out of range.
func (s *Store) Get(i int) (Question, bool) {
	if i < 0 || i >= len(s.questions) {
		return Question{}, false
	}
	return s.questions[i], true
}
