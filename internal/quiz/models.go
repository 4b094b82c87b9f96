package quiz

import "time"

// Question is one multiple-choice question. Answers holds the canonical
// correct-option set; generation currently always produces a single element,
// but grading compares sets so multi-answer questions work unchanged.
type Question struct {
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
	Answers []string `json:"answers,omitempty"`
}

// Quiz is a named, ordered set of questions plus the source text it was
// generated from. Question order is significant: it defines the indices
// submissions align with. A quiz is immutable once created.
type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Questions []Question `json:"questions"`
	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
}

// Summary is the listing view of a quiz, without the questions payload.
type Summary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// SubmittedAnswer is one learner answer as sent by the client. Question is
// the prompt text, used to locate the canonical question.
type SubmittedAnswer struct {
	Question        string   `json:"question"`
	SelectedOptions []string `json:"selectedOptions"`
}

// GradedAnswer is the persisted outcome for one submitted answer. Everything
// is denormalized at grading time; IsCorrect is computed once and never
// recomputed on read.
type GradedAnswer struct {
	Question        string   `json:"question"`
	Options         []string `json:"options"`
	SelectedOptions []string `json:"selectedOptions"`
	CorrectAnswers  []string `json:"correctAnswers"`
	IsCorrect       bool     `json:"isCorrect"`
}

// Submission is one graded attempt at a quiz by a user. Multiple submissions
// may exist for the same (user, quiz) pair; they accumulate.
type Submission struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user"`
	QuizID      string         `json:"quiz"`
	Answers     []GradedAnswer `json:"answers"`
	Score       int            `json:"score"`
	SubmittedAt time.Time      `json:"submittedAt"`
}
