package quiz

import "context"

// ListOpts bounds quiz listings.
type ListOpts struct {
	Limit  int
	Offset int
}

// Store persists quizzes and graded submissions.
//
// GetQuiz returns the full quiz including answer keys; callers that serve
// quizzes to learners must strip the keys first (see Service.GetQuiz).
// CreateSubmission is append-only and atomic: either the whole submission
// row is stored or none of it.
type Store interface {
	PutQuiz(ctx context.Context, q Quiz) error
	GetQuiz(ctx context.Context, id string) (Quiz, error)
	ListQuizzes(ctx context.Context, userID string, opts ListOpts) ([]Summary, error)

	CreateSubmission(ctx context.Context, s Submission) error
	// GetSubmission returns the most recent submission for (user, quiz).
	GetSubmission(ctx context.Context, userID, quizID string) (Submission, error)
	ListSubmissions(ctx context.Context, userID string, opts ListOpts) ([]Submission, error)
}
