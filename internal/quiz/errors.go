package quiz

import "errors"

var (
	// ErrQuizNotFound is returned when the referenced quiz does not exist.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrSubmissionNotFound is returned when no submission exists for a (user, quiz) pair.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidRequest flags missing or malformed required fields.
	ErrInvalidRequest = errors.New("invalid request")
)
