package quiz

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edu-quiz-ai/eduquizai-backend/internal/grading"
)

// EventSink receives audit events for quiz lifecycle actions. Appending is
// best-effort: a sink failure never fails the user-facing operation.
type EventSink interface {
	Append(ctx context.Context, typ, key string, payload any) error
}

// Service owns quiz creation, grading and submission retrieval. The score
// persisted with a submission is always recomputed here from the stored
// answer key; any client-supplied score is display-only and never written.
type Service struct {
	store  Store
	events EventSink
	now    func() time.Time
}

type Option func(*Service)

// WithEvents attaches an audit sink for quiz.created / submission.graded events.
func WithEvents(sink EventSink) Option { return func(s *Service) { s.events = sink } }

// WithClock is test-only for deterministic timestamps.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

const maxTitleLen = 80

// CreateQuiz persists a freshly generated quiz for a user and returns it
// with its assigned identifier. Questions must be non-empty: an empty quiz
// is not gradable.
func (s *Service) CreateQuiz(ctx context.Context, userID, content string, questions []Question) (Quiz, error) {
	if userID == "" || strings.TrimSpace(content) == "" || len(questions) == 0 {
		return Quiz{}, ErrInvalidRequest
	}
	q := Quiz{
		ID:        uuid.NewString(),
		Title:     quizTitle(content),
		Content:   content,
		Questions: questions,
		CreatedBy: userID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.PutQuiz(ctx, q); err != nil {
		return Quiz{}, fmt.Errorf("store quiz: %w", err)
	}
	s.emit(ctx, "quiz.created", q.ID, map[string]any{"user": userID, "questions": len(questions)})
	return q, nil
}

// GetQuiz returns a learner-safe view of a quiz: answer keys are stripped so
// the canonical answers never reach the client before grading.
func (s *Service) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	if id == "" {
		return Quiz{}, ErrInvalidRequest
	}
	q, err := s.store.GetQuiz(ctx, id)
	if err != nil {
		return Quiz{}, err
	}
	sanitized := make([]Question, len(q.Questions))
	for i, qq := range q.Questions {
		sanitized[i] = Question{Prompt: qq.Prompt, Options: qq.Options}
	}
	q.Questions = sanitized
	return q, nil
}

// ListQuizzes lists the quizzes a user has created, newest first.
func (s *Service) ListQuizzes(ctx context.Context, userID string, opts ListOpts) ([]Summary, error) {
	if userID == "" {
		return nil, ErrInvalidRequest
	}
	return s.store.ListQuizzes(ctx, userID, opts)
}

// GradeSubmission grades learner answers against the stored quiz and
// persists exactly one new submission record. The quiz is never mutated.
// Duplicate submissions for the same (user, quiz) pair accumulate; no
// dedupe is attempted, and no automatic retry is performed on storage
// failure (a retry could double-write).
func (s *Service) GradeSubmission(ctx context.Context, userID, quizID string, answers []SubmittedAnswer) (Submission, error) {
	if userID == "" || quizID == "" {
		return Submission{}, ErrInvalidRequest
	}
	if len(answers) == 0 {
		return Submission{}, ErrInvalidRequest
	}

	q, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		return Submission{}, err
	}

	questions := make([]grading.Q, len(q.Questions))
	for i, qq := range q.Questions {
		questions[i] = grading.Q{Prompt: qq.Prompt, Options: qq.Options, AnswerKey: qq.Answers}
	}
	responses := make([]grading.Response, len(answers))
	for i, a := range answers {
		responses[i] = grading.Response{Prompt: a.Question, Selected: a.SelectedOptions}
	}
	results, score := grading.Grade(questions, responses)

	sub := Submission{
		ID:          uuid.NewString(),
		UserID:      userID,
		QuizID:      quizID,
		Answers:     make([]GradedAnswer, len(results)),
		Score:       score,
		SubmittedAt: s.now().UTC(),
	}
	for i, r := range results {
		sub.Answers[i] = GradedAnswer{
			Question:        r.Prompt,
			Options:         r.Options,
			SelectedOptions: r.Selected,
			CorrectAnswers:  r.AnswerKey,
			IsCorrect:       r.Correct,
		}
	}
	if err := s.store.CreateSubmission(ctx, sub); err != nil {
		return Submission{}, err
	}
	s.emit(ctx, "submission.graded", sub.ID, map[string]any{"user": userID, "quiz": quizID, "score": score})
	return sub, nil
}

// Review returns the most recent stored submission for (user, quiz), fully
// denormalized so the review view needs no second quiz read.
func (s *Service) Review(ctx context.Context, userID, quizID string) (Submission, error) {
	if userID == "" || quizID == "" {
		return Submission{}, ErrInvalidRequest
	}
	return s.store.GetSubmission(ctx, userID, quizID)
}

func (s *Service) emit(ctx context.Context, typ, key string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Append(ctx, typ, key, payload); err != nil {
		log.Printf("event append %s/%s: %v", typ, key, err)
	}
}

func quizTitle(content string) string {
	t := strings.Join(strings.Fields(content), " ")
	if r := []rune(t); len(r) > maxTitleLen {
		t = string(r[:maxTitleLen])
	}
	return "Quiz on " + t
}
