package quiz

import (
	"context"
	"sort"
	"sync"
)

type memoryStore struct {
	mu          sync.RWMutex
	quizzes     map[string]Quiz
	submissions []Submission
}

// NewInMemoryStore returns a Store backed by process memory, for tests.
func NewInMemoryStore() Store {
	return &memoryStore{quizzes: map[string]Quiz{}}
}

func (m *memoryStore) PutQuiz(_ context.Context, q Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quizzes[q.ID] = q
	return nil
}

func (m *memoryStore) GetQuiz(_ context.Context, id string) (Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quizzes[id]
	if !ok {
		return Quiz{}, ErrQuizNotFound
	}
	return q, nil
}

func (m *memoryStore) ListQuizzes(_ context.Context, userID string, opts ListOpts) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Summary{}
	for _, q := range m.quizzes {
		if q.CreatedBy != userID {
			continue
		}
		out = append(out, Summary{ID: q.ID, Title: q.Title, QuestionCount: len(q.Questions), CreatedAt: q.CreatedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, opts), nil
}

func (m *memoryStore) CreateSubmission(_ context.Context, s Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quizzes[s.QuizID]; !ok {
		return ErrQuizNotFound
	}
	m.submissions = append(m.submissions, s)
	return nil
}

func (m *memoryStore) GetSubmission(_ context.Context, userID, quizID string) (Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	// Latest wins; submissions are appended in order.
	for i := len(m.submissions) - 1; i >= 0; i-- {
		s := m.submissions[i]
		if s.UserID == userID && s.QuizID == quizID {
			return s, nil
		}
	}
	return Submission{}, ErrSubmissionNotFound
}

func (m *memoryStore) ListSubmissions(_ context.Context, userID string, opts ListOpts) ([]Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Submission{}
	for i := len(m.submissions) - 1; i >= 0; i-- {
		if m.submissions[i].UserID == userID {
			out = append(out, m.submissions[i])
		}
	}
	return page(out, opts), nil
}

func page[T any](in []T, opts ListOpts) []T {
	if opts.Offset > 0 {
		if opts.Offset >= len(in) {
			return []T{}
		}
		in = in[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(in) {
		in = in[:opts.Limit]
	}
	return in
}
