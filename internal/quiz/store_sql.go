package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLStore persists quizzes and submissions via database/sql. Questions and
// graded answers are stored as JSON columns, same shape the API serves.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) PutQuiz(ctx context.Context, q Quiz) error {
	qj, err := json.Marshal(q.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quizzes (id,title,content,questions_json,created_by,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		q.ID, q.Title, q.Content, string(qj), q.CreatedBy, q.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}
	return nil
}

func (s *SQLStore) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,title,content,questions_json,created_by,created_at FROM quizzes WHERE id=$1`, id)
	var q Quiz
	var qjson string
	var createdAt int64
	if err := row.Scan(&q.ID, &q.Title, &q.Content, &qjson, &q.CreatedBy, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, ErrQuizNotFound
		}
		return Quiz{}, fmt.Errorf("select quiz: %w", err)
	}
	if err := json.Unmarshal([]byte(qjson), &q.Questions); err != nil {
		return Quiz{}, fmt.Errorf("unmarshal questions: %w", err)
	}
	q.CreatedAt = unixTime(createdAt)
	return q, nil
}

func (s *SQLStore) ListQuizzes(ctx context.Context, userID string, opts ListOpts) ([]Summary, error) {
	limit, offset := normalizePage(opts)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,title,questions_json,created_at FROM quizzes
		 WHERE created_by=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sum Summary
		var qjson string
		var createdAt int64
		if err := rows.Scan(&sum.ID, &sum.Title, &qjson, &createdAt); err != nil {
			return nil, fmt.Errorf("scan quiz row: %w", err)
		}
		var qs []Question
		if err := json.Unmarshal([]byte(qjson), &qs); err == nil {
			sum.QuestionCount = len(qs)
		}
		sum.CreatedAt = unixTime(createdAt)
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLStore) CreateSubmission(ctx context.Context, sub Submission) error {
	aj, err := json.Marshal(sub.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	// Single INSERT keeps the write atomic: the whole submission lands or none of it.
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO submissions (id,user_id,quiz_id,answers_json,score,submitted_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		sub.ID, sub.UserID, sub.QuizID, string(aj), sub.Score, sub.SubmittedAt.Unix())
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *SQLStore) GetSubmission(ctx context.Context, userID, quizID string) (Submission, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,user_id,quiz_id,answers_json,score,submitted_at FROM submissions
		 WHERE user_id=$1 AND quiz_id=$2 ORDER BY submitted_at DESC, id DESC LIMIT 1`,
		userID, quizID)
	sub, err := scanSubmission(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, ErrSubmissionNotFound
		}
		return Submission{}, err
	}
	return sub, nil
}

func (s *SQLStore) ListSubmissions(ctx context.Context, userID string, opts ListOpts) ([]Submission, error) {
	limit, offset := normalizePage(opts)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,user_id,quiz_id,answers_json,score,submitted_at FROM submissions
		 WHERE user_id=$1 ORDER BY submitted_at DESC, id DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	out := []Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func scanSubmission(scan func(dest ...any) error) (Submission, error) {
	var sub Submission
	var ajson string
	var submittedAt int64
	if err := scan(&sub.ID, &sub.UserID, &sub.QuizID, &ajson, &sub.Score, &submittedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, sql.ErrNoRows
		}
		return Submission{}, fmt.Errorf("scan submission: %w", err)
	}
	if err := json.Unmarshal([]byte(ajson), &sub.Answers); err != nil {
		return Submission{}, fmt.Errorf("unmarshal answers: %w", err)
	}
	sub.SubmittedAt = unixTime(submittedAt)
	return sub, nil
}

func unixTime(sec int64) time.Time { return time.Unix(sec, 0).UTC() }

func normalizePage(opts ListOpts) (limit, offset int) {
	limit = opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset = opts.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
