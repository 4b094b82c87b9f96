package quiz_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/edu-quiz-ai/eduquizai-backend/internal/db"
	"github.com/edu-quiz-ai/eduquizai-backend/internal/quiz"
)

func newSQLiteStore(t *testing.T) *quiz.SQLStore {
	t.Helper()
	ctx := context.Background()

	dbh, err := db.Open(ctx, db.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })

	if _, err := dbh.Exec(
		`INSERT INTO users (id,name,email,password_hash,created_at) VALUES ('u1','Alice','alice@example.com','x',0)`,
	); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return quiz.NewSQLStore(dbh, "sqlite")
}

func seedQuiz(t *testing.T, store *quiz.SQLStore, id string) quiz.Quiz {
	t.Helper()
	q := quiz.Quiz{
		ID:      id,
		Title:   "Quiz on rivers",
		Content: "rivers of europe",
		Questions: []quiz.Question{
			{Prompt: "Longest river in Europe?", Options: []string{"Volga", "Danube", "Rhine", "Seine"}, Answers: []string{"Volga"}},
		},
		CreatedBy: "u1",
		CreatedAt: time.Unix(1700000000, 0).UTC(),
	}
	if err := store.PutQuiz(context.Background(), q); err != nil {
		t.Fatalf("put quiz: %v", err)
	}
	return q
}

func TestSQLStoreQuizRoundTrip(t *testing.T) {
	store := newSQLiteStore(t)
	want := seedQuiz(t, store, "qz-1")

	got, err := store.GetQuiz(context.Background(), "qz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if got.Title != want.Title || got.Content != want.Content || got.CreatedBy != "u1" {
		t.Fatalf("quiz fields mismatch: %+v", got)
	}
	if len(got.Questions) != 1 || got.Questions[0].Answers[0] != "Volga" {
		t.Fatalf("questions mismatch: %+v", got.Questions)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, want.CreatedAt)
	}

	if _, err := store.GetQuiz(context.Background(), "missing"); !errors.Is(err, quiz.ErrQuizNotFound) {
		t.Fatalf("missing quiz: got %v, want ErrQuizNotFound", err)
	}
}

func TestSQLStoreListQuizzes(t *testing.T) {
	store := newSQLiteStore(t)
	seedQuiz(t, store, "qz-1")
	seedQuiz(t, store, "qz-2")

	list, err := store.ListQuizzes(context.Background(), "u1", quiz.ListOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].QuestionCount != 1 {
		t.Fatalf("question count = %d, want 1", list[0].QuestionCount)
	}

	other, err := store.ListQuizzes(context.Background(), "someone-else", quiz.ListOpts{})
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no quizzes for other user, got %d", len(other))
	}
}

func TestSQLStoreSubmissionsAccumulateAndLatestWins(t *testing.T) {
	store := newSQLiteStore(t)
	seedQuiz(t, store, "qz-1")
	ctx := context.Background()

	base := time.Unix(1700001000, 0).UTC()
	for i, score := range []int{0, 1} {
		sub := quiz.Submission{
			ID:     "sub-" + string(rune('a'+i)),
			UserID: "u1",
			QuizID: "qz-1",
			Answers: []quiz.GradedAnswer{{
				Question:        "Longest river in Europe?",
				Options:         []string{"Volga", "Danube", "Rhine", "Seine"},
				SelectedOptions: []string{"Volga"},
				CorrectAnswers:  []string{"Volga"},
				IsCorrect:       score == 1,
			}},
			Score:       score,
			SubmittedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.CreateSubmission(ctx, sub); err != nil {
			t.Fatalf("create submission %d: %v", i, err)
		}
	}

	got, err := store.GetSubmission(ctx, "u1", "qz-1")
	if err != nil {
		t.Fatalf("get submission: %v", err)
	}
	if got.Score != 1 {
		t.Fatalf("score = %d, want the later submission's 1", got.Score)
	}
	if len(got.Answers) != 1 || !got.Answers[0].IsCorrect {
		t.Fatalf("answers mismatch: %+v", got.Answers)
	}

	all, err := store.ListSubmissions(ctx, "u1", quiz.ListOpts{})
	if err != nil {
		t.Fatalf("list submissions: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("submissions accumulated = %d, want 2", len(all))
	}

	if _, err := store.GetSubmission(ctx, "u1", "missing"); !errors.Is(err, quiz.ErrSubmissionNotFound) {
		t.Fatalf("missing submission: got %v, want ErrSubmissionNotFound", err)
	}
}
