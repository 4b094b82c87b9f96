package audit

import (
	"context"
	"testing"

	"github.com/edu-quiz-ai/eduquizai-backend/internal/db"
)

func TestAppendAndList(t *testing.T) {
	ctx := context.Background()
	h, err := db.Open(ctx, db.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	repo := NewEventRepo(h)

	if err := repo.Append(ctx, "quiz.created", "q1", map[string]any{"user": "u1"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Append(ctx, "submission.graded", "s1", nil); err != nil {
		t.Fatal(err)
	}

	events, err := repo.List(ctx, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Type != "quiz.created" || events[1].Type != "submission.graded" {
		t.Fatalf("wrong order: %+v", events)
	}
	if events[1].DataJSON != "{}" {
		t.Fatalf("nil payload stored as %q, want {}", events[1].DataJSON)
	}

	// Resume after the first offset.
	tail, err := repo.List(ctx, events[0].Offset, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(tail) != 1 || tail[0].Key != "s1" {
		t.Fatalf("tail = %+v", tail)
	}
}
