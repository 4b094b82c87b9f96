package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/edu-quiz-ai/eduquizai-backend/internal/auth"
	"github.com/edu-quiz-ai/eduquizai-backend/internal/extract"
	"github.com/edu-quiz-ai/eduquizai-backend/internal/quiz"
	"github.com/edu-quiz-ai/eduquizai-backend/internal/storage"
)

// QuizGenerator produces questions from study material. The LLM client
// implements it; tests substitute a fake.
type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, content string) ([]quiz.Question, error)
}

// learnerQuiz is the client-facing quiz view. Answer keys are never included.
type learnerQuiz struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Questions []quiz.Question `json:"questions"`
}

func toLearnerQuiz(q quiz.Quiz) learnerQuiz {
	out := learnerQuiz{ID: q.ID, Title: q.Title, Questions: make([]quiz.Question, len(q.Questions))}
	for i, qq := range q.Questions {
		out.Questions[i] = quiz.Question{Prompt: qq.Prompt, Options: qq.Options}
	}
	return out
}

func GenerateQuizHandler(svc *quiz.Service, gen QuizGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "bad json")
			return
		}
		if strings.TrimSpace(req.Content) == "" {
			writeMessage(w, http.StatusBadRequest, "content required")
			return
		}
		generateAndRespond(w, r, svc, gen, req.Content)
	}
}

// UploadQuizHandler accepts a document upload (field "pdfFile"), archives it,
// extracts its text and generates a quiz from it.
func UploadQuizHandler(svc *quiz.Service, gen QuizGenerator, blobs storage.BlobStore, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		f, hdr, err := r.FormFile("pdfFile")
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "pdfFile required")
			return
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			writeMessage(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}

		key := "uploads/" + uuid.NewString() + strings.ToLower(filepath.Ext(hdr.Filename))
		if _, err := blobs.Put(key, bytes.NewReader(data)); err != nil {
			writeErr(w, err)
			return
		}

		text, err := extract.Text(hdr.Filename, data)
		switch {
		case errors.Is(err, extract.ErrTooLarge):
			writeMessage(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		case errors.Is(err, extract.ErrEmptyText):
			writeMessage(w, http.StatusBadRequest, "no readable text in upload")
			return
		case err != nil:
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		generateAndRespond(w, r, svc, gen, text)
	}
}

func generateAndRespond(w http.ResponseWriter, r *http.Request, svc *quiz.Service, gen QuizGenerator, content string) {
	questions, err := gen.GenerateQuiz(r.Context(), content)
	if err != nil {
		writeMessage(w, http.StatusBadGateway, "quiz generation failed")
		return
	}
	q, err := svc.CreateQuiz(r.Context(), auth.SubjectFromContext(r.Context()), content, questions)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusCreated, toLearnerQuiz(q))
}

func GetQuizHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := svc.GetQuiz(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeData(w, http.StatusOK, toLearnerQuiz(q))
	}
}

func ListQuizzesHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := quiz.ListOpts{
			Limit:  queryInt(r, "limit"),
			Offset: queryInt(r, "offset"),
		}
		list, err := svc.ListQuizzes(r.Context(), auth.SubjectFromContext(r.Context()), opts)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeData(w, http.StatusOK, list)
	}
}

// SubmitQuizHandler grades a submission. Any client-supplied score field is
// ignored: the persisted score is recomputed from the stored answer key.
func SubmitQuizHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QuizID  string                 `json:"quizId"`
			Answers []quiz.SubmittedAnswer `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "bad json")
			return
		}
		sub, err := svc.GradeSubmission(r.Context(), auth.SubjectFromContext(r.Context()), req.QuizID, req.Answers)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"success": true,
			"message": "quiz submitted",
			"score":   sub.Score,
		})
	}
}

// PreviousSubmissionHandler returns the authenticated user's most recent
// graded submission for a quiz, for the review screen.
func PreviousSubmissionHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QuizID string `json:"quizId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "bad json")
			return
		}
		sub, err := svc.Review(r.Context(), auth.SubjectFromContext(r.Context()), req.QuizID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeData(w, http.StatusOK, sub)
	}
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}
