package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/edu-quiz-ai/eduquizai-backend/internal/quiz"
)

// All endpoints answer with the same envelope: {"success": bool, ...}.
// Failures carry a message; successes carry whatever the handler adds.

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": status < 400, "message": msg})
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"success": true, "data": data})
}

// writeErr maps domain errors onto HTTP statuses. Unknown errors are logged
// server-side and reported as a generic 500 so internals never leak.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrInvalidRequest):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, quiz.ErrQuizNotFound),
		errors.Is(err, quiz.ErrSubmissionNotFound),
		errors.Is(err, quiz.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}
