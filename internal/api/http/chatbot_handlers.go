package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/edu-quiz-ai/eduquizai-backend/internal/llm"
)

// Chatter answers study-assistant conversations. The LLM client implements it.
type Chatter interface {
	Chat(ctx context.Context, history []llm.Message) (string, error)
}

// ChatHandler proxies one chatbot turn. The client may send prior turns in
// "history"; the latest user message rides in "message".
func ChatHandler(chatter Chatter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Message string        `json:"message"`
			History []llm.Message `json:"history"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "bad json")
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			writeMessage(w, http.StatusBadRequest, "message required")
			return
		}
		history := append(req.History, llm.Message{Role: "user", Content: req.Message})
		reply, err := chatter.Chat(r.Context(), history)
		if err != nil {
			writeMessage(w, http.StatusBadGateway, "chat failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "reply": reply})
	}
}
