package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/edu-quiz-ai/eduquizai-backend/internal/quiz"
)

const optionsPerQuestion = 4

// generatedQuestion is the wire shape the model is prompted to produce.
// Answer tolerates both a bare string and an array: hosted models emit
// either, and the coercion happens once here so everything downstream
// works with a canonical answer set.
type generatedQuestion struct {
	Question string          `json:"question"`
	Options  []string        `json:"options"`
	Answer   json.RawMessage `json:"answer"`
}

// ParseQuizJSON extracts the JSON array from a model completion and
// validates it into quiz questions. Completions are frequently wrapped in
// prose or markdown fences; everything outside the outermost [...] is
// ignored.
func ParseQuizJSON(completion string) ([]quiz.Question, error) {
	raw, err := extractJSONArray(completion)
	if err != nil {
		return nil, err
	}

	var gen []generatedQuestion
	if err := json.Unmarshal([]byte(raw), &gen); err != nil {
		return nil, fmt.Errorf("parse quiz json: %w", err)
	}
	if len(gen) == 0 {
		return nil, errors.New("quiz json is empty")
	}

	out := make([]quiz.Question, 0, len(gen))
	for i, g := range gen {
		q := quiz.Question{
			Prompt:  strings.TrimSpace(g.Question),
			Options: g.Options,
		}
		if q.Prompt == "" {
			return nil, fmt.Errorf("question %d: missing question text", i)
		}
		if len(q.Options) != optionsPerQuestion {
			return nil, fmt.Errorf("question %d: got %d options, want %d", i, len(q.Options), optionsPerQuestion)
		}
		answers, err := coerceAnswers(g.Answer)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		for _, a := range answers {
			if !contains(q.Options, a) {
				return nil, fmt.Errorf("question %d: answer %q is not one of the options", i, a)
			}
		}
		q.Answers = answers
		out = append(out, q)
	}
	return out, nil
}

// extractJSONArray returns the outermost [...] slice of the completion.
func extractJSONArray(s string) (string, error) {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end < start {
		return "", errors.New("no JSON array in completion")
	}
	return s[start : end+1], nil
}

// coerceAnswers accepts "Paris" or ["Paris","Lyon"] and returns a non-empty
// answer set.
func coerceAnswers(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, errors.New("missing answer")
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if strings.TrimSpace(single) == "" {
			return nil, errors.New("empty answer")
		}
		return []string{single}, nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, errors.New("answer must be a string or array of strings")
	}
	cleaned := make([]string, 0, len(many))
	for _, a := range many {
		if strings.TrimSpace(a) != "" {
			cleaned = append(cleaned, a)
		}
	}
	if len(cleaned) == 0 {
		return nil, errors.New("empty answer")
	}
	return cleaned, nil
}

func contains(arr []string, s string) bool {
	for _, v := range arr {
		if v == s {
			return true
		}
	}
	return false
}
