package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/edu-quiz-ai/eduquizai-backend/internal/quiz"
)

// maxContentChars bounds the source text included in a generation prompt.
const maxContentChars = 4000

const quizPromptTemplate = `Generate a quiz with %d multiple-choice questions in JSON format based on the following content.
Each question must have:
- A "question" field with the question text.
- An "options" field (array) with 4 answer choices.
- An "answer" field with the correct option.

Return ONLY a JSON array. Do NOT include any explanation, text, or markdown formatting.

Content: %s`

const chatSystemPrompt = `You are EduQuizAI's study assistant. Answer learner questions clearly and concisely, and keep the conversation focused on studying and the learner's material.`

// Config selects the hosted model. BaseURL defaults to the Mistral
// chat-completions endpoint; any OpenAI-compatible endpoint works.
type Config struct {
	APIKey        string
	BaseURL       string
	Model         string
	QuestionCount int
}

// Client calls the hosted LLM for quiz generation and the chatbot proxy.
type Client struct {
	model         llms.Model
	questionCount int
}

func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llm: api key required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.mistral.ai/v1"
	}
	model := cfg.Model
	if model == "" {
		model = "mistral-tiny"
	}
	n := cfg.QuestionCount
	if n <= 0 {
		n = 10
	}
	m, err := openai.New(
		openai.WithToken(cfg.APIKey),
		openai.WithModel(model),
		openai.WithBaseURL(baseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}
	return &Client{model: m, questionCount: n}, nil
}

// GenerateQuiz asks the model for multiple-choice questions grounded on
// content and validates the returned JSON. content is truncated before
// prompting; the model never sees more than maxContentChars.
func (c *Client) GenerateQuiz(ctx context.Context, content string) ([]quiz.Question, error) {
	content = truncate(strings.TrimSpace(content), maxContentChars)
	if content == "" {
		return nil, errors.New("llm: empty content")
	}
	prompt := fmt.Sprintf(quizPromptTemplate, c.questionCount, content)

	completion, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt,
		llms.WithTemperature(0.7),
		llms.WithMaxTokens(2000),
	)
	if err != nil {
		return nil, fmt.Errorf("llm generate: %w", err)
	}

	questions, err := ParseQuizJSON(completion)
	if err != nil {
		log.Printf("llm returned unparseable quiz payload: %v", err)
		return nil, err
	}
	return questions, nil
}

// Message is one turn of the chatbot conversation.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Chat proxies a chatbot conversation to the model and returns the reply.
func (c *Client) Chat(ctx context.Context, history []Message) (string, error) {
	if len(history) == 0 {
		return "", errors.New("llm: empty conversation")
	}
	msgs := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, chatSystemPrompt),
	}
	for _, m := range history {
		role := llms.ChatMessageTypeHuman
		if m.Role == "assistant" {
			role = llms.ChatMessageTypeAI
		}
		msgs = append(msgs, llms.TextParts(role, truncate(m.Content, maxContentChars)))
	}

	resp, err := c.model.GenerateContent(ctx, msgs, llms.WithTemperature(0.7))
	if err != nil {
		return "", fmt.Errorf("llm chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("llm: no choices in response")
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

func truncate(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}
