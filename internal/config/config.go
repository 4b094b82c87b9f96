package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr  string
	PublicURL string

	DBDriver string
	DBDSN    string

	BlobBasePath string // uploaded PDFs land here

	AuthSecret string
	TokenTTL   time.Duration

	MistralAPIKey  string
	MistralBaseURL string
	MistralModel   string

	QuizQuestionCount int
	MaxUploadBytes    int64

	CORSOrigins []string

	EnableMail   bool
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:  addr,
		PublicURL: os.Getenv("PUBLIC_URL"),

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		BlobBasePath: envOr("BLOB_BASE_PATH", "./data"),

		AuthSecret: envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		TokenTTL:   envDuration("TOKEN_TTL", 7*24*time.Hour),

		MistralAPIKey:  os.Getenv("MISTRAL_API_KEY"),
		MistralBaseURL: envOr("MISTRAL_BASE_URL", "https://api.mistral.ai/v1"),
		MistralModel:   envOr("MISTRAL_MODEL", "mistral-tiny"),

		QuizQuestionCount: envInt("QUIZ_QUESTION_COUNT", 10),
		MaxUploadBytes:    int64(envInt("MAX_UPLOAD_BYTES", 10<<20)),

		CORSOrigins: csvOr("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000"),

		EnableMail:   envBool("ENABLE_MAIL", false),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     envOr("SMTP_PORT", "587"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SenderEmail:  envOr("SENDER_EMAIL", "no-reply@eduquizai.local"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envInt(k string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(k)); err == nil && v > 0 {
		return v
	}
	return def
}

func envDuration(k string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(k)); err == nil && v > 0 {
		return v
	}
	return def
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
