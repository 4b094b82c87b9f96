package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	api "github.com/edu-quiz-ai/eduquizai-backend/internal/api/http"
	"github.com/edu-quiz-ai/eduquizai-backend/internal/audit"
	"github.com/edu-quiz-ai/eduquizai-backend/internal/auth"
	"github.com/edu-quiz-ai/eduquizai-backend/internal/config"
	"github.com/edu-quiz-ai/eduquizai-backend/internal/db"
	"github.com/edu-quiz-ai/eduquizai-backend/internal/llm"
	"github.com/edu-quiz-ai/eduquizai-backend/internal/mail"
	"github.com/edu-quiz-ai/eduquizai-backend/internal/quiz"
	"github.com/edu-quiz-ai/eduquizai-backend/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := quiz.NewSQLStore(dbh, cfg.DBDriver)
	events := audit.NewEventRepo(dbh)
	quizzes := quiz.NewService(store, quiz.WithEvents(events))

	// --- LLM ---
	gen, err := llm.New(llm.Config{
		APIKey:        cfg.MistralAPIKey,
		BaseURL:       cfg.MistralBaseURL,
		Model:         cfg.MistralModel,
		QuestionCount: cfg.QuizQuestionCount,
	})
	if err != nil {
		log.Fatalf("llm client: %v", err)
	}

	// --- Mail ---
	var mailer mail.Mailer = mail.LogMailer{}
	if cfg.EnableMail {
		mailer = &mail.SMTPMailer{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			Sender:   cfg.SenderEmail,
		}
	}

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.AuthSecret, cfg.TokenTTL)
	// Cookies go Secure+SameSite=None only when serving a public HTTPS origin.
	secureCookies := strings.HasPrefix(cfg.PublicURL, "https://")

	// --- Blob store for uploaded documents ---
	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/auth", func(ar chi.Router) {
		ar.Post("/register", api.RegisterHandler(dbh, authSvc, mailer, secureCookies))
		ar.Post("/login", api.LoginHandler(dbh, authSvc, secureCookies))
		ar.Post("/logout", api.LogoutHandler(secureCookies))
		ar.Post("/send-reset-otp", api.SendResetOTPHandler(dbh, mailer))
		ar.Post("/reset-password", api.ResetPasswordHandler(dbh))

		ar.Group(func(pr chi.Router) {
			pr.Use(auth.JWTMiddleware(authSvc))
			pr.Get("/is-auth", api.IsAuthenticatedHandler())
			pr.Post("/send-verify-otp", api.SendVerifyOTPHandler(dbh, mailer))
			pr.Post("/verify-account", api.VerifyEmailHandler(dbh))
		})
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.Get("/api/user/data", api.UserDataHandler(dbh))

		pr.Route("/api/quiz", func(qr chi.Router) {
			qr.Post("/generate", api.GenerateQuizHandler(quizzes, gen))
			qr.Post("/upload", api.UploadQuizHandler(quizzes, gen, bs, cfg.MaxUploadBytes))
			qr.Post("/submit", api.SubmitQuizHandler(quizzes))
			qr.Post("/previous", api.PreviousSubmissionHandler(quizzes))
			qr.Get("/", api.ListQuizzesHandler(quizzes))
			qr.Get("/{quizID}", api.GetQuizHandler(quizzes))
		})

		pr.Post("/api/chatbot/chat", api.ChatHandler(gen))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})

	log.Printf("listening on %s (db=%s, model=%s)", cfg.HTTPAddr, cfg.DBDriver, cfg.MistralModel)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
