package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/edu-quiz-ai/eduquizai-backend/internal/auth"
	"github.com/edu-quiz-ai/eduquizai-backend/internal/mail"
	"github.com/edu-quiz-ai/eduquizai-backend/internal/quiz"
)

const bcryptCost = 12

type userRecord struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    string
	IsVerified      bool
	VerifyOTP       string
	VerifyOTPExpiry int64
	ResetOTP        string
	ResetOTPExpiry  int64
}

func getUserByEmail(ctx context.Context, db *sql.DB, email string) (userRecord, error) {
	return scanUser(db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, is_verified,
		       verify_otp, verify_otp_expires_at, reset_otp, reset_otp_expires_at
		FROM users WHERE email=$1`, email))
}

func getUserByID(ctx context.Context, db *sql.DB, id string) (userRecord, error) {
	return scanUser(db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, is_verified,
		       verify_otp, verify_otp_expires_at, reset_otp, reset_otp_expires_at
		FROM users WHERE id=$1`, id))
}

func scanUser(row *sql.Row) (userRecord, error) {
	var u userRecord
	var verified int
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &verified,
		&u.VerifyOTP, &u.VerifyOTPExpiry, &u.ResetOTP, &u.ResetOTPExpiry)
	if errors.Is(err, sql.ErrNoRows) {
		return userRecord{}, quiz.ErrUserNotFound
	}
	if err != nil {
		return userRecord{}, fmt.Errorf("load user: %w", err)
	}
	u.IsVerified = verified != 0
	return u, nil
}

func RegisterHandler(db *sql.DB, a *auth.AuthService, mailer mail.Mailer, secure bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "bad json")
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.Name == "" || req.Email == "" || req.Password == "" {
			writeMessage(w, http.StatusBadRequest, "name, email and password required")
			return
		}
		if _, err := getUserByEmail(r.Context(), db, req.Email); err == nil {
			writeMessage(w, http.StatusConflict, "user already exists")
			return
		} else if !errors.Is(err, quiz.ErrUserNotFound) {
			writeErr(w, err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			writeErr(w, err)
			return
		}
		id := uuid.NewString()
		_, err = db.ExecContext(r.Context(), `
			INSERT INTO users (id, name, email, password_hash, created_at)
			VALUES ($1,$2,$3,$4,$5)`,
			id, req.Name, req.Email, string(hash), time.Now().Unix())
		if err != nil {
			writeErr(w, err)
			return
		}

		tok, err := a.IssueJWT(id)
		if err != nil {
			writeErr(w, err)
			return
		}
		auth.SetSessionCookie(w, a, tok, secure)

		if err := mailer.Send(r.Context(), req.Email, "Welcome to EduQuizAI",
			"Hi "+req.Name+", your account has been created with email "+req.Email+"."); err != nil {
			log.Printf("welcome mail to %s: %v", req.Email, err)
		}
		writeMessage(w, http.StatusCreated, "registered")
	}
}

func LoginHandler(db *sql.DB, a *auth.AuthService, secure bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "bad json")
			return
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.Email == "" || req.Password == "" {
			writeMessage(w, http.StatusBadRequest, "email and password required")
			return
		}
		u, err := getUserByEmail(r.Context(), db, req.Email)
		if errors.Is(err, quiz.ErrUserNotFound) {
			writeMessage(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		if err != nil {
			writeErr(w, err)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
			writeMessage(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		tok, err := a.IssueJWT(u.ID)
		if err != nil {
			writeErr(w, err)
			return
		}
		auth.SetSessionCookie(w, a, tok, secure)
		writeMessage(w, http.StatusOK, "logged in")
	}
}

func LogoutHandler(secure bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth.ClearSessionCookie(w, secure)
		writeMessage(w, http.StatusOK, "logged out")
	}
}

// IsAuthenticatedHandler sits behind the JWT middleware: reaching it at all
// means the token was valid.
func IsAuthenticatedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusOK, "authenticated")
	}
}

func SendVerifyOTPHandler(db *sql.DB, mailer mail.Mailer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := getUserByID(r.Context(), db, auth.SubjectFromContext(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		if u.IsVerified {
			writeMessage(w, http.StatusBadRequest, "account already verified")
			return
		}
		otp, err := auth.NewOTP()
		if err != nil {
			writeErr(w, err)
			return
		}
		expires := time.Now().Add(auth.VerifyOTPTTL).Unix()
		_, err = db.ExecContext(r.Context(),
			`UPDATE users SET verify_otp=$1, verify_otp_expires_at=$2 WHERE id=$3`,
			otp, expires, u.ID)
		if err != nil {
			writeErr(w, err)
			return
		}
		if err := mailer.Send(r.Context(), u.Email, "Account verification OTP",
			"Your OTP is "+otp+". Verify your account using this OTP."); err != nil {
			writeErr(w, err)
			return
		}
		writeMessage(w, http.StatusOK, "verification OTP sent")
	}
}

func VerifyEmailHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			OTP string `json:"otp"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OTP == "" {
			writeMessage(w, http.StatusBadRequest, "otp required")
			return
		}
		u, err := getUserByID(r.Context(), db, auth.SubjectFromContext(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		if u.VerifyOTP == "" || u.VerifyOTP != req.OTP {
			writeMessage(w, http.StatusBadRequest, "invalid OTP")
			return
		}
		if u.VerifyOTPExpiry < time.Now().Unix() {
			writeMessage(w, http.StatusBadRequest, "OTP expired")
			return
		}
		_, err = db.ExecContext(r.Context(),
			`UPDATE users SET is_verified=1, verify_otp='', verify_otp_expires_at=0 WHERE id=$1`, u.ID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeMessage(w, http.StatusOK, "email verified")
	}
}

func SendResetOTPHandler(db *sql.DB, mailer mail.Mailer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Email) == "" {
			writeMessage(w, http.StatusBadRequest, "email required")
			return
		}
		u, err := getUserByEmail(r.Context(), db, strings.ToLower(strings.TrimSpace(req.Email)))
		if err != nil {
			writeErr(w, err)
			return
		}
		otp, err := auth.NewOTP()
		if err != nil {
			writeErr(w, err)
			return
		}
		expires := time.Now().Add(auth.ResetOTPTTL).Unix()
		_, err = db.ExecContext(r.Context(),
			`UPDATE users SET reset_otp=$1, reset_otp_expires_at=$2 WHERE id=$3`,
			otp, expires, u.ID)
		if err != nil {
			writeErr(w, err)
			return
		}
		if err := mailer.Send(r.Context(), u.Email, "Password reset OTP",
			"Your OTP for resetting your password is "+otp+". It expires in 15 minutes."); err != nil {
			writeErr(w, err)
			return
		}
		writeMessage(w, http.StatusOK, "reset OTP sent")
	}
}

func ResetPasswordHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email       string `json:"email"`
			OTP         string `json:"otp"`
			NewPassword string `json:"newPassword"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "bad json")
			return
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.Email == "" || req.OTP == "" || req.NewPassword == "" {
			writeMessage(w, http.StatusBadRequest, "email, otp and newPassword required")
			return
		}
		u, err := getUserByEmail(r.Context(), db, req.Email)
		if err != nil {
			writeErr(w, err)
			return
		}
		if u.ResetOTP == "" || u.ResetOTP != req.OTP {
			writeMessage(w, http.StatusBadRequest, "invalid OTP")
			return
		}
		if u.ResetOTPExpiry < time.Now().Unix() {
			writeMessage(w, http.StatusBadRequest, "OTP expired")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
		if err != nil {
			writeErr(w, err)
			return
		}
		_, err = db.ExecContext(r.Context(),
			`UPDATE users SET password_hash=$1, reset_otp='', reset_otp_expires_at=0 WHERE id=$2`,
			string(hash), u.ID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeMessage(w, http.StatusOK, "password has been reset")
	}
}
