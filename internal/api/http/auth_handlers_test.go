package http

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/edu-quiz-ai/eduquizai-backend/internal/auth"
	"github.com/edu-quiz-ai/eduquizai-backend/internal/db"
	"github.com/edu-quiz-ai/eduquizai-backend/internal/mail"
)

func newAuthEnv(t *testing.T) (*sql.DB, *auth.AuthService) {
	t.Helper()
	h, err := db.Open(context.Background(), db.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { h.Close() })
	return h, auth.NewAuthService("test-secret", time.Hour)
}

func TestRegisterLoginFlow(t *testing.T) {
	dbh, a := newAuthEnv(t)

	req := httptest.NewRequest("POST", "/api/auth/register",
		strings.NewReader(`{"name":"Ada","email":"Ada@Example.com","password":"hunter22"}`))
	w := httptest.NewRecorder()
	RegisterHandler(dbh, a, mail.LogMailer{}, false)(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", w.Code, w.Body.String())
	}
	if c := sessionCookie(w.Result().Cookies()); c == nil || c.Value == "" || !c.HttpOnly {
		t.Fatalf("register did not set httpOnly session cookie: %+v", w.Result().Cookies())
	}

	// Duplicate email rejected, case-insensitively.
	w = httptest.NewRecorder()
	RegisterHandler(dbh, a, mail.LogMailer{}, false)(w, httptest.NewRequest("POST", "/api/auth/register",
		strings.NewReader(`{"name":"Ada","email":"ada@example.com","password":"other"}`)))
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want 409", w.Code)
	}

	// Wrong password.
	w = httptest.NewRecorder()
	LoginHandler(dbh, a, false)(w, httptest.NewRequest("POST", "/api/auth/login",
		strings.NewReader(`{"email":"ada@example.com","password":"wrong"}`)))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, want 401", w.Code)
	}

	// Correct password issues a parseable token.
	w = httptest.NewRecorder()
	LoginHandler(dbh, a, false)(w, httptest.NewRequest("POST", "/api/auth/login",
		strings.NewReader(`{"email":"ada@example.com","password":"hunter22"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}
	c := sessionCookie(w.Result().Cookies())
	if c == nil {
		t.Fatal("login did not set session cookie")
	}
	claims, err := a.Parse(c.Value)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}

	// The subject resolves to the stored user.
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/user/data", nil)
	UserDataHandler(dbh)(w, req.WithContext(auth.WithSubject(req.Context(), claims.Sub)))
	if w.Code != http.StatusOK {
		t.Fatalf("user data status = %d, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"email":"ada@example.com"`) {
		t.Fatalf("unexpected user data: %s", w.Body.String())
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	w := httptest.NewRecorder()
	LogoutHandler(false)(w, httptest.NewRequest("POST", "/api/auth/logout", nil))
	c := sessionCookie(w.Result().Cookies())
	if c == nil || c.MaxAge >= 0 {
		t.Fatalf("logout did not expire cookie: %+v", c)
	}
}

func TestVerifyEmailFlow(t *testing.T) {
	dbh, a := newAuthEnv(t)
	userID := registerUser(t, dbh, a, "bob@example.com")

	// Request an OTP; read it back from storage like the mail body would carry it.
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/send-verify-otp", nil)
	SendVerifyOTPHandler(dbh, mail.LogMailer{})(w, asUser(req, userID))
	if w.Code != http.StatusOK {
		t.Fatalf("send otp status = %d, body %s", w.Code, w.Body.String())
	}
	var otp string
	if err := dbh.QueryRow(`SELECT verify_otp FROM users WHERE id=$1`, userID).Scan(&otp); err != nil {
		t.Fatal(err)
	}
	if len(otp) != 6 {
		t.Fatalf("otp = %q, want 6 digits", otp)
	}

	// Wrong OTP rejected.
	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/api/auth/verify-account", strings.NewReader(`{"otp":"000000"}`))
	VerifyEmailHandler(dbh)(w, asUser(req, userID))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("wrong otp status = %d, want 400", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/api/auth/verify-account", strings.NewReader(`{"otp":"`+otp+`"}`))
	VerifyEmailHandler(dbh)(w, asUser(req, userID))
	if w.Code != http.StatusOK {
		t.Fatalf("verify status = %d, body %s", w.Code, w.Body.String())
	}

	var verified int
	if err := dbh.QueryRow(`SELECT is_verified FROM users WHERE id=$1`, userID).Scan(&verified); err != nil {
		t.Fatal(err)
	}
	if verified != 1 {
		t.Fatal("user not marked verified")
	}

	// Second request is refused once verified.
	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/api/auth/send-verify-otp", nil)
	SendVerifyOTPHandler(dbh, mail.LogMailer{})(w, asUser(req, userID))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("send otp after verify status = %d, want 400", w.Code)
	}
}

func TestResetPasswordFlow(t *testing.T) {
	dbh, a := newAuthEnv(t)
	registerUser(t, dbh, a, "carol@example.com")

	w := httptest.NewRecorder()
	SendResetOTPHandler(dbh, mail.LogMailer{})(w, httptest.NewRequest("POST", "/api/auth/send-reset-otp",
		strings.NewReader(`{"email":"carol@example.com"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("send reset otp status = %d, body %s", w.Code, w.Body.String())
	}

	var otp string
	if err := dbh.QueryRow(`SELECT reset_otp FROM users WHERE email=$1`, "carol@example.com").Scan(&otp); err != nil {
		t.Fatal(err)
	}

	w = httptest.NewRecorder()
	ResetPasswordHandler(dbh)(w, httptest.NewRequest("POST", "/api/auth/reset-password",
		strings.NewReader(`{"email":"carol@example.com","otp":"`+otp+`","newPassword":"n3wpass"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("reset status = %d, body %s", w.Code, w.Body.String())
	}

	// Old password no longer works, new one does.
	w = httptest.NewRecorder()
	LoginHandler(dbh, a, false)(w, httptest.NewRequest("POST", "/api/auth/login",
		strings.NewReader(`{"email":"carol@example.com","password":"hunter22"}`)))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("old password status = %d, want 401", w.Code)
	}
	w = httptest.NewRecorder()
	LoginHandler(dbh, a, false)(w, httptest.NewRequest("POST", "/api/auth/login",
		strings.NewReader(`{"email":"carol@example.com","password":"n3wpass"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("new password status = %d, body %s", w.Code, w.Body.String())
	}

	// OTP is single-use.
	w = httptest.NewRecorder()
	ResetPasswordHandler(dbh)(w, httptest.NewRequest("POST", "/api/auth/reset-password",
		strings.NewReader(`{"email":"carol@example.com","otp":"`+otp+`","newPassword":"again"}`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("otp reuse status = %d, want 400", w.Code)
	}
}

func TestSendResetOTPUnknownEmail(t *testing.T) {
	dbh, _ := newAuthEnv(t)
	w := httptest.NewRecorder()
	SendResetOTPHandler(dbh, mail.LogMailer{})(w, httptest.NewRequest("POST", "/api/auth/send-reset-otp",
		strings.NewReader(`{"email":"ghost@example.com"}`)))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func registerUser(t *testing.T, dbh *sql.DB, a *auth.AuthService, email string) string {
	t.Helper()
	w := httptest.NewRecorder()
	RegisterHandler(dbh, a, mail.LogMailer{}, false)(w, httptest.NewRequest("POST", "/api/auth/register",
		strings.NewReader(`{"name":"Test","email":"`+email+`","password":"hunter22"}`)))
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", w.Code, w.Body.String())
	}
	var id string
	if err := dbh.QueryRow(`SELECT id FROM users WHERE email=$1`, email).Scan(&id); err != nil {
		t.Fatal(err)
	}
	return id
}

func sessionCookie(cs []*http.Cookie) *http.Cookie {
	for _, c := range cs {
		if c.Name == auth.SessionCookie {
			return c
		}
	}
	return nil
}
