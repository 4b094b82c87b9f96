package http

import (
	"database/sql"
	"net/http"

	"github.com/edu-quiz-ai/eduquizai-backend/internal/auth"
)

// UserDataHandler returns the authenticated user's profile for the SPA header.
func UserDataHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := getUserByID(r.Context(), db, auth.SubjectFromContext(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"userData": map[string]any{
				"userId":            u.ID,
				"name":              u.Name,
				"email":             u.Email,
				"isAccountVerified": u.IsVerified,
			},
		})
	}
}
