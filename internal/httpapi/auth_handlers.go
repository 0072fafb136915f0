package httpapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"finboard.org/internal/audit"
	"finboard.org/internal/auth"
	"finboard.org/internal/models"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"companyName"`
}

type sessionResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token,omitempty"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty"`
}

func (a *API) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req signInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := a.auth.SignIn(r.Context(), email, req.Password)
	if err != nil {
		handleRepoError(w, r, err)
		return
	}

	_ = audit.Event(r.Context(), "auth.signin", slog.String("user_id", user.ID))
	a.writeSession(w, r, user)
}

func (a *API) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req signUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "email and password are required")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, r, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	user, err := a.auth.SignUp(r.Context(), email, req.Password, strings.TrimSpace(req.CompanyName))
	if err != nil {
		handleRepoError(w, r, err)
		return
	}

	_ = audit.Event(r.Context(), "auth.signup", slog.String("user_id", user.ID))
	a.writeSession(w, r, user)
}

func (a *API) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	// Sign-out never fails; provider errors are swallowed upstream.
	_ = a.auth.SignOut(r.Context())
	_ = audit.Event(r.Context(), "auth.signout")
	writeJSON(w, http.StatusOK, map[string]any{"status": "signed_out"})
}

// handleMe answers with the caller's identity. The bearer token is the
// source of truth: the in-process session only enriches the response
// when it belongs to the same user, so concurrent sessions never leak
// into each other.
func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "not signed in")
		return
	}

	user := a.auth.CurrentUser()
	if user == nil || user.ID != claims.Subject {
		user = &models.User{
			ID:               claims.Subject,
			Email:            claims.Email,
			Role:             claims.Role,
			SubscriptionPlan: models.PlanProfessional,
		}
	}
	writeJSON(w, http.StatusOK, sessionResponse{User: user})
}

func (a *API) writeSession(w http.ResponseWriter, r *http.Request, user *models.User) {
	resp := sessionResponse{User: user}
	if a.tokens != nil {
		token, expires, err := a.tokens.Issue(user.ID, user.Email, user.Role)
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, "token generation failed")
			return
		}
		resp.Token = token
		resp.ExpiresAt = &expires
	}
	writeJSON(w, http.StatusOK, resp)
}
