package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Noor7086/Obyyo-sub002/internal/api/response"
	"github.com/Noor7086/Obyyo-sub002/internal/auth"
	"github.com/Noor7086/Obyyo-sub002/internal/storage/models"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	svc          *auth.Service
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *auth.Service, cookieSecure bool) *AuthHandler {
	return &AuthHandler{svc: svc, cookieSecure: cookieSecure}
}

// SessionResponse is returned by register and login.
type SessionResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	User      *models.User     `json:"user"`
	Trial     auth.TrialStatus `json:"trial"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and signs it in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}

	user, session, err := h.svc.Register(r.Context(), req, clientInfo(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	h.setCookie(w, session)
	response.Created(w, h.sessionResponse(user, session))
}

// Login exchanges credentials for a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}

	user, session, err := h.svc.Login(r.Context(), req.Email, req.Password, clientInfo(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	h.setCookie(w, session)
	response.Success(w, h.sessionResponse(user, session))
}

// Logout revokes the caller's session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), tokenFromContext(r.Context())); err != nil {
		WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	response.NoContent(w)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, auth.ErrUnauthenticated)
		return
	}
	response.Success(w, user)
}

func (h *AuthHandler) sessionResponse(user *models.User, session *models.Session) SessionResponse {
	return SessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      user,
		Trial:     h.svc.TrialStatus(user),
	}
}

func (h *AuthHandler) setCookie(w http.ResponseWriter, session *models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
