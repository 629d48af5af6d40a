package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Noor7086/Obyyo-sub002/internal/api/response"
	"github.com/Noor7086/Obyyo-sub002/internal/auth"
	"github.com/Noor7086/Obyyo-sub002/internal/storage/models"
	"github.com/Noor7086/Obyyo-sub002/internal/storage/repository"
)

// AccountHandler serves the dashboard and per-user preferences.
type AccountHandler struct {
	auth  *auth.Service
	prefs repository.PreferencesRepository
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(svc *auth.Service, prefs repository.PreferencesRepository) *AccountHandler {
	return &AccountHandler{auth: svc, prefs: prefs}
}

// Dashboard is the landing view after login.
type Dashboard struct {
	User  *models.User     `json:"user"`
	Trial auth.TrialStatus `json:"trial"`
}

// GetDashboard returns the user and their trial countdown.
func (h *AccountHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, auth.ErrUnauthenticated)
		return
	}
	response.Success(w, Dashboard{User: user, Trial: h.auth.TrialStatus(user)})
}

// GetPreferences returns all preferences of the user.
func (h *AccountHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, auth.ErrUnauthenticated)
		return
	}

	prefs, err := h.prefs.GetAll(r.Context(), user.ID)
	if err != nil {
		WriteError(w, fmt.Errorf("failed to get preferences: %w", err))
		return
	}
	response.Success(w, prefs)
}

// UpdatePreferences stores several preferences at once.
func (h *AccountHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, auth.ErrUnauthenticated)
		return
	}

	var values map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		response.BadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if err := h.prefs.SetMany(r.Context(), user.ID, values); err != nil {
		WriteError(w, fmt.Errorf("failed to save preferences: %w", err))
		return
	}

	prefs, err := h.prefs.GetAll(r.Context(), user.ID)
	if err != nil {
		WriteError(w, fmt.Errorf("failed to get preferences: %w", err))
		return
	}
	response.Success(w, prefs)
}

// UpdatePreference stores a single preference by key.
func (h *AccountHandler) UpdatePreference(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, auth.ErrUnauthenticated)
		return
	}

	key := chi.URLParam(r, "key")
	if key == "" {
		response.BadRequest(w, errors.New("preference key is required"))
		return
	}

	var body struct {
		Value interface{} `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if err := h.prefs.Set(r.Context(), user.ID, key, body.Value); err != nil {
		WriteError(w, fmt.Errorf("failed to save preference: %w", err))
		return
	}

	response.Success(w, map[string]interface{}{"key": key, "value": body.Value})
}
