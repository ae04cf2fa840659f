package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amicuslegal/amicus/internal/auth"
	"github.com/amicuslegal/amicus/internal/models"
	"github.com/amicuslegal/amicus/internal/services"
	pkghttp "github.com/amicuslegal/amicus/pkg/http"
)

// UserServiceInterface defines the interface for profile operations
type UserServiceInterface interface {
	GetProfile(ctx context.Context, id string) (*services.UserResponse, error)
	UpdateJurisdiction(ctx context.Context, id, country, state string) (*services.UserResponse, error)
	AcceptTerms(ctx context.Context, id string) error
}

// UserHandler handles profile and onboarding HTTP requests
type UserHandler struct {
	service UserServiceInterface
}

func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// UpdateJurisdictionRequest represents the request body for a jurisdiction change
type UpdateJurisdictionRequest struct {
	Country string `json:"jurisdiction_country" validate:"required"`
	State   string `json:"jurisdiction_state"`
}

// Me returns the authenticated user's profile
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, profile)
}

// UpdateJurisdiction changes the user's jurisdiction and re-opens onboarding
func (h *UserHandler) UpdateJurisdiction(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req UpdateJurisdictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	profile, err := h.service.UpdateJurisdiction(r.Context(), claims.UserID, req.Country, req.State)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			pkghttp.WriteBadRequest(w, "A jurisdiction country is required")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "User not found")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, profile)
}

// AcceptTerms completes onboarding for the authenticated user
func (h *UserHandler) AcceptTerms(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.AcceptTerms(r.Context(), claims.UserID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "User not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]bool{"onboarding_complete": true})
}
