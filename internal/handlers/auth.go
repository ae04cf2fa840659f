package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amicuslegal/amicus/internal/models"
	"github.com/amicuslegal/amicus/internal/services"
	pkghttp "github.com/amicuslegal/amicus/pkg/http"
)

// SignupServiceInterface defines the interface for the signup flow
type SignupServiceInterface interface {
	RequestCode(ctx context.Context, in services.RequestCodeInput) (*services.PasscodeIssue, error)
	VerifyCode(ctx context.Context, email, code string) (*services.AuthResponse, error)
}

// AuthServiceInterface defines the interface for credential login
type AuthServiceInterface interface {
	Login(ctx context.Context, email, password string) (*services.AuthResponse, error)
}

// EmailCheckServiceInterface defines the interface for email availability
type EmailCheckServiceInterface interface {
	CheckEmail(ctx context.Context, email string) (bool, error)
}

// AuthHandler handles signup and authentication HTTP requests
type AuthHandler struct {
	signup  SignupServiceInterface
	auth    AuthServiceInterface
	users   EmailCheckServiceInterface
	devMode bool
}

// NewAuthHandler creates a new AuthHandler. devMode controls whether
// send-otp responses may carry the issued code when email delivery is
// not configured.
func NewAuthHandler(signup SignupServiceInterface, auth AuthServiceInterface, users EmailCheckServiceInterface, devMode bool) *AuthHandler {
	return &AuthHandler{
		signup:  signup,
		auth:    auth,
		users:   users,
		devMode: devMode,
	}
}

// Request DTOs

// SendOTPRequest represents the request body for requesting a signup code
type SendOTPRequest struct {
	Email    string `json:"email" validate:"required"`
	Name     string `json:"name"`
	Password string `json:"password" validate:"required"`
	Country  string `json:"jurisdiction_country"`
	State    string `json:"jurisdiction_state"`
}

// VerifyOTPRequest represents the request body for verifying a signup code
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CheckEmailRequest represents the request body for an email availability check
type CheckEmailRequest struct {
	Email string `json:"email" validate:"required"`
}

// SendOTP issues a verification code for a new registration
func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	issue, err := h.signup.RequestCode(r.Context(), services.RequestCodeInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Country:  req.Country,
		State:    req.State,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			pkghttp.WriteBadRequest(w, err.Error())
		case errors.Is(err, models.ErrDuplicateAccount):
			pkghttp.WriteBadRequest(w, "An account with this email already exists")
		case errors.Is(err, models.ErrRateLimited):
			pkghttp.WriteTooManyRequests(w, "Too many verification requests. Please try again later.")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	message := "Verification code sent"
	if !issue.Delivered {
		message = "Verification code generated"
	}
	resp := map[string]string{"message": message}
	if h.devMode {
		resp["dev_code"] = issue.Code
	}
	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

// VerifyOTP checks a verification code and creates the account
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	authResp, err := h.signup.VerifyCode(r.Context(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			pkghttp.WriteBadRequest(w, err.Error())
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteBadRequest(w, "No verification code found for this email. It may have expired.")
		case errors.Is(err, models.ErrCodeMismatch):
			pkghttp.WriteBadRequest(w, "Invalid verification code")
		case errors.Is(err, models.ErrDuplicateAccount):
			pkghttp.WriteBadRequest(w, "An account with this email already exists")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, authResp)
}

// Login authenticates an existing account
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	authResp, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			pkghttp.WriteBadRequest(w, err.Error())
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Invalid email or password")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, authResp)
}

// CheckEmail reports whether an account exists for the email
func (h *AuthHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	var req CheckEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	exists, err := h.users.CheckEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			pkghttp.WriteBadRequest(w, "A valid email address is required")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	message := "Email is available"
	if exists {
		message = "An account with this email already exists"
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"exists":  exists,
		"message": message,
	})
}
