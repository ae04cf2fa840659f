package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amicuslegal/amicus/internal/auth"
	"github.com/amicuslegal/amicus/internal/models"
	pkgauth "github.com/amicuslegal/amicus/pkg/auth"
	pkglogger "github.com/amicuslegal/amicus/pkg/logger"
)

// UserResponse is the public user shape returned to clients
type UserResponse struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	Name                string     `json:"name"`
	JurisdictionCountry *string    `json:"jurisdiction_country,omitempty"`
	JurisdictionState   *string    `json:"jurisdiction_state,omitempty"`
	OnboardingComplete  bool       `json:"onboarding_complete"`
	EmailVerified       bool       `json:"email_verified"`
	VerifiedAt          *time.Time `json:"verified_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// AuthResponse pairs a session token with the authenticated user
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func userModelToResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:                  u.ID,
		Email:               u.Email,
		Name:                u.Name,
		JurisdictionCountry: u.JurisdictionCountry,
		JurisdictionState:   u.JurisdictionState,
		OnboardingComplete:  u.OnboardingComplete,
		EmailVerified:       u.EmailVerified,
		VerifiedAt:          u.VerifiedAt,
		CreatedAt:           u.CreatedAt,
	}
}

// AuthService handles credential login for verified accounts
type AuthService struct {
	users       UserRepository
	tm          *auth.TokenManager
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

func NewAuthService(users UserRepository, tm *auth.TokenManager, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *AuthService {
	return &AuthService{
		users:       users,
		tm:          tm,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// Login verifies credentials and returns a session token. Unknown emails
// and wrong passwords both come back as ErrUnauthorized so the response
// does not reveal which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, models.ErrValidation
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "login_failed",
				FailureReason: "unknown_email",
				Success:       false,
			})
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to look up user for login", slog.Any("error", err))
		return nil, models.ErrPersistence
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			UserID:        user.ID,
			FailureReason: "bad_password",
			Success:       false,
		})
		return nil, models.ErrUnauthorized
	}

	token, err := s.tm.GenerateSessionToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error("failed to generate session token",
			slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login_succeeded",
		UserID:    user.ID,
		Success:   true,
	})

	return &AuthResponse{Token: token, User: userModelToResponse(user)}, nil
}
