package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/amicuslegal/amicus/internal/auth"
	"github.com/amicuslegal/amicus/internal/models"
	pkgauth "github.com/amicuslegal/amicus/pkg/auth"
	pkglogger "github.com/amicuslegal/amicus/pkg/logger"
)

// PendingSignupRepository defines the interface for passcode store operations
type PendingSignupRepository interface {
	Upsert(ctx context.Context, signup *models.PendingSignup) error
	GetByEmail(ctx context.Context, email string) (*models.PendingSignup, error)
	DeleteByEmail(ctx context.Context, email string) error
}

// SignupService runs the email-verification signup flow: issue a passcode
// for a registration, verify a submitted passcode, and on success promote
// the pending registration into a verified user with a session token.
type SignupService struct {
	users       UserRepository
	pending     PendingSignupRepository
	emailSender EmailSender
	limiter     PasscodeRequestLimiter
	tm          *auth.TokenManager
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewSignupService creates a new SignupService. limiter may be nil.
func NewSignupService(
	users UserRepository,
	pending PendingSignupRepository,
	emailSender EmailSender,
	limiter PasscodeRequestLimiter,
	tm *auth.TokenManager,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *SignupService {
	return &SignupService{
		users:       users,
		pending:     pending,
		emailSender: emailSender,
		limiter:     limiter,
		tm:          tm,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// RequestCodeInput is the registration payload captured at request time
type RequestCodeInput struct {
	Email    string
	Name     string
	Password string
	Country  string
	State    string
}

// PasscodeIssue reports the outcome of a passcode request. Code is kept so
// development builds can surface it when no real delivery channel exists.
type PasscodeIssue struct {
	Code      string
	Delivered bool
}

// RequestCode validates the registration, issues a 6-digit passcode, parks
// the payload in the passcode store and attempts email delivery. A delivery
// failure is logged but does not fail the request. A repeat request for the
// same email overwrites the previous pending code; last write wins.
func (s *SignupService) RequestCode(ctx context.Context, in RequestCodeInput) (*PasscodeIssue, error) {
	email := normalizeEmail(in.Email)

	if !isValidEmail(email) {
		return nil, fmt.Errorf("%w: a valid email address is required", models.ErrValidation)
	}
	if err := pkgauth.ValidatePassword(in.Password); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrValidation, err.Error())
	}

	if s.limiter != nil && !s.limiter.Allow(ctx, email) {
		s.logger.Warn("passcode request rate limited",
			slog.String("email", pkglogger.SanitizedEmail(email)))
		return nil, models.ErrRateLimited
	}

	// Fast-path duplicate check; the unique index on users remains the
	// source of truth at creation time.
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "signup_code_rejected",
			FailureReason: "duplicate_account",
			Success:       false,
		})
		return nil, models.ErrDuplicateAccount
	}
	if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to check for existing account", slog.Any("error", err))
		return nil, models.ErrPersistence
	}

	code, err := generatePasscode()
	if err != nil {
		s.logger.Error("failed to generate passcode", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	signup := &models.PendingSignup{
		Email:     email,
		Code:      code,
		Name:      strings.TrimSpace(in.Name),
		Password:  in.Password,
		Country:   strings.TrimSpace(in.Country),
		State:     strings.TrimSpace(in.State),
		CreatedAt: time.Now(),
	}

	if err := s.pending.Upsert(ctx, signup); err != nil {
		s.logger.Error("failed to store pending signup", slog.Any("error", err))
		return nil, models.ErrPersistence
	}

	issue := &PasscodeIssue{Code: code, Delivered: true}
	if err := s.emailSender.SendPasscode(ctx, email, signup.Name, code); err != nil {
		// Delivery is best-effort. The pending record stands and the
		// caller may surface the code through a development fallback.
		issue.Delivered = false
		s.logger.Warn("passcode delivery failed",
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.Any("error", fmt.Errorf("%w: %v", models.ErrDelivery, err)))
	}

	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "signup_code_issued",
		Success:   true,
	})

	return issue, nil
}

// VerifyCode checks a submitted passcode against the pending signup for the
// email. On a match it creates the verified user, removes the pending
// record and returns a session token with the public user fields. On a
// mismatch the pending record is left untouched so the caller can retry.
func (s *SignupService) VerifyCode(ctx context.Context, email, code string) (*AuthResponse, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)

	if email == "" || code == "" {
		return nil, fmt.Errorf("%w: email and code are required", models.ErrValidation)
	}

	signup, err := s.pending.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Covers both "never requested" and "expired": the store
			// treats stale entries as absent.
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to read pending signup", slog.Any("error", err))
		return nil, models.ErrPersistence
	}

	if signup.Code != code {
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "signup_verify_failed",
			FailureReason: "code_mismatch",
			Success:       false,
		})
		return nil, models.ErrCodeMismatch
	}

	// An account may have been created for this email since the code was
	// issued. Clear the now-useless pending record and reject.
	_, err = s.users.GetByEmail(ctx, email)
	if err == nil {
		_ = s.pending.DeleteByEmail(ctx, email)
		return nil, models.ErrDuplicateAccount
	}
	if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to check for existing account", slog.Any("error", err))
		return nil, models.ErrPersistence
	}

	passwordHash, err := pkgauth.HashPassword(signup.Password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	now := time.Now()
	user := &models.User{
		Email:         email,
		PasswordHash:  passwordHash,
		Name:          signup.Name,
		EmailVerified: true,
		VerifiedAt:    &now,
	}
	if signup.Country != "" {
		user.JurisdictionCountry = &signup.Country
	}
	if signup.State != "" {
		user.JurisdictionState = &signup.State
	}

	createdUser, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateAccount) {
			// Lost the race despite the pre-check; the unique index wins.
			_ = s.pending.DeleteByEmail(ctx, email)
			return nil, models.ErrDuplicateAccount
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrPersistence
	}

	// Delete right after confirmed creation. If this fails the dangling
	// record expires on its own and can never promote again, since the
	// account now exists.
	if err := s.pending.DeleteByEmail(ctx, email); err != nil {
		s.logger.Warn("failed to delete pending signup after promotion",
			slog.String("user_id", createdUser.ID), slog.Any("error", err))
	}

	token, err := s.tm.GenerateSessionToken(createdUser.ID, createdUser.Email)
	if err != nil {
		s.logger.Error("failed to generate session token",
			slog.String("user_id", createdUser.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("signup verified", slog.String("user_id", createdUser.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "signup_verified",
		UserID:    createdUser.ID,
		Success:   true,
	})

	return &AuthResponse{
		Token: token,
		User:  userModelToResponse(createdUser),
	}, nil
}

// normalizeEmail lowercases and trims; all store lookups and keys use the
// normalized form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isValidEmail requires exactly one @ with a non-empty local part and a
// dotted domain with no empty labels.
func isValidEmail(email string) bool {
	if strings.Count(email, "@") != 1 {
		return false
	}
	at := strings.Index(email, "@")
	local, domain := email[:at], email[at+1:]
	if local == "" || domain == "" {
		return false
	}
	if strings.ContainsAny(email, " \t") {
		return false
	}
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if label == "" {
			return false
		}
	}
	return true
}

// generatePasscode draws a 6-digit code uniformly from [100000, 999999]
func generatePasscode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
