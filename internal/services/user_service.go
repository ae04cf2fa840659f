package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amicuslegal/amicus/internal/models"
)

// UserRepository defines the interface for credential store operations
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	UpdateJurisdiction(ctx context.Context, id, country, state string) (*models.User, error)
	SetOnboardingComplete(ctx context.Context, id string) error
}

// UserService covers profile reads and the onboarding operations that
// follow a verified signup.
type UserService struct {
	users  UserRepository
	logger *slog.Logger
}

func NewUserService(users UserRepository, logger *slog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// GetProfile returns the public shape of the user with the given id
func (s *UserService) GetProfile(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to load user profile", slog.Any("error", err))
		return nil, models.ErrPersistence
	}
	resp := userModelToResponse(user)
	return &resp, nil
}

// UpdateJurisdiction records a new jurisdiction for the user. Changing
// jurisdiction re-opens onboarding because the guidance the assistant
// gives is jurisdiction-specific.
func (s *UserService) UpdateJurisdiction(ctx context.Context, id, country, state string) (*UserResponse, error) {
	if country == "" {
		return nil, models.ErrValidation
	}
	user, err := s.users.UpdateJurisdiction(ctx, id, country, state)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update jurisdiction", slog.Any("error", err))
		return nil, models.ErrPersistence
	}
	resp := userModelToResponse(user)
	return &resp, nil
}

// AcceptTerms marks the user's onboarding as complete
func (s *UserService) AcceptTerms(ctx context.Context, id string) error {
	if err := s.users.SetOnboardingComplete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to accept terms", slog.Any("error", err))
		return models.ErrPersistence
	}
	return nil
}

// CheckEmail reports whether an account already exists for the email
func (s *UserService) CheckEmail(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	if !isValidEmail(email) {
		return false, models.ErrValidation
	}
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, models.ErrNotFound) {
		return false, nil
	}
	s.logger.Error("failed to check email", slog.Any("error", err))
	return false, models.ErrPersistence
}
