package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amicuslegal/amicus/internal/models"
)

func newTestUserService(users UserRepository) *UserService {
	return NewUserService(users, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestUserService_GetProfile(t *testing.T) {
	users := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return NewTestUser(id, "user@example.com", "Test User"), nil
		},
	}
	svc := newTestUserService(users)

	profile, err := svc.GetProfile(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, "user_1", profile.ID)
	assert.Equal(t, "user@example.com", profile.Email)
}

func TestUserService_GetProfile_NotFound(t *testing.T) {
	svc := newTestUserService(&MockUserRepository{})

	_, err := svc.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUserService_UpdateJurisdiction(t *testing.T) {
	var gotCountry, gotState string
	users := &MockUserRepository{
		UpdateJurisdictionFunc: func(ctx context.Context, id, country, state string) (*models.User, error) {
			gotCountry, gotState = country, state
			user := NewTestUser(id, "user@example.com", "Test User")
			user.JurisdictionCountry = &country
			user.JurisdictionState = &state
			user.OnboardingComplete = false
			return user, nil
		},
	}
	svc := newTestUserService(users)

	profile, err := svc.UpdateJurisdiction(context.Background(), "user_1", "Canada", "Ontario")
	require.NoError(t, err)
	assert.Equal(t, "Canada", gotCountry)
	assert.Equal(t, "Ontario", gotState)
	assert.False(t, profile.OnboardingComplete)
}

func TestUserService_UpdateJurisdiction_RequiresCountry(t *testing.T) {
	svc := newTestUserService(&MockUserRepository{})

	_, err := svc.UpdateJurisdiction(context.Background(), "user_1", "", "Ontario")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestUserService_AcceptTerms(t *testing.T) {
	called := false
	users := &MockUserRepository{
		SetOnboardingCompleteFunc: func(ctx context.Context, id string) error {
			called = true
			return nil
		},
	}
	svc := newTestUserService(users)

	require.NoError(t, svc.AcceptTerms(context.Background(), "user_1"))
	assert.True(t, called)
}

func TestUserService_AcceptTerms_NotFound(t *testing.T) {
	users := &MockUserRepository{
		SetOnboardingCompleteFunc: func(ctx context.Context, id string) error {
			return models.ErrNotFound
		},
	}
	svc := newTestUserService(users)

	assert.ErrorIs(t, svc.AcceptTerms(context.Background(), "missing"), models.ErrNotFound)
}

func TestUserService_CheckEmail(t *testing.T) {
	users := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			if email == "taken@example.com" {
				return NewTestUser("user_1", email, "Taken"), nil
			}
			return nil, models.ErrNotFound
		},
	}
	svc := newTestUserService(users)

	exists, err := svc.CheckEmail(context.Background(), "Taken@Example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.CheckEmail(context.Background(), "free@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = svc.CheckEmail(context.Background(), "not-an-email")
	assert.ErrorIs(t, err, models.ErrValidation)
}
