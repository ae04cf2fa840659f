package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amicuslegal/amicus/internal/auth"
	"github.com/amicuslegal/amicus/internal/models"
	pkgauth "github.com/amicuslegal/amicus/pkg/auth"
	pkglogger "github.com/amicuslegal/amicus/pkg/logger"
)

func newTestAuthService(users UserRepository) *AuthService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tm := auth.NewTokenManager("test-secret-32-characters-long!!", 7*24*time.Hour)
	return NewAuthService(users, tm, logger, pkglogger.NewAuditLogger(logger))
}

func TestAuthService_Login_Success(t *testing.T) {
	hash, err := pkgauth.HashPassword("secret1")
	require.NoError(t, err)

	users := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			user := NewTestUser("user_1", email, "Test User")
			user.PasswordHash = hash
			return user, nil
		},
	}
	svc := newTestAuthService(users)

	resp, err := svc.Login(context.Background(), "User@Example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "user_1", resp.User.ID)
	assert.Equal(t, "user@example.com", resp.User.Email)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	hash, err := pkgauth.HashPassword("secret1")
	require.NoError(t, err)

	users := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			user := NewTestUser("user_1", email, "Test User")
			user.PasswordHash = hash
			return user, nil
		},
	}
	svc := newTestAuthService(users)

	_, err = svc.Login(context.Background(), "user@example.com", "wrong-password")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := newTestAuthService(&MockUserRepository{})

	_, err := svc.Login(context.Background(), "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAuthService_Login_MissingInputs(t *testing.T) {
	svc := newTestAuthService(&MockUserRepository{})

	_, err := svc.Login(context.Background(), "", "secret1")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Login(context.Background(), "user@example.com", "")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestAuthService_Login_RepositoryFailure(t *testing.T) {
	users := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, assert.AnError
		},
	}
	svc := newTestAuthService(users)

	_, err := svc.Login(context.Background(), "user@example.com", "secret1")
	assert.ErrorIs(t, err, models.ErrPersistence)
}
