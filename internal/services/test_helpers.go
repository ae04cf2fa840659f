package services

import (
	"context"
	"time"

	"github.com/amicuslegal/amicus/internal/models"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc               func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc            func(ctx context.Context, email string) (*models.User, error)
	CreateFunc                func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateJurisdictionFunc    func(ctx context.Context, id, country, state string) (*models.User, error)
	SetOnboardingCompleteFunc func(ctx context.Context, id string) error
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) UpdateJurisdiction(ctx context.Context, id, country, state string) (*models.User, error) {
	if m.UpdateJurisdictionFunc != nil {
		return m.UpdateJurisdictionFunc(ctx, id, country, state)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) SetOnboardingComplete(ctx context.Context, id string) error {
	if m.SetOnboardingCompleteFunc != nil {
		return m.SetOnboardingCompleteFunc(ctx, id)
	}
	return nil
}

// MockPendingSignupRepository implements PendingSignupRepository for testing
type MockPendingSignupRepository struct {
	UpsertFunc        func(ctx context.Context, signup *models.PendingSignup) error
	GetByEmailFunc    func(ctx context.Context, email string) (*models.PendingSignup, error)
	DeleteByEmailFunc func(ctx context.Context, email string) error
}

func (m *MockPendingSignupRepository) Upsert(ctx context.Context, signup *models.PendingSignup) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, signup)
	}
	return nil
}

func (m *MockPendingSignupRepository) GetByEmail(ctx context.Context, email string) (*models.PendingSignup, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockPendingSignupRepository) DeleteByEmail(ctx context.Context, email string) error {
	if m.DeleteByEmailFunc != nil {
		return m.DeleteByEmailFunc(ctx, email)
	}
	return nil
}

// MockEmailSender implements EmailSender for testing
type MockEmailSender struct {
	SendPasscodeFunc func(ctx context.Context, email, name, code string) error
}

func (m *MockEmailSender) SendPasscode(ctx context.Context, email, name, code string) error {
	if m.SendPasscodeFunc != nil {
		return m.SendPasscodeFunc(ctx, email, name, code)
	}
	return nil
}

// MockPasscodeRequestLimiter implements PasscodeRequestLimiter for testing
type MockPasscodeRequestLimiter struct {
	AllowFunc func(ctx context.Context, email string) bool
}

func (m *MockPasscodeRequestLimiter) Allow(ctx context.Context, email string) bool {
	if m.AllowFunc != nil {
		return m.AllowFunc(ctx, email)
	}
	return true
}

// MockGenerativeClient implements GenerativeClient for testing
type MockGenerativeClient struct {
	GenerateTextFunc     func(ctx context.Context, system, prompt string) (string, error)
	GenerateChatFunc     func(ctx context.Context, system string, history []models.ChatTurn, message string) (string, error)
	GenerateFromFileFunc func(ctx context.Context, system, prompt string, data []byte, mimeType string) (string, error)
}

func (m *MockGenerativeClient) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	if m.GenerateTextFunc != nil {
		return m.GenerateTextFunc(ctx, system, prompt)
	}
	return "generated text", nil
}

func (m *MockGenerativeClient) GenerateChat(ctx context.Context, system string, history []models.ChatTurn, message string) (string, error) {
	if m.GenerateChatFunc != nil {
		return m.GenerateChatFunc(ctx, system, history, message)
	}
	return "generated reply", nil
}

func (m *MockGenerativeClient) GenerateFromFile(ctx context.Context, system, prompt string, data []byte, mimeType string) (string, error) {
	if m.GenerateFromFileFunc != nil {
		return m.GenerateFromFileFunc(ctx, system, prompt, data, mimeType)
	}
	return "generated report", nil
}

// NewTestUser creates a verified user for tests
func NewTestUser(id, email, name string) *models.User {
	now := time.Now()
	return &models.User{
		ID:            id,
		Email:         email,
		Name:          name,
		EmailVerified: true,
		VerifiedAt:    &now,
		CreatedAt:     now,
	}
}

// NewTestPendingSignup creates a pending signup issued just now
func NewTestPendingSignup(email, code string) *models.PendingSignup {
	return &models.PendingSignup{
		Email:     email,
		Code:      code,
		Name:      "Test User",
		Password:  "secret1",
		Country:   "United States",
		State:     "California",
		CreatedAt: time.Now(),
	}
}
