package handlers

import (
	"context"

	"github.com/amicuslegal/amicus/internal/models"
	"github.com/amicuslegal/amicus/internal/services"
)

// MockSignupService implements SignupServiceInterface for testing
type MockSignupService struct {
	RequestCodeFunc func(ctx context.Context, in services.RequestCodeInput) (*services.PasscodeIssue, error)
	VerifyCodeFunc  func(ctx context.Context, email, code string) (*services.AuthResponse, error)
}

func (m *MockSignupService) RequestCode(ctx context.Context, in services.RequestCodeInput) (*services.PasscodeIssue, error) {
	if m.RequestCodeFunc != nil {
		return m.RequestCodeFunc(ctx, in)
	}
	return &services.PasscodeIssue{Code: "123456", Delivered: true}, nil
}

func (m *MockSignupService) VerifyCode(ctx context.Context, email, code string) (*services.AuthResponse, error) {
	if m.VerifyCodeFunc != nil {
		return m.VerifyCodeFunc(ctx, email, code)
	}
	return nil, models.ErrNotFound
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	LoginFunc func(ctx context.Context, email, password string) (*services.AuthResponse, error)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*services.AuthResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, models.ErrUnauthorized
}

// MockEmailCheckService implements EmailCheckServiceInterface for testing
type MockEmailCheckService struct {
	CheckEmailFunc func(ctx context.Context, email string) (bool, error)
}

func (m *MockEmailCheckService) CheckEmail(ctx context.Context, email string) (bool, error) {
	if m.CheckEmailFunc != nil {
		return m.CheckEmailFunc(ctx, email)
	}
	return false, nil
}

// MockUserService implements UserServiceInterface for testing
type MockUserService struct {
	GetProfileFunc         func(ctx context.Context, id string) (*services.UserResponse, error)
	UpdateJurisdictionFunc func(ctx context.Context, id, country, state string) (*services.UserResponse, error)
	AcceptTermsFunc        func(ctx context.Context, id string) error
}

func (m *MockUserService) GetProfile(ctx context.Context, id string) (*services.UserResponse, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserService) UpdateJurisdiction(ctx context.Context, id, country, state string) (*services.UserResponse, error) {
	if m.UpdateJurisdictionFunc != nil {
		return m.UpdateJurisdictionFunc(ctx, id, country, state)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserService) AcceptTerms(ctx context.Context, id string) error {
	if m.AcceptTermsFunc != nil {
		return m.AcceptTermsFunc(ctx, id)
	}
	return nil
}

// MockAssistantService implements AssistantServiceInterface for testing
type MockAssistantService struct {
	ChatFunc    func(ctx context.Context, userID, message string, history []models.ChatTurn) (string, error)
	AnalyzeFunc func(ctx context.Context, userID, mode string, data []byte, mimeType string) (string, error)
	ForgeFunc   func(ctx context.Context, userID, docType, details string) (string, error)
}

func (m *MockAssistantService) Chat(ctx context.Context, userID, message string, history []models.ChatTurn) (string, error) {
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, userID, message, history)
	}
	return "reply", nil
}

func (m *MockAssistantService) Analyze(ctx context.Context, userID, mode string, data []byte, mimeType string) (string, error) {
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, userID, mode, data, mimeType)
	}
	return "report", nil
}

func (m *MockAssistantService) Forge(ctx context.Context, userID, docType, details string) (string, error) {
	if m.ForgeFunc != nil {
		return m.ForgeFunc(ctx, userID, docType, details)
	}
	return "document", nil
}
