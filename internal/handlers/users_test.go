package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amicuslegal/amicus/internal/auth"
	"github.com/amicuslegal/amicus/internal/models"
	"github.com/amicuslegal/amicus/internal/services"
)

func authenticatedRequest(t *testing.T, method string, body interface{}, userID string) *http.Request {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, "/", reader)
	claims := &models.SessionClaims{UserID: userID, Email: "user@example.com"}
	return req.WithContext(context.WithValue(req.Context(), auth.UserContextKey, claims))
}

func TestUserHandler_Me(t *testing.T) {
	svc := &MockUserService{
		GetProfileFunc: func(ctx context.Context, id string) (*services.UserResponse, error) {
			return &services.UserResponse{ID: id, Email: "user@example.com", Name: "Test User"}, nil
		},
	}
	h := NewUserHandler(svc)

	rec := httptest.NewRecorder()
	h.Me(rec, authenticatedRequest(t, http.MethodGet, nil, "user_1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user_1", decodeBody(t, rec)["id"])
}

func TestUserHandler_Me_Unauthenticated(t *testing.T) {
	h := NewUserHandler(&MockUserService{})

	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserHandler_UpdateJurisdiction(t *testing.T) {
	var gotCountry, gotState string
	svc := &MockUserService{
		UpdateJurisdictionFunc: func(ctx context.Context, id, country, state string) (*services.UserResponse, error) {
			gotCountry, gotState = country, state
			return &services.UserResponse{ID: id, OnboardingComplete: false}, nil
		},
	}
	h := NewUserHandler(svc)

	rec := httptest.NewRecorder()
	h.UpdateJurisdiction(rec, authenticatedRequest(t, http.MethodPut, map[string]string{
		"jurisdiction_country": "Canada",
		"jurisdiction_state":   "Ontario",
	}, "user_1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Canada", gotCountry)
	assert.Equal(t, "Ontario", gotState)
}

func TestUserHandler_UpdateJurisdiction_RequiresCountry(t *testing.T) {
	h := NewUserHandler(&MockUserService{})

	rec := httptest.NewRecorder()
	h.UpdateJurisdiction(rec, authenticatedRequest(t, http.MethodPut, map[string]string{
		"jurisdiction_state": "Ontario",
	}, "user_1"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserHandler_AcceptTerms(t *testing.T) {
	accepted := false
	svc := &MockUserService{
		AcceptTermsFunc: func(ctx context.Context, id string) error {
			accepted = true
			return nil
		},
	}
	h := NewUserHandler(svc)

	rec := httptest.NewRecorder()
	h.AcceptTerms(rec, authenticatedRequest(t, http.MethodPost, nil, "user_1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, accepted)
	assert.Equal(t, true, decodeBody(t, rec)["onboarding_complete"])
}

func TestUserHandler_AcceptTerms_NotFound(t *testing.T) {
	svc := &MockUserService{
		AcceptTermsFunc: func(ctx context.Context, id string) error {
			return models.ErrNotFound
		},
	}
	h := NewUserHandler(svc)

	rec := httptest.NewRecorder()
	h.AcceptTerms(rec, authenticatedRequest(t, http.MethodPost, nil, "missing"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
