package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amicuslegal/amicus/internal/models"
	"github.com/amicuslegal/amicus/internal/repositories"
)

func setupRepoTest(t *testing.T) (*TestDB, *repositories.UserRepository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	testDB, err := SetupTestDatabase(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		testDB.Teardown(context.Background())
	})

	return testDB, repositories.NewUserRepository(testDB.DB)
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	_, repo := setupRepoTest(t)
	ctx := context.Background()

	country := "United States"
	created, err := repo.Create(ctx, &models.User{
		Email:               "user@example.com",
		PasswordHash:        "hash",
		Name:                "Test User",
		JurisdictionCountry: &country,
		EmailVerified:       true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", byID.Email)
	require.NotNil(t, byID.JurisdictionCountry)
	assert.Equal(t, "United States", *byID.JurisdictionCountry)
	assert.Nil(t, byID.JurisdictionState)

	byEmail, err := repo.GetByEmail(ctx, "USER@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
}

func TestUserRepository_DuplicateEmailRejected(t *testing.T) {
	_, repo := setupRepoTest(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.User{Email: "dup@example.com", PasswordHash: "hash"})
	require.NoError(t, err)

	// Differs only in case; the index on LOWER(email) still fires.
	_, err = repo.Create(ctx, &models.User{Email: "DUP@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, models.ErrDuplicateAccount)
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	_, repo := setupRepoTest(t)

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUserRepository_JurisdictionLifecycle(t *testing.T) {
	testDB, repo := setupRepoTest(t)
	ctx := context.Background()

	seeded, err := SeedUser(ctx, testDB.Pool, "user@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, repo.SetOnboardingComplete(ctx, seeded.ID))

	user, err := repo.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.True(t, user.OnboardingComplete)

	// A jurisdiction change sends the user back through onboarding.
	updated, err := repo.UpdateJurisdiction(ctx, seeded.ID, "Canada", "Ontario")
	require.NoError(t, err)
	assert.False(t, updated.OnboardingComplete)
	require.NotNil(t, updated.JurisdictionCountry)
	assert.Equal(t, "Canada", *updated.JurisdictionCountry)
}

func TestUserRepository_SetOnboardingComplete_NotFound(t *testing.T) {
	_, repo := setupRepoTest(t)

	err := repo.SetOnboardingComplete(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
