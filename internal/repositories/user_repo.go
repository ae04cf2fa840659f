package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/amicuslegal/amicus/internal/database"
	"github.com/amicuslegal/amicus/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{pool: db.Pool}
}

// rowScanner covers both single-row and multi-row scanning
type rowScanner interface {
	Scan(dest ...interface{}) error
}

const userColumns = `id, email, password_hash, name, jurisdiction_country, jurisdiction_state,
		onboarding_complete, email_verified, verified_at, created_at`

// scanUserRow handles nullable fields and populates a User model from a database row
func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User
	var country, state *string
	var verifiedAt *time.Time

	err := scanner.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name,
		&country, &state,
		&user.OnboardingComplete, &user.EmailVerified,
		&verifiedAt, &user.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	user.JurisdictionCountry = country
	user.JurisdictionState = state
	user.VerifiedAt = verifiedAt

	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return scanUserRow(r.pool.QueryRow(ctx, query, id))
}

// GetByEmail matches case-insensitively; emails are stored lowercased but
// the lookup does not depend on callers having normalized first.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	return scanUserRow(r.pool.QueryRow(ctx, query, email))
}

// Create inserts a new user. The unique index on LOWER(email) is the
// source of truth for duplicates; a violation surfaces as ErrDuplicateAccount.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.New().String()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO users (id, email, password_hash, name, jurisdiction_country, jurisdiction_state,
			onboarding_complete, email_verified, verified_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name,
		user.JurisdictionCountry, user.JurisdictionState,
		user.OnboardingComplete, user.EmailVerified,
		user.VerifiedAt, user.CreatedAt,
	))
}

// UpdateJurisdiction sets the jurisdiction fields and resets onboarding,
// forcing the user back through terms acceptance.
func (r *UserRepository) UpdateJurisdiction(ctx context.Context, id, country, state string) (*models.User, error) {
	query := `
		UPDATE users
		SET jurisdiction_country = $1, jurisdiction_state = $2, onboarding_complete = FALSE
		WHERE id = $3
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query, country, state, id))
}

// SetOnboardingComplete marks the user as having accepted the terms.
// The only way back to incomplete onboarding is a jurisdiction change.
func (r *UserRepository) SetOnboardingComplete(ctx context.Context, id string) error {
	query := `UPDATE users SET onboarding_complete = TRUE WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to update onboarding status: %w", database.MapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
