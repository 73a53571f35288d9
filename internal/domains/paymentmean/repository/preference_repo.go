package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"adyen-checkout-backend/internal/domains/paymentmean/model"
)

// =====================================================
// USER PREFERENCE REPOSITORY IMPLEMENTATION
// =====================================================
type preferenceRepository struct {
	pool *pgxpool.Pool
}

func NewUserPreferenceRepository(pool *pgxpool.Pool) UserPreferenceRepository {
	return &preferenceRepository{pool: pool}
}

func (r *preferenceRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.UserPreference, error) {
	query := `
		SELECT id, user_id, stored_method_id, created_at, updated_at
		FROM user_preferences
		WHERE user_id = $1
	`

	var preference model.UserPreference
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&preference.ID,
		&preference.UserID,
		&preference.StoredMethodID,
		&preference.CreatedAt,
		&preference.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrPreferenceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user preference: %w", err)
	}

	return &preference, nil
}

func (r *preferenceRepository) Upsert(ctx context.Context, preference *model.UserPreference) error {
	if preference.ID == uuid.Nil {
		preference.ID = uuid.New()
	}

	query := `
		INSERT INTO user_preferences (id, user_id, stored_method_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET stored_method_id = EXCLUDED.stored_method_id,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		preference.ID,
		preference.UserID,
		preference.StoredMethodID,
	).Scan(&preference.ID, &preference.CreatedAt, &preference.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save user preference: %w", err)
	}

	return nil
}

func (r *preferenceRepository) ClearStoredMethod(ctx context.Context, userID uuid.UUID, storedMethodID string) error {
	query := `
		UPDATE user_preferences
		SET stored_method_id = NULL,
			updated_at = NOW()
		WHERE user_id = $1 AND stored_method_id = $2
	`

	if _, err := r.pool.Exec(ctx, query, userID, storedMethodID); err != nil {
		return fmt.Errorf("failed to clear user preference: %w", err)
	}
	return nil
}
