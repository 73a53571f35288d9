package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"adyen-checkout-backend/internal/domains/paymentmean/model"
	"adyen-checkout-backend/pkg/database"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// =====================================================
// PAYMENT MEAN REPOSITORY IMPLEMENTATION
// =====================================================
type pmRepository struct {
	pool *pgxpool.Pool
	db   querier
}

func NewPaymentMeanRepository(pool *pgxpool.Pool) PaymentMeanRepository {
	return &pmRepository{pool: pool, db: pool}
}

const selectPaymentMean = `
	SELECT
		pm.id, pm.name, pm.description, pm.additional_description,
		pm.source, pm.hide, pm.position, pm.active,
		pma.payment_mean_id IS NOT NULL AS has_attribute,
		pma.adyen_type
	FROM payment_means pm
	LEFT JOIN payment_mean_attributes pma ON pma.payment_mean_id = pm.id
`

func (r *pmRepository) ListActive(ctx context.Context) ([]model.RawPaymentMean, error) {
	query := selectPaymentMean + `
		WHERE pm.active = TRUE
		ORDER BY pm.position ASC, pm.id ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment means: %w", err)
	}
	defer rows.Close()

	paymentMeans := make([]model.RawPaymentMean, 0)
	for rows.Next() {
		paymentMean, err := scanPaymentMean(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment mean: %w", err)
		}
		paymentMeans = append(paymentMeans, *paymentMean)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment means: %w", err)
	}

	return paymentMeans, nil
}

func (r *pmRepository) FindByCode(ctx context.Context, code string) (*model.RawPaymentMean, error) {
	query := selectPaymentMean + `
		WHERE pma.adyen_type = $1
		ORDER BY pm.id ASC
		LIMIT 1
	`

	paymentMean, err := scanPaymentMean(r.db.QueryRow(ctx, query, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find payment mean by code: %w", err)
	}

	return paymentMean, nil
}

func (r *pmRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM payment_means WHERE name = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check payment mean name: %w", err)
	}
	return exists, nil
}

func (r *pmRepository) ExistsDuplicate(ctx context.Context, paymentMean *model.RawPaymentMean) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM payment_means WHERE name = $1 AND id <> $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, paymentMean.Name, paymentMean.ID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check duplicate payment mean: %w", err)
	}
	return exists, nil
}

func (r *pmRepository) Create(ctx context.Context, paymentMean *model.RawPaymentMean) error {
	query := `
		INSERT INTO payment_means (
			name, description, additional_description,
			source, hide, position, active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		paymentMean.Name,
		paymentMean.Description,
		paymentMean.AdditionalDescription,
		int(paymentMean.Source),
		paymentMean.Hide,
		paymentMean.Position,
		paymentMean.Active,
	).Scan(&paymentMean.ID)
	if err != nil {
		return fmt.Errorf("failed to create payment mean: %w", err)
	}

	return nil
}

func (r *pmRepository) Update(ctx context.Context, paymentMean *model.RawPaymentMean) error {
	query := `
		UPDATE payment_means
		SET name = $1,
			description = $2,
			additional_description = $3,
			source = $4,
			active = $5,
			updated_at = NOW()
		WHERE id = $6
	`

	result, err := r.db.Exec(ctx, query,
		paymentMean.Name,
		paymentMean.Description,
		paymentMean.AdditionalDescription,
		int(paymentMean.Source),
		paymentMean.Active,
		paymentMean.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment mean: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrPaymentNotImported
	}

	return nil
}

func (r *pmRepository) WriteAttribute(ctx context.Context, paymentMeanID int, adyenType string) error {
	query := `
		INSERT INTO payment_mean_attributes (payment_mean_id, adyen_type)
		VALUES ($1, $2)
		ON CONFLICT (payment_mean_id) DO UPDATE
		SET adyen_type = EXCLUDED.adyen_type
	`

	if _, err := r.db.Exec(ctx, query, paymentMeanID, adyenType); err != nil {
		return fmt.Errorf("failed to write payment mean attribute: %w", err)
	}
	return nil
}

func (r *pmRepository) WithTransaction(ctx context.Context, fn func(repo PaymentMeanRepository) error) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&pmRepository{pool: r.pool, db: tx})
	})
}

// =====================================================
// HELPERS
// =====================================================

func scanPaymentMean(row pgx.Row) (*model.RawPaymentMean, error) {
	var (
		paymentMean  model.RawPaymentMean
		source       int
		hasAttribute bool
		adyenType    *string
	)

	err := row.Scan(
		&paymentMean.ID,
		&paymentMean.Name,
		&paymentMean.Description,
		&paymentMean.AdditionalDescription,
		&source,
		&paymentMean.Hide,
		&paymentMean.Position,
		&paymentMean.Active,
		&hasAttribute,
		&adyenType,
	)
	if err != nil {
		return nil, err
	}

	paymentMean.Source, err = model.LoadSourceType(source)
	if err != nil {
		return nil, err
	}

	if hasAttribute {
		paymentMean.Attribute = &model.Attribute{AdyenType: adyenType}
	}

	return &paymentMean, nil
}
