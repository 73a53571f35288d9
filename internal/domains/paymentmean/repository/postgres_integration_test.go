//go:build integration

package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"adyen-checkout-backend/internal/domains/paymentmean/model"
)

// Run with: go test -tags integration ./internal/domains/paymentmean/repository/...

func migration(name string) string {
	return filepath.Join("..", "..", "..", "..", "migrations", name)
}

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("checkout"),
		postgres.WithUsername("checkout"),
		postgres.WithPassword("checkout"),
		postgres.WithInitScripts(
			migration("000001_create_payment_means.up.sql"),
			migration("000002_create_user_preferences.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func TestPostgresRepositories(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	paymentMeans := NewPaymentMeanRepository(pool)
	preferences := NewUserPreferenceRepository(pool)

	t.Run("umbrella seeded without attribute", func(t *testing.T) {
		rows, err := paymentMeans.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)

		assert.Equal(t, model.StoredPaymentUmbrellaName, rows[0].Name)
		assert.Equal(t, model.SourceTypeDefault, rows[0].Source)
		assert.Nil(t, rows[0].Attribute)
	})

	t.Run("create and attribute in one transaction", func(t *testing.T) {
		created := &model.RawPaymentMean{
			Name:     "adyen_ideal",
			Source:   model.SourceTypeAdyen,
			Position: 5,
			Active:   true,
		}

		err := paymentMeans.WithTransaction(ctx, func(repo PaymentMeanRepository) error {
			if err := repo.Create(ctx, created); err != nil {
				return err
			}
			return repo.WriteAttribute(ctx, created.ID, "ideal")
		})
		require.NoError(t, err)
		require.NotZero(t, created.ID)

		found, err := paymentMeans.FindByCode(ctx, "ideal")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, model.SourceTypeAdyen, found.Source)
		require.NotNil(t, found.Attribute)
		assert.Equal(t, "ideal", *found.Attribute.AdyenType)

		rows, err := paymentMeans.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, model.StoredPaymentUmbrellaName, rows[0].Name)
		assert.Equal(t, "adyen_ideal", rows[1].Name)
	})

	t.Run("failed transaction rolls back", func(t *testing.T) {
		boom := errors.New("boom")

		err := paymentMeans.WithTransaction(ctx, func(repo PaymentMeanRepository) error {
			if err := repo.Create(ctx, &model.RawPaymentMean{Name: "adyen_paypal", Source: model.SourceTypeAdyen, Active: true}); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		exists, err := paymentMeans.ExistsByName(ctx, "adyen_paypal")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("duplicate detection ignores itself", func(t *testing.T) {
		found, err := paymentMeans.FindByCode(ctx, "ideal")
		require.NoError(t, err)
		require.NotNil(t, found)

		duplicate, err := paymentMeans.ExistsDuplicate(ctx, found)
		require.NoError(t, err)
		assert.False(t, duplicate)

		clash := &model.RawPaymentMean{ID: found.ID + 1000, Name: found.Name}
		duplicate, err = paymentMeans.ExistsDuplicate(ctx, clash)
		require.NoError(t, err)
		assert.True(t, duplicate)
	})

	t.Run("update of unknown id", func(t *testing.T) {
		err := paymentMeans.Update(ctx, &model.RawPaymentMean{ID: 99999, Name: "ghost"})
		assert.ErrorIs(t, err, model.ErrPaymentNotImported)
	})

	t.Run("null attribute kept distinct from missing", func(t *testing.T) {
		_, err := pool.Exec(ctx, `
			INSERT INTO payment_mean_attributes (payment_mean_id, adyen_type)
			SELECT id, NULL FROM payment_means WHERE name = $1
		`, model.StoredPaymentUmbrellaName)
		require.NoError(t, err)

		rows, err := paymentMeans.ListActive(ctx)
		require.NoError(t, err)
		require.NotNil(t, rows[0].Attribute)
		assert.Nil(t, rows[0].Attribute.AdyenType)

		missing, err := paymentMeans.FindByCode(ctx, "klarna")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("user preference lifecycle", func(t *testing.T) {
		userID := uuid.New()

		_, err := preferences.GetByUserID(ctx, userID)
		assert.ErrorIs(t, err, model.ErrPreferenceNotFound)

		storedID := "stored-1"
		first := &model.UserPreference{UserID: userID, StoredMethodID: &storedID}
		require.NoError(t, preferences.Upsert(ctx, first))

		otherID := "stored-2"
		second := &model.UserPreference{UserID: userID, StoredMethodID: &otherID}
		require.NoError(t, preferences.Upsert(ctx, second))
		assert.Equal(t, first.ID, second.ID)

		require.NoError(t, preferences.ClearStoredMethod(ctx, userID, storedID))
		loaded, err := preferences.GetByUserID(ctx, userID)
		require.NoError(t, err)
		assert.True(t, loaded.PointsTo(otherID))

		require.NoError(t, preferences.ClearStoredMethod(ctx, userID, otherID))
		loaded, err = preferences.GetByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Nil(t, loaded.StoredMethodID)
	})
}
