package repository

import (
	"context"

	"github.com/google/uuid"

	"adyen-checkout-backend/internal/domains/paymentmean/model"
)

// =====================================================
// PAYMENT MEAN REPOSITORY INTERFACE
// =====================================================
type PaymentMeanRepository interface {
	// ListActive returns active payment means with their attribute, in render order
	ListActive(ctx context.Context) ([]model.RawPaymentMean, error)

	// FindByCode finds the payment mean whose adyen_type attribute equals code.
	// Returns nil when there is none.
	FindByCode(ctx context.Context, code string) (*model.RawPaymentMean, error)

	// ExistsByName checks whether any payment mean uses the name
	ExistsByName(ctx context.Context, name string) (bool, error)

	// ExistsDuplicate checks whether another payment mean uses the same name
	ExistsDuplicate(ctx context.Context, paymentMean *model.RawPaymentMean) (bool, error)

	// Create inserts the payment mean and sets its ID
	Create(ctx context.Context, paymentMean *model.RawPaymentMean) error

	// Update persists the mutable columns of an existing payment mean
	Update(ctx context.Context, paymentMean *model.RawPaymentMean) error

	// WriteAttribute upserts the adyen_type attribute of a payment mean
	WriteAttribute(ctx context.Context, paymentMeanID int, adyenType string) error

	// WithTransaction runs fn against a repository bound to one transaction
	WithTransaction(ctx context.Context, fn func(repo PaymentMeanRepository) error) error
}

// =====================================================
// USER PREFERENCE REPOSITORY INTERFACE
// =====================================================
type UserPreferenceRepository interface {
	// GetByUserID returns model.ErrPreferenceNotFound when the user has none
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.UserPreference, error)

	// Upsert creates or replaces the preference of preference.UserID
	Upsert(ctx context.Context, preference *model.UserPreference) error

	// ClearStoredMethod unsets the stored method if it is the given one
	ClearStoredMethod(ctx context.Context, userID uuid.UUID, storedMethodID string) error
}

// =====================================================
// SESSION STORE INTERFACE
// =====================================================
type SessionStore interface {
	// GetStoredMethodID returns "" when nothing is selected
	GetStoredMethodID(ctx context.Context, sessionID string) (string, error)
	SetStoredMethodID(ctx context.Context, sessionID, storedMethodID string) error
	ClearStoredMethodID(ctx context.Context, sessionID string) error
}
