package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// CHECKOUT CONTEXT
// =====================================================

// CheckoutContext carries the request-scoped state the enrichment pipeline
// needs. It replaces ambient session and basket lookups.
type CheckoutContext struct {
	UserID               *uuid.UUID
	SessionID            string
	CountryCode          string
	Currency             string
	CartValue            decimal.Decimal
	PreselectedPaymentID int
	IsXHR                bool
}

// ShopperReference is the Adyen shopper reference for stored methods.
// Guests have none.
func (c CheckoutContext) ShopperReference() string {
	if c.UserID == nil {
		return ""
	}
	return c.UserID.String()
}

// PaymentMethodOptions are the parameters of an Adyen /paymentMethods call
type PaymentMethodOptions struct {
	CountryCode      string
	Currency         string
	Value            decimal.Decimal
	ShopperReference string
}

// HasCartValue is false for an empty cart, in which case Adyen is not asked
func (o PaymentMethodOptions) HasCartValue() bool {
	return !o.Value.IsZero()
}

// =====================================================
// USER PREFERENCE ENTITY
// =====================================================
type UserPreference struct {
	ID             uuid.UUID `json:"id" db:"id"`
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	StoredMethodID *string   `json:"stored_method_id,omitempty" db:"stored_method_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// ToView is the shape exposed to the checkout as adyenUserPreference
func (p *UserPreference) ToView() *UserPreferenceView {
	view := &UserPreferenceView{UserID: p.UserID.String()}
	if p.StoredMethodID != nil {
		view.StoredMethodID = *p.StoredMethodID
	}
	return view
}

// PointsTo reports whether the preference selects the given stored method
func (p *UserPreference) PointsTo(storedMethodID string) bool {
	return p.StoredMethodID != nil && *p.StoredMethodID == storedMethodID
}

// =====================================================
// IMPORT RESULT
// =====================================================
type ImportResult struct {
	Identifier    string `json:"identifier" yaml:"identifier"`
	PaymentMeanID *int   `json:"payment_mean_id,omitempty" yaml:"payment_mean_id,omitempty"`
	Status        string `json:"status" yaml:"status"`
	Error         string `json:"error,omitempty" yaml:"error,omitempty"`
}

func ImportSuccess(identifier string, paymentMeanID int, status string) ImportResult {
	return ImportResult{
		Identifier:    identifier,
		PaymentMeanID: &paymentMeanID,
		Status:        status,
	}
}

func ImportFailure(identifier string, err error) ImportResult {
	return ImportResult{
		Identifier: identifier,
		Status:     ImportStatusFailed,
		Error:      err.Error(),
	}
}

func (r ImportResult) IsSuccess() bool {
	return r.Status != ImportStatusFailed
}
