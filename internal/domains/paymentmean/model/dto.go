package model

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

var (
	countryCodePattern = regexp.MustCompile("^[A-Z]{2}$")
	currencyPattern    = regexp.MustCompile("^[A-Z]{3}$")
)

// =====================================================
// CHECKOUT QUERY
// =====================================================

// CheckoutQuery is the basket summary the storefront sends with checkout
// requests. Empty country/currency fall back to the configured defaults.
type CheckoutQuery struct {
	Country   string `form:"country"`
	Currency  string `form:"currency"`
	Value     string `form:"value"`
	PaymentID int    `form:"payment_id"`
	IsXHR     bool   `form:"isXHR"`
}

func (q CheckoutQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Country, validation.Match(countryCodePattern).Error("must be an ISO 3166 alpha-2 code")),
		validation.Field(&q.Currency, validation.Match(currencyPattern).Error("must be an ISO 4217 code")),
		validation.Field(&q.Value, validation.By(nonNegativeDecimal)),
		validation.Field(&q.PaymentID, validation.Min(0)),
	)
}

// CartValue parses Value; an empty value is an empty cart
func (q CheckoutQuery) CartValue() decimal.Decimal {
	if q.Value == "" {
		return decimal.Zero
	}
	value, err := decimal.NewFromString(q.Value)
	if err != nil {
		return decimal.Zero
	}
	return value
}

func nonNegativeDecimal(value interface{}) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return errors.New("must be a decimal number")
	}
	if amount.IsNegative() {
		return errors.New("must not be negative")
	}
	return nil
}

// =====================================================
// STORED METHOD REQUESTS
// =====================================================

type SelectStoredMethodRequest struct {
	StoredMethodID string `json:"storedMethodId"`
}

func (r SelectStoredMethodRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.StoredMethodID, validation.Required, validation.Length(1, 128)),
	)
}

type SavePreferenceRequest struct {
	StoredMethodID *string `json:"storedMethodId"`
}

func (r SavePreferenceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.StoredMethodID, validation.NilOrNotEmpty, validation.Length(1, 128)),
	)
}

type DisableTokenRequest struct {
	RecurringToken string `json:"recurringToken" form:"recurringToken"`
}

func (r DisableTokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RecurringToken, validation.Required, validation.Length(1, 128)),
	)
}

// =====================================================
// RESPONSES / VIEWS
// =====================================================

type UserPreferenceView struct {
	UserID         string `json:"userId"`
	StoredMethodID string `json:"storedMethodId,omitempty"`
}

type PaymentMeansResponse struct {
	PaymentMeans []RawPaymentMean `json:"paymentMeans"`
	Count        int              `json:"count"`
}

// ShippingPaymentView is the data the shipping/payment checkout step renders.
// SelectedPayment is the payment the form shows as chosen; FormPayment the
// value submitted for it.
type ShippingPaymentView struct {
	UserPreference  *UserPreferenceView `json:"adyenUserPreference,omitempty"`
	SelectedPayment *RawPaymentMean     `json:"selectedPayment,omitempty"`
	FormPayment     string              `json:"formPayment,omitempty"`
	PaymentMeans    []RawPaymentMean    `json:"paymentMeans"`
}

type DisableTokenResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type ImportResponse struct {
	Results  []ImportResult `json:"results" yaml:"results"`
	Imported int            `json:"imported" yaml:"imported"`
	Failed   int            `json:"failed" yaml:"failed"`
}

func NewImportResponse(results []ImportResult) ImportResponse {
	response := ImportResponse{Results: results}
	for _, result := range results {
		if result.IsSuccess() {
			response.Imported++
		} else {
			response.Failed++
		}
	}
	return response
}
