package adyen

import (
	"net/http"

	"adyen-checkout-backend/internal/domains/paymentmean/model"
)

// =====================================================
// ADYEN API TYPES
// =====================================================

type Amount struct {
	Currency string `json:"currency"`
	Value    int64  `json:"value"`
}

type paymentMethodsRequest struct {
	MerchantAccount  string  `json:"merchantAccount"`
	CountryCode      string  `json:"countryCode,omitempty"`
	Amount           *Amount `json:"amount,omitempty"`
	ShopperReference string  `json:"shopperReference,omitempty"`
	Channel          string  `json:"channel"`
}

type paymentMethodsResponse struct {
	PaymentMethods       []model.AdyenPaymentMethod `json:"paymentMethods"`
	StoredPaymentMethods []model.AdyenPaymentMethod `json:"storedPaymentMethods"`
}

// APIError is the error body Adyen returns on non-2xx responses
type APIError struct {
	HTTPStatus int    `json:"-"`
	Status     int    `json:"status"`
	ErrorCode  string `json:"errorCode"`
	Message    string `json:"message"`
	ErrorType  string `json:"errorType"`
	PspRef     string `json:"pspReference,omitempty"`
}

func (e *APIError) Error() string {
	return "adyen: [" + e.ErrorCode + "] " + e.Message
}

// errorCodeContractNotFound is returned with a 422 when the recurring
// contract behind a stored method id does not exist for the shopper
const errorCodeContractNotFound = "800"

func (e *APIError) isStoredMethodNotFound() bool {
	switch e.HTTPStatus {
	case http.StatusNotFound:
		return true
	case http.StatusUnprocessableEntity:
		return e.ErrorCode == errorCodeContractNotFound
	default:
		return false
	}
}
