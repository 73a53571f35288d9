package gateway

import (
	"context"

	"adyen-checkout-backend/internal/domains/paymentmean/model"
)

// =====================================================
// GATEWAY INTERFACES
// =====================================================

// PaymentMethodService fetches the Adyen payment methods available for a
// checkout. Stored methods are included when a shopper reference is given.
type PaymentMethodService interface {
	GetPaymentMethods(ctx context.Context, opts model.PaymentMethodOptions) (model.PaymentMethodCollection, error)
}

// StoredMethodGateway manages a shopper's tokenized payment methods
type StoredMethodGateway interface {
	// DisableStoredPaymentMethod removes the token so it is no longer offered
	DisableStoredPaymentMethod(ctx context.Context, storedMethodID, shopperReference string) error
}

// AdyenGateway is everything the checkout needs from Adyen
type AdyenGateway interface {
	PaymentMethodService
	StoredMethodGateway
}
