package enricher

import (
	"fmt"

	"adyen-checkout-backend/internal/domains/paymentmean/model"
)

// PaymentMethodEnricher produces the display payload of a payment mean backed
// by an Adyen payment method. It must not modify its input.
type PaymentMethodEnricher interface {
	Enrich(raw model.RawPaymentMean, method model.PaymentMethod) model.RawPaymentMean
}

// Func adapts a plain function to PaymentMethodEnricher
type Func func(raw model.RawPaymentMean, method model.PaymentMethod) model.RawPaymentMean

func (f Func) Enrich(raw model.RawPaymentMean, method model.PaymentMethod) model.RawPaymentMean {
	return f(raw, method)
}

const (
	logoURLTest = "https://checkoutshopper-test.adyen.com/checkoutshopper/images/logos/%s.svg"
	logoURLLive = "https://checkoutshopper-live.adyen.com/checkoutshopper/images/logos/%s.svg"
)

// AdyenEnricher copies the Adyen method details onto the payment mean
type AdyenEnricher struct {
	logoURL string
}

func NewAdyenEnricher(live bool) *AdyenEnricher {
	logoURL := logoURLTest
	if live {
		logoURL = logoURLLive
	}
	return &AdyenEnricher{logoURL: logoURL}
}

func (e *AdyenEnricher) Enrich(raw model.RawPaymentMean, method model.PaymentMethod) model.RawPaymentMean {
	metadata := method.Raw()

	raw.AdyenType = method.Type()
	raw.Metadata = &metadata
	raw.Source = model.SourceTypeAdyen

	if !method.IsStored() {
		raw.Image = fmt.Sprintf(e.logoURL, method.Type())
		if raw.Description == "" {
			raw.Description = method.Name()
		}
		return raw
	}

	raw.Image = fmt.Sprintf(e.logoURL, method.Brand())
	raw.IsStoredPayment = true
	raw.StoredMethodID = method.StoredID()
	raw.StoredMethodUmbrellaID = StoredMethodUmbrellaID(raw.ID, method.StoredID())
	raw.Description = storedDescription(method)
	return raw
}

// StoredMethodUmbrellaID is the form value selecting a stored method
// through the umbrella mean: "{umbrellaId}_{storedId}"
func StoredMethodUmbrellaID(umbrellaID int, storedMethodID string) string {
	return fmt.Sprintf("%d_%s", umbrellaID, storedMethodID)
}

// storedDescription masks cards by their last four digits. Other stored
// methods show the account they were stored with, when Adyen returns one.
func storedDescription(method model.PaymentMethod) string {
	raw := method.Raw()
	if method.PaymentType().IsCard() {
		if raw.LastFour == "" {
			return method.Name()
		}
		return fmt.Sprintf("%s •••• %s", method.Name(), raw.LastFour)
	}

	if raw.ShopperEmail == "" {
		return method.Name()
	}
	return fmt.Sprintf("%s (%s)", method.Name(), raw.ShopperEmail)
}
