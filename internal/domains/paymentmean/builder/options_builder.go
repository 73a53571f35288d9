package builder

import (
	"strings"

	"adyen-checkout-backend/internal/domains/paymentmean/model"
)

// PaymentMethodOptionsBuilder turns the checkout context into the
// parameters of a payment methods lookup
type PaymentMethodOptionsBuilder interface {
	Build(checkout model.CheckoutContext) model.PaymentMethodOptions
}

type optionsBuilder struct {
	defaultCountry  string
	defaultCurrency string
}

// NewOptionsBuilder falls back to the given country and currency when the
// checkout does not carry them
func NewOptionsBuilder(defaultCountry, defaultCurrency string) PaymentMethodOptionsBuilder {
	return &optionsBuilder{
		defaultCountry:  strings.ToUpper(defaultCountry),
		defaultCurrency: strings.ToUpper(defaultCurrency),
	}
}

func (b *optionsBuilder) Build(checkout model.CheckoutContext) model.PaymentMethodOptions {
	country := strings.ToUpper(strings.TrimSpace(checkout.CountryCode))
	if country == "" {
		country = b.defaultCountry
	}

	currency := strings.ToUpper(strings.TrimSpace(checkout.Currency))
	if currency == "" {
		currency = b.defaultCurrency
	}

	return model.PaymentMethodOptions{
		CountryCode:      country,
		Currency:         currency,
		Value:            checkout.CartValue,
		ShopperReference: checkout.ShopperReference(),
	}
}
