package model

import "strings"

// PaymentType is the Adyen payment method type ("scheme", "bcmc", "ideal", ...)
type PaymentType string

const (
	PaymentTypeScheme PaymentType = "scheme"
	PaymentTypeBCMC   PaymentType = "bcmc"
	PaymentTypeIdeal  PaymentType = "ideal"
	PaymentTypePaypal PaymentType = "paypal"
)

// LoadPaymentType normalizes a raw type value. Empty input yields ok=false.
func LoadPaymentType(value string) (PaymentType, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return PaymentType(value), true
}

func (t PaymentType) String() string {
	return string(t)
}

// IsCard reports whether the type is a card scheme
func (t PaymentType) IsCard() bool {
	return t == PaymentTypeScheme
}
