package model

import (
	"regexp"
	"strings"
)

// =====================================================
// ADYEN PAYMENT METHOD (API fragment)
// =====================================================

// AdyenPaymentMethod is one entry of the paymentMethods or
// storedPaymentMethods arrays returned by Adyen's /paymentMethods.
type AdyenPaymentMethod struct {
	ID                           string   `json:"id,omitempty"`
	Type                         string   `json:"type"`
	Name                         string   `json:"name,omitempty"`
	Brand                        string   `json:"brand,omitempty"`
	Brands                       []string `json:"brands,omitempty"`
	LastFour                     string   `json:"lastFour,omitempty"`
	HolderName                   string   `json:"holderName,omitempty"`
	ExpiryMonth                  string   `json:"expiryMonth,omitempty"`
	ExpiryYear                   string   `json:"expiryYear,omitempty"`
	ShopperEmail                 string   `json:"shopperEmail,omitempty"`
	SupportedShopperInteractions []string `json:"supportedShopperInteractions,omitempty"`
}

// =====================================================
// PAYMENT METHOD
// =====================================================

var codeSanitizer = regexp.MustCompile("[^a-z0-9]+")

// PaymentMethod is an Adyen-side payment method descriptor
type PaymentMethod struct {
	code        string
	paymentType string
	raw         AdyenPaymentMethod
}

// PaymentMethodFromRaw builds a method from an API fragment. The code is
// derived from the method name and can be rebound with WithCode.
func PaymentMethodFromRaw(raw AdyenPaymentMethod) PaymentMethod {
	return PaymentMethod{
		code:        codeFromName(raw.Name),
		paymentType: raw.Type,
		raw:         raw,
	}
}

// WithCode returns a copy bound to the given code
func (m PaymentMethod) WithCode(code string) PaymentMethod {
	m.code = code
	return m
}

func (m PaymentMethod) Code() string {
	return m.code
}

func (m PaymentMethod) Type() string {
	return m.paymentType
}

func (m PaymentMethod) PaymentType() PaymentType {
	return PaymentType(m.paymentType)
}

// Identifier is the composite "{type}_{code}" used to match payment means.
// An unnamed method without a bound code yields "{type}_".
func (m PaymentMethod) Identifier() string {
	return m.paymentType + "_" + m.code
}

func (m PaymentMethod) Name() string {
	if m.raw.Name == "" {
		return m.paymentType
	}
	return m.raw.Name
}

// Brand falls back to the type for methods without a card brand
func (m PaymentMethod) Brand() string {
	if m.raw.Brand != "" {
		return m.raw.Brand
	}
	return m.paymentType
}

// IsStored reports whether this is a shopper's stored (tokenized) method
func (m PaymentMethod) IsStored() bool {
	return m.raw.ID != ""
}

func (m PaymentMethod) StoredID() string {
	return m.raw.ID
}

func (m PaymentMethod) Raw() AdyenPaymentMethod {
	return m.raw
}

func codeFromName(name string) string {
	code := codeSanitizer.ReplaceAllString(strings.ToLower(name), "_")
	return strings.Trim(code, "_")
}
