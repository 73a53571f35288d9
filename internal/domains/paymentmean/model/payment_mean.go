package model

import "strconv"

// =====================================================
// RAW PAYMENT MEAN (storage row / display payload)
// =====================================================

// Attribute is the payment_mean_attributes row attached to a payment mean.
// A nil AdyenType means the column exists but holds NULL.
type Attribute struct {
	AdyenType *string `json:"adyen_type"`
}

// NewAttribute builds an attribute carrying an Adyen identifier
func NewAttribute(adyenType string) *Attribute {
	return &Attribute{AdyenType: &adyenType}
}

// RawPaymentMean is the payload of a payment mean as stored and as rendered
// to the checkout. Enrichment produces a new RawPaymentMean, never edits one.
type RawPaymentMean struct {
	ID                     int                 `json:"id"`
	Name                   string              `json:"name"`
	Description            string              `json:"description"`
	AdditionalDescription  string              `json:"additionalDescription,omitempty"`
	Source                 SourceType          `json:"source"`
	Hide                   bool                `json:"hide"`
	Position               int                 `json:"position"`
	Active                 bool                `json:"active"`
	Attribute              *Attribute          `json:"attribute,omitempty"`
	AdyenType              string              `json:"adyenType,omitempty"`
	Image                  string              `json:"image,omitempty"`
	IsStoredPayment        bool                `json:"isStoredPayment,omitempty"`
	StoredMethodID         string              `json:"stored_method_id,omitempty"`
	StoredMethodUmbrellaID string              `json:"stored_method_umbrella_id,omitempty"`
	Metadata               *AdyenPaymentMethod `json:"metadata,omitempty"`
}

// Key identifies the payload in the id-indexed output. Stored-method means
// share the umbrella id, so they are keyed by their umbrella id instead.
func (r RawPaymentMean) Key() string {
	if r.StoredMethodUmbrellaID != "" {
		return r.StoredMethodUmbrellaID
	}
	return strconv.Itoa(r.ID)
}

// =====================================================
// PAYMENT MEAN
// =====================================================

// PaymentMean is an immutable snapshot of one payment option
type PaymentMean struct {
	id        int
	source    SourceType
	raw       RawPaymentMean
	enriched  bool
	adyenType *PaymentType
}

// NewPaymentMean constructs a payment mean from its raw payload. The mean
// counts as enriched iff the payload carries an adyenType.
func NewPaymentMean(raw RawPaymentMean) PaymentMean {
	mean := PaymentMean{
		id:     raw.ID,
		source: raw.Source,
		raw:    raw,
	}

	if paymentType, ok := LoadPaymentType(raw.AdyenType); ok {
		mean.enriched = true
		mean.adyenType = &paymentType
	}

	return mean
}

func (p PaymentMean) ID() int {
	return p.id
}

func (p PaymentMean) Source() SourceType {
	return p.source
}

func (p PaymentMean) IsHidden() bool {
	return p.raw.Hide
}

// Attribute returns the attribute row, or nil when the mean has none
func (p PaymentMean) Attribute() *Attribute {
	return p.raw.Attribute
}

func (p PaymentMean) IsEnriched() bool {
	return p.enriched
}

// AdyenCode returns the composite identifier stored in the attribute, or ""
// when the attribute is absent or null.
func (p PaymentMean) AdyenCode() string {
	if p.raw.Attribute == nil || p.raw.Attribute.AdyenType == nil {
		return ""
	}
	return *p.raw.Attribute.AdyenType
}

func (p PaymentMean) AdyenStoredMethodID() string {
	return p.raw.StoredMethodID
}

func (p PaymentMean) AdyenStoredMethodUmbrellaID() string {
	return p.raw.StoredMethodUmbrellaID
}

// AdyenType is set only for enriched means
func (p PaymentMean) AdyenType() *PaymentType {
	return p.adyenType
}

func (p PaymentMean) Name() string {
	return p.raw.Name
}

func (p PaymentMean) Raw() RawPaymentMean {
	return p.raw
}

func (p PaymentMean) IsAdyenSourceType() bool {
	return p.source.Equals(SourceTypeAdyen)
}

// IsUmbrella reports whether this is the stored-payment umbrella mean
func (p PaymentMean) IsUmbrella() bool {
	return p.raw.Name == StoredPaymentUmbrellaName
}
