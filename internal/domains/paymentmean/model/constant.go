package model

// =====================================================
// RESERVED PAYMENT MEAN NAMES & ATTRIBUTES
// =====================================================
const (
	// StoredPaymentUmbrellaName is the name of the single payment mean that
	// stands for "pay with a previously stored Adyen method"
	StoredPaymentUmbrellaName = "adyen_stored_payment_umbrella"

	// AttributeAdyenType is the attribute column holding the composite
	// "{type}_{code}" identifier of the Adyen method a payment mean maps to
	AttributeAdyenType = "adyen_type"
)

// =====================================================
// SESSION KEYS
// =====================================================
const (
	SessionStoredMethodID = "adyen_stored_method_id"
)

// =====================================================
// INTERNAL ERROR CODES
// =====================================================
const (
	ErrCodeUmbrellaNotFound     = "PM001"
	ErrCodeGatewayUnavailable   = "PM002"
	ErrCodeInvalidRequest       = "PM003"
	ErrCodePaymentExists        = "PM004"
	ErrCodePaymentNotImported   = "PM005"
	ErrCodeStoredMethodNotFound = "PM006"
	ErrCodePreferenceNotFound   = "PM007"
	ErrCodeInternalError        = "PM009"
)

// =====================================================
// IMPORT STATUS
// =====================================================
const (
	ImportStatusCreated = "created"
	ImportStatusUpdated = "updated"
	ImportStatusFailed  = "failed"
)
