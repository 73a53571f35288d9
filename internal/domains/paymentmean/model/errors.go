package model

import (
	"errors"
	"fmt"
)

// =====================================================
// PREDEFINED ERRORS
// =====================================================

var (
	ErrUmbrellaPaymentMeanNotFound = errors.New("umbrella payment mean not found")
	ErrGatewayUnavailable          = errors.New("payment method gateway unavailable")
	ErrPaymentExists               = errors.New("payment mean already exists")
	ErrPaymentNotImported          = errors.New("payment mean not imported")
	ErrStoredMethodNotFound        = errors.New("stored payment method not found")
	ErrPreferenceNotFound          = errors.New("user preference not found")
)

// =====================================================
// CUSTOM PAYMENT MEAN ERROR
// =====================================================

type PaymentMeanError struct {
	Code    string
	Message string
	Err     error
}

func (e *PaymentMeanError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PaymentMeanError) Unwrap() error {
	return e.Err
}

func NewPaymentMeanError(code, message string, err error) *PaymentMeanError {
	return &PaymentMeanError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// =====================================================
// ERROR CONSTRUCTORS
// =====================================================

func NewUmbrellaPaymentMeanNotFoundError() *PaymentMeanError {
	return NewPaymentMeanError(
		ErrCodeUmbrellaNotFound,
		fmt.Sprintf("Payment mean %q must be provisioned for Adyen checkout", StoredPaymentUmbrellaName),
		ErrUmbrellaPaymentMeanNotFound,
	)
}

func NewPaymentExistsError(name string) *PaymentMeanError {
	return NewPaymentMeanError(
		ErrCodePaymentExists,
		fmt.Sprintf("Payment mean with name %s already exists", name),
		ErrPaymentExists,
	)
}

func NewPaymentNotImportedError(identifier string) *PaymentMeanError {
	return NewPaymentMeanError(
		ErrCodePaymentNotImported,
		fmt.Sprintf("Adyen payment method %s could not be imported", identifier),
		ErrPaymentNotImported,
	)
}

func NewStoredMethodNotFoundError(storedMethodID string) *PaymentMeanError {
	return NewPaymentMeanError(
		ErrCodeStoredMethodNotFound,
		fmt.Sprintf("Stored payment method not found: %s", storedMethodID),
		ErrStoredMethodNotFound,
	)
}
