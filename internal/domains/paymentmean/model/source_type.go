package model

import (
	"encoding/json"
	"fmt"
)

// SourceType tells where a payment mean comes from. Stored as a smallint in
// payment_means.source.
type SourceType int

const (
	// SourceTypeDefault is a payment mean configured natively in the store
	SourceTypeDefault SourceType = 0
	// SourceTypeAdyen is a payment mean backed by an Adyen payment method
	SourceTypeAdyen SourceType = 1
)

// LoadSourceType maps a stored value to a SourceType.
func LoadSourceType(value int) (SourceType, error) {
	switch SourceType(value) {
	case SourceTypeDefault, SourceTypeAdyen:
		return SourceType(value), nil
	default:
		return SourceTypeDefault, fmt.Errorf("invalid payment mean source: %d", value)
	}
}

func (s SourceType) Equals(other SourceType) bool {
	return s == other
}

func (s SourceType) String() string {
	switch s {
	case SourceTypeAdyen:
		return "adyen"
	default:
		return "default"
	}
}

func (s SourceType) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(s))
}
