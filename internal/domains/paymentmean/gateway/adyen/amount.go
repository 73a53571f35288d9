package adyen

import (
	"strings"

	"github.com/shopspring/decimal"
)

// currencyExponents lists ISO 4217 currencies whose minor unit is not 2
var currencyExponents = map[string]int32{
	"BHD": 3, "CVE": 0, "DJF": 0, "GNF": 0, "IDR": 0, "IQD": 3, "JOD": 3,
	"JPY": 0, "KMF": 0, "KRW": 0, "KWD": 3, "LYD": 3, "OMR": 3, "PYG": 0,
	"RWF": 0, "TND": 3, "UGX": 0, "VND": 0, "VUV": 0, "XAF": 0, "XOF": 0,
	"XPF": 0,
}

// CurrencyExponent returns the number of minor-unit digits of a currency
func CurrencyExponent(currency string) int32 {
	if exponent, ok := currencyExponents[strings.ToUpper(currency)]; ok {
		return exponent
	}
	return 2
}

// ToMinorUnits converts a major-unit amount to Adyen's integer minor units.
// Example: 12.34 EUR -> 1234, 1500 JPY -> 1500
func ToMinorUnits(value decimal.Decimal, currency string) int64 {
	exponent := CurrencyExponent(currency)
	return value.Shift(exponent).Round(0).IntPart()
}

// FromMinorUnits is the inverse of ToMinorUnits
func FromMinorUnits(value int64, currency string) decimal.Decimal {
	return decimal.NewFromInt(value).Shift(-CurrencyExponent(currency))
}
