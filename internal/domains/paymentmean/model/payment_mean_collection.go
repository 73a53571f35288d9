package model

// PaymentMeanCollection is an ordered list of payment means. Order is the
// render order. Every transformation returns a new collection.
type PaymentMeanCollection struct {
	paymentMeans []PaymentMean
}

func NewPaymentMeanCollection(paymentMeans ...PaymentMean) PaymentMeanCollection {
	items := make([]PaymentMean, len(paymentMeans))
	copy(items, paymentMeans)
	return PaymentMeanCollection{paymentMeans: items}
}

// PaymentMeanCollectionFromRows builds a collection from storage rows
func PaymentMeanCollectionFromRows(rows []RawPaymentMean) PaymentMeanCollection {
	items := make([]PaymentMean, 0, len(rows))
	for _, row := range rows {
		items = append(items, NewPaymentMean(row))
	}
	return PaymentMeanCollection{paymentMeans: items}
}

// All returns a copy of the underlying slice
func (c PaymentMeanCollection) All() []PaymentMean {
	items := make([]PaymentMean, len(c.paymentMeans))
	copy(items, c.paymentMeans)
	return items
}

func (c PaymentMeanCollection) Count() int {
	return len(c.paymentMeans)
}

// Map applies fn to every mean and keeps only the results fn reports as
// present. It is a filter-map, not a strict 1:1 map.
func (c PaymentMeanCollection) Map(fn func(PaymentMean) (PaymentMean, bool)) []PaymentMean {
	result := make([]PaymentMean, 0, len(c.paymentMeans))
	for _, paymentMean := range c.paymentMeans {
		if mapped, ok := fn(paymentMean); ok {
			result = append(result, mapped)
		}
	}
	return result
}

func (c PaymentMeanCollection) Filter(keep func(PaymentMean) bool) PaymentMeanCollection {
	result := make([]PaymentMean, 0, len(c.paymentMeans))
	for _, paymentMean := range c.paymentMeans {
		if keep(paymentMean) {
			result = append(result, paymentMean)
		}
	}
	return PaymentMeanCollection{paymentMeans: result}
}

func (c PaymentMeanCollection) FilterBySource(source SourceType) PaymentMeanCollection {
	return c.Filter(func(paymentMean PaymentMean) bool {
		return source.Equals(paymentMean.Source())
	})
}

func (c PaymentMeanCollection) FilterExcludeAdyen() PaymentMeanCollection {
	return c.Filter(func(paymentMean PaymentMean) bool {
		return !paymentMean.Source().Equals(SourceTypeAdyen)
	})
}

func (c PaymentMeanCollection) FilterExcludeHidden() PaymentMeanCollection {
	return c.Filter(func(paymentMean PaymentMean) bool {
		return !paymentMean.IsHidden()
	})
}

// Append returns a new collection with the given means added at the end
func (c PaymentMeanCollection) Append(paymentMeans ...PaymentMean) PaymentMeanCollection {
	items := make([]PaymentMean, 0, len(c.paymentMeans)+len(paymentMeans))
	items = append(items, c.paymentMeans...)
	items = append(items, paymentMeans...)
	return PaymentMeanCollection{paymentMeans: items}
}

// =====================================================
// LOOKUPS (first match wins)
// =====================================================

func (c PaymentMeanCollection) FetchStoredMethodUmbrellaPaymentMean() (PaymentMean, bool) {
	return c.find(func(paymentMean PaymentMean) bool {
		return paymentMean.IsUmbrella()
	})
}

func (c PaymentMeanCollection) FetchByID(paymentID int) (PaymentMean, bool) {
	return c.find(func(paymentMean PaymentMean) bool {
		return paymentMean.ID() == paymentID
	})
}

func (c PaymentMeanCollection) FetchByStoredMethodID(storedMethodID string) (PaymentMean, bool) {
	return c.find(func(paymentMean PaymentMean) bool {
		return paymentMean.AdyenStoredMethodID() != "" && paymentMean.AdyenStoredMethodID() == storedMethodID
	})
}

func (c PaymentMeanCollection) FetchByUmbrellaStoredMethodID(storedMethodID string) (PaymentMean, bool) {
	return c.find(func(paymentMean PaymentMean) bool {
		return paymentMean.AdyenStoredMethodUmbrellaID() != "" && paymentMean.AdyenStoredMethodUmbrellaID() == storedMethodID
	})
}

func (c PaymentMeanCollection) find(match func(PaymentMean) bool) (PaymentMean, bool) {
	for _, paymentMean := range c.paymentMeans {
		if match(paymentMean) {
			return paymentMean, true
		}
	}
	return PaymentMean{}, false
}

// =====================================================
// OUTPUT
// =====================================================

// ToRawMap indexes the raw payloads by RawPaymentMean.Key
func (c PaymentMeanCollection) ToRawMap() map[string]RawPaymentMean {
	payload := make(map[string]RawPaymentMean, len(c.paymentMeans))
	for _, paymentMean := range c.paymentMeans {
		raw := paymentMean.Raw()
		payload[raw.Key()] = raw
	}
	return payload
}

// ToRawList returns the raw payloads in render order
func (c PaymentMeanCollection) ToRawList() []RawPaymentMean {
	payload := make([]RawPaymentMean, 0, len(c.paymentMeans))
	for _, paymentMean := range c.paymentMeans {
		payload = append(payload, paymentMean.Raw())
	}
	return payload
}
