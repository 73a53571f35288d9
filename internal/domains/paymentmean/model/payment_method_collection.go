package model

// PaymentMethodCollection holds the Adyen methods fetched for one checkout
type PaymentMethodCollection struct {
	paymentMethods []PaymentMethod
}

func NewPaymentMethodCollection(paymentMethods ...PaymentMethod) PaymentMethodCollection {
	items := make([]PaymentMethod, len(paymentMethods))
	copy(items, paymentMethods)
	return PaymentMethodCollection{paymentMethods: items}
}

// PaymentMethodCollectionFromRaw builds a collection from the two arrays of a
// /paymentMethods response, regular methods first.
func PaymentMethodCollectionFromRaw(methods, stored []AdyenPaymentMethod) PaymentMethodCollection {
	items := make([]PaymentMethod, 0, len(methods)+len(stored))
	for _, raw := range methods {
		items = append(items, PaymentMethodFromRaw(raw))
	}
	for _, raw := range stored {
		items = append(items, PaymentMethodFromRaw(raw))
	}
	return PaymentMethodCollection{paymentMethods: items}
}

func (c PaymentMethodCollection) All() []PaymentMethod {
	items := make([]PaymentMethod, len(c.paymentMethods))
	copy(items, c.paymentMethods)
	return items
}

func (c PaymentMethodCollection) Count() int {
	return len(c.paymentMethods)
}

// FetchByIdentifier is an exact match on the composite identifier
func (c PaymentMethodCollection) FetchByIdentifier(identifier string) (PaymentMethod, bool) {
	if identifier == "" {
		return PaymentMethod{}, false
	}

	for _, paymentMethod := range c.paymentMethods {
		if paymentMethod.Identifier() == identifier {
			return paymentMethod, true
		}
	}
	return PaymentMethod{}, false
}

// FetchByPaymentMean matches the mean's adyen_type attribute against the
// regular methods only. Stored methods are reached through the umbrella mean.
// Means without the attribute, or with a null value, never match.
func (c PaymentMethodCollection) FetchByPaymentMean(paymentMean PaymentMean) (PaymentMethod, bool) {
	return c.FilterExcludeStored().FetchByIdentifier(paymentMean.AdyenCode())
}

func (c PaymentMethodCollection) FilterByStored() PaymentMethodCollection {
	return c.filter(func(paymentMethod PaymentMethod) bool {
		return paymentMethod.IsStored()
	})
}

func (c PaymentMethodCollection) FilterExcludeStored() PaymentMethodCollection {
	return c.filter(func(paymentMethod PaymentMethod) bool {
		return !paymentMethod.IsStored()
	})
}

func (c PaymentMethodCollection) filter(keep func(PaymentMethod) bool) PaymentMethodCollection {
	items := make([]PaymentMethod, 0, len(c.paymentMethods))
	for _, paymentMethod := range c.paymentMethods {
		if keep(paymentMethod) {
			items = append(items, paymentMethod)
		}
	}
	return PaymentMethodCollection{paymentMethods: items}
}
