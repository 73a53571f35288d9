package service

import (
	"context"
	"fmt"

	"adyen-checkout-backend/internal/domains/paymentmean/builder"
	"adyen-checkout-backend/internal/domains/paymentmean/enricher"
	"adyen-checkout-backend/internal/domains/paymentmean/gateway"
	"adyen-checkout-backend/internal/domains/paymentmean/model"
)

// =====================================================
// ENRICHED PAYMENT MEAN PROVIDER
// =====================================================

// EnrichedPaymentMeanProvider filters and enriches the store's payment means
// with the Adyen methods available for the current checkout
type EnrichedPaymentMeanProvider interface {
	Provide(ctx context.Context, paymentMeans model.PaymentMeanCollection, checkout model.CheckoutContext) (model.PaymentMeanCollection, error)
}

type enrichedPaymentMeanProvider struct {
	paymentMethodService gateway.PaymentMethodService
	optionsBuilder       builder.PaymentMethodOptionsBuilder
	enricher             enricher.PaymentMethodEnricher
}

func NewEnrichedPaymentMeanProvider(
	paymentMethodService gateway.PaymentMethodService,
	optionsBuilder builder.PaymentMethodOptionsBuilder,
	paymentMethodEnricher enricher.PaymentMethodEnricher,
) EnrichedPaymentMeanProvider {
	return &enrichedPaymentMeanProvider{
		paymentMethodService: paymentMethodService,
		optionsBuilder:       optionsBuilder,
		enricher:             paymentMethodEnricher,
	}
}

// Provide returns the payment means to display for the checkout
//
// Flow:
// 1. Build lookup options; an empty cart skips Adyen entirely
// 2. Fetch the Adyen payment methods
// 3. Locate the stored-payment umbrella mean
// 4. Keep native means, enrich matched Adyen means, drop the rest
// 5. Append one umbrella-derived mean per stored Adyen method
//
// Edge Cases:
// - Cart value zero -> Adyen means excluded, gateway and enricher untouched
// - Gateway failure -> returned wrapped, no fallback
// - No umbrella mean -> PM001
// - Adyen mean without attribute, null attribute or no match -> dropped
func (p *enrichedPaymentMeanProvider) Provide(
	ctx context.Context,
	paymentMeans model.PaymentMeanCollection,
	checkout model.CheckoutContext,
) (model.PaymentMeanCollection, error) {
	// Step 1: Build options
	opts := p.optionsBuilder.Build(checkout)
	if !opts.HasCartValue() {
		return paymentMeans.FilterExcludeAdyen(), nil
	}

	// Step 2: Fetch Adyen payment methods
	paymentMethods, err := p.paymentMethodService.GetPaymentMethods(ctx, opts)
	if err != nil {
		return model.PaymentMeanCollection{}, fmt.Errorf("failed to fetch payment methods: %w", err)
	}

	// Step 3: Locate umbrella
	umbrella, ok := paymentMeans.FetchStoredMethodUmbrellaPaymentMean()
	if !ok {
		return model.PaymentMeanCollection{}, model.NewUmbrellaPaymentMeanNotFoundError()
	}

	// Step 4: Enrich matched Adyen means
	enriched := paymentMeans.Map(func(paymentMean model.PaymentMean) (model.PaymentMean, bool) {
		if !paymentMean.IsAdyenSourceType() {
			return paymentMean, true
		}

		paymentMethod, found := paymentMethods.FetchByPaymentMean(paymentMean)
		if !found {
			return model.PaymentMean{}, false
		}

		return model.NewPaymentMean(p.enricher.Enrich(paymentMean.Raw(), paymentMethod)), true
	})

	// Step 5: Expand the umbrella into the shopper's stored methods
	for _, storedMethod := range paymentMethods.FilterByStored().All() {
		enriched = append(enriched, model.NewPaymentMean(p.enricher.Enrich(umbrella.Raw(), storedMethod)))
	}

	return model.NewPaymentMeanCollection(enriched...), nil
}
