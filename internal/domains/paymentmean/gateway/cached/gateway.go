package cached

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"adyen-checkout-backend/internal/domains/paymentmean/gateway"
	"adyen-checkout-backend/internal/domains/paymentmean/model"
	"adyen-checkout-backend/pkg/cache"
)

const keyPrefix = "adyen:payment_methods"

// cachedMethods is the cache representation of a /paymentMethods response
type cachedMethods struct {
	PaymentMethods       []model.AdyenPaymentMethod `json:"payment_methods"`
	StoredPaymentMethods []model.AdyenPaymentMethod `json:"stored_payment_methods"`
}

// Gateway caches payment method lookups per country, currency, amount and
// shopper. Cache failures fall through to the wrapped gateway.
type Gateway struct {
	next  gateway.AdyenGateway
	cache cache.Cache
	ttl   time.Duration
}

func NewGateway(next gateway.AdyenGateway, cache cache.Cache, ttl time.Duration) gateway.AdyenGateway {
	return &Gateway{
		next:  next,
		cache: cache,
		ttl:   ttl,
	}
}

func (g *Gateway) GetPaymentMethods(
	ctx context.Context,
	opts model.PaymentMethodOptions,
) (model.PaymentMethodCollection, error) {
	key := cacheKey(opts)

	// Step 1: Try cache
	var cached cachedMethods
	found, err := g.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("payment methods cache read failed")
	}
	if found {
		return model.PaymentMethodCollectionFromRaw(cached.PaymentMethods, cached.StoredPaymentMethods), nil
	}

	// Step 2: Fetch from Adyen
	methods, err := g.next.GetPaymentMethods(ctx, opts)
	if err != nil {
		return model.PaymentMethodCollection{}, err
	}

	// Step 3: Store
	if err := g.cache.Set(ctx, key, toCached(methods), g.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("payment methods cache write failed")
	}

	return methods, nil
}

// DisableStoredPaymentMethod drops every cached list of the shopper so the
// disabled token is not offered again
func (g *Gateway) DisableStoredPaymentMethod(ctx context.Context, storedMethodID, shopperReference string) error {
	if err := g.next.DisableStoredPaymentMethod(ctx, storedMethodID, shopperReference); err != nil {
		return err
	}

	pattern := fmt.Sprintf("%s:*:%s", keyPrefix, shopperReference)
	if err := g.cache.DeletePattern(ctx, pattern); err != nil {
		log.Warn().Err(err).Str("pattern", pattern).Msg("payment methods cache invalidation failed")
	}
	return nil
}

func cacheKey(opts model.PaymentMethodOptions) string {
	return fmt.Sprintf("%s:%s:%s:%s:%s",
		keyPrefix,
		opts.CountryCode,
		opts.Currency,
		opts.Value.StringFixed(4),
		opts.ShopperReference,
	)
}

func toCached(methods model.PaymentMethodCollection) cachedMethods {
	result := cachedMethods{
		PaymentMethods:       make([]model.AdyenPaymentMethod, 0, methods.Count()),
		StoredPaymentMethods: []model.AdyenPaymentMethod{},
	}
	for _, method := range methods.All() {
		if method.IsStored() {
			result.StoredPaymentMethods = append(result.StoredPaymentMethods, method.Raw())
			continue
		}
		result.PaymentMethods = append(result.PaymentMethods, method.Raw())
	}
	return result
}
