package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adyen-checkout-backend/internal/domains/paymentmean/model"
)

// =====================================================
// TEST DOUBLES
// =====================================================

type mockPaymentMethodService struct {
	GetPaymentMethodsFunc func(ctx context.Context, opts model.PaymentMethodOptions) (model.PaymentMethodCollection, error)
	calls                 []model.PaymentMethodOptions
}

func (m *mockPaymentMethodService) GetPaymentMethods(ctx context.Context, opts model.PaymentMethodOptions) (model.PaymentMethodCollection, error) {
	m.calls = append(m.calls, opts)
	if m.GetPaymentMethodsFunc != nil {
		return m.GetPaymentMethodsFunc(ctx, opts)
	}
	return model.NewPaymentMethodCollection(), nil
}

func returningMethods(methods ...model.PaymentMethod) *mockPaymentMethodService {
	return &mockPaymentMethodService{
		GetPaymentMethodsFunc: func(ctx context.Context, opts model.PaymentMethodOptions) (model.PaymentMethodCollection, error) {
			return model.NewPaymentMethodCollection(methods...), nil
		},
	}
}

type fixedOptionsBuilder struct {
	opts model.PaymentMethodOptions
}

func (b fixedOptionsBuilder) Build(checkout model.CheckoutContext) model.PaymentMethodOptions {
	return b.opts
}

type recordingEnricher struct {
	calls []enrichCall
}

type enrichCall struct {
	raw    model.RawPaymentMean
	method model.PaymentMethod
}

func (e *recordingEnricher) Enrich(raw model.RawPaymentMean, method model.PaymentMethod) model.RawPaymentMean {
	e.calls = append(e.calls, enrichCall{raw: raw, method: method})
	raw.AdyenType = method.Type()
	raw.Description = "enriched " + method.Identifier()
	if method.IsStored() {
		raw.IsStoredPayment = true
		raw.StoredMethodID = method.StoredID()
		raw.StoredMethodUmbrellaID = "umbrella_" + method.StoredID()
	}
	return raw
}

func cartOptions(value string) fixedOptionsBuilder {
	return fixedOptionsBuilder{opts: model.PaymentMethodOptions{
		CountryCode: "BE",
		Currency:    "EUR",
		Value:       decimal.RequireFromString(value),
	}}
}

func umbrellaMean(id int, source model.SourceType) model.PaymentMean {
	return model.NewPaymentMean(model.RawPaymentMean{
		ID:     id,
		Name:   model.StoredPaymentUmbrellaName,
		Source: source,
	})
}

func adyenMean(id int, adyenType string) model.PaymentMean {
	return model.NewPaymentMean(model.RawPaymentMean{
		ID:        id,
		Source:    model.SourceTypeAdyen,
		Attribute: model.NewAttribute(adyenType),
	})
}

func nativeMean(id int) model.PaymentMean {
	return model.NewPaymentMean(model.RawPaymentMean{ID: id, Source: model.SourceTypeDefault})
}

func ids(collection model.PaymentMeanCollection) []int {
	result := make([]int, 0, collection.Count())
	for _, paymentMean := range collection.All() {
		result = append(result, paymentMean.ID())
	}
	return result
}

// =====================================================
// PROVIDER TESTS
// =====================================================

func TestProvider_EmptyCartExcludesAdyenWithoutFetching(t *testing.T) {
	methods := &mockPaymentMethodService{}
	enr := &recordingEnricher{}
	provider := NewEnrichedPaymentMeanProvider(methods, cartOptions("0"), enr)

	native := nativeMean(1)
	input := model.NewPaymentMeanCollection(native, model.NewPaymentMean(model.RawPaymentMean{ID: 2, Source: model.SourceTypeAdyen}))

	result, err := provider.Provide(context.Background(), input, model.CheckoutContext{})
	require.NoError(t, err)

	require.Equal(t, 1, result.Count())
	assert.Equal(t, native, result.All()[0])
	assert.Empty(t, methods.calls)
	assert.Empty(t, enr.calls)
}

func TestProvider_MissingUmbrellaFails(t *testing.T) {
	methods := returningMethods(model.PaymentMethodFromRaw(model.AdyenPaymentMethod{Type: "non"}).WithCode("adyen"))
	enr := &recordingEnricher{}
	provider := NewEnrichedPaymentMeanProvider(methods, cartOptions("17.7"), enr)

	_, err := provider.Provide(context.Background(), model.NewPaymentMeanCollection(nativeMean(1)), model.CheckoutContext{})

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrUmbrellaPaymentMeanNotFound)

	var pmErr *model.PaymentMeanError
	require.True(t, errors.As(err, &pmErr))
	assert.Equal(t, model.ErrCodeUmbrellaNotFound, pmErr.Code)
	assert.Empty(t, enr.calls)
	require.Len(t, methods.calls, 1)
	assert.Equal(t, "BE", methods.calls[0].CountryCode)
}

func TestProvider_NativeMeansPassThrough(t *testing.T) {
	methods := returningMethods(model.PaymentMethodFromRaw(model.AdyenPaymentMethod{Type: "non"}).WithCode("adyen"))
	enr := &recordingEnricher{}
	provider := NewEnrichedPaymentMeanProvider(methods, cartOptions("17.7"), enr)

	umbrella := model.NewPaymentMean(model.RawPaymentMean{
		ID:        17,
		Name:      model.StoredPaymentUmbrellaName,
		Source:    model.SourceTypeDefault,
		Attribute: model.NewAttribute("non_adyen"),
	})

	result, err := provider.Provide(context.Background(), model.NewPaymentMeanCollection(umbrella), model.CheckoutContext{})
	require.NoError(t, err)

	require.Equal(t, 1, result.Count())
	assert.Equal(t, umbrella, result.All()[0])
	assert.Empty(t, enr.calls)
}

func TestProvider_AdyenMeanWithoutAttributeDropped(t *testing.T) {
	enr := &recordingEnricher{}
	provider := NewEnrichedPaymentMeanProvider(returningMethods(), cartOptions("17.7"), enr)

	umbrella := umbrellaMean(19, model.SourceTypeDefault)
	input := model.NewPaymentMeanCollection(
		umbrella,
		model.NewPaymentMean(model.RawPaymentMean{ID: 21, Source: model.SourceTypeAdyen}),
	)

	result, err := provider.Provide(context.Background(), input, model.CheckoutContext{})
	require.NoError(t, err)

	assert.Equal(t, []int{19}, ids(result))
	assert.Equal(t, umbrella, result.All()[0])
	assert.Empty(t, enr.calls)
}

func TestProvider_NullAttributeDropped(t *testing.T) {
	enr := &recordingEnricher{}
	provider := NewEnrichedPaymentMeanProvider(returningMethods(), cartOptions("9.39"), enr)

	input := model.NewPaymentMeanCollection(model.NewPaymentMean(model.RawPaymentMean{
		ID:        9,
		Name:      model.StoredPaymentUmbrellaName,
		Source:    model.SourceTypeAdyen,
		Attribute: &model.Attribute{AdyenType: nil},
	}))

	result, err := provider.Provide(context.Background(), input, model.CheckoutContext{})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Count())
	assert.Empty(t, enr.calls)
}

func TestProvider_UnmatchedAdyenMeanDropped(t *testing.T) {
	enr := &recordingEnricher{}
	provider := NewEnrichedPaymentMeanProvider(returningMethods(), cartOptions("17.7"), enr)

	input := model.NewPaymentMeanCollection(model.NewPaymentMean(model.RawPaymentMean{
		ID:        25,
		Name:      model.StoredPaymentUmbrellaName,
		Source:    model.SourceTypeAdyen,
		Attribute: model.NewAttribute("non_matching_adyen_identifier"),
	}))

	result, err := provider.Provide(context.Background(), input, model.CheckoutContext{})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Count())
	assert.Empty(t, enr.calls)
}

func TestProvider_EnrichesMatchedAndStoredMethods(t *testing.T) {
	bcmc := model.PaymentMethodFromRaw(model.AdyenPaymentMethod{Type: "bcmc"}).WithCode("adyen_name")
	stored := model.PaymentMethodFromRaw(model.AdyenPaymentMethod{ID: "stored-1", Type: "scheme", Brand: "visa"})
	enr := &recordingEnricher{}
	provider := NewEnrichedPaymentMeanProvider(returningMethods(bcmc, stored), cartOptions("17.7"), enr)

	input := model.NewPaymentMeanCollection(
		adyenMean(15, "bcmc_adyen_name"),
		umbrellaMean(25, model.SourceTypeAdyen),
	)

	result, err := provider.Provide(context.Background(), input, model.CheckoutContext{})
	require.NoError(t, err)

	require.Equal(t, 2, result.Count())
	require.Len(t, enr.calls, 2)

	first := result.All()[0]
	assert.Equal(t, 15, first.ID())
	assert.True(t, first.IsEnriched())
	assert.Equal(t, "enriched bcmc_adyen_name", first.Raw().Description)
	assert.Equal(t, model.PaymentType("bcmc"), *first.AdyenType())

	second := result.All()[1]
	assert.Equal(t, 25, second.ID())
	assert.True(t, second.IsEnriched())
	assert.Equal(t, "stored-1", second.AdyenStoredMethodID())
	assert.Equal(t, model.StoredPaymentUmbrellaName, enr.calls[1].raw.Name)
	assert.Equal(t, "stored-1", enr.calls[1].method.StoredID())
}

func TestProvider_AdyenMeanNotMatchedAgainstStoredMethod(t *testing.T) {
	stored := model.PaymentMethodFromRaw(model.AdyenPaymentMethod{ID: "tok-1", Type: "scheme", Name: "VISA"})
	enr := &recordingEnricher{}
	provider := NewEnrichedPaymentMeanProvider(returningMethods(stored), cartOptions("17.7"), enr)

	input := model.NewPaymentMeanCollection(
		umbrellaMean(1, model.SourceTypeDefault),
		adyenMean(7, "scheme_visa"),
	)

	result, err := provider.Provide(context.Background(), input, model.CheckoutContext{})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 1}, ids(result))
	assert.Empty(t, result.All()[0].AdyenStoredMethodID())
	assert.Equal(t, "tok-1", result.All()[1].AdyenStoredMethodID())
	require.Len(t, enr.calls, 1)
	assert.Equal(t, model.StoredPaymentUmbrellaName, enr.calls[0].raw.Name)

	storedMean, ok := result.FetchByStoredMethodID("tok-1")
	require.True(t, ok)
	assert.Equal(t, 1, storedMean.ID())
}

func TestProvider_GatewayErrorPropagated(t *testing.T) {
	gatewayErr := errors.New("connection refused")
	methods := &mockPaymentMethodService{
		GetPaymentMethodsFunc: func(ctx context.Context, opts model.PaymentMethodOptions) (model.PaymentMethodCollection, error) {
			return model.PaymentMethodCollection{}, gatewayErr
		},
	}
	provider := NewEnrichedPaymentMeanProvider(methods, cartOptions("10"), &recordingEnricher{})

	_, err := provider.Provide(context.Background(), model.NewPaymentMeanCollection(umbrellaMean(1, model.SourceTypeDefault)), model.CheckoutContext{})

	assert.ErrorIs(t, err, gatewayErr)
}

func TestProvider_PreservesOrder(t *testing.T) {
	ideal := model.PaymentMethodFromRaw(model.AdyenPaymentMethod{Type: "ideal"}).WithCode("ideal")
	paypal := model.PaymentMethodFromRaw(model.AdyenPaymentMethod{Type: "paypal"}).WithCode("paypal")
	provider := NewEnrichedPaymentMeanProvider(returningMethods(paypal, ideal), cartOptions("50"), &recordingEnricher{})

	input := model.NewPaymentMeanCollection(
		nativeMean(1),
		adyenMean(2, "paypal_paypal"),
		adyenMean(3, "klarna_klarna"),
		umbrellaMean(4, model.SourceTypeDefault),
		adyenMean(5, "ideal_ideal"),
		nativeMean(6),
	)

	result, err := provider.Provide(context.Background(), input, model.CheckoutContext{})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 4, 5, 6}, ids(result))
}

func TestProvider_DoesNotMutateInput(t *testing.T) {
	bcmc := model.PaymentMethodFromRaw(model.AdyenPaymentMethod{Type: "bcmc"}).WithCode("adyen_name")
	provider := NewEnrichedPaymentMeanProvider(returningMethods(bcmc), cartOptions("17.7"), &recordingEnricher{})

	original := adyenMean(15, "bcmc_adyen_name")
	input := model.NewPaymentMeanCollection(original, umbrellaMean(25, model.SourceTypeDefault))

	_, err := provider.Provide(context.Background(), input, model.CheckoutContext{})
	require.NoError(t, err)

	assert.Equal(t, original, input.All()[0])
	assert.False(t, input.All()[0].IsEnriched())
}
