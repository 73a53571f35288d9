package mock

import (
	"context"
	"fmt"
	"sync"

	"adyen-checkout-backend/internal/domains/paymentmean/gateway"
	"adyen-checkout-backend/internal/domains/paymentmean/model"
)

// =====================================================
// MOCK ADYEN GATEWAY
// =====================================================

// MockAdyenGateway serves a fixed method list. Used by tests and by local
// runs without Adyen credentials.
type MockAdyenGateway struct {
	mu                  sync.Mutex
	methods             []model.AdyenPaymentMethod
	stored              map[string][]model.AdyenPaymentMethod
	shouldFail          bool
	GetPaymentCalls     int
	DisabledStoredCalls []string
}

func NewMockAdyenGateway() *MockAdyenGateway {
	return &MockAdyenGateway{
		methods: DefaultPaymentMethods(),
		stored:  make(map[string][]model.AdyenPaymentMethod),
	}
}

var _ gateway.AdyenGateway = (*MockAdyenGateway)(nil)

// DefaultPaymentMethods is the method list served when none is configured
func DefaultPaymentMethods() []model.AdyenPaymentMethod {
	return []model.AdyenPaymentMethod{
		{Type: "scheme", Name: "Credit Card", Brands: []string{"visa", "mc", "amex"}},
		{Type: "ideal", Name: "iDEAL"},
		{Type: "bcmc", Name: "Bancontact card"},
		{Type: "paypal", Name: "PayPal"},
	}
}

func (m *MockAdyenGateway) SetPaymentMethods(methods ...model.AdyenPaymentMethod) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.methods = methods
}

// AddStoredPaymentMethod registers a stored method for a shopper
func (m *MockAdyenGateway) AddStoredPaymentMethod(shopperReference string, method model.AdyenPaymentMethod) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored[shopperReference] = append(m.stored[shopperReference], method)
}

func (m *MockAdyenGateway) SetFail(shouldFail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = shouldFail
}

func (m *MockAdyenGateway) GetPaymentMethods(
	ctx context.Context,
	opts model.PaymentMethodOptions,
) (model.PaymentMethodCollection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetPaymentCalls++
	if m.shouldFail {
		return model.PaymentMethodCollection{}, fmt.Errorf("%w: mock failure", model.ErrGatewayUnavailable)
	}

	var stored []model.AdyenPaymentMethod
	if opts.ShopperReference != "" {
		stored = m.stored[opts.ShopperReference]
	}
	return model.PaymentMethodCollectionFromRaw(m.methods, stored), nil
}

func (m *MockAdyenGateway) DisableStoredPaymentMethod(
	ctx context.Context,
	storedMethodID, shopperReference string,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shouldFail {
		return fmt.Errorf("%w: mock disable failed", model.ErrGatewayUnavailable)
	}

	methods := m.stored[shopperReference]
	for i, method := range methods {
		if method.ID == storedMethodID {
			m.stored[shopperReference] = append(methods[:i:i], methods[i+1:]...)
			m.DisabledStoredCalls = append(m.DisabledStoredCalls, storedMethodID)
			return nil
		}
	}
	return model.NewStoredMethodNotFoundError(storedMethodID)
}
