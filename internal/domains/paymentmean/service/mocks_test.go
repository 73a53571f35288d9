package service

import (
	"context"

	"github.com/google/uuid"

	"adyen-checkout-backend/internal/domains/paymentmean/model"
	"adyen-checkout-backend/internal/domains/paymentmean/repository"
)

// =====================================================
// PAYMENT MEAN REPOSITORY MOCK
// =====================================================

type mockPaymentMeanRepo struct {
	ListActiveFunc      func(ctx context.Context) ([]model.RawPaymentMean, error)
	FindByCodeFunc      func(ctx context.Context, code string) (*model.RawPaymentMean, error)
	ExistsByNameFunc    func(ctx context.Context, name string) (bool, error)
	ExistsDuplicateFunc func(ctx context.Context, paymentMean *model.RawPaymentMean) (bool, error)
	CreateFunc          func(ctx context.Context, paymentMean *model.RawPaymentMean) error
	UpdateFunc          func(ctx context.Context, paymentMean *model.RawPaymentMean) error

	attributes map[int]string
	created    []model.RawPaymentMean
	updated    []model.RawPaymentMean
}

func newMockPaymentMeanRepo() *mockPaymentMeanRepo {
	return &mockPaymentMeanRepo{attributes: make(map[int]string)}
}

var _ repository.PaymentMeanRepository = (*mockPaymentMeanRepo)(nil)

func (m *mockPaymentMeanRepo) ListActive(ctx context.Context) ([]model.RawPaymentMean, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return nil, nil
}

func (m *mockPaymentMeanRepo) FindByCode(ctx context.Context, code string) (*model.RawPaymentMean, error) {
	if m.FindByCodeFunc != nil {
		return m.FindByCodeFunc(ctx, code)
	}
	return nil, nil
}

func (m *mockPaymentMeanRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	if m.ExistsByNameFunc != nil {
		return m.ExistsByNameFunc(ctx, name)
	}
	return false, nil
}

func (m *mockPaymentMeanRepo) ExistsDuplicate(ctx context.Context, paymentMean *model.RawPaymentMean) (bool, error) {
	if m.ExistsDuplicateFunc != nil {
		return m.ExistsDuplicateFunc(ctx, paymentMean)
	}
	return false, nil
}

func (m *mockPaymentMeanRepo) Create(ctx context.Context, paymentMean *model.RawPaymentMean) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, paymentMean); err != nil {
			return err
		}
	}
	m.created = append(m.created, *paymentMean)
	return nil
}

func (m *mockPaymentMeanRepo) Update(ctx context.Context, paymentMean *model.RawPaymentMean) error {
	if m.UpdateFunc != nil {
		if err := m.UpdateFunc(ctx, paymentMean); err != nil {
			return err
		}
	}
	m.updated = append(m.updated, *paymentMean)
	return nil
}

func (m *mockPaymentMeanRepo) WriteAttribute(ctx context.Context, paymentMeanID int, adyenType string) error {
	m.attributes[paymentMeanID] = adyenType
	return nil
}

func (m *mockPaymentMeanRepo) WithTransaction(ctx context.Context, fn func(repo repository.PaymentMeanRepository) error) error {
	return fn(m)
}

// =====================================================
// USER PREFERENCE REPOSITORY MOCK
// =====================================================

type mockPreferenceRepo struct {
	preferences map[uuid.UUID]*model.UserPreference
	err         error
}

func newMockPreferenceRepo() *mockPreferenceRepo {
	return &mockPreferenceRepo{preferences: make(map[uuid.UUID]*model.UserPreference)}
}

func (m *mockPreferenceRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.UserPreference, error) {
	if m.err != nil {
		return nil, m.err
	}
	preference, ok := m.preferences[userID]
	if !ok {
		return nil, model.ErrPreferenceNotFound
	}
	return preference, nil
}

func (m *mockPreferenceRepo) Upsert(ctx context.Context, preference *model.UserPreference) error {
	if m.err != nil {
		return m.err
	}
	if preference.ID == uuid.Nil {
		preference.ID = uuid.New()
	}
	m.preferences[preference.UserID] = preference
	return nil
}

func (m *mockPreferenceRepo) ClearStoredMethod(ctx context.Context, userID uuid.UUID, storedMethodID string) error {
	if preference, ok := m.preferences[userID]; ok && preference.PointsTo(storedMethodID) {
		preference.StoredMethodID = nil
	}
	return nil
}

// =====================================================
// SESSION STORE MOCK
// =====================================================

type mockSessionStore struct {
	values map[string]string
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{values: make(map[string]string)}
}

func (m *mockSessionStore) GetStoredMethodID(ctx context.Context, sessionID string) (string, error) {
	return m.values[sessionID], nil
}

func (m *mockSessionStore) SetStoredMethodID(ctx context.Context, sessionID, storedMethodID string) error {
	m.values[sessionID] = storedMethodID
	return nil
}

func (m *mockSessionStore) ClearStoredMethodID(ctx context.Context, sessionID string) error {
	delete(m.values, sessionID)
	return nil
}

// =====================================================
// PROVIDER MOCK
// =====================================================

type stubProvider struct {
	paymentMeans model.PaymentMeanCollection
	err          error
}

func (s stubProvider) Provide(ctx context.Context, paymentMeans model.PaymentMeanCollection, checkout model.CheckoutContext) (model.PaymentMeanCollection, error) {
	if s.err != nil {
		return model.PaymentMeanCollection{}, s.err
	}
	return s.paymentMeans, nil
}

func strPtr(value string) *string {
	return &value
}
