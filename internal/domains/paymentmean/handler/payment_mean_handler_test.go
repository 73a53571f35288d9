package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adyen-checkout-backend/internal/domains/paymentmean/model"
	"adyen-checkout-backend/internal/shared"
	"adyen-checkout-backend/internal/shared/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// =====================================================
// MOCKS
// =====================================================

type mockCheckoutService struct {
	PaymentMeansFunc       func(ctx context.Context, checkout model.CheckoutContext) (model.PaymentMeanCollection, error)
	ShippingPaymentFunc    func(ctx context.Context, checkout model.CheckoutContext) (*model.ShippingPaymentView, error)
	SelectStoredMethodFunc func(ctx context.Context, sessionID, storedMethodID string) error
	GetPreferenceFunc      func(ctx context.Context, userID uuid.UUID) (*model.UserPreference, error)
	SavePreferenceFunc     func(ctx context.Context, userID uuid.UUID, storedMethodID *string) (*model.UserPreference, error)
}

func (m *mockCheckoutService) PaymentMeans(ctx context.Context, checkout model.CheckoutContext) (model.PaymentMeanCollection, error) {
	return m.PaymentMeansFunc(ctx, checkout)
}

func (m *mockCheckoutService) ShippingPayment(ctx context.Context, checkout model.CheckoutContext) (*model.ShippingPaymentView, error) {
	return m.ShippingPaymentFunc(ctx, checkout)
}

func (m *mockCheckoutService) SelectStoredMethod(ctx context.Context, sessionID, storedMethodID string) error {
	return m.SelectStoredMethodFunc(ctx, sessionID, storedMethodID)
}

func (m *mockCheckoutService) GetPreference(ctx context.Context, userID uuid.UUID) (*model.UserPreference, error) {
	return m.GetPreferenceFunc(ctx, userID)
}

func (m *mockCheckoutService) SavePreference(ctx context.Context, userID uuid.UUID, storedMethodID *string) (*model.UserPreference, error) {
	return m.SavePreferenceFunc(ctx, userID, storedMethodID)
}

type mockStoredMethodService struct {
	DisableFunc func(ctx context.Context, userID uuid.UUID, sessionID, storedMethodID string) error
}

func (m *mockStoredMethodService) Disable(ctx context.Context, userID uuid.UUID, sessionID, storedMethodID string) error {
	return m.DisableFunc(ctx, userID, sessionID, storedMethodID)
}

type mockImporter struct {
	ImportFunc func(ctx context.Context) ([]model.ImportResult, error)
}

func (m *mockImporter) Import(ctx context.Context) ([]model.ImportResult, error) {
	return m.ImportFunc(ctx)
}

func (m *mockImporter) ImportMethod(ctx context.Context, paymentMethod model.PaymentMethod) model.ImportResult {
	return model.ImportResult{}
}

type mockEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (m *mockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.tasks = append(m.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Queue: shared.QueueLow, Type: task.Type()}, nil
}

// =====================================================
// HELPERS
// =====================================================

type testDeps struct {
	checkout *mockCheckoutService
	stored   *mockStoredMethodService
	importer *mockImporter
	enqueuer *mockEnqueuer
}

func newTestDeps() *testDeps {
	return &testDeps{
		checkout: &mockCheckoutService{},
		stored:   &mockStoredMethodService{},
		importer: &mockImporter{},
		enqueuer: &mockEnqueuer{},
	}
}

// newTestRouter injects the identity the real middleware would set
func newTestRouter(deps *testDeps, userID *uuid.UUID, sessionID string) *gin.Engine {
	h := NewPaymentMeanHandler(deps.checkout, deps.stored, deps.importer, deps.enqueuer)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID != nil {
			c.Set(middleware.ContextKeyUserID, *userID)
		}
		if sessionID != "" {
			c.Set(middleware.ContextKeySessionID, sessionID)
		}
		c.Next()
	})

	router.GET("/payment-means", h.GetPaymentMeans)
	router.GET("/shipping-payment", h.GetShippingPayment)
	router.POST("/stored-method", h.SelectStoredMethod)
	router.GET("/preference", h.GetPreference)
	router.PUT("/preference", h.SavePreference)
	router.POST("/stored-methods/disable", h.DisableStoredMethod)
	router.POST("/import", h.ImportPaymentMethods)
	router.POST("/import/sync", h.ImportPaymentMethodsSync)
	return router
}

func perform(router *gin.Engine, method, target string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

// =====================================================
// CHECKOUT ENDPOINTS
// =====================================================

func TestGetPaymentMeans(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		query          string
		serviceErr     error
		expectedStatus int
		expectedCode   string
	}{
		{name: "success", query: "?country=BE&currency=EUR&value=17.70&payment_id=3", expectedStatus: http.StatusOK},
		{name: "empty query", expectedStatus: http.StatusOK},
		{name: "invalid country", query: "?country=belgium", expectedStatus: http.StatusBadRequest, expectedCode: "VALIDATION_ERROR"},
		{name: "negative value", query: "?value=-1", expectedStatus: http.StatusBadRequest, expectedCode: "VALIDATION_ERROR"},
		{name: "non numeric payment id", query: "?payment_id=abc", expectedStatus: http.StatusBadRequest, expectedCode: model.ErrCodeInvalidRequest},
		{
			name:           "missing umbrella",
			query:          "?value=10",
			serviceErr:     fmt.Errorf("wrap: %w", model.NewUmbrellaPaymentMeanNotFoundError()),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   model.ErrCodeUmbrellaNotFound,
		},
		{
			name:           "gateway down",
			query:          "?value=10",
			serviceErr:     fmt.Errorf("failed to fetch payment methods: %w", model.ErrGatewayUnavailable),
			expectedStatus: http.StatusBadGateway,
			expectedCode:   model.ErrCodeGatewayUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestDeps()
			var captured model.CheckoutContext
			deps.checkout.PaymentMeansFunc = func(ctx context.Context, checkout model.CheckoutContext) (model.PaymentMeanCollection, error) {
				captured = checkout
				if tt.serviceErr != nil {
					return model.PaymentMeanCollection{}, tt.serviceErr
				}
				return model.PaymentMeanCollectionFromRows([]model.RawPaymentMean{
					{ID: 1, Name: "prepayment", Source: model.SourceTypeDefault},
				}), nil
			}

			w := perform(newTestRouter(deps, &userID, "s1"), http.MethodGet, "/payment-means"+tt.query, nil, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			env := decodeEnvelope(t, w)
			if tt.expectedCode != "" {
				require.NotNil(t, env.Error)
				assert.Equal(t, tt.expectedCode, env.Error.Code)
				return
			}

			var data model.PaymentMeansResponse
			require.NoError(t, json.Unmarshal(env.Data, &data))
			assert.Equal(t, 1, data.Count)
			assert.Equal(t, "s1", captured.SessionID)
			require.NotNil(t, captured.UserID)
			assert.Equal(t, userID, *captured.UserID)
		})
	}
}

func TestGetPaymentMeans_MapsQueryToCheckoutContext(t *testing.T) {
	deps := newTestDeps()
	var captured model.CheckoutContext
	deps.checkout.PaymentMeansFunc = func(ctx context.Context, checkout model.CheckoutContext) (model.PaymentMeanCollection, error) {
		captured = checkout
		return model.PaymentMeanCollection{}, nil
	}

	w := perform(newTestRouter(deps, nil, "s1"), http.MethodGet, "/payment-means?country=BE&currency=EUR&value=17.70&payment_id=3", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Nil(t, captured.UserID)
	assert.Equal(t, "BE", captured.CountryCode)
	assert.Equal(t, "EUR", captured.Currency)
	assert.True(t, decimal.RequireFromString("17.7").Equal(captured.CartValue))
	assert.Equal(t, 3, captured.PreselectedPaymentID)
	assert.False(t, captured.IsXHR)
}

func TestGetShippingPayment_XHRHeader(t *testing.T) {
	deps := newTestDeps()
	var captured model.CheckoutContext
	deps.checkout.ShippingPaymentFunc = func(ctx context.Context, checkout model.CheckoutContext) (*model.ShippingPaymentView, error) {
		captured = checkout
		return &model.ShippingPaymentView{FormPayment: "40_stored-1"}, nil
	}

	w := perform(newTestRouter(deps, nil, "s1"), http.MethodGet, "/shipping-payment?value=5", nil, map[string]string{
		"X-Requested-With": "XMLHttpRequest",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, captured.IsXHR)

	var view model.ShippingPaymentView
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &view))
	assert.Equal(t, "40_stored-1", view.FormPayment)
}

func TestSelectStoredMethod(t *testing.T) {
	tests := []struct {
		name           string
		sessionID      string
		body           interface{}
		expectedStatus int
		expectStored   bool
	}{
		{name: "success", sessionID: "s1", body: gin.H{"storedMethodId": "stored-1"}, expectedStatus: http.StatusOK, expectStored: true},
		{name: "missing session", body: gin.H{"storedMethodId": "stored-1"}, expectedStatus: http.StatusBadRequest},
		{name: "empty stored method", sessionID: "s1", body: gin.H{"storedMethodId": ""}, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestDeps()
			stored := map[string]string{}
			deps.checkout.SelectStoredMethodFunc = func(ctx context.Context, sessionID, storedMethodID string) error {
				stored[sessionID] = storedMethodID
				return nil
			}

			w := perform(newTestRouter(deps, nil, tt.sessionID), http.MethodPost, "/stored-method", tt.body, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectStored {
				assert.Equal(t, "stored-1", stored["s1"])
			} else {
				assert.Empty(t, stored)
			}
		})
	}
}

func TestPreferenceEndpoints(t *testing.T) {
	userID := uuid.New()

	t.Run("anonymous rejected", func(t *testing.T) {
		w := perform(newTestRouter(newTestDeps(), nil, "s1"), http.MethodGet, "/preference", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		deps := newTestDeps()
		deps.checkout.GetPreferenceFunc = func(ctx context.Context, id uuid.UUID) (*model.UserPreference, error) {
			return nil, model.ErrPreferenceNotFound
		}

		w := perform(newTestRouter(deps, &userID, "s1"), http.MethodGet, "/preference", nil, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, model.ErrCodePreferenceNotFound, decodeEnvelope(t, w).Error.Code)
	})

	t.Run("save", func(t *testing.T) {
		deps := newTestDeps()
		var saved *string
		deps.checkout.SavePreferenceFunc = func(ctx context.Context, id uuid.UUID, storedMethodID *string) (*model.UserPreference, error) {
			saved = storedMethodID
			return &model.UserPreference{UserID: id, StoredMethodID: storedMethodID}, nil
		}

		w := perform(newTestRouter(deps, &userID, "s1"), http.MethodPut, "/preference", gin.H{"storedMethodId": "stored-1"}, nil)

		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, saved)
		assert.Equal(t, "stored-1", *saved)

		var view model.UserPreferenceView
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &view))
		assert.Equal(t, userID.String(), view.UserID)
		assert.Equal(t, "stored-1", view.StoredMethodID)
	})

	t.Run("save rejects empty string", func(t *testing.T) {
		w := perform(newTestRouter(newTestDeps(), &userID, "s1"), http.MethodPut, "/preference", gin.H{"storedMethodId": ""}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDisableStoredMethod(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		userID         *uuid.UUID
		body           interface{}
		serviceErr     error
		expectedStatus int
		expectError    bool
	}{
		{name: "success", userID: &userID, body: gin.H{"recurringToken": "stored-1"}, expectedStatus: http.StatusOK},
		{name: "anonymous", body: gin.H{"recurringToken": "stored-1"}, expectedStatus: http.StatusUnauthorized, expectError: true},
		{name: "missing token", userID: &userID, body: gin.H{}, expectedStatus: http.StatusBadRequest, expectError: true},
		{
			name:           "unknown token",
			userID:         &userID,
			body:           gin.H{"recurringToken": "nope"},
			serviceErr:     model.NewStoredMethodNotFoundError("nope"),
			expectedStatus: http.StatusNotFound,
			expectError:    true,
		},
		{
			name:           "adyen down",
			userID:         &userID,
			body:           gin.H{"recurringToken": "stored-1"},
			serviceErr:     fmt.Errorf("%w: %w", model.ErrGatewayUnavailable, errors.New("timeout")),
			expectedStatus: http.StatusBadGateway,
			expectError:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestDeps()
			deps.stored.DisableFunc = func(ctx context.Context, id uuid.UUID, sessionID, storedMethodID string) error {
				assert.Equal(t, "s1", sessionID)
				return tt.serviceErr
			}

			w := perform(newTestRouter(deps, tt.userID, "s1"), http.MethodPost, "/stored-methods/disable", tt.body, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.userID == nil {
				return
			}

			var resp model.DisableTokenResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectError, resp.Error)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

// =====================================================
// ADMIN ENDPOINTS
// =====================================================

func TestImportPaymentMethods_Enqueue(t *testing.T) {
	adminID := uuid.New()

	t.Run("queued", func(t *testing.T) {
		deps := newTestDeps()

		w := perform(newTestRouter(deps, &adminID, ""), http.MethodPost, "/import", nil, nil)

		assert.Equal(t, http.StatusAccepted, w.Code)
		require.Len(t, deps.enqueuer.tasks, 1)
		assert.Equal(t, shared.TypeImportPaymentMethods, deps.enqueuer.tasks[0].Type())

		var payload shared.ImportPaymentMethodsPayload
		require.NoError(t, json.Unmarshal(deps.enqueuer.tasks[0].Payload(), &payload))
		assert.Equal(t, adminID.String(), payload.TriggeredBy)
	})

	t.Run("duplicate", func(t *testing.T) {
		deps := newTestDeps()
		deps.enqueuer.err = asynq.ErrDuplicateTask

		w := perform(newTestRouter(deps, &adminID, ""), http.MethodPost, "/import", nil, nil)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestImportPaymentMethods_Sync(t *testing.T) {
	deps := newTestDeps()
	deps.importer.ImportFunc = func(ctx context.Context) ([]model.ImportResult, error) {
		return []model.ImportResult{
			model.ImportSuccess("ideal", 7, model.ImportStatusCreated),
			model.ImportFailure("paypal", model.NewPaymentExistsError("adyen_paypal")),
		}, nil
	}

	w := perform(newTestRouter(deps, nil, ""), http.MethodPost, "/import/sync", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp model.ImportResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &resp))
	assert.Equal(t, 1, resp.Imported)
	assert.Equal(t, 1, resp.Failed)
	assert.Len(t, resp.Results, 2)
}

func TestMapPaymentMeanError(t *testing.T) {
	tests := []struct {
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{model.NewUmbrellaPaymentMeanNotFoundError(), http.StatusInternalServerError, model.ErrCodeUmbrellaNotFound},
		{model.ErrGatewayUnavailable, http.StatusBadGateway, model.ErrCodeGatewayUnavailable},
		{model.NewPaymentExistsError("x"), http.StatusConflict, model.ErrCodePaymentExists},
		{model.NewPaymentNotImportedError("x"), http.StatusUnprocessableEntity, model.ErrCodePaymentNotImported},
		{errors.New("boom"), http.StatusInternalServerError, model.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.expectedCode, func(t *testing.T) {
			status, code := mapPaymentMeanError(tt.err)
			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, tt.expectedCode, code)
		})
	}
}
