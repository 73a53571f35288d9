package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"adyen-checkout-backend/internal/domains/paymentmean/job"
	"adyen-checkout-backend/internal/domains/paymentmean/model"
	"adyen-checkout-backend/internal/domains/paymentmean/service"
	"adyen-checkout-backend/internal/shared/middleware"
	"adyen-checkout-backend/internal/shared/response"
)

// TaskEnqueuer is satisfied by *asynq.Client
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// PaymentMeanHandler handles HTTP requests for checkout payment means
type PaymentMeanHandler struct {
	checkoutService     service.CheckoutService
	storedMethodService service.StoredMethodService
	importer            service.PaymentMethodImporter
	enqueuer            TaskEnqueuer
}

func NewPaymentMeanHandler(
	checkoutService service.CheckoutService,
	storedMethodService service.StoredMethodService,
	importer service.PaymentMethodImporter,
	enqueuer TaskEnqueuer,
) *PaymentMeanHandler {
	return &PaymentMeanHandler{
		checkoutService:     checkoutService,
		storedMethodService: storedMethodService,
		importer:            importer,
		enqueuer:            enqueuer,
	}
}

// ===================================
// API 1: GET /checkout/payment-means
// ===================================

// GetPaymentMeans handles GET /checkout/payment-means
// @Summary List the payment means available for the current basket
// @Router /checkout/payment-means [get]
func (h *PaymentMeanHandler) GetPaymentMeans(c *gin.Context) {
	checkout, ok := h.checkoutContext(c)
	if !ok {
		return
	}

	paymentMeans, err := h.checkoutService.PaymentMeans(c.Request.Context(), checkout)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Success", model.PaymentMeansResponse{
		PaymentMeans: paymentMeans.ToRawList(),
		Count:        paymentMeans.Count(),
	})
}

// ===================================
// API 2: GET /checkout/shipping-payment
// ===================================

// GetShippingPayment handles GET /checkout/shipping-payment
// @Summary Shipping/payment step view with stored method preselection
// @Router /checkout/shipping-payment [get]
func (h *PaymentMeanHandler) GetShippingPayment(c *gin.Context) {
	checkout, ok := h.checkoutContext(c)
	if !ok {
		return
	}

	view, err := h.checkoutService.ShippingPayment(c.Request.Context(), checkout)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Success", view)
}

// ===================================
// API 3: POST /checkout/stored-method
// ===================================

// SelectStoredMethod handles POST /checkout/stored-method
// @Summary Remember the stored method picked in this session
// @Router /checkout/stored-method [post]
func (h *PaymentMeanHandler) SelectStoredMethod(c *gin.Context) {
	// Step 1: Session
	sessionID := middleware.GetSessionID(c)
	if sessionID == "" {
		response.Error(c, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Missing checkout session")
		return
	}

	// Step 2: Parse + validate
	var req model.SelectStoredMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	// Step 3: Store
	if err := h.checkoutService.SelectStoredMethod(c.Request.Context(), sessionID, req.StoredMethodID); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Stored method selected", gin.H{"storedMethodId": req.StoredMethodID})
}

// ===================================
// API 4: GET /checkout/preference
// ===================================

func (h *PaymentMeanHandler) GetPreference(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	preference, err := h.checkoutService.GetPreference(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Success", preference.ToView())
}

// ===================================
// API 5: PUT /checkout/preference
// ===================================

func (h *PaymentMeanHandler) SavePreference(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req model.SavePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	preference, err := h.checkoutService.SavePreference(c.Request.Context(), userID, req.StoredMethodID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Preference saved", preference.ToView())
}

// ===================================
// API 6: POST /checkout/stored-methods/disable
// ===================================

// DisableStoredMethod handles POST /checkout/stored-methods/disable
// The storefront script expects a bare {error, message} body, not the envelope.
func (h *PaymentMeanHandler) DisableStoredMethod(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req model.DisableTokenRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.DisableTokenResponse{Error: true, Message: "Invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, model.DisableTokenResponse{Error: true, Message: err.Error()})
		return
	}

	err := h.storedMethodService.Disable(c.Request.Context(), userID, middleware.GetSessionID(c), req.RecurringToken)
	if err != nil {
		status, _ := mapPaymentMeanError(err)
		log.Warn().
			Err(err).
			Str("user_id", userID.String()).
			Msg("failed to disable stored payment method")
		c.JSON(status, model.DisableTokenResponse{Error: true, Message: publicMessage(err)})
		return
	}

	c.JSON(http.StatusOK, model.DisableTokenResponse{Error: false, Message: "Stored payment method disabled"})
}

// ===================================
// ADMIN API: POST /admin/payment-methods/import
// ===================================

// ImportPaymentMethods enqueues an import run on the worker
func (h *PaymentMeanHandler) ImportPaymentMethods(c *gin.Context) {
	triggeredBy := "admin"
	if userID := middleware.GetUserID(c); userID != nil {
		triggeredBy = userID.String()
	}

	task, err := job.NewImportPaymentMethodsTask(triggeredBy)
	if err != nil {
		response.InternalServerError(c, "Failed to build import task")
		return
	}

	info, err := h.enqueuer.EnqueueContext(c.Request.Context(), task)
	if err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) {
			response.Error(c, http.StatusConflict, "IMPORT_RUNNING", "An import is already queued")
			return
		}
		log.Error().Err(err).Msg("failed to enqueue payment method import")
		response.InternalServerError(c, "Failed to enqueue import")
		return
	}

	response.Success(c, http.StatusAccepted, "Import queued", gin.H{
		"taskId": info.ID,
		"queue":  info.Queue,
	})
}

// ImportPaymentMethodsSync runs the import inline and reports every method
func (h *PaymentMeanHandler) ImportPaymentMethodsSync(c *gin.Context) {
	results, err := h.importer.Import(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Import finished", model.NewImportResponse(results))
}

// ===================================
// HELPERS
// ===================================

// checkoutContext builds the checkout context from the query, the session and
// the optional authenticated user
func (h *PaymentMeanHandler) checkoutContext(c *gin.Context) (model.CheckoutContext, bool) {
	var query model.CheckoutQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, model.ErrCodeInvalidRequest, "Invalid query parameters")
		return model.CheckoutContext{}, false
	}
	if err := query.Validate(); err != nil {
		response.ValidationError(c, err)
		return model.CheckoutContext{}, false
	}

	return model.CheckoutContext{
		UserID:               middleware.GetUserID(c),
		SessionID:            middleware.GetSessionID(c),
		CountryCode:          query.Country,
		Currency:             query.Currency,
		CartValue:            query.CartValue(),
		PreselectedPaymentID: query.PaymentID,
		IsXHR:                query.IsXHR || isXHR(c),
	}, true
}

func isXHR(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("X-Requested-With"), "XMLHttpRequest")
}

func (h *PaymentMeanHandler) handleError(c *gin.Context, err error) {
	status, code := mapPaymentMeanError(err)
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.ContextKeyRequestID)).
			Str("path", c.Request.URL.Path).
			Msg("payment mean request failed")
	}
	response.Error(c, status, code, publicMessage(err))
}

// mapPaymentMeanError maps domain errors to HTTP status + error code
func mapPaymentMeanError(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrUmbrellaPaymentMeanNotFound):
		return http.StatusInternalServerError, model.ErrCodeUmbrellaNotFound
	case errors.Is(err, model.ErrGatewayUnavailable):
		return http.StatusBadGateway, model.ErrCodeGatewayUnavailable
	case errors.Is(err, model.ErrStoredMethodNotFound):
		return http.StatusNotFound, model.ErrCodeStoredMethodNotFound
	case errors.Is(err, model.ErrPreferenceNotFound):
		return http.StatusNotFound, model.ErrCodePreferenceNotFound
	case errors.Is(err, model.ErrPaymentExists):
		return http.StatusConflict, model.ErrCodePaymentExists
	case errors.Is(err, model.ErrPaymentNotImported):
		return http.StatusUnprocessableEntity, model.ErrCodePaymentNotImported
	default:
		return http.StatusInternalServerError, model.ErrCodeInternalError
	}
}

// publicMessage hides internal error chains; coded errors carry a safe message
func publicMessage(err error) string {
	var pmErr *model.PaymentMeanError
	if errors.As(err, &pmErr) {
		return pmErr.Message
	}
	if errors.Is(err, model.ErrPreferenceNotFound) {
		return "No payment preference saved"
	}
	if errors.Is(err, model.ErrGatewayUnavailable) {
		return "Payment provider unavailable"
	}
	return "Internal server error"
}
