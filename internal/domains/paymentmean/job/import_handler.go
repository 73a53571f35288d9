package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"adyen-checkout-backend/internal/domains/paymentmean/service"
	"adyen-checkout-backend/internal/shared"
	"adyen-checkout-backend/pkg/logger"
)

const TriggeredByScheduler = "scheduler"

// NewImportPaymentMethodsTask builds the asynq task that imports Adyen payment
// methods as payment means
func NewImportPaymentMethodsTask(triggeredBy string) (*asynq.Task, error) {
	payload, err := json.Marshal(shared.ImportPaymentMethodsPayload{TriggeredBy: triggeredBy})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal import payload: %w", err)
	}

	return asynq.NewTask(
		shared.TypeImportPaymentMethods,
		payload,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
		asynq.Unique(10*time.Minute),
	), nil
}

type ImportPaymentMethodsHandler struct {
	importer service.PaymentMethodImporter
}

func NewImportPaymentMethodsHandler(importer service.PaymentMethodImporter) *ImportPaymentMethodsHandler {
	return &ImportPaymentMethodsHandler{importer: importer}
}

// ProcessTask runs one import. Per-method failures are reported in the log
// and do not fail the task; a failed fetch does, so asynq retries it.
func (h *ImportPaymentMethodsHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ImportPaymentMethodsPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			logger.Error("Unmarshal import payload failed", err)
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
	}

	log.Info().
		Str("triggered_by", payload.TriggeredBy).
		Msg("Starting Adyen payment method import")

	results, err := h.importer.Import(ctx)
	if err != nil {
		logger.Error("Adyen payment method import failed", err)
		return err
	}

	imported, failed := 0, 0
	for _, result := range results {
		if result.IsSuccess() {
			imported++
			continue
		}
		failed++
		log.Warn().
			Str("identifier", result.Identifier).
			Str("error", result.Error).
			Msg("Payment method not imported")
	}

	log.Info().
		Int("imported", imported).
		Int("failed", failed).
		Msg("Adyen payment method import finished")

	return nil
}
