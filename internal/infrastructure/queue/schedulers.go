package queue

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"adyen-checkout-backend/internal/config"
	"adyen-checkout-backend/internal/domains/paymentmean/job"
	"adyen-checkout-backend/pkg/logger"
)

// periodicTask is the part of asynq.Scheduler the registrations need
type periodicTask interface {
	Register(cronspec string, task *asynq.Task, opts ...asynq.Option) (string, error)
}

type Scheduler struct {
	scheduler *asynq.Scheduler
	registry  periodicTask
	jobConfig config.JobConfig
}

func NewScheduler(redisOpt asynq.RedisClientOpt, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		registry:  scheduler,
		jobConfig: jobConfig,
	}
}

// RegisterJobs registers all periodic jobs
func (s *Scheduler) RegisterJobs() error {
	return s.registerImportPaymentMethodsJob()
}

// ================================================
// JOB: Import Adyen payment methods (JOB_IMPORT_PAYMENT_METHODS_CRON)
// ================================================
func (s *Scheduler) registerImportPaymentMethodsJob() error {
	cronExpr := s.jobConfig.ImportPaymentMethodsCron
	if cronExpr == "" {
		logger.Warn("ImportPaymentMethods job disabled: JOB_IMPORT_PAYMENT_METHODS_CRON is empty", nil)
		return nil
	}

	task, err := job.NewImportPaymentMethodsTask(job.TriggeredByScheduler)
	if err != nil {
		return err
	}

	entryID, err := s.registry.Register(cronExpr, task)
	if err != nil {
		logger.Error("Failed to register ImportPaymentMethods job", err)
		return fmt.Errorf("register import job %q: %w", cronExpr, err)
	}

	logger.Info("✓ Registered ImportPaymentMethods", map[string]interface{}{
		"cron":     cronExpr,
		"entry_id": entryID,
	})
	return nil
}

// Start begins enqueueing registered jobs in the background
func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
