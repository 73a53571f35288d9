package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/hibiken/asynq"

	"adyen-checkout-backend/internal/infrastructure/queue"
	"adyen-checkout-backend/internal/shared"
	"adyen-checkout-backend/pkg/container"
)

const startupCheckTimeout = 10 * time.Second

// worker runs the asynq server, the cron scheduler and the health endpoint
// as one unit
type worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *queue.Scheduler
	inspector *asynq.Inspector
	health    *healthServer
	http      *http.Server
}

func newWorker(c *container.Container, cfg *Config) *worker {
	mux := asynq.NewServeMux()
	mux.Handle(shared.TypeImportPaymentMethods, c.ImportJobHandler)

	server := asynq.NewServer(cfg.RedisOpt, asynq.Config{
		Queues: map[string]int{
			shared.QueueCritical: 6,
			shared.QueueDefault:  3,
			shared.QueueLow:      1,
		},
		Concurrency:  cfg.Concurrency,
		ErrorHandler: asynq.ErrorHandlerFunc(logTaskFailure),
	})

	inspector := asynq.NewInspector(cfg.RedisOpt)

	health := &healthServer{
		checks: []healthCheck{
			{name: "Redis Connection", fn: c.Cache.Ping},
			{name: "PostgreSQL Connection", fn: c.DB.Ping},
		},
		inspector: inspector,
	}

	return &worker{
		server:    server,
		mux:       mux,
		scheduler: queue.NewScheduler(cfg.RedisOpt, cfg.Jobs),
		inspector: inspector,
		health:    health,
		http: &http.Server{
			Addr:              cfg.HealthAddr,
			Handler:           health.router(),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Run blocks until ctx is cancelled, then drains in-flight tasks
func (w *worker) Run(ctx context.Context) error {
	log.Println("============================================")
	log.Println("🚀 Checkout Worker Starting...")
	log.Println("============================================")

	checkCtx, cancel := context.WithTimeout(ctx, startupCheckTimeout)
	err := w.health.runChecks(checkCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("startup health check failed: %w", err)
	}

	if err := w.scheduler.RegisterJobs(); err != nil {
		return fmt.Errorf("failed to register scheduled jobs: %w", err)
	}

	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("failed to start asynq server: %w", err)
	}
	log.Println("[Worker] ✓ Processing queues")

	if err := w.scheduler.Start(); err != nil {
		w.server.Shutdown()
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	log.Println("[Scheduler] ✓ Started")

	go func() {
		log.Printf("[Health] Listening on %s", w.http.Addr)
		if err := w.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[Health] ❌ Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	w.shutdown()
	return nil
}

// shutdown stops enqueueing before draining the server so no new import is
// scheduled while the last one finishes
func (w *worker) shutdown() {
	log.Println("[Shutdown] Gracefully stopping...")

	w.scheduler.Shutdown()
	log.Println("[Scheduler] ✓ Stopped")

	w.server.Shutdown()
	log.Println("[Worker] ✓ Stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := w.http.Shutdown(ctx); err != nil {
		log.Printf("[Health] ⚠️  Shutdown: %v", err)
	}

	if err := w.inspector.Close(); err != nil {
		log.Printf("[Inspector] ⚠️  Close: %v", err)
	}

	log.Println("[Shutdown] ✓ Stopped")
}

func logTaskFailure(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	log.Printf("[Asynq] ❌ Task failed - Type: %s, Retry: %d/%d, Error: %v",
		task.Type(), retried, maxRetry, err)
}
