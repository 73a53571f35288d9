package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"adyen-checkout-backend/internal/shared"
)

type healthCheck struct {
	name string
	fn   func(ctx context.Context) error
}

// queueInspector is the part of asynq.Inspector readiness uses
type queueInspector interface {
	GetQueueInfo(queue string) (*asynq.QueueInfo, error)
}

type healthServer struct {
	checks    []healthCheck
	inspector queueInspector
}

// importQueueStats is the readiness view of the queue carrying imports
type importQueueStats struct {
	Queue     string `json:"queue"`
	Pending   int    `json:"pending"`
	Active    int    `json:"active"`
	Scheduled int    `json:"scheduled"`
	Retry     int    `json:"retry"`
	Archived  int    `json:"archived"`
	Paused    bool   `json:"paused"`
}

func (h *healthServer) runChecks(ctx context.Context) error {
	for _, check := range h.checks {
		log.Printf("⏳ Checking %s...", check.name)
		if err := check.fn(ctx); err != nil {
			log.Printf("❌ %s: %v", check.name, err)
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Printf("✓ %s: OK", check.name)
	}
	return nil
}

// importQueue reports the low queue. A queue that never received a task does
// not exist in Redis yet and counts as empty.
func (h *healthServer) importQueue() (importQueueStats, error) {
	stats := importQueueStats{Queue: shared.QueueLow}

	info, err := h.inspector.GetQueueInfo(shared.QueueLow)
	if errors.Is(err, asynq.ErrQueueNotFound) {
		return stats, nil
	}
	if err != nil {
		return stats, fmt.Errorf("inspect queue %s: %w", shared.QueueLow, err)
	}

	stats.Pending = info.Pending
	stats.Active = info.Active
	stats.Scheduled = info.Scheduled
	stats.Retry = info.Retry
	stats.Archived = info.Archived
	stats.Paused = info.Paused
	return stats, nil
}

func (h *healthServer) router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "service": "checkout-worker"})
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if err := h.runChecks(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "NOT_READY", "error": err.Error()})
			return
		}

		stats, err := h.importQueue()
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "NOT_READY", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "READY", "import_queue": stats})
	})

	return router
}
