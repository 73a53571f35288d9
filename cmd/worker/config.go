package main

import (
	"log"

	"github.com/hibiken/asynq"

	"adyen-checkout-backend/internal/config"
)

// Config holds the worker-specific view of the application configuration
type Config struct {
	RedisOpt    asynq.RedisClientOpt
	Concurrency int
	Jobs        config.JobConfig
	HealthAddr  string
}

// loadConfig derives the worker configuration from the shared config
func loadConfig(appCfg *config.Config, redisOpt asynq.RedisClientOpt) *Config {
	cfg := &Config{
		RedisOpt:    redisOpt,
		Concurrency: max(appCfg.Jobs.Concurrency, 1),
		Jobs:        appCfg.Jobs,
		HealthAddr:  ":" + getEnv("WORKER_HEALTH_PORT", "9999"),
	}

	log.Printf("[Config] Redis: %s, Concurrency: %d, Import cron: %q",
		cfg.RedisOpt.Addr, cfg.Concurrency, cfg.Jobs.ImportPaymentMethodsCron)

	return cfg
}
