// cmd/checkoutctl/main.go
package main

import (
	"os"

	"github.com/joho/godotenv"

	"adyen-checkout-backend/pkg/logger"
)

func main() {
	// Missing .env is fine: operators usually export the environment
	_ = godotenv.Load()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	logger.Init(env)

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
