package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"adyen-checkout-backend/internal/shared/middleware"
	"adyen-checkout-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger("/api/v1/health"),
		middleware.CORS(c.Config.Checkout.AllowedOrigins),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupCheckoutRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// CHECKOUT ROUTES
// ========================================
func setupCheckoutRoutes(v1 *gin.RouterGroup, c *container.Container) {
	h := c.PaymentMeanHandler

	checkout := v1.Group("/checkout")
	checkout.Use(
		middleware.SessionMiddleware(middleware.SessionConfig{
			CookieDomain: c.Config.Checkout.CookieDomain,
			CookieSecure: c.Config.Checkout.CookieSecure,
		}),
		middleware.OptionalAuthMiddleware(c.JWTManager),
	)
	{
		// Public (anonymous or logged-in shoppers)
		checkout.GET("/payment-means", h.GetPaymentMeans)
		checkout.GET("/shipping-payment", h.GetShippingPayment)
		checkout.POST("/stored-method", h.SelectStoredMethod)

		// Stored methods and preferences belong to a shopper account
		authed := checkout.Group("")
		authed.Use(middleware.AuthMiddleware(c.JWTManager))
		{
			authed.GET("/preference", h.GetPreference)
			authed.PUT("/preference", h.SavePreference)
			authed.POST("/stored-methods/disable", h.DisableStoredMethod)
		}
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	h := c.PaymentMeanHandler

	admin := v1.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(c.JWTManager),
		middleware.AdminMiddleware(),
	)
	{
		admin.POST("/payment-methods/import", h.ImportPaymentMethods)
		admin.POST("/payment-methods/import/sync", h.ImportPaymentMethodsSync)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		// Check database
		dbStatus := "ok"
		if err := appCtx.DB.Ping(ctx); err != nil {
			dbStatus = fmt.Sprintf("error: %v", err)
			health["status"] = "degraded"
		} else if stats, err := appCtx.DB.Stats(); err == nil {
			health["database_pool"] = stats
		}

		// Check cache (sessions depend on it)
		cacheStatus := "ok"
		if err := appCtx.Cache.Ping(ctx); err != nil {
			cacheStatus = fmt.Sprintf("error: %v", err)
			health["status"] = "degraded"
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"cache":    cacheStatus,
			"adyen":    adyenMode(appCtx),
		}

		statusCode := http.StatusOK
		if health["status"] != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}

func adyenMode(appCtx *container.Container) string {
	if appCtx.Config.Adyen.UseMock() {
		return "mock"
	}
	return appCtx.Config.Adyen.Environment
}
