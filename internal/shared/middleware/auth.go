package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"adyen-checkout-backend/internal/shared/response"
	"adyen-checkout-backend/pkg/jwt"
)

const (
	ContextKeyUserID          = "user_id"
	ContextKeyRole            = "role"
	ContextKeyIsAuthenticated = "is_authenticated"
)

// AuthMiddleware rejects requests without a valid access token
func AuthMiddleware(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Extract token
		token, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, "missing or malformed authorization header")
			c.Abort()
			return
		}

		// 2. Validate and load claims
		if err := authenticate(c, jwtManager, token); err != nil {
			log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("access token rejected")
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		c.Next()
	}
}

// OptionalAuthMiddleware allows both authenticated and anonymous shoppers
// - valid JWT -> user_id and role set in context
// - missing or invalid JWT -> continues as anonymous
func OptionalAuthMiddleware(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyIsAuthenticated, false)

		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		if err := authenticate(c, jwtManager, token); err != nil {
			log.Debug().Err(err).Msg("optional auth: continuing as anonymous")
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func authenticate(c *gin.Context, jwtManager *jwt.Manager, token string) error {
	claims, err := jwtManager.ValidateAccessToken(token)
	if err != nil {
		return err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return err
	}

	c.Set(ContextKeyUserID, userID)
	c.Set(ContextKeyRole, claims.Role)
	c.Set(ContextKeyIsAuthenticated, true)
	return nil
}

// GetUserID returns the authenticated user, nil for anonymous shoppers
func GetUserID(c *gin.Context) *uuid.UUID {
	value, exists := c.Get(ContextKeyUserID)
	if !exists {
		return nil
	}

	userID, ok := value.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return nil
	}
	return &userID
}

// RequireUserID is GetUserID for routes behind AuthMiddleware
func RequireUserID(c *gin.Context) (uuid.UUID, bool) {
	userID := GetUserID(c)
	if userID == nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return uuid.Nil, false
	}
	return *userID, true
}
