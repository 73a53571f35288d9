package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ===================================
// CONSTANTS
// ===================================

const (
	SessionCookieName   = "session_id"
	SessionMaxAge       = 30 * 24 * 60 * 60 // 30 days
	ContextKeySessionID = "session_id"
)

type SessionConfig struct {
	CookieDomain string
	CookiePath   string
	CookieSecure bool
}

// SessionMiddleware guarantees every shopper a checkout session id
//
// Flow:
// 1. Reuse a well-formed session cookie
// 2. Otherwise issue a fresh one
// 3. Expose the id to handlers
func SessionMiddleware(config SessionConfig) gin.HandlerFunc {
	if config.CookiePath == "" {
		config.CookiePath = "/"
	}

	return func(c *gin.Context) {
		sessionID := getSessionID(c)
		if sessionID == "" {
			sessionID = uuid.NewString()
			setSessionCookie(c, sessionID, config)
		}

		c.Set(ContextKeySessionID, sessionID)
		c.Next()
	}
}

// getSessionID retrieves session ID from cookie
func getSessionID(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || sessionID == "" {
		return ""
	}

	// Unknown formats get a new session
	if _, err := uuid.Parse(sessionID); err != nil {
		return ""
	}

	return sessionID
}

func setSessionCookie(c *gin.Context, sessionID string, config SessionConfig) {
	c.SetCookie(
		SessionCookieName,
		sessionID,
		SessionMaxAge,
		config.CookiePath,
		config.CookieDomain,
		config.CookieSecure,
		true, // httpOnly
	)
}

// GetSessionID retrieves session ID from context
func GetSessionID(c *gin.Context) string {
	return c.GetString(ContextKeySessionID)
}
