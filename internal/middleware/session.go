package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"budgetbook/internal/config"
	apperrors "budgetbook/internal/errors"
	"budgetbook/internal/services"
)

// Context keys set by SessionAuth for downstream handlers.
const (
	ContextUserIDKey = "userID"
	ContextEmailKey  = "email"
	ContextNameKey   = "name"
)

// SetSessionCookie writes the session cookie on the response: http-only,
// SameSite=Lax, secure outside local development.
func SetSessionCookie(c *gin.Context, token string, maxAgeSeconds int) {
	cfg := config.Get()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(config.SessionCookieName, token, maxAgeSeconds, "/", cfg.CookieDomain, cfg.IsProduction(), true)
}

// ClearSessionCookie instructs the client to drop the session cookie.
func ClearSessionCookie(c *gin.Context) {
	cfg := config.Get()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(config.SessionCookieName, "", -1, "/", cfg.CookieDomain, cfg.IsProduction(), true)
}

// SessionAuth verifies the session cookie against the store and sets the
// resolved user's ID, email, and name in the context. A missing or unknown
// token is rejected with 401; an expired session additionally clears the
// cookie so the client stops presenting it.
func SessionAuth(sessions services.SessionServicer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(config.SessionCookieName)

		user, err := sessions.Authenticate(token)
		if err != nil {
			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) {
				appErr = apperrors.ErrInternalServer
			}
			if appErr.Code == apperrors.ErrSessionExpired.Code {
				ClearSessionCookie(c)
			}
			c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
				"error": gin.H{"code": appErr.Code, "message": appErr.Message},
			})
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextEmailKey, user.Email)
		c.Set(ContextNameKey, user.Name)
		c.Next()
	}
}

// PageGate guards protected page paths with a coarse cookie-presence and
// session-freshness check, redirecting to the login page instead of
// returning JSON. Fine-grained checks still happen per endpoint.
func PageGate(sessions services.SessionServicer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(config.SessionCookieName)
		if err != nil || !sessions.IsFresh(token) {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
