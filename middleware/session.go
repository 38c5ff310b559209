package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"storefront/logging"
	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionKey = "session"

// Headers carrying a replacement token when the presented one nears expiry.
const (
	RenewedTokenHeader  = "X-Session-Token"
	RenewedExpiryHeader = "X-Session-Expires-At"
)

// SessionMiddleware resolves the bearer session token to a live session.
func SessionMiddleware(sessions *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "Authorization header required",
			})
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "Invalid authorization header format",
			})
			return
		}

		sess, claims, err := sessions.Resolve(tokenParts[1])
		if err != nil {
			message := "Invalid or expired session token"
			if errors.Is(err, services.ErrSessionNotFound) {
				message = "Session not found or already ended"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: message,
				Error:   err.Error(),
			})
			return
		}

		c.Set(sessionKey, sess)
		l := logging.From(c).With(zap.String("session_id", sess.ID))
		logging.With(c, l)
		c.Request = c.Request.WithContext(logging.WithCtx(c.Request.Context(), l))

		if sessions.RenewalDue(claims) {
			token, expiresAt, err := sessions.RenewToken(sess)
			if err != nil {
				l.Warn("session token renewal failed", zap.Error(err))
			} else {
				c.Header(RenewedTokenHeader, token)
				c.Header(RenewedExpiryHeader, strconv.FormatInt(expiresAt.Unix(), 10))
			}
		}
		c.Next()
	}
}

func CurrentSession(c *gin.Context) *services.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(*services.Session); ok {
			return sess
		}
	}
	return nil
}
