package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medride/internal/domain"
	"medride/internal/redis"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "medride_session"

// Context keys set by AuthMiddleware.
const (
	ContextUserID       = "userID"
	ContextUserRole     = "userRole"
	ContextSessionToken = "sessionToken"
)

// sessionExpiredBody is what every authentication failure returns. The
// code field tells clients to drop local state and re-login instead of
// retrying.
var sessionExpiredBody = gin.H{
	"error": "session expired",
	"code":  "SESSION_EXPIRED",
}

// AuthMiddleware resolves the session cookie to a user and aborts with
// 401 when there is none.
func AuthMiddleware(sessions redis.SessionStoreInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, sessionExpiredBody)
			return
		}

		session, err := sessions.Get(c.Request.Context(), token)
		if err != nil || session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, sessionExpiredBody)
			return
		}

		c.Set(ContextUserID, session.UserID)
		c.Set(ContextUserRole, session.Role)
		c.Set(ContextSessionToken, token)

		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated user holds one of
// the given roles.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := domain.Role(c.GetString(ContextUserRole))
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}
