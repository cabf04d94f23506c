package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"domly/pkg/response"
	"domly/pkg/sessions"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
	ctxToken  = "session_token"

	RoleAdmin = "admin"
)

// BearerToken extracts the session token from the Authorization header, falling back to the
// token query parameter (browsers cannot set headers on websocket upgrades).
func BearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return strings.TrimSpace(h[len("bearer "):])
	}
	return c.Query("token")
}

// RequireAuth resolves the session and stores user id and role in the gin context.
func RequireAuth(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			response.Fail(c, http.StatusUnauthorized, "authentication required")
			return
		}
		sess, err := store.Get(c.Request.Context(), token)
		if err != nil {
			if err == sessions.ErrSessionNotFound {
				response.Fail(c, http.StatusUnauthorized, "invalid or expired session")
				return
			}
			response.Fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		c.Set(ctxUserID, sess.UserID)
		c.Set(ctxRole, sess.Role)
		c.Set(ctxToken, token)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxRole) != RoleAdmin {
			response.Fail(c, http.StatusForbidden, "admin privileges required")
			return
		}
		c.Next()
	}
}

// RequireAPIKey checks the public project key sent by clients in the apikey header (or query
// parameter, for websocket upgrades). An empty key disables the check.
func RequireAPIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sent := c.GetHeader("apikey")
		if sent == "" {
			sent = c.Query("apikey")
		}
		if key != "" && sent != key {
			response.Fail(c, http.StatusUnauthorized, "invalid api key")
			return
		}
		c.Next()
	}
}

func UserID(c *gin.Context) string       { return c.GetString(ctxUserID) }
func Role(c *gin.Context) string         { return c.GetString(ctxRole) }
func SessionToken(c *gin.Context) string { return c.GetString(ctxToken) }

// WithUser is used by tests to fake an authenticated request.
func WithUser(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxUserID, userID)
		c.Set(ctxRole, role)
		c.Next()
	}
}
