// README: Firebase ID-token auth middleware; exposes caller uid and role to handlers.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"freightquote/internal/infra"
	"freightquote/internal/reqctx"
)

const (
	ctxCallerUID  = "caller_uid"
	ctxCallerRole = "caller_role"

	RoleAdmin = "admin"
)

// Auth rejects requests without a valid "Authorization: Bearer <id token>".
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing bearer token"})
			return
		}
		token, err := verifier.VerifyIDToken(c.Request.Context(), strings.TrimSpace(raw))
		if err != nil {
			reqctx.From(c.Request.Context()).Logf("auth: verify token: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
			return
		}
		c.Set(ctxCallerUID, token.UID)
		c.Set(ctxCallerRole, token.Role())
		c.Next()
	}
}

// CallerUID is "" when auth is disabled.
func CallerUID(c *gin.Context) string {
	return c.GetString(ctxCallerUID)
}

func CallerRole(c *gin.Context) string {
	return c.GetString(ctxCallerRole)
}

// CanActFor reports whether the caller may act on behalf of subject.
// Always true when auth is disabled.
func CanActFor(c *gin.Context, subject string) bool {
	uid, authed := c.Get(ctxCallerUID)
	if !authed {
		return true
	}
	return CallerRole(c) == RoleAdmin || uid == subject
}
