// README: Recovery middleware: converts handler panics into a 500 response.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"freightquote/internal/reqctx"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				reqctx.From(c.Request.Context()).Logf("panic: %s %s: %v", c.Request.Method, c.Request.URL.Path, r)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
			}
		}()
		c.Next()
	}
}
