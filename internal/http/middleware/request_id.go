// README: Assigns a correlation id per request (X-Request-ID) and attaches it to the request context.
package middleware

import (
	"github.com/gin-gonic/gin"

	"freightquote/internal/reqctx"
)

const HeaderRequestID = "X-Request-ID"

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := reqctx.New(c.GetHeader(HeaderRequestID))
		c.Request = c.Request.WithContext(reqctx.With(c.Request.Context(), scope))
		c.Header(HeaderRequestID, scope.ID)
		c.Next()
	}
}
