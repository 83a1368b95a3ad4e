// README: Access log middleware: one line per request, tagged with the correlation id.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"freightquote/internal/reqctx"
)

func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		reqctx.From(c.Request.Context()).Logf("%s %s %d %s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Microsecond))
	}
}
