package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stempelwerk/loyalty/pkg/response"
)

// Recovery turns a handler panic into a 500 envelope instead of a dropped
// connection.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("handler panic",
					zap.Any("panic", r),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
				)
				response.InternalError(c, "internal server error")
				c.Abort()
			}
		}()
		c.Next()
	}
}
