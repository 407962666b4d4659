package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"SwingHunter/internal/dto"
	"SwingHunter/internal/logger"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic in a handler into a 500 JSON error and logs the
// stack trace.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.L().Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Str("panic", fmt.Sprintf("%v", r)).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					dto.NewErrorResponse("Internal server error", fmt.Errorf("%v", r)))
			}
		}()
		c.Next()
	}
}
