package middleware

import (
	"log"
	"net/http"

	"github.com/drossan/arena-ai/internal/common"
	"github.com/gin-gonic/gin"
)

// Recovery converts panics into the standard error envelope instead of
// gin's plain-text 500.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("panic recovered: %v", r)
				common.Fail(c, http.StatusInternalServerError, 50000, "internal error")
				c.Abort()
			}
		}()
		c.Next()
	}
}
