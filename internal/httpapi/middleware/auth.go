package middleware

import (
	"net/http"
	"strings"

	"github.com/drossan/arena-ai/internal/auth"
	"github.com/drossan/arena-ai/internal/common"
	"github.com/drossan/arena-ai/internal/models"
	"github.com/gin-gonic/gin"
)

const (
	UserIDKey   = "user_id"
	UserRoleKey = "user_role"
)

// AuthRequired validates the Bearer token and stashes the caller's identity.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
			c.Abort()
			return
		}

		claims, err := auth.ParseJWT(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			common.Fail(c, http.StatusUnauthorized, 40102, "invalid token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserRoleKey, claims.Role)
		c.Next()
	}
}

// AdminRequired must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(UserRoleKey)
		if role != models.RoleAdmin {
			common.Fail(c, http.StatusForbidden, 40301, "admin only")
			c.Abort()
			return
		}
		c.Next()
	}
}
