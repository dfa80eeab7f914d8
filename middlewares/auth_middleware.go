package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hotel-housekeeping/utils"
)

// AuthMiddleware requires a valid "Authorization: Bearer <jwt>" header and stores the
// staff subject and role on the context.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			utils.AbortWithError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			utils.AbortWithError(c, http.StatusUnauthorized, errors.New("invalid authorization format"))
			return
		}

		claims, err := utils.ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			utils.AbortWithError(c, http.StatusUnauthorized, err)
			return
		}

		c.Set("staff", claims.Subject)
		c.Set("role", claims.Role)
		c.Next()
	}
}
