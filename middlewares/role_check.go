package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hotel-housekeeping/utils"
)

// RequireRole lets the request through only when AuthMiddleware stored one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			utils.AbortWithError(c, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		utils.AbortWithError(c, http.StatusForbidden,
			fmt.Errorf("%s access required", strings.Join(roles, " or ")))
	}
}
