package middleware

import (
	"net/http"
	"strings"

	"hostel-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// claimsKey is the gin context key holding the verified token claims.
const claimsKey = "claims"

// RequireAuth validates the bearer token and injects its claims. Any token
// problem yields the same generic 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization format. Use: Bearer <token>")
			c.Abort()
			return
		}

		claims := utils.VerifyToken(parts[1])
		if claims == nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRoles rejects callers whose verified role is not in the allow list.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		utils.ErrorResponse(c, http.StatusForbidden, "Insufficient permissions")
		c.Abort()
	}
}

// GetClaims returns the verified claims injected by RequireAuth, or nil.
func GetClaims(c *gin.Context) *utils.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*utils.Claims)
	if !ok {
		return nil
	}
	return claims
}
