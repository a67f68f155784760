package middleware

import (
	"net/http"
	"strings"

	"hostel-management-backend/internal/config"

	"github.com/gin-gonic/gin"
)

// corsMethods lists the verbs the API actually serves; there are no PUT
// routes.
const corsMethods = "GET, POST, PATCH, DELETE, OPTIONS"

// corsHeaders covers the bearer token, JSON bodies and the correlation id
// clients may supply.
const corsHeaders = "Content-Type, Authorization, " + RequestIDHeader

// CORS allows the configured frontend origins with credentials support.
func CORS(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range cfg.CORS.AllowedOrigins {
			if strings.EqualFold(origin, allowedOrigin) {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Methods", corsMethods)
			c.Writer.Header().Set("Access-Control-Allow-Headers", corsHeaders)
			c.Writer.Header().Set("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
