package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"charter-ops.backend/pkg/crypto"
)

// AdminKeyHeader carries the admin API key for maintenance endpoints
const AdminKeyHeader = "X-Admin-API-Key"

// AdminKeyMiddleware guards maintenance endpoints with an API key checked
// against the configured bcrypt hash (generate with cmd/hash-gen)
func AdminKeyMiddleware(keyHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if keyHash == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "admin endpoints are disabled",
			})
			return
		}

		key := c.GetHeader(AdminKeyHeader)
		if key == "" || !crypto.CheckAPIKey(key, keyHash) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "invalid admin api key",
			})
			return
		}
		c.Next()
	}
}
