package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"charter-ops.backend/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// LockDuration is the time we hold the lock while processing
	LockDuration = 30 * time.Second
	// RetentionDuration is how long we keep the response
	RetentionDuration = 24 * time.Hour
)

var (
	redisGet   = redis.Get
	redisSet   = redis.Set
	redisSetNX = redis.SetNX
	redisDel   = redis.Del
)

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the stored response when a caller retries an
// issuance with the same Idempotency-Key, so a network retry never mints a
// second contract
func IdempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		userID, _ := c.Get(UserIDKey)
		storageKey := fmt.Sprintf("idempotency:%v:%s", userID, key)
		ctx := c.Request.Context()

		val, err := redisGet(ctx, storageKey)
		if err == nil {
			if val == "processing" {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{
					"success": false,
					"message": "request already in progress",
				})
				return
			}
			status, body := decodeStoredResponse(val)
			c.Header("Content-Type", "application/json")
			c.Header("X-Idempotency-Hit", "true")
			c.String(status, body)
			c.Abort()
			return
		}

		locked, err := redisSetNX(ctx, storageKey, "processing", LockDuration)
		if err != nil || !locked {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "request already in progress",
			})
			return
		}

		w := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		if c.Writer.Status() >= 200 && c.Writer.Status() < 300 {
			_ = redisSet(ctx, storageKey, encodeStoredResponse(c.Writer.Status(), w.body.String()), RetentionDuration)
		} else {
			// drop the lock so the caller can retry
			_ = redisDel(ctx, storageKey)
		}
	}
}

// Stored responses carry the original status so a replayed 201 stays a 201.
// Format: "<status>|<body>".
func encodeStoredResponse(status int, body string) string {
	return strconv.Itoa(status) + "|" + body
}

func decodeStoredResponse(val string) (int, string) {
	if i := strings.IndexByte(val, '|'); i > 0 {
		if status, err := strconv.Atoi(val[:i]); err == nil {
			return status, val[i+1:]
		}
	}
	return http.StatusOK, val
}
