package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"charter-ops.backend/pkg/crypto"
)

func adminRouter(keyHash string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/admin", AdminKeyMiddleware(keyHash), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestAdminKeyMiddleware_ValidKey(t *testing.T) {
	hash, err := crypto.HashAPIKey("super-secret-key")
	require.NoError(t, err)
	router := adminRouter(hash)

	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.Header.Set(AdminKeyHeader, "super-secret-key")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminKeyMiddleware_WrongKey(t *testing.T) {
	hash, err := crypto.HashAPIKey("super-secret-key")
	require.NoError(t, err)
	router := adminRouter(hash)

	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.Header.Set(AdminKeyHeader, "guess")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminKeyMiddleware_MissingKey(t *testing.T) {
	hash, err := crypto.HashAPIKey("super-secret-key")
	require.NoError(t, err)
	router := adminRouter(hash)

	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminKeyMiddleware_DisabledWithoutHash(t *testing.T) {
	router := adminRouter("")

	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.Header.Set(AdminKeyHeader, "anything")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
