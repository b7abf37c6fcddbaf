package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"charter-ops.backend/pkg/jwt"
)

func authRouter(jwtService *jwt.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(jwtService), func(c *gin.Context) {
		userID, _ := c.Get(UserIDKey)
		c.JSON(http.StatusOK, gin.H{
			"userId": userID,
			"email":  c.GetString(UserEmailKey),
			"role":   c.GetString(UserRoleKey),
		})
	})
	return r
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	jwtService := jwt.NewJWTService("test-secret", time.Hour)
	router := authRouter(jwtService)

	userID := uuid.New()
	token, err := jwtService.GenerateToken(userID, "staff@example.com", "manager")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), "staff@example.com")
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	router := authRouter(jwt.NewJWTService("test-secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	router := authRouter(jwt.NewJWTService("test-secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthorizationHeader, "Basic abc123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	router := authRouter(jwt.NewJWTService("test-secret", time.Hour))

	other := jwt.NewJWTService("other-secret", time.Hour)
	token, err := other.GenerateToken(uuid.New(), "staff@example.com", "manager")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	jwtService := jwt.NewJWTService("test-secret", -time.Minute)
	router := authRouter(jwtService)

	token, err := jwtService.GenerateToken(uuid.New(), "staff@example.com", "manager")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}
