package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusqa/agents/pkg/logger"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(method, jwt.RegisteredClaims{
		Subject:   "backend",
		Issuer:    "nexus",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := token.SignedString(key)
	require.NoError(t, err)
	return s
}

func TestVerifyToken(t *testing.T) {
	a, err := NewServiceAuth(secret, logger.NewNop())
	require.NoError(t, err)

	caller, err := a.VerifyToken("Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, &Caller{Subject: "backend", Issuer: "nexus"}, caller)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"wrong secret", sign(t, jwt.SigningMethodHS256, []byte("other"), time.Now().Add(time.Hour))},
		{"expired", sign(t, jwt.SigningMethodHS256, []byte(secret), time.Now().Add(-time.Minute))},
		{"other algorithm", sign(t, jwt.SigningMethodHS512, []byte(secret), time.Now().Add(time.Hour))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.VerifyToken(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestNewServiceAuthRequiresSecret(t *testing.T) {
	_, err := NewServiceAuth("", logger.NewNop())
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a, err := NewServiceAuth(secret, logger.NewNop(), "/health")
	require.NoError(t, err)

	r := gin.New()
	r.Use(a.Middleware())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/tasks", func(c *gin.Context) {
		caller, err := GetCaller(c)
		require.NoError(t, err)
		c.String(http.StatusOK, caller.Subject)
	})

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"public path", "/health", "", http.StatusOK},
		{"missing header", "/tasks", "", http.StatusUnauthorized},
		{"bad token", "/tasks", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "/tasks", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), time.Now().Add(time.Hour)), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
