package auth

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/nexusqa/agents/pkg/errors"
	"github.com/nexusqa/agents/pkg/logger"
)

const callerKey = "auth_caller"

// Caller is the service identity carried by a verified token
type Caller struct {
	Subject string
	Issuer  string
}

// ServiceAuth verifies HS256 service tokens signed with a shared secret
type ServiceAuth struct {
	secret []byte
	public map[string]bool
	log    logger.Logger
}

// NewServiceAuth creates a verifier. Requests to publicPaths skip verification.
func NewServiceAuth(secret string, log logger.Logger, publicPaths ...string) (*ServiceAuth, error) {
	if secret == "" {
		return nil, fmt.Errorf("service token secret is required")
	}
	public := make(map[string]bool, len(publicPaths))
	for _, p := range publicPaths {
		public[p] = true
	}
	return &ServiceAuth{
		secret: []byte(secret),
		public: public,
		log:    log,
	}, nil
}

// VerifyToken checks the signature and expiry of a bearer token
func (a *ServiceAuth) VerifyToken(tokenString string) (*Caller, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return nil, fmt.Errorf("empty token")
	}

	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}

	return &Caller{Subject: claims.Subject, Issuer: claims.Issuer}, nil
}

// Middleware rejects requests without a valid service token
func (a *ServiceAuth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.public[c.Request.URL.Path] || c.Request.Method == "OPTIONS" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			a.log.Warn("Request missing Authorization header", logger.String("path", c.Request.URL.Path))
			abortUnauthorized(c, "Authorization header required")
			return
		}

		caller, err := a.VerifyToken(authHeader)
		if err != nil {
			a.log.Warn("Token verification failed",
				logger.Error(err),
				logger.String("ip", c.ClientIP()),
			)
			abortUnauthorized(c, "Invalid token")
			return
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	appErr := errors.NewUnauthorized(message)
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}

// GetCaller retrieves the verified caller from the Gin context
func GetCaller(c *gin.Context) (*Caller, error) {
	value, exists := c.Get(callerKey)
	if !exists {
		return nil, errors.NewUnauthorized("Caller not authenticated")
	}
	caller, ok := value.(*Caller)
	if !ok {
		return nil, errors.NewInternal("Invalid caller in context")
	}
	return caller, nil
}
