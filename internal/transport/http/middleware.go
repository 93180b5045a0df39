package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"learnquiz-service/internal/app"
	"learnquiz-service/internal/logger"
)

const userIDKey = "userID"

// AuthMiddleware authenticates bearer tokens and exposes the user ID to
// handlers via the gin context.
type AuthMiddleware struct {
	auth *app.AuthService
}

func NewAuthMiddleware(auth *app.AuthService) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// RequireAuth rejects requests without a valid bearer token.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "missing bearer token"})
			return
		}
		userID, err := m.auth.Authenticate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "invalid or expired token"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// OptionalAuth attaches the user ID when a valid token is present but lets
// anonymous requests through; public listings use it to annotate scores.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractBearer(c); token != "" {
			if userID, err := m.auth.Authenticate(token); err == nil {
				c.Set(userIDKey, userID)
			}
		}
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return ""
}

// currentUser returns the authenticated user ID, or zero for anonymous.
func currentUser(c *gin.Context) int64 {
	id, _ := c.Get(userIDKey)
	userID, _ := id.(int64)
	return userID
}

// RequestLog logs one line per request.
func RequestLog(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
