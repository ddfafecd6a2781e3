// auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"nanocart/internal/response"
	"nanocart/internal/service"

	"github.com/gin-gonic/gin"
)

// Middleware que valida el access token y guarda la identidad en el contexto
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		token = strings.TrimSpace(token)

		claims, err := authService.ParseAccessToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		sub, _ := claims["sub"].(string)
		role, _ := claims["role"].(string)
		if sub == "" || role == "" {
			response.Error(c, http.StatusUnauthorized, "invalid token claims")
			c.Abort()
			return
		}

		// Guardamos los datos del actor en el contexto
		c.Set("userID", sub)
		c.Set("userRole", role)
		c.Next()
	}
}
