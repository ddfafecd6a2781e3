// roles.go
package middleware

import (
	"net/http"

	"nanocart/internal/model"
	"nanocart/internal/response"

	"github.com/gin-gonic/gin"
)

// RequireRole deja pasar sólo a los roles listados.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actual := model.Role(c.GetString("userRole"))
		for _, r := range roles {
			if actual == r {
				c.Next()
				return
			}
		}
		response.Error(c, http.StatusForbidden, "insufficient privileges")
		c.Abort()
	}
}

func AdminOnly() gin.HandlerFunc {
	return RequireRole(model.RoleAdmin)
}

// AdminOrSubAdmin cubre los endpoints de backoffice compartidos.
func AdminOrSubAdmin() gin.HandlerFunc {
	return RequireRole(model.RoleAdmin, model.RoleSubAdmin)
}

func PartnerOnly() gin.HandlerFunc {
	return RequireRole(model.RolePartner)
}
