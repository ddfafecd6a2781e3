package response

import "github.com/gin-gonic/gin"

// Envelope uniforme: el código HTTP siempre espeja el campo status.
type Envelope struct {
	Status  int         `json:"status"`
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func OK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{
		Status:  status,
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{
		Status:  status,
		Success: false,
		Message: message,
	})
}

// ErrorWith agrega el detalle del error en data.error (sin sanitizar).
func ErrorWith(c *gin.Context, status int, message string, err error) {
	c.JSON(status, Envelope{
		Status:  status,
		Success: false,
		Message: message,
		Data:    gin.H{"error": err.Error()},
	})
}
