package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/potensio/gii-backend/internal/platform/apierr"
)

type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func OK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Error normalizes err into the API error shape. The message carries the
// stable machine code clients branch on; structured details (field errors,
// validation issues) ride in data.
func Error(c *gin.Context, err error) {
	apiErr := apierr.From(err)
	c.JSON(apiErr.Status, Envelope{
		Success: false,
		Message: apiErr.Code,
		Data:    apiErr.Details,
	})
}

// AbortError is Error plus gin abort, for middleware.
func AbortError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
