package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mtuci-campus/roombooking/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses. The client
// surfaces the message field verbatim on write-path failures.
type ErrorResponse struct {
	Message string `json:"message"`
}

// Error sends a JSON error response.
// It checks if the error is an AppError to determine the status code.
// If it's not an AppError, it defaults to 500 Internal Server Error.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, ErrorResponse{Message: appErr.Message})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "internal server error"})
}
