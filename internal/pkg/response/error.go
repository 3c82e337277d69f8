package response

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/padel-booking-backend/internal/pkg/apperror"
)

// RetryAfterSeconds is advertised on 503 responses.
const RetryAfterSeconds = 1

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error sends a JSON error response.
// It checks if the error is an AppError to determine the status code.
// If it's not an AppError, it defaults to 500 Internal Server Error and
// records the cause on the gin context so the access log picks it up.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.Code >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		if appErr.Code == http.StatusServiceUnavailable {
			c.Header("Retry-After", strconv.Itoa(RetryAfterSeconds))
		}
		if len(appErr.Fields) == 0 {
			c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message})
			return
		}
		body := gin.H{"error": appErr.Message}
		for k, v := range appErr.Fields {
			body[k] = v
		}
		c.JSON(appErr.Code, body)
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// BadRequest sends a 400 with a message and the binding error detail.
func BadRequest(c *gin.Context, message string, err error) {
	body := gin.H{"error": message}
	if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}
