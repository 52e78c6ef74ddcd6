package helper

import (
	"errors"
	"net/http"

	"accident-service/pkg/errs"

	"github.com/gin-gonic/gin"
)

const (
	ErrInvalidRequest   = "INVALID_REQUEST"
	ErrInvalidOperation = "INVALID_OPERATION"
	ErrNotFound         = "NOT_FOUND"
	ErrConflict         = "CONFLICT"
	ErrUnavailable      = "SERVICE_UNAVAILABLE"
)

type APIResponse struct {
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	ErrorCode  string      `json:"error_code,omitempty"`
}

func SendSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
	})
}

func SendError(c *gin.Context, statusCode int, err error, errorCode string) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(statusCode, APIResponse{
		StatusCode: statusCode,
		Error:      msg,
		ErrorCode:  errorCode,
	})
}

// SendServiceError maps the service error taxonomy onto HTTP status codes.
func SendServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrValidation):
		SendError(c, http.StatusBadRequest, err, ErrInvalidRequest)
	case errors.Is(err, errs.ErrNotFound):
		SendError(c, http.StatusNotFound, err, ErrNotFound)
	case errors.Is(err, errs.ErrInvalidTransition):
		SendError(c, http.StatusConflict, err, ErrConflict)
	case errors.Is(err, errs.ErrStorage):
		SendError(c, http.StatusServiceUnavailable, err, ErrUnavailable)
	default:
		SendError(c, http.StatusInternalServerError, err, ErrInvalidOperation)
	}
}
