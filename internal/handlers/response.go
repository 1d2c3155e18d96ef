package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salonhub/salon-directory-backend/internal/apperror"
)

// Response is the uniform envelope returned by every endpoint
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respondSuccess(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusForError(err), Response{
		Success: false,
		Message: messageForError(err),
	})
}

func respondValidation(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Message: message,
	})
}

// statusForError maps typed error kinds to HTTP status codes
func statusForError(err error) int {
	switch apperror.KindOf(err) {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindPreconditionFailed:
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}

// messageForError hides internal error details from clients
func messageForError(err error) string {
	if apperror.KindOf(err) == apperror.KindInternal {
		return "internal server error"
	}
	return err.Error()
}
