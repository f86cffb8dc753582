package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Ibragim-Gadzhiev/TeamHomework/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the body returned for single-cause errors.
type ErrorResponse struct {
	Message    string `json:"message"`
	HTTPStatus string `json:"httpStatus"`
}

// FieldError describes one failed constraint in a request body.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorResponse is the body returned when binding a request
// fails on one or more fields.
type ValidationErrorResponse struct {
	Errors []FieldError `json:"errors"`
}

// writeError maps a service error kind to its HTTP status and writes the
// single-cause error body. Unexpected errors become a generic 500 so no
// internal detail leaks.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, user.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, user.ErrDuplicateEmail):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, user.ErrInvalidArgument):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, user.ErrPublish):
		message = err.Error()
	}

	c.JSON(status, ErrorResponse{
		Message:    message,
		HTTPStatus: strings.ToLower(http.StatusText(status)),
	})
}

// writeBindingError translates a gin binding failure into the per-field
// error body, falling back to the single-cause shape for malformed JSON.
func writeBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   strings.ToLower(fe.Field()),
				Message: fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
			})
		}
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{Errors: fields})
		return
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Message:    err.Error(),
		HTTPStatus: strings.ToLower(http.StatusText(http.StatusBadRequest)),
	})
}
