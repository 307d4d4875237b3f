package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/taskforge/api/internal/domain"
)

const errInternalServer = "An error occurred"

// response is the envelope every endpoint answers with.
type response struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   *responseError `json:"error,omitempty"`
}

type responseError struct {
	Message string              `json:"message"`
	Details []domain.FieldError `json:"details,omitempty"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, response{Success: true, Data: data})
}

// writeError maps a kinded domain error to its status. Anything else is an
// internal error: logged in full, exposed to the client only in development.
func writeError(c *gin.Context, logger *slog.Logger, dev bool, err error) {
	var domErr *domain.Error
	if errors.As(err, &domErr) {
		c.JSON(statusForKind(domErr.Kind), response{
			Success: false,
			Error:   &responseError{Message: domErr.Message, Details: domErr.Details},
		})
		return
	}

	logger.ErrorContext(c.Request.Context(), "request failed", "error", err)
	msg := errInternalServer
	if dev {
		msg = err.Error()
	}
	c.JSON(http.StatusInternalServerError, response{
		Success: false,
		Error:   &responseError{Message: msg},
	})
}

func statusForKind(k domain.Kind) int {
	switch k {
	case domain.KindValidation, domain.KindConflict:
		return http.StatusBadRequest
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// bindingError converts a gin binding failure into a field-level validation
// error. Details are always exposed for validation failures.
func bindingError(err error) *domain.Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]domain.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, domain.FieldError{
				Field:   fieldName(fe.Field()),
				Message: validationMessage(fe),
			})
		}
		return &domain.Error{Kind: domain.KindValidation, Message: "Validation failed", Details: details}
	}
	return &domain.Error{Kind: domain.KindValidation, Message: "Invalid request body"}
}

// fieldName lowercases the leading letter so struct field names line up
// with their camelCase JSON tags.
func fieldName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
