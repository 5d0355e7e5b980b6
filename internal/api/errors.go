package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/postpone/internal/api/shared"
	"github.com/phrazzld/postpone/internal/domain"
	"github.com/phrazzld/postpone/internal/domain/query"
	"github.com/phrazzld/postpone/internal/service/auth"
	"github.com/phrazzld/postpone/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing the error itself.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidSubject),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, query.ErrUnknownStatus),
		errors.Is(err, query.ErrUnknownSortMode),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err. Domain
// validation messages are safe to return as-is; everything else gets a
// fixed string.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErr *domain.ValidationError
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case MapErrorToStatusCode(err) == http.StatusUnauthorized:
		return "Invalid token"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, store.ErrTagNotFound):
		return "Tag not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrTagNameExists):
		return "Tag name already exists"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.As(err, &validationErr):
		return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
	case errors.Is(err, query.ErrUnknownStatus):
		return "Invalid status: must be one of all, pending, completed"
	case errors.Is(err, query.ErrUnknownSortMode):
		return "Invalid sort: must be one of due_date, created_at, random"
	case errors.Is(err, domain.ErrValidation):
		return validationMessage(err)
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"

	default:
		return "An unexpected error occurred"
	}
}

// validationMessage returns the message of the first domain sentinel in the
// chain. Sentinels read like "validation failed: task title cannot be empty".
func validationMessage(err error) string {
	for _, sentinel := range []error{
		domain.ErrEmptyTaskTitle,
		domain.ErrTaskTitleTooLong,
		domain.ErrTaskDescTooLong,
		domain.ErrEmptyTaskDueDate,
		domain.ErrTaskTagOwnerMismatch,
		domain.ErrEmptyTagName,
		domain.ErrTagNameTooLong,
		domain.ErrInvalidTagColor,
		domain.ErrDaysOutOfRange,
		domain.ErrDaysRangeInverted,
		domain.ErrHourOutOfRange,
		domain.ErrHourRangeInverted,
		domain.ErrInvalidTimezone,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "Validation error"
}

// SanitizeValidationError turns validator errors into a message naming the
// first failing field.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	case "hexcolor":
		return "must be a hex color"
	case "timezone":
		return "unknown timezone"
	case "ltefield":
		return "out of order"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err. A non-empty
// fallback replaces the generic message on 500s.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
