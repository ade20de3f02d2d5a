package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/service/auth"
	"github.com/tasknest/tasknest-api/internal/store"
)

// UploadError marks a picture upload failure whose message is safe to
// return to the client verbatim (bad extension, file too large).
type UploadError struct {
	Message string
}

func (e *UploadError) Error() string {
	return e.Message
}

// NewUploadError creates an UploadError with the given client-facing message.
func NewUploadError(message string) *UploadError {
	return &UploadError{Message: message}
}

// MapErrorToStatusCode translates domain, store and auth errors into
// HTTP status codes. Unrecognized errors map to 500.
func MapErrorToStatusCode(err error) int {
	var uploadErr *UploadError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &uploadErr),
		errors.As(err, &validationErrs),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidUpdate),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for err. Internal
// details never leak: anything unrecognized gets a generic message.
func GetSafeErrorMessage(err error) string {
	var uploadErr *UploadError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &uploadErr):
		return uploadErr.Message
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(validationErrs)
	case errors.Is(err, domain.ErrInvalidUpdate):
		return "invalid updates"
	case errors.Is(err, domain.ErrValidation):
		return "invalid request"
	case errors.Is(err, store.ErrEmailExists):
		return "email address is already registered"
	case errors.Is(err, store.ErrTaskNotFound):
		return "task not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "user not found"
	case errors.Is(err, store.ErrNotFound):
		return "resource not found"
	case errors.Is(err, store.ErrInvalidEntity):
		return "invalid request"
	case errors.Is(err, auth.ErrExpiredToken):
		return "token has expired"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return "Please authenticate."
	default:
		return "an internal error occurred"
	}
}

// SanitizeValidationError converts validator errors into a readable
// message naming the offending fields without echoing their values.
func SanitizeValidationError(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "invalid request"
	}

	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return "invalid or missing fields: " + strings.Join(fields, ", ")
}
