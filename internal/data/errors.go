package data

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNotFound   = errors.New("employee not found")
	ErrValidation = errors.New("employee invalid")
	ErrConflict   = errors.New("employee conflict")
)

// ValidationError is returned by ValidateEmployee, the message is the one
// shown to the user for the first rule that was violated
type ValidationError struct {
	Message string
}

func (v *ValidationError) Error() string {
	return v.Message
}

func (v *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Error is the error body exchanged with the backend, it's also the error
// the client returns for any non-2xx response. The backend answers either
// a message or a map of field to message (or both).
type Error struct {
	Status           int               `json:"status,omitempty"`
	Message          string            `json:"message,omitempty"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}

func NewError(status int, message string, validationErrors ...map[string]string) *Error {
	e := &Error{
		Status:  status,
		Message: message,
	}
	if len(validationErrors) > 0 && len(validationErrors[0]) > 0 {
		e.ValidationErrors = validationErrors[0]
	}
	return e
}

func (e *Error) Error() string {
	if detail := e.Detail(); detail != "" {
		return fmt.Sprintf("status code: %d; %s", e.Status, detail)
	}
	return fmt.Sprintf("status code: %d", e.Status)
}

// Detail returns the message if present, otherwise the validation errors
// joined with a comma (ordered by field).
func (e *Error) Detail() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.ValidationErrors) == 0 {
		return ""
	}
	fields := make([]string, 0, len(e.ValidationErrors))
	for field := range e.ValidationErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	messages := make([]string, 0, len(fields))
	for _, field := range fields {
		messages = append(messages, e.ValidationErrors[field])
	}
	return strings.Join(messages, ", ")
}

func (e *Error) Is(target error) bool {
	switch target {
	default:
		return false
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrValidation:
		return e.Status == http.StatusBadRequest ||
			e.Status == http.StatusUnprocessableEntity
	case ErrConflict:
		return e.Status == http.StatusConflict
	}
}

// ErrorStatus maps an error onto the http status the backend answers it with
func ErrorStatus(err error) int {
	var e *Error

	switch {
	default:
		return http.StatusInternalServerError
	case errors.As(err, &e) && e.Status != 0:
		return e.Status
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	}
}
