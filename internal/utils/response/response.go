// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler answers in JSON. Error responses always share one envelope,
// so the form UI can render any of them the same way.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aanand-mishra/registration-form/internal/validation"
	"github.com/go-playground/validator/v10"
)

// Response is the standard envelope returned for error cases:
//
//	{ "status": "error", "field": "email", "error": "Wrong email format, ..." }
//
// Field is only set when the error belongs to one form field.
type Response struct {
	Status string `json:"status"`
	Field  string `json:"field,omitempty"`
	Error  string `json:"error,omitempty"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
// Headers must be set before WriteHeader, and the body written after it.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// OK is the envelope for a successful call that returns no data.
func OK() Response {
	return Response{Status: StatusOK}
}

// GeneralError wraps any Go error into our standard Response shape.
// Storage failures go through here so the user sees the engine's message.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// FieldError reports the first field that failed validation.
func FieldError(err *validation.Error) Response {
	return Response{
		Status: StatusError,
		Field:  err.Field.String(),
		Error:  err.Message,
	}
}

// ValidationError converts the "required" failures of a submitted form
// into one readable message, e.g.
//
//	{ "status": "error", "error": "field email is required, field password is required" }
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(errMessages, ", "),
	}
}
