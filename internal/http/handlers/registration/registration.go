// Package registration contains the HTTP handlers for the registration form.
//
// Handlers use the closure/factory pattern: New(form, metrics) runs once when
// the route is registered and returns the http.HandlerFunc that serves every
// request.
//
// The handlers act as the form controller. They trim whitespace, refuse a
// submission while any field is empty, and render errors. The form package
// does the rest.
package registration

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/aanand-mishra/registration-form/internal/form"
	"github.com/aanand-mishra/registration-form/internal/metrics"
	"github.com/aanand-mishra/registration-form/internal/types"
	"github.com/aanand-mishra/registration-form/internal/utils/response"
	"github.com/aanand-mishra/registration-form/internal/validation"
	"github.com/go-playground/validator/v10"
)

var required = newRequiredValidator()

// newRequiredValidator reports fields by their JSON name, which is what the
// form UI knows them by.
func newRequiredValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/registrations
//
// Request body (JSON):
//
//	{ "name": "Jane", "lastName": "Doe", "email": "jane@example.com",
//	  "birthDate": "1990-05-20", "password": "Secret123" }
//
// Success response (201 Created):
//
//	{ "id": 1 }
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, empty field, or a field
//	                   that fails its format rule
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(f *form.Form, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("submitting a registration")

		var reg types.Registration
		err := json.NewDecoder(r.Body).Decode(&reg)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		reg = trim(reg)

		// Submitting is only possible once every field is filled in.
		if err := required.Struct(reg); err != nil {
			var validateErrs validator.ValidationErrors
			if errors.As(err, &validateErrs) {
				response.WriteJSON(w, http.StatusBadRequest,
					response.ValidationError(validateErrs))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		id, err := f.Submit(reg)
		if err != nil {
			var fieldErr *validation.Error
			if errors.As(err, &fieldErr) {
				m.Submissions.WithLabelValues(metrics.OutcomeInvalid).Inc()
				m.FieldRejections.WithLabelValues(fieldErr.Field.String()).Inc()
				response.WriteJSON(w, http.StatusBadRequest, response.FieldError(fieldErr))
				return
			}

			m.Submissions.WithLabelValues(metrics.OutcomeFailed).Inc()
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		m.Submissions.WithLabelValues(metrics.OutcomeStored).Inc()
		response.WriteJSON(w, http.StatusCreated, map[string]int64{"id": id})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/registrations/{id}
//
// Success response (200 OK): the stored record.
//
// Error responses:
//
//	400 Bad Request  — id is not a valid integer
//	404 Not Found    — no record with that id
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(f *form.Form) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("getting a registration", slog.String("id", id))

		intID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("invalid id: must be an integer")))
			return
		}

		reg, err := f.Fetch(intID)
		if err != nil {
			slog.Error("error getting registration",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}
		if reg == nil {
			response.WriteJSON(w, http.StatusNotFound,
				response.GeneralError(errors.New("no registration found with id: "+id)))
			return
		}

		response.WriteJSON(w, http.StatusOK, reg)
	}
}

type fieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidateField handles POST /api/registrations/validate
// Checks a single field while the user is still typing.
//
// Request body (JSON):
//
//	{ "field": "password", "value": "short" }
//
// Responses:
//
//	200 OK                   — { "status": "ok" }
//	400 Bad Request          — malformed body or unknown field
//	422 Unprocessable Entity — { "status": "error", "field": "password", "error": "..." }
//
// ─────────────────────────────────────────────────────────────────────────────
func ValidateField(f *form.Form, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req fieldRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				err = errors.New("request body is empty")
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		field, ok := validation.ParseField(req.Field)
		if !ok {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("unknown field: "+req.Field)))
			return
		}

		if err := f.ValidateField(field, strings.TrimSpace(req.Value)); err != nil {
			var fieldErr *validation.Error
			if errors.As(err, &fieldErr) {
				m.FieldRejections.WithLabelValues(fieldErr.Field.String()).Inc()
				response.WriteJSON(w, http.StatusUnprocessableEntity, response.FieldError(fieldErr))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.OK())
	}
}

func trim(r types.Registration) types.Registration {
	r.Name = strings.TrimSpace(r.Name)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.BirthDate = strings.TrimSpace(r.BirthDate)
	r.Password = strings.TrimSpace(r.Password)
	return r
}
