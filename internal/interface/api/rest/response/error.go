package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/KretovDmitry/order-management-service/internal/application/errs"
	"github.com/google/uuid"
)

// Transport level errors that have no application kind.
var (
	ErrUnsupportedMediaType = errors.New("Content-Type must be application/json")
	ErrMalformedJSON        = errs.Validation("", "Malformed JSON request")
)

const internalErrorMessage = "An unexpected error occurred"

// statusByKind is the single place application error kinds turn into status codes.
var statusByKind = map[errs.Kind]int{
	errs.KindValidation:   http.StatusBadRequest,
	errs.KindUnauthorized: http.StatusUnauthorized,
	errs.KindForbidden:    http.StatusForbidden,
	errs.KindNotFound:     http.StatusNotFound,
	errs.KindConflict:     http.StatusConflict,
	errs.KindBusinessRule: http.StatusUnprocessableEntity,
	errs.KindInternal:     http.StatusInternalServerError,
}

// Error is the body of every failed request.
type Error struct {
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
	Error            string            `json:"error"`
	Message          string            `json:"message"`
	Path             string            `json:"path"`
	TraceID          string            `json:"traceId"`
	Status           int               `json:"status"`
}

// StatusOf returns the status code err is reported with.
func StatusOf(err error) int {
	if errors.Is(err, ErrUnsupportedMediaType) {
		return http.StatusUnsupportedMediaType
	}
	return statusByKind[errs.KindOf(err)]
}

// NewError builds the error body for err. The message of internal
// errors is never exposed.
func NewError(r *http.Request, err error) *Error {
	code := StatusOf(err)

	e := &Error{
		Timestamp: time.Now().UTC(),
		Status:    code,
		Error:     http.StatusText(code),
		Path:      r.URL.Path,
		TraceID:   uuid.NewString(),
	}

	var (
		appErr *errs.Error
		valErr *errs.ValidationErrors
	)

	switch {
	case code == http.StatusUnsupportedMediaType:
		e.Message = ErrUnsupportedMediaType.Error()
	case errors.As(err, &valErr):
		e.Message = "Validation failed"
		e.ValidationErrors = valErr.Fields
	case errors.As(err, &appErr) && appErr.Kind != errs.KindInternal:
		e.Message = appErr.Message
		if appErr.Field != "" {
			e.ValidationErrors = map[string]string{appErr.Field: appErr.Message}
		}
	default:
		e.Message = internalErrorMessage
	}

	return e
}

// WriteError renders err as JSON and returns the status code written.
func WriteError(w http.ResponseWriter, r *http.Request, err error) int {
	e := NewError(r, err)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Trace-Id", e.TraceID)
	w.WriteHeader(e.Status)

	if err = json.NewEncoder(w).Encode(e); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}

	return e.Status
}
