package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/cams7/cadferias/pkg/composables"
)

const (
	ErrCodeBadRequest     = "BAD_REQUEST"
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeSessionExpired = "SESSION_EXPIRED"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeConflict       = "CONFLICT"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeBackend        = "BACKEND_ERROR"
	ErrCodeInternal       = "INTERNAL_SERVER_ERROR"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// Error carries the status and code a handler wants to answer with.
type Error struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

func NewError(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) WithFields(fields map[string]string) *Error {
	e.Fields = fields
	return e
}

func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func meta(r *http.Request) map[string]string {
	if r == nil {
		return nil
	}
	return map[string]string{
		"request_id": composables.UseRequestID(r.Context()),
		"path":       r.URL.Path,
	}
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta(r),
	})
}

// WriteErr answers with err's *Error when it wraps one and with a 500
// otherwise. Server errors are logged.
func WriteErr(w http.ResponseWriter, r *http.Request, err error) error {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		apiErr = NewError(http.StatusInternalServerError, ErrCodeInternal, "internal server error").Wrap(err)
	}
	if apiErr.Status >= http.StatusInternalServerError && r != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("request failed")
	}
	return WriteJSON(w, apiErr.Status, &ErrorEnvelope{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Fields:  apiErr.Fields,
		Meta:    meta(r),
	})
}
