package api

import (
	"fmt"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/cams7/cadferias/pkg/notify"
)

var (
	ErrSessionExpired = errors.New("session expired")
	ErrNotFound       = errors.New("not found")
	ErrUnauthorized   = errors.New("unauthorized")
)

// Error is the {type, exception, message} payload the backend answers
// failures with.
type Error struct {
	Status        int    `json:"-"`
	Type          string `json:"type"`
	ExceptionName string `json:"exception"`
	Message       string `json:"message"`
}

var _ notify.BackendError = (*Error)(nil)

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend %d %s: %s", e.Status, e.ExceptionName, e.Message)
	}
	return fmt.Sprintf("backend %d %s", e.Status, http.StatusText(e.Status))
}

func (e *Error) MessageType() string {
	return e.Type
}

func (e *Error) Exception() string {
	return e.ExceptionName
}

// Is lets callers match the sentinel errors with errors.Is.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrSessionExpired:
		return e.ExceptionName == notify.ExceptionExpiredJWT
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	}
	return false
}
