package notify

import (
	"github.com/cams7/cadferias/pkg/crud"
	"github.com/cams7/cadferias/pkg/session"
)

// Message types and exceptions carried by backend error payloads.
const (
	TypeWarning = "WARNING"
	TypeDanger  = "DANGER"

	ExceptionExpiredJWT = "EXPIRED_JWT"
)

type AlertAdded struct {
	SessionID string
	Alert     session.Alert
}

type FilterRegistered struct {
	SessionID  string
	FilterType crud.FilterType
	Filter     any
}

type SearchesReset struct {
	SessionID string
}

type ErrorRaised struct {
	SessionID string
	Type      string
	Exception string
	Message   string
}

// SessionExpired reports whether the event is the backend telling the user
// their token is no longer valid.
func (e *ErrorRaised) SessionExpired() bool {
	return e.Type == TypeWarning && e.Exception == ExceptionExpiredJWT
}
