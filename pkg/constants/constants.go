package constants

import (
	"github.com/go-playground/validator/v10"
)

type ContextKey string

const (
	LoggerKey    ContextKey = "logger"
	RequestStart ContextKey = "request_start"
	ParamsKey    ContextKey = "params"
	AppKey       ContextKey = "app"
	SessionKey   ContextKey = "session"
	LocalizerKey ContextKey = "localizer"
	LocaleKey    ContextKey = "locale"
	InteractKey  ContextKey = "interaction"
)

var Validate = validator.New(validator.WithRequiredStructEnabled())
