package user

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/iota-uz/go-i18n/v2/i18n"

	"github.com/cams7/cadferias/pkg/constants"
	"github.com/cams7/cadferias/pkg/hateoas"
	"github.com/cams7/cadferias/pkg/intl"
)

type User struct {
	EntityID   int64         `json:"entityId,omitempty"`
	Email      string        `json:"email,omitempty"`
	Password   string        `json:"password,omitempty"`
	RememberMe bool          `json:"rememberMe,omitempty"`
	Links      hateoas.Links `json:"_links,omitempty"`
}

type Filter struct {
	Email string `json:"email,omitempty"`
}

// Token is what the backend answers a successful sign-in with.
type Token struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

type SignInDTO struct {
	Email      string `form:"email" json:"email" validate:"required,email"`
	Password   string `form:"password" json:"password" validate:"required"`
	RememberMe bool   `form:"rememberMe" json:"rememberMe"`
}

var signInFields = map[string]string{
	"Email":    "email",
	"Password": "password",
}

func (d *SignInDTO) Ok(ctx context.Context) (map[string]string, bool) {
	errorMessages := map[string]string{}
	errs := constants.Validate.Struct(d)
	if errs == nil {
		return errorMessages, true
	}

	l, ok := intl.UseLocalizer(ctx)
	if !ok {
		panic(intl.ErrNoLocalizer)
	}

	for _, err := range errs.(validator.ValidationErrors) {
		translatedFieldName := l.MustLocalize(&i18n.LocalizeConfig{
			MessageID: fmt.Sprintf("SignIn.%s", err.Field()),
		})
		errorMessages[signInFields[err.Field()]] = l.MustLocalize(&i18n.LocalizeConfig{
			MessageID: fmt.Sprintf("ValidationErrors.%s", err.Tag()),
			TemplateData: map[string]string{
				"Field": translatedFieldName,
				"Param": err.Param(),
			},
		})
	}

	return errorMessages, len(errorMessages) == 0
}

func (d *SignInDTO) ToEntity() User {
	return User{Email: d.Email, Password: d.Password, RememberMe: d.RememberMe}
}
