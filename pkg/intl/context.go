package intl

import (
	"context"
	"errors"

	"github.com/iota-uz/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/cams7/cadferias/pkg/constants"
)

var (
	ErrNoLocalizer = errors.New("localizer not found")
)

func WithLocalizer(ctx context.Context, l *i18n.Localizer) context.Context {
	return context.WithValue(ctx, constants.LocalizerKey, l)
}

func UseLocalizer(ctx context.Context) (*i18n.Localizer, bool) {
	l, ok := ctx.Value(constants.LocalizerKey).(*i18n.Localizer)
	return l, ok
}

func MustUseLocalizer(ctx context.Context) *i18n.Localizer {
	l, ok := UseLocalizer(ctx)
	if !ok {
		panic(ErrNoLocalizer)
	}
	return l
}

func WithLocale(ctx context.Context, locale language.Tag) context.Context {
	return context.WithValue(ctx, constants.LocaleKey, locale)
}

func UseLocale(ctx context.Context) (language.Tag, bool) {
	locale, ok := ctx.Value(constants.LocaleKey).(language.Tag)
	return locale, ok
}

// Localize translates id with data, falling back to id itself when no
// localizer is in ctx or the message is missing.
func Localize(ctx context.Context, id string, data map[string]any) string {
	l, ok := UseLocalizer(ctx)
	if !ok {
		return id
	}
	msg, err := l.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil && msg == "" {
		return id
	}
	return msg
}
