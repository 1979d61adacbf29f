package middleware

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/iota-uz/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/cams7/cadferias/pkg/composables"
	"github.com/cams7/cadferias/pkg/intl"
)

// Application interface for accessing app config needed by localizer
type Application interface {
	Bundle() *i18n.Bundle
	GetSupportedLanguages() []string
}

type localeResolver struct {
	fallback  language.Tag
	supported []language.Tag
	matcher   language.Matcher
}

func newLocaleResolver(fallback language.Tag, codes []string) *localeResolver {
	langs := intl.GetSupportedLanguages(codes)
	tags := make([]language.Tag, len(langs))
	for i, lang := range langs {
		tags[i] = lang.Tag
	}
	res := &localeResolver{fallback: fallback, supported: tags}
	if len(tags) > 0 {
		res.matcher = language.NewMatcher(tags)
	}
	return res
}

func (l *localeResolver) match(candidates ...language.Tag) language.Tag {
	if l.matcher == nil {
		return l.fallback
	}
	if len(candidates) == 0 {
		candidates = []language.Tag{l.fallback}
	}
	_, idx, _ := l.matcher.Match(candidates...)
	return l.supported[idx]
}

// resolve picks the request language. A lang query parameter wins and is
// remembered on the session; later requests reuse the session's choice
// before falling back to Accept-Language.
func (l *localeResolver) resolve(r *http.Request) language.Tag {
	sess, _ := composables.UseSession(r.Context())
	if lang := r.URL.Query().Get("lang"); lang != "" {
		if tag, err := language.Parse(lang); err == nil {
			locale := l.match(tag)
			if sess != nil {
				sess.SetLocale(locale)
			}
			return locale
		}
	}
	if sess != nil {
		if locale, ok := sess.Locale(); ok {
			return locale
		}
	}
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil {
		return l.match()
	}
	return l.match(tags...)
}

// ProvideLocalizer puts the request localizer and locale on the context.
// It reads the session, so it runs after ProvideSession.
func ProvideLocalizer(app Application, defaultLocale language.Tag) mux.MiddlewareFunc {
	bundle := app.Bundle()
	resolver := newLocaleResolver(defaultLocale, app.GetSupportedLanguages())
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := resolver.resolve(r)
			ctx := intl.WithLocalizer(r.Context(), i18n.NewLocalizer(bundle, locale.String()))
			ctx = intl.WithLocale(ctx, locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
