package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/iota-uz/go-i18n/v2/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/cams7/cadferias/pkg/composables"
	"github.com/cams7/cadferias/pkg/intl"
	"github.com/cams7/cadferias/pkg/middleware"
	"github.com/cams7/cadferias/pkg/session"
)

func newStore() *session.Store {
	return session.NewStore(session.StoreOptions{IdleTTL: time.Hour})
}

func TestProvideSession_CreatesAndReusesCookie(t *testing.T) {
	store := newStore()
	var seen []string
	h := middleware.ProvideSession(middleware.SessionOptions{Store: store})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := composables.UseSession(r.Context())
			require.NoError(t, err)
			seen = append(seen, sess.ID)
		}),
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/alerts", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/alerts", nil)
	req.AddCookie(cookies[0])
	req.Header.Set(middleware.CurrentURLHeader, "http://localhost:4200/hrm/employees/1?x=y")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Result().Cookies(), "known session keeps its cookie")
	require.Len(t, seen, 2)
	assert.Equal(t, seen[0], seen[1])
	sess, ok := store.Lookup(seen[0])
	require.True(t, ok)
	assert.Equal(t, []string{"/hrm/employees/1"}, sess.History())
}

func TestProvideSession_UnknownCookieGetsNewSession(t *testing.T) {
	store := newStore()
	h := middleware.ProvideSession(middleware.SessionOptions{Store: store})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "stale"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.NotEqual(t, "stale", cookies[0].Value)
	assert.Equal(t, 1, store.Len())
}

func TestRequireAuthenticated(t *testing.T) {
	store := newStore()
	sess := store.Create()
	h := middleware.RequireAuthenticated()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	serve := func() int {
		req := httptest.NewRequest(http.MethodGet, "/hrm/employees", nil)
		req = req.WithContext(composables.WithSession(req.Context(), sess))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve())
	sess.Authenticate("ana@mail.com", "token")
	assert.Equal(t, http.StatusNoContent, serve())
}

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	r := mux.NewRouter()
	r.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerPeriod: 2,
		Period:            time.Minute,
		Store:             middleware.NewMemoryStore(),
		Paths:             []string{"/login"},
		KeyFunc:           func(*http.Request) string { return "client" },
	}))
	r.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {}).Methods(http.MethodPost)
	r.HandleFunc("/alerts", func(w http.ResponseWriter, r *http.Request) {}).Methods(http.MethodGet)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/alerts", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "other paths are not limited")
}

type bundleApp struct {
	bundle *i18n.Bundle
}

func (a bundleApp) Bundle() *i18n.Bundle            { return a.bundle }
func (a bundleApp) GetSupportedLanguages() []string { return []string{"pt-BR", "en"} }

func TestProvideLocalizer_MatchesAcceptLanguage(t *testing.T) {
	app := bundleApp{bundle: i18n.NewBundle(language.BrazilianPortuguese)}
	var got language.Tag
	h := middleware.ProvideLocalizer(app, language.BrazilianPortuguese)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = intl.UseLocale(r.Context())
		_, ok := intl.UseLocalizer(r.Context())
		assert.True(t, ok)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, language.English, got)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, language.BrazilianPortuguese, got)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/?lang=en", nil))
	assert.Equal(t, language.English, got)
}

func TestProvideLocalizer_RemembersLanguageOnSession(t *testing.T) {
	store := newStore()
	app := bundleApp{bundle: i18n.NewBundle(language.BrazilianPortuguese)}
	var got language.Tag
	inner := middleware.ProvideLocalizer(app, language.BrazilianPortuguese)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = intl.UseLocale(r.Context())
	}))
	h := middleware.ProvideSession(middleware.SessionOptions{Store: store})(inner)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?lang=en", nil))
	assert.Equal(t, language.English, got)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	req.Header.Set("Accept-Language", "pt-BR")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, language.English, got, "session choice beats Accept-Language")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, language.English, got)

	inner.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/?lang=fr", nil))
	assert.Equal(t, language.BrazilianPortuguese, got, "unsupported language falls back")
}
