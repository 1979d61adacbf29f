package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cams7/cadferias/pkg/composables"
)

func TestDescribeBody_RedactsCredentials(t *testing.T) {
	opts := DefaultLoggerOptions()

	got := opts.describeBody("application/json", []byte(`{"email":"a@b.com","password":"x","user":{"Token":"jwt"}}`))
	assert.Equal(t, map[string]any{
		"email":    "a@b.com",
		"password": redacted,
		"user":     map[string]any{"Token": redacted},
	}, got)

	form := opts.describeBody("application/x-www-form-urlencoded", []byte("email=a%40b.com&password=x"))
	assert.Equal(t, map[string]string{"email": "a@b.com", "password": redacted}, form)
}

func TestDescribeBody_TruncatesRawText(t *testing.T) {
	opts := NewLoggerOptions(true, true, 4)
	assert.Equal(t, "abcd...", opts.describeBody("text/plain", []byte("abcdefgh")))
	assert.Nil(t, opts.describeBody("application/json", nil))
}

func TestWithLogger_RecoversPanicAsJSON(t *testing.T) {
	logger, hook := test.NewNullLogger()
	opts := DefaultLoggerOptions()
	var requestID string
	h := WithLogger(logger, opts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = composables.UseRequestID(r.Context())
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_SERVER_ERROR")
	require.NotEmpty(t, requestID)
	assert.Equal(t, requestID, rec.Header().Get("X-Request-Id"))

	var panicked bool
	for _, e := range hook.AllEntries() {
		if body, ok := e.Data["request-body"].(map[string]any); ok {
			assert.Equal(t, redacted, body["password"])
		}
		if e.Level == logrus.ErrorLevel && e.Message == "panic recovered in request handler" {
			panicked = true
		}
	}
	assert.True(t, panicked)
}
