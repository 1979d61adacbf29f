package httpapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cams7/cadferias/pkg/httpapi"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) httpapi.ErrorEnvelope {
	t.Helper()
	var env httpapi.ErrorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func TestWriteErr_UsesWrappedAPIError(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/hrm/forms/abc/submit", nil)
	rec := httptest.NewRecorder()

	apiErr := httpapi.NewError(http.StatusUnprocessableEntity, httpapi.ErrCodeValidation, "invalid employee").
		WithFields(map[string]string{"name": "too short"})
	require.NoError(t, httpapi.WriteErr(rec, r, errors.Wrap(apiErr, "submit")))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, httpapi.ErrCodeValidation, env.Code)
	assert.Equal(t, "too short", env.Fields["name"])
	assert.Equal(t, "/hrm/forms/abc/submit", env.Meta["path"])
}

func TestWriteErr_UnknownErrorIsInternal(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/alerts", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, httpapi.WriteErr(rec, r, errors.New("boom")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, httpapi.ErrCodeInternal, env.Code)
	assert.Equal(t, "internal server error", env.Message)
}

func TestWriteJSON_NilPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, httpapi.WriteJSON(rec, http.StatusNoContent, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
