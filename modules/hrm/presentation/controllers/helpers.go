package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"

	"github.com/cams7/cadferias/modules/hrm/infrastructure/api"
	"github.com/cams7/cadferias/modules/hrm/presentation/components"
	"github.com/cams7/cadferias/pkg/crud"
	"github.com/cams7/cadferias/pkg/httpapi"
	"github.com/cams7/cadferias/pkg/intl"
	"github.com/cams7/cadferias/pkg/middleware"
	"github.com/cams7/cadferias/pkg/shared"
)

// Settings are the tunables controllers hand to the components they open.
type Settings struct {
	PageSize      int
	Debounce      time.Duration
	MaxUploadSize int64
}

func authenticated() []mux.MiddlewareFunc {
	return []mux.MiddlewareFunc{
		middleware.RequireAuthenticated(),
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *crud.ValidationError
	var backend *api.Error
	var apiErr *httpapi.Error
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &validation):
		apiErr = httpapi.NewError(http.StatusUnprocessableEntity, httpapi.ErrCodeValidation, "validation failed").
			WithFields(validation.Fields)
	case errors.Is(err, api.ErrSessionExpired):
		apiErr = httpapi.NewError(http.StatusUnauthorized, httpapi.ErrCodeSessionExpired,
			intl.Localize(r.Context(), "Errors.SessionExpired", nil))
	case errors.Is(err, api.ErrNotFound):
		apiErr = httpapi.NewError(http.StatusNotFound, httpapi.ErrCodeNotFound, err.Error())
	case errors.Is(err, api.ErrUnauthorized):
		apiErr = httpapi.NewError(http.StatusUnauthorized, httpapi.ErrCodeUnauthorized, err.Error())
	case errors.As(err, &backend):
		apiErr = httpapi.NewError(http.StatusBadGateway, httpapi.ErrCodeBackend, backend.Message)
	case errors.Is(err, crud.ErrUnknownSortField),
		errors.Is(err, crud.ErrInvalidPage),
		errors.Is(err, components.ErrUnknownLookup),
		errors.Is(err, components.ErrUnsupportedPhoto),
		errors.Is(err, components.ErrPhotoTooLarge):
		apiErr = httpapi.NewError(http.StatusBadRequest, httpapi.ErrCodeBadRequest, err.Error())
	default:
		_ = httpapi.WriteErr(w, r, err)
		return
	}
	_ = httpapi.WriteErr(w, r, apiErr.Wrap(err))
}

func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	_ = httpapi.WriteErr(w, r, httpapi.NewError(http.StatusBadRequest, httpapi.ErrCodeBadRequest, err.Error()).Wrap(err))
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// decode reads a JSON or url-encoded body into dst.
func decode(r *http.Request, dst any) error {
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return errors.Wrap(err, "decode json body")
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return errors.Wrap(err, "parse form")
	}
	if err := shared.Decoder.Decode(dst, r.PostForm); err != nil {
		return errors.Wrap(err, "decode form")
	}
	return nil
}

// formValues returns the edited fields of a form update. A JSON body is a
// flat object keyed like "address.state".
func formValues(r *http.Request) (url.Values, error) {
	if !isJSON(r) {
		if err := r.ParseForm(); err != nil {
			return nil, errors.Wrap(err, "parse form")
		}
		return r.PostForm, nil
	}
	var body map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, errors.Wrap(err, "decode json body")
	}
	values := url.Values{}
	for k, v := range body {
		switch v := v.(type) {
		case nil:
			values.Set(k, "")
		case string:
			values.Set(k, v)
		case json.Number:
			// Keeps large ids out of exponent notation.
			values.Set(k, v.String())
		case bool:
			values.Set(k, strconv.FormatBool(v))
		default:
			values.Set(k, fmt.Sprint(v))
		}
	}
	return values, nil
}
