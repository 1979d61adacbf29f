package shared

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-playground/form"
	"github.com/gorilla/mux"
)

// DateLayout is the dd/MM/yyyy format the backend exchanges dates in.
const DateLayout = "02/01/2006"

var Decoder = newDecoder()

func newDecoder() *form.Decoder {
	d := form.NewDecoder()
	d.RegisterCustomTypeFunc(func(vals []string) (interface{}, error) {
		if vals[0] == "" {
			return time.Time{}, nil
		}
		for _, layout := range []string{time.DateOnly, DateLayout} {
			if t, err := time.Parse(layout, vals[0]); err == nil {
				return t, nil
			}
		}
		return nil, errors.Errorf("invalid date %q", vals[0])
	}, time.Time{})
	d.RegisterCustomTypeFunc(func(vals []string) (interface{}, error) {
		return ParseDate(vals[0])
	}, Date{})
	return d
}

func ParseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "parse id")
	}
	return id, nil
}

// Redirect tells htmx clients where to go and falls back to a 303 for plain
// requests.
func Redirect(w http.ResponseWriter, r *http.Request, path string) {
	if len(r.Header.Get("Hx-Request")) > 0 {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}
