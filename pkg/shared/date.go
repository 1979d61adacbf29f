package shared

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
)

// Date is a calendar day exchanged as dd/MM/yyyy. The zero value encodes as
// null.
type Date time.Time

func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	for _, layout := range []string{DateLayout, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return Date(t), nil
		}
	}
	return Date{}, errors.Errorf("invalid date %q", s)
}

func (d Date) Time() time.Time {
	return time.Time(d)
}

func (d Date) IsZero() bool {
	return time.Time(d).IsZero()
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return time.Time(d).Format(DateLayout)
}

// Before compares calendar days only.
func (d Date) Before(t time.Time) bool {
	y, m, day := t.Date()
	return d.Time().Before(time.Date(y, m, day, 0, 0, 0, 0, time.UTC))
}

func (d Date) After(t time.Time) bool {
	y, m, day := t.Date()
	return d.Time().After(time.Date(y, m, day, 0, 0, 0, 0, time.UTC))
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "decode date")
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
