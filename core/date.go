package core

import (
	"database/sql/driver"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DateLayout is the wire format for birth dates: day-month-year.
const DateLayout = "02-01-2006"

// Date is a calendar day without a time-of-day component.
type Date struct {
	t time.Time
}

// ParseDate parses a DD-MM-YYYY string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, errors.Wrap(err, "core.ParseDate")
	}
	return Date{t: t}, nil
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) Date {
	return Date{t: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d Date) IsZero() bool     { return d.t.IsZero() }
func (d Date) Time() time.Time  { return d.t }
func (d Date) String() string   { return d.t.Format(DateLayout) }
func (d Date) ISO() string      { return d.t.Format("2006-01-02") }
func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

// AgeAt returns the whole years elapsed from d to `on`. The year
// increments on the anniversary day itself, not the day before.
func (d Date) AgeAt(on Date) int {
	years := on.t.Year() - d.t.Year()
	anniversary := d.t.AddDate(years, 0, 0)
	if anniversary.After(on.t) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// Age is AgeAt relative to the current day.
func (d Date) Age() int {
	return d.AgeAt(DateOf(time.Now()))
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer; dates are stored as DATE columns.
func (d Date) Value() (driver.Value, error) {
	return d.t, nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	case nil:
		*d = Date{}
		return nil
	}
	return errors.Errorf("core.Date.Scan: unsupported type %T", src)
}

func (d *Date) scanString(s string) error {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return errors.Wrap(err, "core.Date.Scan")
	}
	*d = Date{t: t}
	return nil
}
