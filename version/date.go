package version

import (
	"strings"
	"time"

	"github.com/susu753/apexub/errors"
)

// ISODate is the canonical date layout.
const ISODate = "2006-01-02"

// Accepted input spellings, tried in order. US month/day order matches
// the dates found in legacy offset headers.
var dateLayouts = []string{
	ISODate,
	"1/2/2006",
	"01/02/2006",
	"2006/1/2",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
}

// Date is a calendar day normalized to UTC midnight.
// The zero Date means "no date recorded".
type Date struct {
	t time.Time
}

// ParseDate normalizes a free-text date.
// An empty string yields the zero Date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{t: t.UTC()}, nil
		}
	}
	return Date{}, errors.New(errors.PhaseParse, errors.KindInvalidData).
		Value(s).
		Detail("date %q: expected YYYY-MM-DD or M/D/YYYY", s).
		Build()
}

// MustParseDate is like ParseDate but panics on error.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// NewDate returns the Date for the given day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) IsZero() bool { return d.t.IsZero() }

// String returns the ISO form, or "" for the zero Date.
func (d Date) String() string {
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(ISODate)
}

// Compare orders dates; the zero Date sorts first.
func (d Date) Compare(o Date) int {
	return d.t.Compare(o.t)
}

func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

func (d Date) After(o Date) bool { return d.t.After(o.t) }

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	p, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = p
	return nil
}
