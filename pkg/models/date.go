package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// CivilDate is a calendar date with no time-of-day and no timezone offset.
// All due-date and streak arithmetic runs on civil dates so that a review at
// 23:59 and one at 00:01 land on the days a learner would expect.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the civil date of t in t's location.
func DateOf(t time.Time) CivilDate {
	y, m, d := t.Date()
	return CivilDate{Year: y, Month: m, Day: d}
}

// Today returns the current civil date in the local timezone. Handlers
// resolve it once per request and thread it through.
func Today() CivilDate {
	return DateOf(time.Now())
}

// AddDays returns the date n days later (or earlier for negative n),
// normalized across month and year boundaries.
func (d CivilDate) AddDays(n int) CivilDate {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

// Before reports whether d is strictly earlier than other.
func (d CivilDate) Before(other CivilDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// After reports whether d is strictly later than other.
func (d CivilDate) After(other CivilDate) bool {
	return other.Before(d)
}

func (d CivilDate) Equal(other CivilDate) bool {
	return d.Year == other.Year && d.Month == other.Month && d.Day == other.Day
}

// Time returns midnight UTC of the date, the representation stored in
// PostgreSQL date columns.
func (d CivilDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d CivilDate) String() string {
	return d.Time().Format("2006-01-02")
}

// ParseCivilDate parses a YYYY-MM-DD string.
func ParseCivilDate(s string) (CivilDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return CivilDate{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d CivilDate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string.
func (d *CivilDate) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("invalid date %s", string(b))
	}
	parsed, err := ParseCivilDate(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements sql.Scanner; date columns arrive as time.Time from the
// pgx stdlib driver.
func (d *CivilDate) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		parsed, err := ParseCivilDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into CivilDate", src)
	}
}

// Value implements driver.Valuer.
func (d CivilDate) Value() (driver.Value, error) {
	return d.Time(), nil
}
