package calendar

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Layout is the canonical day format used on the wire and in storage.
const Layout = "2006-01-02"

// Forever marks a completion that never expires.
const Forever Day = "4000-12-31"

// Day is a civil calendar day in canonical YYYY-MM-DD form.
// Lexicographic order of the string equals chronological order.
type Day string

// FromTime returns the civil day of t in loc.
func FromTime(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	return Day(t.In(loc).Format(Layout))
}

// Parse validates s and returns it as a Day.
func Parse(s string) (Day, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return "", fmt.Errorf("parse day %q: %w", s, err)
	}
	return Day(t.Format(Layout)), nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Day {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Day) String() string { return string(d) }

// IsZero reports whether d is unset.
func (d Day) IsZero() bool { return d == "" }

// Time returns local midnight of d in loc.
func (d Day) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(Layout, string(d), loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Format renders the civil date with a time layout. It does not depend on
// any location.
func (d Day) Format(layout string) string {
	return d.utc().Format(layout)
}

func (d Day) Before(o Day) bool { return d < o }

func (d Day) After(o Day) bool { return d > o }

// Compare returns -1, 0 or +1.
func (d Day) Compare(o Day) int {
	switch {
	case d < o:
		return -1
	case d > o:
		return 1
	default:
		return 0
	}
}

// AddDays shifts d by n days.
func (d Day) AddDays(n int) Day {
	return fromUTC(d.utc().AddDate(0, 0, n))
}

// AddMonths shifts d by n months, clamping the day of month to the
// length of the target month.
func (d Day) AddMonths(n int) Day {
	t := d.utc()
	year, month, day := t.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	if last := daysInMonth(first.Month(), first.Year()); day > last {
		day = last
	}
	return fromUTC(time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC))
}

// AddYears shifts d by n years; Feb 29 lands on Feb 28 in common years.
func (d Day) AddYears(n int) Day {
	return d.AddMonths(12 * n)
}

// Value stores the day as text.
func (d Day) Value() (driver.Value, error) {
	return string(d), nil
}

// Scan accepts text, bytes or a time value.
func (d *Day) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = ""
	case string:
		*d = Day(normalize(v))
	case []byte:
		*d = Day(normalize(string(v)))
	case time.Time:
		*d = Day(v.Format(Layout))
	default:
		return fmt.Errorf("scan day: unsupported type %T", src)
	}
	return nil
}

// normalize drops any time suffix a driver may append to a date column.
func normalize(s string) string {
	if len(s) > len(Layout) {
		return s[:len(Layout)]
	}
	return s
}

func (d Day) utc() time.Time {
	t, err := time.Parse(Layout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

func fromUTC(t time.Time) Day {
	return Day(t.Format(Layout))
}

func daysInMonth(month time.Month, year int) int {
	// Move to next month, roll back a day.
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, 1, -1).Day()
}
