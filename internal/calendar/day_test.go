package calendar

import (
	"testing"
	"time"
)

func TestFromTimeIgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)

	morning := time.Date(2024, 3, 5, 0, 1, 0, 0, loc)
	evening := time.Date(2024, 3, 5, 23, 59, 0, 0, loc)

	if FromTime(morning, loc) != FromTime(evening, loc) {
		t.Fatalf("expected same day, got %s and %s", FromTime(morning, loc), FromTime(evening, loc))
	}
	if got := FromTime(evening, loc); got != "2024-03-05" {
		t.Fatalf("expected 2024-03-05, got %s", got)
	}
	// 01:00 on the 6th at UTC+3 is still the 5th in UTC.
	if got := FromTime(time.Date(2024, 3, 6, 1, 0, 0, 0, loc), time.UTC); got != "2024-03-05" {
		t.Fatalf("expected UTC day 2024-03-05, got %s", got)
	}
}

func TestTimeRoundTrip(t *testing.T) {
	loc := time.FixedZone("test", -5*60*60)
	d := MustParse("2024-11-03")

	tm := d.Time(loc)
	if tm.Hour() != 0 || tm.Minute() != 0 {
		t.Fatalf("expected local midnight, got %v", tm)
	}
	if FromTime(tm, loc) != d {
		t.Fatalf("round trip changed day: %s", FromTime(tm, loc))
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "2024-1-01", "2024-02-30", "01.02.2024", "tomorrow"} {
		if _, err := Parse(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestOrderingIsChronological(t *testing.T) {
	a, b := MustParse("2023-12-31"), MustParse("2024-01-01")
	if !a.Before(b) || !b.After(a) {
		t.Fatalf("expected %s before %s", a, b)
	}
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Fatalf("unexpected compare results")
	}
	if !b.Before(Forever) {
		t.Fatalf("expected sentinel after regular days")
	}
}

func TestArithmetic(t *testing.T) {
	cases := []struct {
		name string
		got  Day
		want Day
	}{
		{"add days across year", MustParse("2023-12-30").AddDays(3), "2024-01-02"},
		{"leap day", MustParse("2024-02-28").AddDays(1), "2024-02-29"},
		{"month clamps to leap feb", MustParse("2024-01-31").AddMonths(1), "2024-02-29"},
		{"month clamps to common feb", MustParse("2023-01-31").AddMonths(1), "2023-02-28"},
		{"month clamps to 30 days", MustParse("2024-03-31").AddMonths(1), "2024-04-30"},
		{"two months keep day 31", MustParse("2024-01-31").AddMonths(2), "2024-03-31"},
		{"month across year", MustParse("2024-11-15").AddMonths(3), "2025-02-15"},
		{"year from leap day", MustParse("2024-02-29").AddYears(1), "2025-02-28"},
		{"four years from leap day", MustParse("2024-02-29").AddYears(4), "2028-02-29"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, tc.got)
		}
	}
}

func TestScan(t *testing.T) {
	var d Day
	if err := d.Scan([]byte("2024-05-06")); err != nil || d != "2024-05-06" {
		t.Fatalf("scan bytes: %v %s", err, d)
	}
	if err := d.Scan("2024-05-07T00:00:00Z"); err != nil || d != "2024-05-07" {
		t.Fatalf("scan string with time: %v %s", err, d)
	}
	if err := d.Scan(time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC)); err != nil || d != "2024-05-08" {
		t.Fatalf("scan time: %v %s", err, d)
	}
	if err := d.Scan(42); err == nil {
		t.Fatalf("expected error for int")
	}
}

func TestFixedClock(t *testing.T) {
	loc := time.FixedZone("test", 10*60*60)
	c := FixedClock("2024-12-31", loc)
	if c.Today() != "2024-12-31" || c.Tomorrow() != "2025-01-01" {
		t.Fatalf("unexpected clock days %s %s", c.Today(), c.Tomorrow())
	}
}

func TestFormatIgnoresLocation(t *testing.T) {
	d := Day("2024-08-10")
	if got := d.Format("02.01.2006"); got != "10.08.2024" {
		t.Fatalf("got %q", got)
	}
	for _, loc := range []*time.Location{time.FixedZone("east", 14*3600), time.FixedZone("west", -12*3600)} {
		if got := d.Time(loc).Format("02.01.2006"); got != d.Format("02.01.2006") {
			t.Fatalf("%s: local midnight formats as %q", loc, got)
		}
	}
	if got := Day("bogus").Format(Layout); got != "0001-01-01" {
		t.Fatalf("malformed day formatted as %q", got)
	}
}
