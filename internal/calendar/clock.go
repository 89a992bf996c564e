package calendar

import "time"

// Clock resolves "today" in the planner's reference timezone.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.Local
	}
	return &Clock{loc: loc, now: time.Now}
}

// FixedClock always reports the given day. Useful for tests and the CLI.
func FixedClock(day Day, loc *time.Location) *Clock {
	c := NewClock(loc)
	at := day.Time(c.loc).Add(12 * time.Hour)
	c.now = func() time.Time { return at }
	return c
}

func (c *Clock) Location() *time.Location { return c.loc }

func (c *Clock) Today() Day { return FromTime(c.now(), c.loc) }

func (c *Clock) Tomorrow() Day { return c.Today().AddDays(1) }
