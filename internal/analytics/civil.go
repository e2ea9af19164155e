// Package analytics implements the pure habit analytics engine: streaks,
// completion rates, calendar series, rankings and export shaping computed
// from in-memory snapshots of habits and completion events.
//
// Every function is a total function of its inputs plus an explicit
// reference date; nothing here touches storage, the network, or a clock.
// Inputs are never mutated, and malformed data (events with missing or
// unparsable days, events for unknown habits, duplicate events for the same
// day) is tolerated rather than rejected.
package analytics

import "time"

const dayLayout = "2006-01-02"

// Date is a calendar day with no time-of-day or location attached. The
// single agreed notion of "day" for the whole engine: callers convert a
// wall-clock instant with DateOf using their configured location, and all
// arithmetic from there on is plain civil-date arithmetic.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day that t falls on in loc. A nil loc means
// UTC.
func DateOf(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a "2006-01-02" day string. ok is false for empty or
// malformed input.
func ParseDate(s string) (Date, bool) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Date{}, false
	}
	return DateOf(t, time.UTC), true
}

// String formats the date as "2006-01-02".
func (d Date) String() string {
	return d.time().Format(dayLayout)
}

// MarshalJSON encodes the date as a "2006-01-02" JSON string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a "2006-01-02" JSON string.
func (d *Date) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"`+dayLayout+`"`, string(b))
	if err != nil {
		return err
	}
	*d = DateOf(t, time.UTC)
	return nil
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// AddDays returns the date n days after d (n may be negative). Month and
// year boundaries are normalized.
func (d Date) AddDays(n int) Date {
	return DateOf(d.time().AddDate(0, 0, n), time.UTC)
}

// DaysSince returns the number of calendar days from o to d; positive when
// d is after o.
func (d Date) DaysSince(o Date) int {
	return int(d.time().Sub(o.time()) / (24 * time.Hour))
}

// Before reports whether d is earlier than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// After reports whether d is later than o.
func (d Date) After(o Date) bool {
	return o.Before(d)
}

// Weekday returns the day of the week d falls on.
func (d Date) Weekday() time.Weekday {
	return d.time().Weekday()
}

func (d Date) time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}
