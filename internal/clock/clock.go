// Package clock supplies the current time to date-dependent logic.
package clock

import (
	"time"

	"github.com/Maverick2506/Fintrack-backend/internal/core"
)

type Clock interface {
	Now() time.Time
}

// System reads the wall clock in a fixed location.
type System struct {
	Location *time.Location
}

func NewSystem(loc *time.Location) System {
	if loc == nil {
		loc = time.Local
	}
	return System{Location: loc}
}

func (s System) Now() time.Time {
	return time.Now().In(s.Location)
}

// Fixed always returns the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}

// FixedDate returns a clock frozen at noon UTC on the given day.
func FixedDate(year, month, day int) Fixed {
	return Fixed(time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC))
}

// Today returns the calendar date of c.Now().
func Today(c Clock) core.Date {
	return core.DateOf(c.Now())
}
