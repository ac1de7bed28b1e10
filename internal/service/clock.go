package service

import "time"

type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

var SystemClock Clock = ClockFunc(time.Now)

// stamp returns the clock reading in UTC at the precision the database keeps.
func stamp(clock Clock) time.Time {
	return clock.Now().UTC().Truncate(time.Microsecond)
}

// stampAfter is stamp clamped to floor, so last-modified never precedes creation.
func stampAfter(clock Clock, floor time.Time) time.Time {
	now := stamp(clock)
	if now.Before(floor) {
		return floor
	}
	return now
}
