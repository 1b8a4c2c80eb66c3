package use_cases

import "time"

// Clock stamps dispatch events with their occurrence time.
type Clock interface {
	NowUTC() time.Time
}

// ClockFunc adapts a function to Clock; the result is normalized to UTC.
type ClockFunc func() time.Time

func (f ClockFunc) NowUTC() time.Time {
	return f().UTC()
}

func NewSystemClock() Clock {
	return ClockFunc(time.Now)
}
