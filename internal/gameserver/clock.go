package gameserver

import (
	"fmt"
	"time"
)

// TimePeriod is a named phase of the game day.
type TimePeriod string

const (
	PeriodMidnight  TimePeriod = "Midnight"
	PeriodLateNight TimePeriod = "Late Night"
	PeriodDawn      TimePeriod = "Dawn"
	PeriodMorning   TimePeriod = "Morning"
	PeriodAfternoon TimePeriod = "Afternoon"
	PeriodDusk      TimePeriod = "Dusk"
	PeriodEvening   TimePeriod = "Evening"
	PeriodNight     TimePeriod = "Night"
)

// GameHour is a game-clock hour in [0, 23].
type GameHour int32

// Period returns the named time period for this hour.
//
// Precondition: h is in [0, 23].
// Postcondition: Returns one of the eight TimePeriod constants.
func (h GameHour) Period() TimePeriod {
	switch {
	case h == 0:
		return PeriodMidnight
	case h >= 1 && h <= 4:
		return PeriodLateNight
	case h >= 5 && h <= 6:
		return PeriodDawn
	case h >= 7 && h <= 11:
		return PeriodMorning
	case h >= 12 && h <= 16:
		return PeriodAfternoon
	case h >= 17 && h <= 18:
		return PeriodDusk
	case h >= 19 && h <= 21:
		return PeriodEvening
	default: // 22-23
		return PeriodNight
	}
}

// String returns the hour in "HH:00" format.
func (h GameHour) String() string {
	return fmt.Sprintf("%02d:00", int(h))
}

// Clock decides when the loop runs hourly and per-tic updates. It is
// pull-based: the loop asks it on every pass and it is not safe for
// concurrent use.
type Clock struct {
	tic      time.Duration
	hourLen  time.Duration
	nextTic  time.Time
	nextHour time.Time
	hour     GameHour
}

// NewClock creates a clock whose first tic and hour fall one interval
// after now.
//
// Precondition: tic > 0; hour >= tic; startHour in [0, 23].
func NewClock(now time.Time, tic, hour time.Duration, startHour int) *Clock {
	return &Clock{
		tic:      tic,
		hourLen:  hour,
		nextTic:  now.Add(tic),
		nextHour: now.Add(hour),
		hour:     GameHour(startHour % 24),
	}
}

// Due reports which updates are due at now and advances past them. A due
// hour moves the game clock forward by one hour.
//
// Postcondition: Each update fires at most once per call; a backlog longer
// than one interval is skipped rather than replayed.
func (c *Clock) Due(now time.Time) (hour, tic bool) {
	if !now.Before(c.nextHour) {
		hour = true
		c.hour = (c.hour + 1) % 24
		c.nextHour = next(c.nextHour, c.hourLen, now)
	}
	if !now.Before(c.nextTic) {
		tic = true
		c.nextTic = next(c.nextTic, c.tic, now)
	}
	return hour, tic
}

func next(deadline time.Time, interval time.Duration, now time.Time) time.Time {
	deadline = deadline.Add(interval)
	if !deadline.After(now) {
		deadline = now.Add(interval)
	}
	return deadline
}

// Hour returns the current game hour.
func (c *Clock) Hour() GameHour {
	return c.hour
}
