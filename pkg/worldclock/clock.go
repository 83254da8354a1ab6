// Package worldclock converts wall-clock time into the JST-localized
// structure the schedule tables are expressed in.
package worldclock

import (
	"fmt"
	"time"
)

// ResetHour is the in-world daily reset, 05:00 JST.
const ResetHour = 5

// Period is the coarse time-of-day bucket used by schedules and prompts.
type Period string

const (
	PeriodPagi  Period = "pagi"  // 05:00-12:00
	PeriodSiang Period = "siang" // 12:00-17:00
	PeriodSore  Period = "sore"  // 17:00-21:00
	PeriodMalam Period = "malam" // 21:00-05:00
)

// Snapshot is a decomposed JST instant. All schedule and availability
// lookups key off Hour, DayOfWeek and Period.
type Snapshot struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int

	// DayOfWeek is ISO-style: 1=Monday .. 7=Sunday.
	DayOfWeek int
	DayName   string
	Period    Period

	// IsResetMinute is true during the 05:00 reset minute.
	IsResetMinute bool

	// DateString is the calendar date as YYYY-MM-DD.
	DateString string

	// Fallback is set when the IANA zone could not be loaded and the
	// snapshot was built from host-local time. Callers must treat a
	// fallback snapshot as best effort, not authoritative.
	Fallback bool

	// Time is the underlying instant, localized.
	Time time.Time
}

// IsWeekend reports whether the snapshot falls on Saturday or Sunday.
func (s Snapshot) IsWeekend() bool {
	return s.DayOfWeek >= 6
}

// Clock produces snapshots of the current in-world time. Handlers take a
// Clock so tests can inject fixed instants.
type Clock interface {
	Now() Snapshot
}

// JSTClock is the production clock, localized to Asia/Tokyo.
type JSTClock struct {
	loc      *time.Location
	fallback bool
}

// NewJSTClock loads the Asia/Tokyo zone once. If the zone database is
// unavailable the clock degrades to host-local time and marks every
// snapshot as a fallback instead of returning an error.
func NewJSTClock() *JSTClock {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		return &JSTClock{loc: time.Local, fallback: true}
	}
	return &JSTClock{loc: loc}
}

// Now returns the current JST snapshot.
func (c *JSTClock) Now() Snapshot {
	return c.SnapshotAt(time.Now())
}

// SnapshotAt decomposes an arbitrary instant using the clock's zone.
func (c *JSTClock) SnapshotAt(t time.Time) Snapshot {
	snap := SnapshotOf(t.In(c.loc))
	snap.Fallback = c.fallback
	return snap
}

// Location returns the clock's zone, for callers that schedule their own
// timers (e.g. the daily reset cron).
func (c *JSTClock) Location() *time.Location {
	return c.loc
}

var dayNames = [8]string{"", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu", "Minggu"}

// SnapshotOf decomposes an already-localized instant.
func SnapshotOf(t time.Time) Snapshot {
	dow := int(t.Weekday())
	if dow == 0 {
		dow = 7 // Sunday
	}
	return Snapshot{
		Year:          t.Year(),
		Month:         int(t.Month()),
		Day:           t.Day(),
		Hour:          t.Hour(),
		Minute:        t.Minute(),
		Second:        t.Second(),
		DayOfWeek:     dow,
		DayName:       dayNames[dow],
		Period:        PeriodOf(t.Hour()),
		IsResetMinute: t.Hour() == ResetHour && t.Minute() == 0,
		DateString:    fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day()),
		Time:          t,
	}
}

// PeriodOf maps an hour in [0,24) to its period bucket.
func PeriodOf(hour int) Period {
	switch {
	case hour >= 5 && hour < 12:
		return PeriodPagi
	case hour >= 12 && hour < 17:
		return PeriodSiang
	case hour >= 17 && hour < 21:
		return PeriodSore
	default:
		return PeriodMalam
	}
}

// NextReset returns the next 05:00 instant in t's zone, strictly after t.
func NextReset(t time.Time) time.Time {
	reset := time.Date(t.Year(), t.Month(), t.Day(), ResetHour, 0, 0, 0, t.Location())
	if !reset.After(t) {
		reset = reset.Add(24 * time.Hour)
	}
	return reset
}

// LastReset returns the most recent 05:00 boundary at or before t.
func LastReset(t time.Time) time.Time {
	reset := time.Date(t.Year(), t.Month(), t.Day(), ResetHour, 0, 0, 0, t.Location())
	if reset.After(t) {
		reset = reset.Add(-24 * time.Hour)
	}
	return reset
}

// IsNewDay reports whether the calendar date has changed since lastDate
// (a YYYY-MM-DD string). A missing lastDate always counts as a new day.
func IsNewDay(lastDate string, now Snapshot) bool {
	if lastDate == "" {
		return true
	}
	return lastDate != now.DateString
}

// ShouldReset reports whether a daily reset is due: true when lastReset is
// the zero time (never reset), or when it predates the most recent 05:00
// boundary.
func ShouldReset(lastReset time.Time, now time.Time) bool {
	if lastReset.IsZero() {
		return true
	}
	return lastReset.Before(LastReset(now))
}
