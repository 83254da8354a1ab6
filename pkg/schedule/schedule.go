// Package schedule holds the static world timetable: where each band
// member is at any JST hour, what they are doing, and whether they can be
// approached. All ranges are half-open [Start,End) hours; entries that
// cross midnight are split into a trailing range ending at 24 and a
// leading range starting at 0.
package schedule

import (
	"errors"
	"fmt"

	"github.com/kessoku-hq/bocchi-life/pkg/worldclock"
)

var (
	// ErrUnknownCharacter is returned for names outside the fixed cast.
	ErrUnknownCharacter = errors.New("unknown character")

	// ErrNoScheduleEntry is a soft failure: no range contains the current
	// hour. Callers must degrade gracefully, never crash.
	ErrNoScheduleEntry = errors.New("no schedule entry for this hour")
)

// AvailabilityTag is the coarse interaction state for a scheduled entry.
type AvailabilityTag string

const (
	Available   AvailabilityTag = "available"
	Limited     AvailabilityTag = "limited"
	Unavailable AvailabilityTag = "unavailable"
)

// Difficulty grades how delicate an approach is. It colors the narrative
// reason only; it never flips the possible/impossible outcome.
type Difficulty string

const (
	VeryHard Difficulty = "very_hard"
	Hard     Difficulty = "hard"
	Medium   Difficulty = "medium"
	Easy     Difficulty = "easy"
)

// Grading is the optional second variant of the availability sum type:
// a difficulty tier plus a reason string.
type Grading struct {
	Difficulty Difficulty
	Reason     string
}

// Availability is either a bare tag (Graded nil) or a tag with grading.
type Availability struct {
	Tag    AvailabilityTag
	Graded *Grading
}

// Simple builds a plain-tag availability.
func Simple(tag AvailabilityTag) Availability {
	return Availability{Tag: tag}
}

// WithGrading builds a graded availability.
func WithGrading(tag AvailabilityTag, d Difficulty, reason string) Availability {
	return Availability{Tag: tag, Graded: &Grading{Difficulty: d, Reason: reason}}
}

// Entry is one timetable row: a half-open hour range with location,
// activity, mood and availability.
type Entry struct {
	Start        int
	End          int
	Location     string
	Activity     string
	Mood         string
	Availability Availability
}

// Contains reports whether hour falls inside the half-open range.
func (e Entry) Contains(hour int) bool {
	return hour >= e.Start && hour < e.End
}

// Resolved is an entry plus how many whole hours remain in its range.
type Resolved struct {
	Entry
	TimeRemaining int
}

// DayType selects the weekday or weekend timetable.
type DayType string

const (
	Weekday DayType = "weekday"
	Weekend DayType = "weekend"
)

// DayTypeOf maps a snapshot to its timetable.
func DayTypeOf(snap worldclock.Snapshot) DayType {
	if snap.IsWeekend() {
		return Weekend
	}
	return Weekday
}

// Characters returns the fixed cast in display order.
func Characters() []string {
	return []string{"bocchi", "nijika", "ryo", "kita"}
}

// IsCharacter reports whether name is one of the fixed cast.
func IsCharacter(name string) bool {
	_, ok := timetable[name]
	return ok
}

func dayList(name string, day DayType) ([]Entry, error) {
	days, ok := timetable[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCharacter, name)
	}
	return days[day], nil
}

// CurrentActivity resolves the timetable entry containing the snapshot's
// hour. A gap in the timetable yields ErrNoScheduleEntry, not a panic.
func CurrentActivity(name string, snap worldclock.Snapshot) (*Resolved, error) {
	list, err := dayList(name, DayTypeOf(snap))
	if err != nil {
		return nil, err
	}
	for _, e := range list {
		if e.Contains(snap.Hour) {
			return &Resolved{Entry: e, TimeRemaining: e.End - snap.Hour}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s at %02d:00", ErrNoScheduleEntry, name, snap.Hour)
}

// NextActivity returns the first entry starting after the snapshot's hour,
// wrapping to the first entry of the day list when none remains. The wrap
// is an approximation: it does not cross into the other day-type list.
func NextActivity(name string, snap worldclock.Snapshot) (*Entry, error) {
	list, err := dayList(name, DayTypeOf(snap))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoScheduleEntry, name)
	}
	for i := range list {
		if list[i].Start > snap.Hour {
			return &list[i], nil
		}
	}
	return &list[0], nil
}
