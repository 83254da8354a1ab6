package worldclock

import "time"

// FixedClock returns the same snapshot on every call. Used by tests and
// the schedule validation tool to probe specific hours.
type FixedClock struct {
	Snap Snapshot
}

func (c FixedClock) Now() Snapshot {
	return c.Snap
}

// At builds a snapshot for a specific hour and ISO day-of-week without
// consulting a zone database. Minute and second are zero.
func At(hour, dayOfWeek int) Snapshot {
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC) // a Monday
	t := base.AddDate(0, 0, dayOfWeek-1).Add(time.Duration(hour) * time.Hour)
	return SnapshotOf(t)
}
