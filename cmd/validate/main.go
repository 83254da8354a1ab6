// validate checks the compiled-in world data: character timetables,
// location hours, and the prompt material that references them. Run it
// after editing pkg/schedule data.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/kessoku-hq/bocchi-life/pkg/prompts"
	"github.com/kessoku-hq/bocchi-life/pkg/schedule"
	"github.com/kessoku-hq/bocchi-life/pkg/worldclock"
)

func main() {
	v := &WorldValidator{}
	v.validateTimetables()
	v.validateLocations()
	v.validatePrompts()

	if len(v.errors) > 0 {
		fmt.Fprintf(os.Stderr, "World data validation failed:\n%s\n", strings.Join(v.errors, "\n"))
		os.Exit(1)
	}

	fmt.Println("World data is valid!")
}

type WorldValidator struct {
	errors []string
}

func (v *WorldValidator) errorf(format string, args ...any) {
	v.errors = append(v.errors, "  - "+fmt.Sprintf(format, args...))
}

// validateTimetables checks that every character has exactly one entry
// for every hour of both day types, and that entry ranges are sane.
func (v *WorldValidator) validateTimetables() {
	dayOfWeek := map[schedule.DayType]int{
		schedule.Weekday: 1, // Monday
		schedule.Weekend: 6, // Saturday
	}

	for _, name := range schedule.Characters() {
		for dayType, dow := range dayOfWeek {
			for hour := 0; hour < 24; hour++ {
				snap := worldclock.At(hour, dow)
				res, err := schedule.CurrentActivity(name, snap)
				if err != nil {
					v.errorf("%s has no %s entry covering %02d:00: %v", name, dayType, hour, err)
					continue
				}
				if res.Entry.Start < 0 || res.Entry.End > 24 || res.Entry.Start >= res.Entry.End {
					v.errorf("%s %s entry [%d,%d) is not a normalized range",
						name, dayType, res.Entry.Start, res.Entry.End)
				}
				if res.Entry.Location == "" {
					v.errorf("%s %s entry at %02d:00 has no location", name, dayType, hour)
				} else if _, err := schedule.GetLocation(res.Entry.Location); err != nil {
					v.errorf("%s %s entry at %02d:00 references unknown location %q",
						name, dayType, hour, res.Entry.Location)
				}
				if res.Entry.Availability.Graded != nil && res.Entry.Availability.Graded.Reason == "" {
					v.errorf("%s %s entry at %02d:00 is graded without a reason", name, dayType, hour)
				}
			}
		}
	}
}

func (v *WorldValidator) validateLocations() {
	for _, key := range schedule.LocationKeys() {
		loc, err := schedule.GetLocation(key)
		if err != nil {
			v.errorf("location key %q does not resolve", key)
			continue
		}
		if loc.OpenHour < 0 || loc.CloseHour > 24 || loc.OpenHour >= loc.CloseHour {
			v.errorf("location %q hours [%d,%d) are not a normalized range",
				key, loc.OpenHour, loc.CloseHour)
		}
		if loc.DisplayName == "" || loc.Description == "" {
			v.errorf("location %q is missing display name or description", key)
		}
		for _, w := range loc.Atmosphere {
			if w.Start < loc.OpenHour || w.End > loc.CloseHour || w.Start >= w.End {
				v.errorf("location %q atmosphere window [%d,%d) falls outside opening hours",
					key, w.Start, w.End)
			}
		}
	}
}

// validatePrompts checks that every roster character has the prompt
// material the assemblers depend on.
func (v *WorldValidator) validatePrompts() {
	for _, name := range schedule.Characters() {
		if prompts.Personality(name) == "" {
			v.errorf("character %q has no personality sheet", name)
		}
	}
}
