package main

import (
	"strings"
	"testing"
)

// The compiled-in world data must pass its own lint. The timetable
// deliberately contains plain limited entries (band members who are busy
// but not worth a difficulty grade), and those are valid.
func TestShippedWorldDataIsValid(t *testing.T) {
	v := &WorldValidator{}
	v.validateTimetables()
	v.validateLocations()
	v.validatePrompts()

	if len(v.errors) > 0 {
		t.Errorf("shipped world data failed validation:\n%s", strings.Join(v.errors, "\n"))
	}
}

func TestValidatorAccumulatesErrors(t *testing.T) {
	v := &WorldValidator{}
	v.errorf("first %s", "problem")
	v.errorf("second %s", "problem")

	if len(v.errors) != 2 {
		t.Fatalf("error count = %d, want 2", len(v.errors))
	}
	if !strings.HasPrefix(v.errors[0], "  - ") {
		t.Errorf("errors should be indented list items, got %q", v.errors[0])
	}
}
