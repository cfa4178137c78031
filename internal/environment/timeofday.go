// Package environment tracks lighting-relevant world state such as the
// time of day driving the daylight cycle.
package environment

import (
	"fmt"
	"math"
)

const secondsPerDay = 24 * 3600

// TimeOfDay is a wall clock position within a day. Components are
// clamped to their valid range, never wrapped.
type TimeOfDay struct {
	hour    uint8
	min     uint8
	sec     uint8
	caption string
}

// NewTimeOfDay builds a clock position from components. Out of range
// components are clamped.
func NewTimeOfDay(hours, minutes, seconds uint8) TimeOfDay {
	t := TimeOfDay{
		hour: min(hours, 23),
		min:  min(minutes, 59),
		sec:  min(seconds, 59),
	}
	t.caption = formatCaption(t.hour, t.min)
	return t
}

// ParseTimeOfDay parses a "HH:MM" caption.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var hours, minutes uint8
	if _, err := fmt.Sscanf(s, "%d:%d", &hours, &minutes); err != nil {
		return TimeOfDay{}, fmt.Errorf("failed to parse time of day %q: expected HH:MM", s)
	}
	if hours > 23 || minutes > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q out of range", s)
	}
	return NewTimeOfDay(hours, minutes, 0), nil
}

// Update sets the clock from a normalized day fraction. Values outside
// [0, 1) wrap around, negatives clamp to midnight.
func (t *TimeOfDay) Update(linear float32) {
	secs := float64(max(linear, 0))
	secs = math.Mod(secs, 1.0) * secondsPerDay

	hour := uint8(min(math.Floor(secs/3600), 23))
	minute := uint8(math.Floor(math.Mod(secs/60, 60)))
	sec := uint8(math.Floor(math.Mod(secs, 60)))

	if t.hour != hour || t.min != minute || t.sec != sec {
		t.hour = hour
		t.min = minute
		t.sec = sec
		t.caption = formatCaption(hour, minute)
	}
}

// Normalized returns the day fraction in [0, 1).
func (t *TimeOfDay) Normalized() float32 {
	return float32(uint32(t.hour)*3600+uint32(t.min)*60+uint32(t.sec)) / secondsPerDay
}

// Radians maps the day fraction onto a full circle, for sun plane
// rotation.
func (t *TimeOfDay) Radians() float32 {
	return t.Normalized() * 2 * math.Pi
}

// Caption returns the "HH:MM" display string.
func (t TimeOfDay) Caption() string {
	return t.caption
}

func formatCaption(hour, minute uint8) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// Angle is a whole-degree angle used by the sun plane settings.
type Angle uint16

// Radians converts the angle from degrees.
func (a Angle) Radians() float32 {
	return float32(a) / 360.0 * 2 * math.Pi
}
