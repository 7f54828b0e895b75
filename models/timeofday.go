package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SlotGranularity is the step between selectable times in the editor.
const SlotGranularity = 30 * time.Minute

const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time stored as minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay accepts "H:MM" or "HH:MM" in 24-hour form.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) < 1 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return TimeOfDay(h*60 + m), nil
}

// Hour returns the 0-23 hour component.
func (t TimeOfDay) Hour() int { return int(t) / 60 }

// Minute returns the 0-59 minute component.
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// String renders the canonical 24-hour "HH:MM" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Format12h renders "H:MM AM" / "H:MM PM"; midnight is 12:00 AM and noon 12:00 PM.
func (t TimeOfDay) Format12h() string {
	suffix := "AM"
	h := t.Hour()
	if h >= 12 {
		suffix = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, t.Minute(), suffix)
}

// DaySlots lists every time of day from 00:00 in steps of granularity.
func DaySlots(granularity time.Duration) []TimeOfDay {
	step := int(granularity / time.Minute)
	if step <= 0 {
		step = int(SlotGranularity / time.Minute)
	}
	slots := make([]TimeOfDay, 0, minutesPerDay/step)
	for m := 0; m < minutesPerDay; m += step {
		slots = append(slots, TimeOfDay(m))
	}
	return slots
}

// Weekdays is the display order offered by the editor.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// CanonicalDayName title-cases known weekday names and trims anything else.
func CanonicalDayName(name string) string {
	name = strings.TrimSpace(name)
	for _, d := range Weekdays {
		if strings.EqualFold(d, name) {
			return d
		}
	}
	return name
}
