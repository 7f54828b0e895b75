// File: services/timetable/validate.go

// Package timetable owns the weekly clinic time table: the write-time filter,
// the read-through cache and the service the HTTP handlers call.
//
// Writes are normalized, not stored verbatim. Fields are trimmed, known weekday
// names are title-cased and duplicate days are merged into the first one. The
// from and to values must be 24-hour "H:MM" or "HH:MM" and are stored as
// "HH:MM", so "9:00" reads back as "09:00" and a timing with "9am" is dropped
// with an invalid_time warning. A schedule that is already normalized round
// trips unchanged.
package timetable

import (
	"strings"

	"clinicsite/models"
)

// candidateDay is one submitted day before filtering. index is its position in
// the request so warnings point back at what the caller sent.
type candidateDay struct {
	index     int
	malformed bool
	timingsOK bool
	day       models.DaySchedule
}

// Normalize turns the decoded "schedule" value of a write request into typed
// days and filters them. Anything that is not an array is ErrInvalidFormat.
// Already typed days, as sent by the seed CLI, go straight to FilterDays.
func Normalize(raw any) ([]models.DaySchedule, []models.TimetableWarning, error) {
	if days, ok := raw.([]models.DaySchedule); ok {
		return FilterDays(days)
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, nil, models.ErrInvalidFormat
	}

	candidates := make([]candidateDay, len(items))
	for i, item := range items {
		candidates[i] = candidateDay{index: i}
		obj, ok := item.(map[string]any)
		if !ok {
			candidates[i].malformed = true
			continue
		}
		candidates[i].day.Day = stringField(obj, "day")
		rawTimings, ok := obj["timings"].([]any)
		if !ok {
			continue
		}
		candidates[i].timingsOK = true
		candidates[i].day.Timings = make([]models.Timing, len(rawTimings))
		for j, rt := range rawTimings {
			tm, _ := rt.(map[string]any)
			candidates[i].day.Timings[j] = models.Timing{
				From:      stringField(tm, "from"),
				To:        stringField(tm, "to"),
				Doctor:    stringField(tm, "doctor"),
				Specialty: stringField(tm, "specialty"),
			}
		}
	}
	return filter(candidates)
}

// FilterDays applies the write-time rules to already typed days. It is a
// projection: FilterDays(FilterDays(x)) yields FilterDays(x).
func FilterDays(days []models.DaySchedule) ([]models.DaySchedule, []models.TimetableWarning, error) {
	candidates := make([]candidateDay, len(days))
	for i, day := range days {
		candidates[i] = candidateDay{index: i, timingsOK: day.Timings != nil, day: day}
	}
	return filter(candidates)
}

func filter(candidates []candidateDay) ([]models.DaySchedule, []models.TimetableWarning, error) {
	warnings := []models.TimetableWarning{}
	out := []models.DaySchedule{}
	seen := make(map[string]int)

	dayWarning := func(c candidateDay, name, reason string) {
		warnings = append(warnings, models.TimetableWarning{
			DayIndex: c.index, TimingIndex: -1, Day: name, Reason: reason,
		})
	}

	for _, c := range candidates {
		if c.malformed {
			dayWarning(c, "", models.ReasonMalformedDay)
			continue
		}
		name := models.CanonicalDayName(c.day.Day)
		if name == "" {
			dayWarning(c, "", models.ReasonMissingDayName)
			continue
		}
		if !c.timingsOK {
			dayWarning(c, name, models.ReasonMissingTimings)
			continue
		}

		valid := make([]models.Timing, 0, len(c.day.Timings))
		for j, tm := range c.day.Timings {
			clean, reason := validateTiming(tm)
			if reason != "" {
				warnings = append(warnings, models.TimetableWarning{
					DayIndex: c.index, TimingIndex: j, Day: name, Reason: reason,
				})
				continue
			}
			valid = append(valid, clean)
		}
		if len(valid) == 0 {
			dayWarning(c, name, models.ReasonNoValidTimings)
			continue
		}

		if pos, dup := seen[name]; dup {
			out[pos].Timings = append(out[pos].Timings, valid...)
			dayWarning(c, name, models.ReasonDuplicateDay)
			continue
		}
		seen[name] = len(out)
		out = append(out, models.DaySchedule{Day: name, Timings: valid})
	}

	if len(out) == 0 {
		return nil, warnings, models.ErrNoValidEntries
	}
	return out, warnings, nil
}

// validateTiming returns the canonical timing or the reason it was rejected.
func validateTiming(tm models.Timing) (models.Timing, string) {
	clean := models.Timing{
		From:      strings.TrimSpace(tm.From),
		To:        strings.TrimSpace(tm.To),
		Doctor:    strings.TrimSpace(tm.Doctor),
		Specialty: strings.TrimSpace(tm.Specialty),
	}
	if clean.From == "" || clean.To == "" || clean.Doctor == "" || clean.Specialty == "" {
		return models.Timing{}, models.ReasonIncompleteTiming
	}
	from, err := models.ParseTimeOfDay(clean.From)
	if err != nil {
		return models.Timing{}, models.ReasonInvalidTime
	}
	to, err := models.ParseTimeOfDay(clean.To)
	if err != nil {
		return models.Timing{}, models.ReasonInvalidTime
	}
	clean.From = from.String()
	clean.To = to.String()
	return clean, ""
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}
