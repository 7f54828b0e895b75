// Package viewer is the read-only public view of the time table: a day
// selector plus a doctor/specialty search box.
package viewer

import (
	"context"
	"errors"
	"strings"
	"sync"

	"clinicsite/client"
	"clinicsite/models"
)

// NotSet is shown in place of a missing or unreadable time.
const NotSet = "Not set"

type Viewer struct {
	api client.TimetableAPI

	mu       sync.RWMutex
	days     []models.DaySchedule
	selected string
	search   string
}

func New(api client.TimetableAPI) *Viewer {
	return &Viewer{api: api}
}

// Load fetches the schedule and selects its first day. An empty server gives
// an empty view, not an error.
func (v *Viewer) Load(ctx context.Context) error {
	res, err := v.api.FetchTimetable(ctx)
	if err != nil && !errors.Is(err, models.ErrTimetableNotFound) {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.days = nil
	v.selected = ""
	if res != nil {
		v.days = res.Schedule
	}
	if len(v.days) > 0 {
		v.selected = v.days[0].Day
	}
	return nil
}

// Days is the full loaded schedule, for rendering the day selector.
func (v *Viewer) Days() []models.DaySchedule {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]models.DaySchedule, len(v.days))
	for i, d := range v.days {
		out[i] = models.DaySchedule{Day: d.Day, Timings: append([]models.Timing{}, d.Timings...)}
	}
	return out
}

func (v *Viewer) Selected() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.selected
}

// SelectDay narrows the view to the named day. Unknown names are kept as-is
// and simply match nothing.
func (v *Viewer) SelectDay(day string) {
	v.mu.Lock()
	v.selected = day
	v.mu.Unlock()
}

// ClearSelection shows every day again.
func (v *Viewer) ClearSelection() {
	v.mu.Lock()
	v.selected = ""
	v.mu.Unlock()
}

func (v *Viewer) SetSearch(term string) {
	v.mu.Lock()
	v.search = term
	v.mu.Unlock()
}

// VisibleDays applies the day selection first and the search second.
func (v *Viewer) VisibleDays() []models.DaySchedule {
	v.mu.RLock()
	defer v.mu.RUnlock()

	days := v.days
	if v.selected != "" {
		days = nil
		for _, d := range v.days {
			if d.Day == v.selected {
				days = append(days, d)
			}
		}
	}
	return FilterBySearch(days, v.search)
}

// FilterBySearch keeps whole days that have at least one timing whose doctor
// or specialty contains term, ignoring case. A blank term keeps everything.
func FilterBySearch(days []models.DaySchedule, term string) []models.DaySchedule {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return append([]models.DaySchedule{}, days...)
	}
	out := []models.DaySchedule{}
	for _, d := range days {
		for _, tm := range d.Timings {
			if strings.Contains(strings.ToLower(tm.Doctor), term) ||
				strings.Contains(strings.ToLower(tm.Specialty), term) {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

// FormatTime renders a stored "HH:MM" as "h:MM AM/PM".
func FormatTime(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotSet
	}
	t, err := models.ParseTimeOfDay(s)
	if err != nil {
		return NotSet
	}
	return t.Format12h()
}

// FormatTimeRange renders "1:30 PM - 2:00 PM".
func FormatTimeRange(from, to string) string {
	return FormatTime(from) + " - " + FormatTime(to)
}
