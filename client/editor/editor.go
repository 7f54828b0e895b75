// Package editor holds the admin-side editable copy of the weekly time table.
// All edits are local until Save sends the whole schedule back.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"clinicsite/client"
	"clinicsite/models"
)

type State int

const (
	Loading State = iota
	Ready
	Saving
	SaveFailed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Saving:
		return "saving"
	case SaveFailed:
		return "save_failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Field names one editable attribute of a Timing.
type Field string

const (
	FieldFrom      Field = "from"
	FieldTo        Field = "to"
	FieldDoctor    Field = "doctor"
	FieldSpecialty Field = "specialty"
)

var (
	ErrBusy         = errors.New("editor is loading or saving")
	ErrOutOfRange   = errors.New("day or timing index out of range")
	ErrUnknownField = errors.New("unknown timing field")
)

type Editor struct {
	api client.TimetableAPI

	mu      sync.Mutex
	state   State
	days    []models.DaySchedule
	version *int64
	lastErr error
}

// New returns an editor in the Loading state; call Load before editing.
func New(api client.TimetableAPI) *Editor {
	return &Editor{api: api, state: Loading}
}

func placeholder() []models.DaySchedule {
	return []models.DaySchedule{{Day: models.Weekdays[0], Timings: []models.Timing{{}}}}
}

// Load seeds the local copy from the server. When nothing was ever stored the
// editor starts with one Monday row so the form is never empty. Other errors
// leave the editor in Loading. Load is refused while a Save is in flight so
// an older fetch cannot replace the saved echo.
func (e *Editor) Load(ctx context.Context) error {
	e.mu.Lock()
	if e.state == Saving {
		e.mu.Unlock()
		return ErrBusy
	}
	e.state = Loading
	e.mu.Unlock()

	res, err := e.api.FetchTimetable(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case errors.Is(err, models.ErrTimetableNotFound):
		none := int64(0)
		e.days = placeholder()
		e.version = &none
	case err != nil:
		e.lastErr = err
		return err
	default:
		e.days = cloneDays(res.Schedule)
		if len(e.days) == 0 {
			e.days = placeholder()
		}
		v := res.Version
		e.version = &v
	}
	e.lastErr = nil
	e.state = Ready
	return nil
}

func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Err is the error of the last failed load or save.
func (e *Editor) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Days returns a copy of the local schedule.
func (e *Editor) Days() []models.DaySchedule {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneDays(e.days)
}

// AddDay appends a day with no name and one blank timing.
func (e *Editor) AddDay() error {
	return e.mutate(func() error {
		e.days = append(e.days, models.DaySchedule{Timings: []models.Timing{{}}})
		return nil
	})
}

func (e *Editor) AddTiming(day int) error {
	return e.mutate(func() error {
		if day < 0 || day >= len(e.days) {
			return ErrOutOfRange
		}
		e.days[day].Timings = append(e.days[day].Timings, models.Timing{})
		return nil
	})
}

func (e *Editor) SetDayName(day int, name string) error {
	return e.mutate(func() error {
		if day < 0 || day >= len(e.days) {
			return ErrOutOfRange
		}
		e.days[day].Day = name
		return nil
	})
}

// SetField updates one field of one timing. No validation happens until Save.
func (e *Editor) SetField(day, timing int, field Field, value string) error {
	return e.mutate(func() error {
		if day < 0 || day >= len(e.days) || timing < 0 || timing >= len(e.days[day].Timings) {
			return ErrOutOfRange
		}
		tm := &e.days[day].Timings[timing]
		switch field {
		case FieldFrom:
			tm.From = value
		case FieldTo:
			tm.To = value
		case FieldDoctor:
			tm.Doctor = value
		case FieldSpecialty:
			tm.Specialty = value
		default:
			return ErrUnknownField
		}
		return nil
	})
}

func (e *Editor) DeleteDay(day int) error {
	return e.mutate(func() error {
		if day < 0 || day >= len(e.days) {
			return ErrOutOfRange
		}
		e.days = append(e.days[:day], e.days[day+1:]...)
		return nil
	})
}

func (e *Editor) DeleteTiming(day, timing int) error {
	return e.mutate(func() error {
		if day < 0 || day >= len(e.days) || timing < 0 || timing >= len(e.days[day].Timings) {
			return ErrOutOfRange
		}
		t := e.days[day].Timings
		e.days[day].Timings = append(t[:timing], t[timing+1:]...)
		return nil
	})
}

// Save sends the full local schedule, conditional on the version last loaded.
// On success the local copy becomes what the server persisted. On failure the
// local edits are kept so the admin can retry.
func (e *Editor) Save(ctx context.Context) (*models.ReplaceTimetableResponse, error) {
	e.mu.Lock()
	if e.state != Ready && e.state != SaveFailed {
		e.mu.Unlock()
		return nil, ErrBusy
	}
	e.state = Saving
	snapshot := cloneDays(e.days)
	version := e.version
	e.mu.Unlock()

	res, err := e.api.ReplaceTimetable(ctx, snapshot, version)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state = SaveFailed
		e.lastErr = err
		return nil, err
	}
	e.days = cloneDays(res.Schedule)
	v := res.Version
	e.version = &v
	e.state = Ready
	e.lastErr = nil
	return res, nil
}

// Version is the server version the next Save will be conditional on.
func (e *Editor) Version() (int64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.version == nil {
		return 0, false
	}
	return *e.version, true
}

func (e *Editor) mutate(fn func() error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Ready && e.state != SaveFailed {
		return ErrBusy
	}
	if err := fn(); err != nil {
		return err
	}
	e.state = Ready
	return nil
}

// TimeOptions lists the selectable from/to values.
func TimeOptions() []string {
	slots := models.DaySlots(models.SlotGranularity)
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.String()
	}
	return out
}

// DayOptions lists the selectable day names.
func DayOptions() []string {
	return append([]string(nil), models.Weekdays...)
}

func cloneDays(days []models.DaySchedule) []models.DaySchedule {
	out := make([]models.DaySchedule, len(days))
	for i, d := range days {
		out[i] = models.DaySchedule{Day: d.Day, Timings: append([]models.Timing{}, d.Timings...)}
	}
	return out
}
