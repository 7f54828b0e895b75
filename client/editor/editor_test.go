package editor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicsite/models"
)

type fakeAPI struct {
	mu       sync.Mutex
	current  *models.TimetableResponse
	fetchErr error
	saveErr  error
	saved    [][]models.DaySchedule
	versions []*int64

	// block, when set, holds ReplaceTimetable until closed.
	block chan struct{}
}

func (f *fakeAPI) FetchTimetable(context.Context) (*models.TimetableResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if f.current == nil {
		return nil, models.ErrTimetableNotFound
	}
	return f.current, nil
}

func (f *fakeAPI) ReplaceTimetable(_ context.Context, schedule []models.DaySchedule, v *int64) (*models.ReplaceTimetableResponse, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, schedule)
	f.versions = append(f.versions, v)
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	next := int64(1)
	if f.current != nil {
		next = f.current.Version + 1
	}
	// Mimic the server dropping incomplete timings.
	var kept []models.DaySchedule
	for _, d := range schedule {
		var ts []models.Timing
		for _, tm := range d.Timings {
			if tm.From != "" && tm.To != "" && tm.Doctor != "" && tm.Specialty != "" {
				ts = append(ts, tm)
			}
		}
		if d.Day != "" && len(ts) > 0 {
			kept = append(kept, models.DaySchedule{Day: d.Day, Timings: ts})
		}
	}
	f.current = &models.TimetableResponse{Schedule: kept, Version: next}
	return &models.ReplaceTimetableResponse{Message: "Time table saved successfully", Schedule: kept, Version: next}, nil
}

func loaded(t *testing.T, api *fakeAPI) *Editor {
	t.Helper()
	e := New(api)
	require.NoError(t, e.Load(context.Background()))
	require.Equal(t, Ready, e.State())
	return e
}

func TestLoad_EmptyServerSeedsPlaceholder(t *testing.T) {
	e := loaded(t, &fakeAPI{})

	assert.Equal(t, []models.DaySchedule{{Day: "Monday", Timings: []models.Timing{{}}}}, e.Days())
	v, ok := e.Version()
	assert.True(t, ok)
	assert.Equal(t, int64(0), v)
}

func TestLoad_FetchErrorStaysLoading(t *testing.T) {
	e := New(&fakeAPI{fetchErr: models.ErrStoreUnavailable})

	err := e.Load(context.Background())
	require.ErrorIs(t, err, models.ErrStoreUnavailable)
	assert.Equal(t, Loading, e.State())
	assert.ErrorIs(t, e.AddDay(), ErrBusy)
	_, err = e.Save(context.Background())
	assert.ErrorIs(t, err, ErrBusy)
}

func TestMutations(t *testing.T) {
	api := &fakeAPI{current: &models.TimetableResponse{
		Schedule: []models.DaySchedule{{Day: "Monday", Timings: []models.Timing{
			{From: "09:00", To: "10:00", Doctor: "Dr. A", Specialty: "ENT"},
		}}},
		Version: 4,
	}}
	e := loaded(t, api)

	require.NoError(t, e.AddDay())
	require.NoError(t, e.SetDayName(1, "Tuesday"))
	require.NoError(t, e.SetField(1, 0, FieldFrom, "13:00"))
	require.NoError(t, e.SetField(1, 0, FieldTo, "14:30"))
	require.NoError(t, e.SetField(1, 0, FieldDoctor, "Dr. B"))
	require.NoError(t, e.SetField(1, 0, FieldSpecialty, "Cardiology"))
	require.NoError(t, e.AddTiming(0))
	require.NoError(t, e.SetField(0, 1, FieldDoctor, "Dr. C"))
	require.NoError(t, e.DeleteTiming(0, 0))

	assert.Equal(t, []models.DaySchedule{
		{Day: "Monday", Timings: []models.Timing{{Doctor: "Dr. C"}}},
		{Day: "Tuesday", Timings: []models.Timing{{From: "13:00", To: "14:30", Doctor: "Dr. B", Specialty: "Cardiology"}}},
	}, e.Days())

	require.NoError(t, e.DeleteDay(0))
	assert.Len(t, e.Days(), 1)
	assert.Equal(t, "Tuesday", e.Days()[0].Day)
}

func TestMutations_IndexErrors(t *testing.T) {
	e := loaded(t, &fakeAPI{})

	assert.ErrorIs(t, e.AddTiming(3), ErrOutOfRange)
	assert.ErrorIs(t, e.SetDayName(-1, "x"), ErrOutOfRange)
	assert.ErrorIs(t, e.SetField(0, 1, FieldDoctor, "x"), ErrOutOfRange)
	assert.ErrorIs(t, e.SetField(0, 0, Field("room"), "x"), ErrUnknownField)
	assert.ErrorIs(t, e.DeleteDay(1), ErrOutOfRange)
	assert.ErrorIs(t, e.DeleteTiming(0, 2), ErrOutOfRange)
}

func TestDays_ReturnsCopy(t *testing.T) {
	e := loaded(t, &fakeAPI{})

	days := e.Days()
	days[0].Day = "Sunday"
	days[0].Timings[0].Doctor = "Dr. X"
	assert.Equal(t, "Monday", e.Days()[0].Day)
	assert.Empty(t, e.Days()[0].Timings[0].Doctor)
}

func TestSave_ReplacesLocalCopyWithServerEcho(t *testing.T) {
	api := &fakeAPI{}
	e := loaded(t, api)
	require.NoError(t, e.SetField(0, 0, FieldFrom, "09:00"))
	require.NoError(t, e.SetField(0, 0, FieldTo, "10:00"))
	require.NoError(t, e.SetField(0, 0, FieldDoctor, "Dr. A"))
	require.NoError(t, e.SetField(0, 0, FieldSpecialty, "ENT"))
	require.NoError(t, e.AddTiming(0))

	res, err := e.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Version)
	assert.Equal(t, Ready, e.State())

	// The blank timing was dropped by the server and the editor follows it.
	assert.Equal(t, []models.DaySchedule{{Day: "Monday", Timings: []models.Timing{
		{From: "09:00", To: "10:00", Doctor: "Dr. A", Specialty: "ENT"},
	}}}, e.Days())
	v, _ := e.Version()
	assert.Equal(t, int64(1), v)

	require.Len(t, api.versions, 1)
	require.NotNil(t, api.versions[0])
	assert.Equal(t, int64(0), *api.versions[0])
	assert.Len(t, api.saved[0][0].Timings, 2)
}

func TestSave_FailureKeepsEditsAndAllowsRetry(t *testing.T) {
	api := &fakeAPI{saveErr: errors.New("network down")}
	e := loaded(t, api)
	require.NoError(t, e.SetField(0, 0, FieldDoctor, "Dr. A"))
	before := e.Days()

	_, err := e.Save(context.Background())
	require.Error(t, err)
	assert.Equal(t, SaveFailed, e.State())
	assert.Equal(t, before, e.Days())
	assert.EqualError(t, e.Err(), "network down")

	// Further edits are allowed and move the editor back to Ready.
	require.NoError(t, e.SetField(0, 0, FieldFrom, "09:00"))
	assert.Equal(t, Ready, e.State())

	_, err = e.Save(context.Background())
	require.Error(t, err)
	assert.Equal(t, SaveFailed, e.State())

	api.mu.Lock()
	api.saveErr = nil
	api.mu.Unlock()
	require.NoError(t, e.SetField(0, 0, FieldTo, "10:00"))
	require.NoError(t, e.SetField(0, 0, FieldSpecialty, "ENT"))
	_, err = e.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Ready, e.State())
	assert.NoError(t, e.Err())
}

func TestSave_ConflictSurfaces(t *testing.T) {
	api := &fakeAPI{saveErr: models.ErrVersionConflict}
	e := loaded(t, api)

	_, err := e.Save(context.Background())
	assert.ErrorIs(t, err, models.ErrVersionConflict)
	assert.Equal(t, SaveFailed, e.State())
}

func TestSave_BusyWhileSaving(t *testing.T) {
	api := &fakeAPI{block: make(chan struct{})}
	e := loaded(t, api)

	done := make(chan error, 1)
	go func() {
		_, err := e.Save(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool { return e.State() == Saving }, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, e.AddDay(), ErrBusy)
	_, err := e.Save(context.Background())
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, e.Load(context.Background()), ErrBusy)
	assert.Equal(t, Saving, e.State())
	// Reads are never blocked by an in-flight save.
	assert.Len(t, e.Days(), 1)

	close(api.block)
	require.NoError(t, <-done)
	assert.Equal(t, Ready, e.State())
	v, _ := e.Version()
	assert.Equal(t, int64(1), v)
}

func TestOptions(t *testing.T) {
	times := TimeOptions()
	require.Len(t, times, 48)
	assert.Equal(t, "00:00", times[0])
	assert.Equal(t, "00:30", times[1])
	assert.Equal(t, "23:30", times[47])

	days := DayOptions()
	assert.Equal(t, models.Weekdays, days)
	days[0] = "x"
	assert.Equal(t, "Monday", models.Weekdays[0])
}
