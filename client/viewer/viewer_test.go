package viewer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicsite/models"
)

type stubAPI struct {
	res *models.TimetableResponse
	err error
}

func (s stubAPI) FetchTimetable(context.Context) (*models.TimetableResponse, error) {
	return s.res, s.err
}

func (s stubAPI) ReplaceTimetable(context.Context, []models.DaySchedule, *int64) (*models.ReplaceTimetableResponse, error) {
	panic("viewer must not write")
}

var sample = []models.DaySchedule{
	{Day: "Monday", Timings: []models.Timing{
		{From: "09:00", To: "10:00", Doctor: "Dr. Smith", Specialty: "Cardiology"},
		{From: "13:30", To: "14:00", Doctor: "Dr. Patel", Specialty: "Dermatology"},
	}},
	{Day: "Tuesday", Timings: []models.Timing{
		{From: "08:00", To: "09:00", Doctor: "Dr. Okafor", Specialty: "Pediatrics"},
	}},
	{Day: "Wednesday", Timings: []models.Timing{
		{From: "14:00", To: "16:30", Doctor: "Dr. Lee", Specialty: "Neurology"},
	}},
}

func loadedViewer(t *testing.T) *Viewer {
	t.Helper()
	v := New(stubAPI{res: &models.TimetableResponse{Schedule: sample, Version: 2}})
	require.NoError(t, v.Load(context.Background()))
	return v
}

func TestLoad_SelectsFirstDay(t *testing.T) {
	v := loadedViewer(t)

	assert.Equal(t, "Monday", v.Selected())
	assert.Equal(t, sample[:1], v.VisibleDays())
	assert.Equal(t, sample, v.Days())
}

func TestDays_ReturnsDeepCopy(t *testing.T) {
	v := loadedViewer(t)

	days := v.Days()
	days[0].Day = "Sunday"
	days[0].Timings[0].Doctor = "Dr. X"

	fresh := v.Days()
	assert.Equal(t, "Monday", fresh[0].Day)
	assert.Equal(t, "Dr. Smith", fresh[0].Timings[0].Doctor)
	assert.Equal(t, "Dr. Smith", v.VisibleDays()[0].Timings[0].Doctor)
}

func TestLoad_EmptyServer(t *testing.T) {
	v := New(stubAPI{err: models.ErrTimetableNotFound})

	require.NoError(t, v.Load(context.Background()))
	assert.Empty(t, v.Selected())
	assert.Empty(t, v.VisibleDays())
}

func TestLoad_Error(t *testing.T) {
	v := New(stubAPI{err: models.ErrStoreUnavailable})
	assert.ErrorIs(t, v.Load(context.Background()), models.ErrStoreUnavailable)
}

func TestSelectionThenSearch(t *testing.T) {
	v := loadedViewer(t)

	v.ClearSelection()
	assert.Equal(t, sample, v.VisibleDays())

	v.SelectDay("Wednesday")
	assert.Equal(t, sample[2:], v.VisibleDays())

	// Search only narrows within the selected day.
	v.SetSearch("smith")
	assert.Empty(t, v.VisibleDays())

	v.ClearSelection()
	assert.Equal(t, sample[:1], v.VisibleDays())

	v.SelectDay("Funday")
	v.SetSearch("")
	assert.Empty(t, v.VisibleDays())
}

func TestFilterBySearch(t *testing.T) {
	cases := []struct {
		term string
		want []models.DaySchedule
	}{
		{"", sample},
		{"   ", sample},
		{"CARDIO", sample[:1]},
		{"dr. ", sample},
		{"pediatrics", sample[1:2]},
		{"lee", sample[2:]},
		{"oncology", []models.DaySchedule{}},
	}
	for _, tc := range cases {
		t.Run(tc.term, func(t *testing.T) {
			got := FilterBySearch(sample, tc.term)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFilterBySearch_KeepsWholeDay(t *testing.T) {
	got := FilterBySearch(sample, "patel")
	require.Len(t, got, 1)
	assert.Len(t, got[0].Timings, 2)
}

func TestFilterBySearch_IsSubset(t *testing.T) {
	for _, term := range []string{"a", "dr", "neuro", "zzz"} {
		got := FilterBySearch(sample, term)
		assert.LessOrEqual(t, len(got), len(sample))
		for _, d := range got {
			assert.Contains(t, sample, d)
		}
	}
}

func TestFormatTime(t *testing.T) {
	cases := map[string]string{
		"00:00": "12:00 AM",
		"09:00": "9:00 AM",
		"12:00": "12:00 PM",
		"13:30": "1:30 PM",
		"23:30": "11:30 PM",
		"":      NotSet,
		"25:00": NotSet,
		"noon":  NotSet,
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatTime(in), in)
	}
}

func TestFormatTimeRange(t *testing.T) {
	assert.Equal(t, "1:30 PM - 2:00 PM", FormatTimeRange("13:30", "14:00"))
	assert.Equal(t, "9:00 AM - Not set", FormatTimeRange("09:00", ""))
}
