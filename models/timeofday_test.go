package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	valid := map[string]string{
		"00:00":   "00:00",
		"9:05":    "09:05",
		" 13:30 ": "13:30",
		"23:59":   "23:59",
	}
	for in, want := range valid {
		got, err := ParseTimeOfDay(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got.String(), in)
	}

	for _, in := range []string{"", "24:00", "12:60", "1230", "12:5", "ab:cd", "-1:00", "123:00"} {
		_, err := ParseTimeOfDay(in)
		assert.Error(t, err, in)
	}
}

func TestTimeOfDay_Format12h(t *testing.T) {
	cases := map[string]string{
		"00:00": "12:00 AM",
		"00:30": "12:30 AM",
		"09:00": "9:00 AM",
		"11:59": "11:59 AM",
		"12:00": "12:00 PM",
		"13:30": "1:30 PM",
		"23:30": "11:30 PM",
	}
	for in, want := range cases {
		tod, err := ParseTimeOfDay(in)
		require.NoError(t, err)
		assert.Equal(t, want, tod.Format12h(), in)
	}
}

func TestDaySlots(t *testing.T) {
	slots := DaySlots(SlotGranularity)
	require.Len(t, slots, 48)
	assert.Equal(t, 0, slots[0].Hour())
	assert.Equal(t, 30, slots[1].Minute())
	assert.Equal(t, "23:30", slots[47].String())

	assert.Len(t, DaySlots(15*time.Minute), 96)
	assert.Len(t, DaySlots(0), 48)
}

func TestCanonicalDayName(t *testing.T) {
	assert.Equal(t, "Monday", CanonicalDayName(" monday "))
	assert.Equal(t, "Sunday", CanonicalDayName("SUNDAY"))
	assert.Equal(t, "Holiday clinic", CanonicalDayName(" Holiday clinic"))
	assert.Equal(t, "", CanonicalDayName("  "))
}

func TestErrorForCode(t *testing.T) {
	assert.Equal(t, ErrVersionConflict, ErrorForCode(CodeVersionConflict))
	assert.Equal(t, ErrTimetableNotFound, ErrorForCode(CodeNotFound))
	assert.Nil(t, ErrorForCode(CodeBadRequest))
	assert.Nil(t, ErrorForCode(""))
}
