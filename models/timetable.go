package models

import "time"

// TimetableDocumentID is the well-known key of the singleton weekly timetable.
const TimetableDocumentID = "clinic-weekly-timetable"

// Timing is one staffed slot inside a day: a time range plus who covers it.
type Timing struct {
	From      string `bson:"from" json:"from" yaml:"from"`                // "HH:MM", 24-hour
	To        string `bson:"to" json:"to" yaml:"to"`                      // "HH:MM", 24-hour
	Doctor    string `bson:"doctor" json:"doctor" yaml:"doctor"`          // practitioner display name
	Specialty string `bson:"specialty" json:"specialty" yaml:"specialty"` // e.g. "Cardiology"
}

// DaySchedule holds the timings of one weekday.
type DaySchedule struct {
	Day     string   `bson:"day" json:"day" yaml:"day"`
	Timings []Timing `bson:"timings" json:"timings" yaml:"timings"`
}

// TimetableDocument is the persisted singleton. Version starts at 1 on the first
// write and grows by one on every replace.
type TimetableDocument struct {
	ID        string        `bson:"_id" json:"-"`
	Schedule  []DaySchedule `bson:"schedule" json:"schedule"`
	Version   int64         `bson:"version" json:"version"`
	Revision  string        `bson:"revision" json:"revision"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
	UpdatedBy string        `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
}

// Warning reasons reported for entries the write path dropped or merged.
const (
	ReasonMalformedDay     = "malformed_day"
	ReasonMissingDayName   = "missing_day_name"
	ReasonMissingTimings   = "missing_timings"
	ReasonIncompleteTiming = "incomplete_timing"
	ReasonInvalidTime      = "invalid_time"
	ReasonNoValidTimings   = "no_valid_timings"
	ReasonDuplicateDay     = "duplicate_day_merged"
)

// TimetableWarning describes one entry that did not make it into the stored
// schedule as submitted. TimingIndex is -1 for day-level warnings.
type TimetableWarning struct {
	DayIndex    int    `json:"dayIndex"`
	TimingIndex int    `json:"timingIndex"`
	Day         string `json:"day,omitempty"`
	Reason      string `json:"reason"`
}

// ReplaceTimetableRequest is the POST /time-table payload. Schedule is kept
// untyped so a non-array body can be told apart from a malformed day.
type ReplaceTimetableRequest struct {
	Schedule any `json:"schedule"`
}

// TimetableResponse is returned by GET /time-table.
type TimetableResponse struct {
	Schedule  []DaySchedule `json:"schedule"`
	Version   int64         `json:"version"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// ReplaceTimetableResponse echoes what was actually persisted.
type ReplaceTimetableResponse struct {
	Message  string             `json:"message"`
	Schedule []DaySchedule      `json:"schedule"`
	Version  int64              `json:"version"`
	Warnings []TimetableWarning `json:"warnings"`
}
