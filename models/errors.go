package models

import "errors"

// Timetable error taxonomy shared by the store, the API and the clients.
var (
	ErrInvalidFormat     = errors.New("schedule must be an array of days")
	ErrNoValidEntries    = errors.New("no valid schedule entries provided")
	ErrTimetableNotFound = errors.New("time table not found")
	ErrStoreUnavailable  = errors.New("time table store unavailable")
	ErrVersionConflict   = errors.New("time table was modified by someone else")
)

// Machine-readable codes carried next to the human message in error bodies.
const (
	CodeInvalidFormat    = "invalid_format"
	CodeNoValidEntries   = "no_valid_entries"
	CodeNotFound         = "not_found"
	CodeStoreUnavailable = "store_unavailable"
	CodeVersionConflict  = "version_conflict"
	CodeBadRequest       = "bad_request"
	CodeUnauthorized     = "unauthorized"
)

var codeErrors = map[string]error{
	CodeInvalidFormat:    ErrInvalidFormat,
	CodeNoValidEntries:   ErrNoValidEntries,
	CodeNotFound:         ErrTimetableNotFound,
	CodeStoreUnavailable: ErrStoreUnavailable,
	CodeVersionConflict:  ErrVersionConflict,
}

// ErrorForCode maps an error body code back to its sentinel, or nil.
func ErrorForCode(code string) error {
	return codeErrors[code]
}
