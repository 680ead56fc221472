package timetable

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingInput is returned if the input path does not resolve to a regular file.
	ErrMissingInput = errors.New("input file does not exist")
	// ErrTooFewFields is returned if a header line lacks one of its separators.
	ErrTooFewFields = errors.New("too few fields")
)

// RecordKind names the level of the hierarchy a source line belongs to.
type RecordKind string

const (
	// KindLine is a line (LL block) header.
	KindLine RecordKind = "line"
	// KindRoute is a route (TR block) header.
	KindRoute RecordKind = "route"
	// KindStop is a stop (RP block) header.
	KindStop RecordKind = "stop"
	// KindTimetable is a timetable (TD block) header.
	KindTimetable RecordKind = "timetable"
	// KindDeparture is a single departure (OD block) line.
	KindDeparture RecordKind = "departure"
	// KindValidity is a validity sentence inside an OP block.
	KindValidity RecordKind = "validity"
)

// MalformedHeaderError is returned when a record cannot be extracted from its source line.
type MalformedHeaderError struct {
	Kind   RecordKind
	LineNo int
	Text   string
	Err    error
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("malformed %s on line %d (%q): %v", e.Kind, e.LineNo, e.Text, e.Err)
}

// Unwrap exposes the extraction failure.
func (e *MalformedHeaderError) Unwrap() error {
	return e.Err
}

func fieldError(what string, want, got int) error {
	return fmt.Errorf("%w: %s needs %d, got %d", ErrTooFewFields, what, want, got)
}
