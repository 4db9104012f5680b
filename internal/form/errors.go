package form

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrSubmitInProgress = errors.New("a submission is already in progress")
	ErrInvalidRecord    = errors.New("registration has validation errors")
	ErrUnknownTrack     = errors.New("track is not in the reference table")
	ErrUnknownField     = errors.New("unknown field")
	ErrInvalidAnswer    = errors.New("answer must be yes or no")
	ErrNegativeCount    = errors.New("count cannot be negative")
	ErrNotAnInteger     = errors.New("count must be a whole number")
	ErrSlotOutOfRange   = errors.New("attendee slot out of range")
	ErrTooManyAttendees = errors.New("too many extra attendees")
	ErrInactiveField    = errors.New("field is hidden until its question is answered yes")
)

// ValidationError carries every field error found by an authoritative
// validation pass. It unwraps to ErrInvalidRecord.
type ValidationError struct {
	Errors map[Field]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Errors[Field(f)]))
	}
	return fmt.Sprintf("%s (%s)", ErrInvalidRecord, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRecord
}
