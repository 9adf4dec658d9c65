package booking

import (
	"errors"
)

var (
	ErrMentorNotFound = errors.New("mentor not found")

	// ErrSlotTaken means another non-cancelled booking already holds the
	// (mentor, date, time) triple.
	ErrSlotTaken = errors.New("this time slot is already booked")

	// ErrSlotNotOffered means the requested time is not on the mentor's
	// weekly template for that weekday.
	ErrSlotNotOffered = errors.New("requested time is not offered by this mentor")
)

// ValidationError names the request field that is missing or malformed.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "missing or invalid field: " + e.Field
}
