package models

import (
	"time"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking reserves one (mentor, date, time) triple. Date is "YYYY-MM-DD",
// Time is a clock string matching the mentor's template granularity ("09:00").
// At most one non-cancelled booking may exist per triple.
type Booking struct {
	BookingID     string `json:"bookingid" bson:"bookingid"`
	MentorID      string `json:"mentorid" bson:"mentorid"`
	StudentName   string `json:"student_name" bson:"student_name"`
	StudentEmail  string `json:"student_email" bson:"student_email"`
	Date          string `json:"date" bson:"date"`
	Time          string `json:"time" bson:"time"`
	Status        string `json:"status" bson:"status"`
	Message       string `json:"message,omitempty" bson:"message,omitempty"`
	MeetLink      string `json:"meet_link,omitempty" bson:"meet_link,omitempty"`
	GoogleEventID string `json:"google_event_id,omitempty" bson:"google_event_id,omitempty"`

	// Active marks a live (non-cancelled) booking. Storage backends key
	// their uniqueness guarantee for the triple off this flag, so it is
	// maintained by the store, not by callers.
	Active bool `json:"-" bson:"active,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// MeetDetails is what meeting provisioning hands back: always a usable link,
// EventID only when a real calendar event was created.
type MeetDetails struct {
	Link      string `json:"link"`
	MeetingID string `json:"meeting_id"`
	EventID   string `json:"event_id,omitempty"`
}
