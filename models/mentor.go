package models

import (
	"time"
)

// Mentor is the public profile plus scheduling configuration.
// Availability maps a lowercase English weekday name ("monday".."sunday")
// to the list of bookable start times for that day, e.g. ["09:00", "10:00"].
// Google tokens are persisted but never serialized to JSON responses.
type Mentor struct {
	MentorID        string              `json:"mentorid" bson:"mentorid"`
	Name            string              `json:"name" bson:"name"`
	Email           string              `json:"email" bson:"email"`
	Bio             string              `json:"bio" bson:"bio"`
	Expertise       []string            `json:"expertise" bson:"expertise"`
	Timezone        string              `json:"timezone" bson:"timezone"`
	Availability    map[string][]string `json:"availability" bson:"availability"`
	Avatar          string              `json:"avatar,omitempty" bson:"avatar,omitempty"`
	GoogleMeetEmail string              `json:"google_meet_email,omitempty" bson:"google_meet_email,omitempty"`

	GoogleCalendarConnected bool      `json:"google_calendar_connected" bson:"google_calendar_connected"`
	GoogleAccessToken       string    `json:"-" bson:"google_access_token,omitempty"`
	GoogleRefreshToken      string    `json:"-" bson:"google_refresh_token,omitempty"`
	GoogleTokenExpiry       time.Time `json:"-" bson:"google_token_expiry,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// DefaultAvailability is the weekday template assigned at registration:
// weekday mornings and afternoons, no weekends.
func DefaultAvailability() map[string][]string {
	slots := []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00"}
	days := []string{"monday", "tuesday", "wednesday", "thursday", "friday"}
	avail := make(map[string][]string, len(days))
	for _, d := range days {
		avail[d] = append([]string(nil), slots...)
	}
	return avail
}
