// Package gcal wraps the Google Calendar provider behind the booking
// engine's Provisioner contract. The public surface never fails a booking:
// any provider problem collapses into a locally generated placeholder link.
package gcal

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"mentorhub/models"
	"mentorhub/store"
	"mentorhub/utils"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	provisionTimeout = 10 * time.Second
	sessionMinutes   = 60
)

type Adapter struct {
	store store.Store
	cfg   *oauth2.Config
}

func New(s store.Store) *Adapter {
	redirect := os.Getenv("GOOGLE_REDIRECT_URL")
	if redirect == "" {
		redirect = "http://localhost:8080/api/auth/google/callback"
	}
	return &Adapter{
		store: s,
		cfg: &oauth2.Config{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  redirect,
			Scopes:       []string{calendar.CalendarScope, calendar.CalendarEventsScope},
			Endpoint:     google.Endpoint,
		},
	}
}

// fallbackMeet generates the placeholder used when no calendar is connected
// or the provider is down. Unique per call: millisecond timestamp plus a
// random suffix.
func fallbackMeet() models.MeetDetails {
	meetingID := fmt.Sprintf("meet-%d-%s", time.Now().UnixMilli(), utils.GenerateMeetCode(9))
	return models.MeetDetails{
		Link:      "https://meet.google.com/" + meetingID,
		MeetingID: meetingID,
	}
}

// ProvisionMeeting creates a calendar event with a Meet link for the session.
// It does not return an error: a disconnected mentor skips the provider
// entirely, and any provider failure is logged and absorbed into the
// placeholder fallback.
func (a *Adapter) ProvisionMeeting(ctx context.Context, mentor models.Mentor, studentName, studentEmail, date, timeOfDay string) models.MeetDetails {
	if !mentor.GoogleCalendarConnected || mentor.GoogleAccessToken == "" {
		log.Printf("[gcal] mentor %s has no calendar connected, using placeholder link", mentor.MentorID)
		return fallbackMeet()
	}

	ctx, cancel := context.WithTimeout(ctx, provisionTimeout)
	defer cancel()

	details, err := a.createEvent(ctx, mentor, studentName, studentEmail, date, timeOfDay)
	if err != nil {
		log.Printf("[gcal] event creation failed for mentor %s: %v, using placeholder link", mentor.MentorID, err)
		return fallbackMeet()
	}
	return details
}

// serviceFor builds a calendar client from the mentor's stored credentials,
// refreshing the access token through the refresh token when it has
// expired. Rotated tokens are persisted before any calendar call.
func (a *Adapter) serviceFor(ctx context.Context, mentor models.Mentor) (*calendar.Service, error) {
	stored := &oauth2.Token{
		AccessToken:  mentor.GoogleAccessToken,
		RefreshToken: mentor.GoogleRefreshToken,
		Expiry:       mentor.GoogleTokenExpiry,
		TokenType:    "Bearer",
	}

	fresh, err := a.cfg.TokenSource(ctx, stored).Token()
	if err != nil {
		return nil, fmt.Errorf("refresh access token: %w", err)
	}
	if fresh.AccessToken != stored.AccessToken {
		if err := a.store.SaveCalendarTokens(ctx, mentor.MentorID, fresh.AccessToken, fresh.RefreshToken, fresh.Expiry, true); err != nil {
			return nil, fmt.Errorf("persist rotated token: %w", err)
		}
	}

	svc, err := calendar.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(fresh)))
	if err != nil {
		return nil, fmt.Errorf("build calendar client: %w", err)
	}
	return svc, nil
}

func (a *Adapter) createEvent(ctx context.Context, mentor models.Mentor, studentName, studentEmail, date, timeOfDay string) (models.MeetDetails, error) {
	svc, err := a.serviceFor(ctx, mentor)
	if err != nil {
		return models.MeetDetails{}, err
	}

	start, err := time.Parse("2006-01-02 15:04", date+" "+timeOfDay)
	if err != nil {
		return models.MeetDetails{}, fmt.Errorf("parse session start: %w", err)
	}
	end := start.Add(sessionMinutes * time.Minute)

	timezone := mentor.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	event := &calendar.Event{
		Summary:     fmt.Sprintf("Mentoring Session with %s", studentName),
		Description: fmt.Sprintf("Mentoring session scheduled through MentorHub.\n\nStudent: %s (%s)\nMentor: %s", studentName, studentEmail, mentor.Name),
		Start: &calendar.EventDateTime{
			DateTime: start.Format("2006-01-02T15:04:05"),
			TimeZone: timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format("2006-01-02T15:04:05"),
			TimeZone: timezone,
		},
		Attendees: []*calendar.EventAttendee{
			{Email: mentor.Email, Organizer: true},
			{Email: studentEmail},
		},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId:             fmt.Sprintf("meet-%d-%s", time.Now().UnixMilli(), utils.GenerateMeetCode(9)),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		},
		Reminders: &calendar.EventReminders{
			UseDefault:      false,
			ForceSendFields: []string{"UseDefault"},
			Overrides: []*calendar.EventReminder{
				{Method: "email", Minutes: 24 * 60},
				{Method: "popup", Minutes: 15},
			},
		},
	}

	created, err := svc.Events.Insert("primary", event).
		ConferenceDataVersion(1).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return models.MeetDetails{}, fmt.Errorf("insert event: %w", err)
	}

	link := created.HangoutLink
	if link == "" && created.ConferenceData != nil {
		for _, ep := range created.ConferenceData.EntryPoints {
			if ep.Uri != "" {
				link = ep.Uri
				break
			}
		}
	}
	if link == "" {
		return models.MeetDetails{}, fmt.Errorf("event %s has no meet link", created.Id)
	}

	return models.MeetDetails{
		Link:      link,
		MeetingID: created.Id,
		EventID:   created.Id,
	}, nil
}

// DeleteEvent removes a previously created calendar event. Already-gone
// events are not an error.
func (a *Adapter) DeleteEvent(ctx context.Context, mentor models.Mentor, eventID string) error {
	if !mentor.GoogleCalendarConnected || mentor.GoogleAccessToken == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, provisionTimeout)
	defer cancel()

	svc, err := a.serviceFor(ctx, mentor)
	if err != nil {
		return err
	}

	err = svc.Events.Delete("primary", eventID).SendUpdates("all").Context(ctx).Do()
	if gerr, ok := err.(*googleapi.Error); ok && (gerr.Code == 404 || gerr.Code == 410) {
		return nil
	}
	return err
}
