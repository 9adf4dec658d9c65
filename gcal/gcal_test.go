package gcal

import (
	"context"
	"strings"
	"testing"

	"mentorhub/models"
	"mentorhub/store"
)

func TestFallbackMeetFormat(t *testing.T) {
	d := fallbackMeet()
	if !strings.HasPrefix(d.Link, "https://meet.google.com/meet-") {
		t.Fatalf("unexpected link format: %s", d.Link)
	}
	if d.MeetingID == "" || d.EventID != "" {
		t.Fatalf("fallback must have a meeting id and no event id: %+v", d)
	}
	if d.Link != "https://meet.google.com/"+d.MeetingID {
		t.Fatalf("link and meeting id disagree: %+v", d)
	}
}

func TestFallbackMeetUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		d := fallbackMeet()
		if seen[d.Link] {
			t.Fatalf("duplicate fallback link: %s", d.Link)
		}
		seen[d.Link] = true
	}
}

func TestProvisionMeetingDisconnectedMentor(t *testing.T) {
	st := store.NewMemStore()
	adapter := New(st)

	mentor := models.Mentor{MentorID: "m1", Name: "Ada", Email: "ada@example.com"}

	// no credential: must not touch the provider, must still return a link
	d := adapter.ProvisionMeeting(context.Background(), mentor, "Student", "s@x.com", "2026-01-06", "09:00")
	if d.Link == "" {
		t.Fatal("expected a fallback link")
	}
	if d.EventID != "" {
		t.Fatalf("no event should exist without a connected calendar: %+v", d)
	}
}

func TestProvisionMeetingConnectedFlagWithoutToken(t *testing.T) {
	st := store.NewMemStore()
	adapter := New(st)

	// connected flag set but token blob missing: treated as disconnected
	mentor := models.Mentor{MentorID: "m1", GoogleCalendarConnected: true}
	d := adapter.ProvisionMeeting(context.Background(), mentor, "Student", "s@x.com", "2026-01-06", "09:00")
	if !strings.HasPrefix(d.Link, "https://meet.google.com/meet-") {
		t.Fatalf("expected fallback link, got %s", d.Link)
	}
}
