package booking

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"mentorhub/models"
	"mentorhub/store"
	"mentorhub/utils"

	"github.com/google/uuid"
)

// Provisioner creates and tears down external meeting events.
// ProvisionMeeting never fails: a provider outage yields a placeholder link
// instead of an error, so a booking can always complete.
type Provisioner interface {
	ProvisionMeeting(ctx context.Context, mentor models.Mentor, studentName, studentEmail, date, timeOfDay string) models.MeetDetails
	DeleteEvent(ctx context.Context, mentor models.Mentor, eventID string) error
}

// Engine owns the availability and booking rules.
type Engine struct {
	store store.Store
	meet  Provisioner
}

func NewEngine(s store.Store, p Provisioner) *Engine {
	return &Engine{store: s, meet: p}
}

type CreateRequest struct {
	MentorID     string `json:"mentorId"`
	StudentName  string `json:"studentName"`
	StudentEmail string `json:"studentEmail"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Message      string `json:"message,omitempty"`
}

// ComputeAvailableSlots returns the mentor's template slots for the date's
// weekday minus every time already held by a non-cancelled booking on that
// date. Weekday keys are lowercase English names ("monday".."sunday"),
// derived from the civil date with no timezone conversion. An unparseable
// date or a day without template slots yields an empty slice, never an
// error. Order follows the template.
func ComputeAvailableSlots(mentor models.Mentor, bookings []models.Booking, date string) []string {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return []string{}
	}
	weekday := strings.ToLower(day.Weekday().String())

	booked := map[string]bool{}
	for _, b := range bookings {
		if b.MentorID == mentor.MentorID && b.Date == date && b.Status != models.BookingStatusCancelled {
			booked[b.Time] = true
		}
	}

	available := []string{}
	for _, slot := range mentor.Availability[weekday] {
		if !booked[slot] {
			available = append(available, slot)
		}
	}
	return available
}

// AvailableSlots resolves the mentor and their bookings, then delegates to
// ComputeAvailableSlots.
func (e *Engine) AvailableSlots(ctx context.Context, mentorID, date string) ([]string, error) {
	mentor, err := e.store.GetMentor(ctx, mentorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMentorNotFound
		}
		return nil, err
	}
	bookings, err := e.store.ListBookings(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	return ComputeAvailableSlots(mentor, bookings, date), nil
}

func (r CreateRequest) validate() error {
	switch {
	case r.MentorID == "":
		return &ValidationError{Field: "mentorId"}
	case r.StudentName == "":
		return &ValidationError{Field: "studentName"}
	case r.StudentEmail == "":
		return &ValidationError{Field: "studentEmail"}
	case !utils.ValidEmail(r.StudentEmail):
		return &ValidationError{Field: "studentEmail"}
	case r.Date == "":
		return &ValidationError{Field: "date"}
	case r.Time == "":
		return &ValidationError{Field: "time"}
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return &ValidationError{Field: "date"}
	}
	return nil
}

// Create validates the request, provisions a meeting, and claims the slot.
//
// The availability read before provisioning is advisory; the claim itself is
// a single atomic step in the store, so two concurrent requests for the same
// slot resolve to exactly one winner regardless of what either saw here.
// Provisioning degradation (placeholder link) never blocks the booking.
func (e *Engine) Create(ctx context.Context, req CreateRequest) (models.Booking, error) {
	if err := req.validate(); err != nil {
		return models.Booking{}, err
	}

	mentor, err := e.store.GetMentor(ctx, req.MentorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Booking{}, ErrMentorNotFound
		}
		return models.Booking{}, err
	}

	bookings, err := e.store.ListBookings(ctx, req.MentorID)
	if err != nil {
		return models.Booking{}, err
	}

	if !onTemplate(mentor, req.Date, req.Time) {
		return models.Booking{}, ErrSlotNotOffered
	}
	open := false
	for _, slot := range ComputeAvailableSlots(mentor, bookings, req.Date) {
		if slot == req.Time {
			open = true
			break
		}
	}
	if !open {
		return models.Booking{}, ErrSlotTaken
	}

	details := e.meet.ProvisionMeeting(ctx, mentor, req.StudentName, req.StudentEmail, req.Date, req.Time)

	b := models.Booking{
		BookingID:     uuid.NewString(),
		MentorID:      req.MentorID,
		StudentName:   req.StudentName,
		StudentEmail:  req.StudentEmail,
		Date:          req.Date,
		Time:          req.Time,
		Status:        models.BookingStatusConfirmed,
		Message:       req.Message,
		MeetLink:      details.Link,
		GoogleEventID: details.EventID,
		CreatedAt:     time.Now(),
	}

	claimed, err := e.store.ClaimSlot(ctx, b)
	if err != nil {
		return models.Booking{}, err
	}
	if !claimed {
		// Lost the race after provisioning; take the orphan event back down.
		if details.EventID != "" {
			if derr := e.meet.DeleteEvent(ctx, mentor, details.EventID); derr != nil {
				log.Printf("[booking] failed to clean up event %s: %v", details.EventID, derr)
			}
		}
		return models.Booking{}, ErrSlotTaken
	}

	BroadcastUpdate(req.MentorID)
	return b, nil
}

// Cancel marks the booking cancelled, freeing its slot. Idempotent. The
// external calendar event, when one exists, is removed best-effort.
func (e *Engine) Cancel(ctx context.Context, bookingID string) (models.Booking, error) {
	b, err := e.store.GetBooking(ctx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if b.Status == models.BookingStatusCancelled {
		return b, nil
	}

	updated, err := e.store.SetBookingStatus(ctx, bookingID, models.BookingStatusCancelled)
	if err != nil {
		return models.Booking{}, err
	}

	if b.GoogleEventID != "" {
		if mentor, merr := e.store.GetMentor(ctx, b.MentorID); merr == nil {
			if derr := e.meet.DeleteEvent(ctx, mentor, b.GoogleEventID); derr != nil {
				log.Printf("[booking] failed to delete event %s for cancelled booking %s: %v", b.GoogleEventID, bookingID, derr)
			}
		}
	}

	BroadcastUpdate(b.MentorID)
	return updated, nil
}

// List returns bookings in storage order, optionally filtered by mentor.
func (e *Engine) List(ctx context.Context, mentorID string) ([]models.Booking, error) {
	return e.store.ListBookings(ctx, mentorID)
}

func (e *Engine) Get(ctx context.Context, bookingID string) (models.Booking, error) {
	return e.store.GetBooking(ctx, bookingID)
}

func onTemplate(mentor models.Mentor, date, timeOfDay string) bool {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}
	weekday := strings.ToLower(day.Weekday().String())
	for _, slot := range mentor.Availability[weekday] {
		if slot == timeOfDay {
			return true
		}
	}
	return false
}
