package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mentorhub/models"
	"mentorhub/store"
)

// fakeProvisioner hands out unique placeholder links and records calls.
type fakeProvisioner struct {
	mu      sync.Mutex
	calls   int
	deleted []string
	counter int64
}

func (f *fakeProvisioner) ProvisionMeeting(_ context.Context, _ models.Mentor, _, _, _, _ string) models.MeetDetails {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	n := atomic.AddInt64(&f.counter, 1)
	id := fmt.Sprintf("meet-test-%d", n)
	return models.MeetDetails{Link: "https://meet.google.com/" + id, MeetingID: id}
}

func (f *fakeProvisioner) DeleteEvent(_ context.Context, _ models.Mentor, eventID string) error {
	f.mu.Lock()
	f.deleted = append(f.deleted, eventID)
	f.mu.Unlock()
	return nil
}

func newTestEngine(t *testing.T, mentor models.Mentor) (*Engine, *store.MemStore, *fakeProvisioner) {
	t.Helper()
	st := store.NewMemStore()
	if err := st.SaveMentor(context.Background(), mentor); err != nil {
		t.Fatalf("save mentor: %v", err)
	}
	prov := &fakeProvisioner{}
	return NewEngine(st, prov), st, prov
}

func testMentor() models.Mentor {
	return models.Mentor{
		MentorID: "m1",
		Name:     "Ada",
		Email:    "ada@example.com",
		Timezone: "UTC",
		Availability: map[string][]string{
			"tuesday": {"09:00", "10:00"},
		},
	}
}

// 2026-01-06 is a Tuesday.
const tuesday = "2026-01-06"

func TestComputeAvailableSlots(t *testing.T) {
	mentor := testMentor()

	slots := ComputeAvailableSlots(mentor, nil, tuesday)
	if len(slots) != 2 || slots[0] != "09:00" || slots[1] != "10:00" {
		t.Fatalf("expected full template, got %v", slots)
	}

	bookings := []models.Booking{
		{MentorID: "m1", Date: tuesday, Time: "09:00", Status: models.BookingStatusConfirmed},
		// cancelled bookings do not consume slots
		{MentorID: "m1", Date: tuesday, Time: "10:00", Status: models.BookingStatusCancelled},
		// other mentors and other dates are ignored
		{MentorID: "m2", Date: tuesday, Time: "10:00", Status: models.BookingStatusConfirmed},
		{MentorID: "m1", Date: "2026-01-13", Time: "10:00", Status: models.BookingStatusConfirmed},
	}
	slots = ComputeAvailableSlots(mentor, bookings, tuesday)
	if len(slots) != 1 || slots[0] != "10:00" {
		t.Fatalf("expected [10:00], got %v", slots)
	}
}

func TestComputeAvailableSlotsEmptyCases(t *testing.T) {
	mentor := testMentor()

	// no template for that weekday
	if slots := ComputeAvailableSlots(mentor, nil, "2026-01-07"); len(slots) != 0 {
		t.Fatalf("expected no slots on wednesday, got %v", slots)
	}
	// unparseable date never errors, just yields nothing
	if slots := ComputeAvailableSlots(mentor, nil, "06/01/2026"); len(slots) != 0 {
		t.Fatalf("expected no slots for bad date, got %v", slots)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	engine, _, _ := newTestEngine(t, testMentor())

	cases := []struct {
		req   CreateRequest
		field string
	}{
		{CreateRequest{StudentName: "A", StudentEmail: "a@x.com", Date: tuesday, Time: "09:00"}, "mentorId"},
		{CreateRequest{MentorID: "m1", StudentEmail: "a@x.com", Date: tuesday, Time: "09:00"}, "studentName"},
		{CreateRequest{MentorID: "m1", StudentName: "A", Date: tuesday, Time: "09:00"}, "studentEmail"},
		{CreateRequest{MentorID: "m1", StudentName: "A", StudentEmail: "not-an-email", Date: tuesday, Time: "09:00"}, "studentEmail"},
		{CreateRequest{MentorID: "m1", StudentName: "A", StudentEmail: "a@x.com", Time: "09:00"}, "date"},
		{CreateRequest{MentorID: "m1", StudentName: "A", StudentEmail: "a@x.com", Date: tuesday}, "time"},
		{CreateRequest{MentorID: "m1", StudentName: "A", StudentEmail: "a@x.com", Date: "garbage", Time: "09:00"}, "date"},
	}

	for _, tc := range cases {
		_, err := engine.Create(context.Background(), tc.req)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError for %+v, got %v", tc.req, err)
		}
		if verr.Field != tc.field {
			t.Fatalf("expected field %q, got %q", tc.field, verr.Field)
		}
	}
}

func TestCreateBookingMentorNotFound(t *testing.T) {
	engine, _, _ := newTestEngine(t, testMentor())

	_, err := engine.Create(context.Background(), CreateRequest{
		MentorID: "nobody", StudentName: "A", StudentEmail: "a@x.com", Date: tuesday, Time: "09:00",
	})
	if !errors.Is(err, ErrMentorNotFound) {
		t.Fatalf("expected ErrMentorNotFound, got %v", err)
	}
}

func TestCreateBookingOffTemplate(t *testing.T) {
	engine, _, _ := newTestEngine(t, testMentor())

	_, err := engine.Create(context.Background(), CreateRequest{
		MentorID: "m1", StudentName: "A", StudentEmail: "a@x.com", Date: tuesday, Time: "23:00",
	})
	if !errors.Is(err, ErrSlotNotOffered) {
		t.Fatalf("expected ErrSlotNotOffered, got %v", err)
	}

	// a valid time on a day without template slots is also off-template
	_, err = engine.Create(context.Background(), CreateRequest{
		MentorID: "m1", StudentName: "A", StudentEmail: "a@x.com", Date: "2026-01-07", Time: "09:00",
	})
	if !errors.Is(err, ErrSlotNotOffered) {
		t.Fatalf("expected ErrSlotNotOffered for wednesday, got %v", err)
	}
}

func TestCreateBookingConflict(t *testing.T) {
	engine, _, _ := newTestEngine(t, testMentor())
	ctx := context.Background()

	first, err := engine.Create(ctx, CreateRequest{
		MentorID: "m1", StudentName: "A", StudentEmail: "a@x.com", Date: tuesday, Time: "09:00",
	})
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	if first.Status != models.BookingStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", first.Status)
	}
	if first.MeetLink == "" {
		t.Fatal("booking has no meet link")
	}

	_, err = engine.Create(ctx, CreateRequest{
		MentorID: "m1", StudentName: "B", StudentEmail: "b@x.com", Date: tuesday, Time: "09:00",
	})
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
}

func TestConcurrentBookingSingleWinner(t *testing.T) {
	engine, _, _ := newTestEngine(t, testMentor())

	const n = 32
	var wg sync.WaitGroup
	var successes, conflicts int64

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := engine.Create(context.Background(), CreateRequest{
				MentorID:     "m1",
				StudentName:  fmt.Sprintf("student-%d", i),
				StudentEmail: fmt.Sprintf("s%d@x.com", i),
				Date:         tuesday,
				Time:         "09:00",
			})
			switch {
			case err == nil:
				atomic.AddInt64(&successes, 1)
			case errors.Is(err, ErrSlotTaken):
				atomic.AddInt64(&conflicts, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly 1 winner, got %d", successes)
	}
	if conflicts != n-1 {
		t.Fatalf("expected %d conflicts, got %d", n-1, conflicts)
	}
}

func TestCancelFreesSlot(t *testing.T) {
	engine, _, prov := newTestEngine(t, testMentor())
	ctx := context.Background()

	b, err := engine.Create(ctx, CreateRequest{
		MentorID: "m1", StudentName: "A", StudentEmail: "a@x.com", Date: tuesday, Time: "09:00",
	})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	cancelled, err := engine.Cancel(ctx, b.BookingID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != models.BookingStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}

	// cancel is idempotent
	if _, err := engine.Cancel(ctx, b.BookingID); err != nil {
		t.Fatalf("second cancel failed: %v", err)
	}

	// the slot is bookable again
	if _, err := engine.Create(ctx, CreateRequest{
		MentorID: "m1", StudentName: "B", StudentEmail: "b@x.com", Date: tuesday, Time: "09:00",
	}); err != nil {
		t.Fatalf("rebooking freed slot failed: %v", err)
	}

	if prov.calls != 2 {
		t.Fatalf("expected 2 provision calls, got %d", prov.calls)
	}
}

func TestBookingLinksUnique(t *testing.T) {
	engine, _, _ := newTestEngine(t, testMentor())
	ctx := context.Background()

	b1, err := engine.Create(ctx, CreateRequest{
		MentorID: "m1", StudentName: "A", StudentEmail: "a@x.com", Date: tuesday, Time: "09:00",
	})
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	b2, err := engine.Create(ctx, CreateRequest{
		MentorID: "m1", StudentName: "B", StudentEmail: "b@x.com", Date: tuesday, Time: "10:00",
	})
	if err != nil {
		t.Fatalf("second booking failed: %v", err)
	}

	if b1.MeetLink == "" || b2.MeetLink == "" {
		t.Fatal("expected non-empty meet links")
	}
	if b1.MeetLink == b2.MeetLink {
		t.Fatalf("meet links must be unique, both were %s", b1.MeetLink)
	}
}

func TestEndToEndTuesdayScenario(t *testing.T) {
	engine, _, _ := newTestEngine(t, testMentor())
	ctx := context.Background()

	b, err := engine.Create(ctx, CreateRequest{
		MentorID: "m1", StudentName: "Requester A", StudentEmail: "a@x.com", Date: tuesday, Time: "09:00",
	})
	if err != nil {
		t.Fatalf("booking 09:00 failed: %v", err)
	}
	if b.Status != models.BookingStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", b.Status)
	}

	slots, err := engine.AvailableSlots(ctx, "m1", tuesday)
	if err != nil {
		t.Fatalf("available slots: %v", err)
	}
	if len(slots) != 1 || slots[0] != "10:00" {
		t.Fatalf("expected [10:00], got %v", slots)
	}

	if _, err := engine.Create(ctx, CreateRequest{
		MentorID: "m1", StudentName: "Requester B", StudentEmail: "b@x.com", Date: tuesday, Time: "09:00",
	}); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken for 09:00, got %v", err)
	}

	if _, err := engine.Create(ctx, CreateRequest{
		MentorID: "m1", StudentName: "Requester B", StudentEmail: "b@x.com", Date: tuesday, Time: "10:00",
	}); err != nil {
		t.Fatalf("booking 10:00 failed: %v", err)
	}

	bookings, err := engine.List(ctx, "m1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(bookings) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(bookings))
	}
}

func TestCancelRemovesCalendarEvent(t *testing.T) {
	mentor := testMentor()
	st := store.NewMemStore()
	if err := st.SaveMentor(context.Background(), mentor); err != nil {
		t.Fatalf("save mentor: %v", err)
	}
	prov := &fakeProvisioner{}
	engine := NewEngine(st, prov)

	b := models.Booking{
		BookingID:     "b1",
		MentorID:      "m1",
		StudentName:   "A",
		StudentEmail:  "a@x.com",
		Date:          tuesday,
		Time:          "09:00",
		Status:        models.BookingStatusConfirmed,
		GoogleEventID: "evt-123",
		CreatedAt:     time.Now(),
	}
	if claimed, err := st.ClaimSlot(context.Background(), b); err != nil || !claimed {
		t.Fatalf("seed booking: claimed=%v err=%v", claimed, err)
	}

	if _, err := engine.Cancel(context.Background(), "b1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if len(prov.deleted) != 1 || prov.deleted[0] != "evt-123" {
		t.Fatalf("expected event evt-123 deleted, got %v", prov.deleted)
	}
}
