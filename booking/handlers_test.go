package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mentorhub/auth"
	"mentorhub/middleware"
	"mentorhub/models"
	"mentorhub/store"

	"github.com/julienschmidt/httprouter"
)

func seedListFixture(t *testing.T) (*Handler, *store.MemStore) {
	t.Helper()
	st := store.NewMemStore()
	ctx := context.Background()

	if err := st.CreateAccount(ctx, models.Account{UserID: "u1", Email: "ada@example.com", Role: models.RoleMentor, MentorID: "m1"}); err != nil {
		t.Fatalf("create account: %v", err)
	}
	for _, m := range []models.Mentor{{MentorID: "m1", Name: "Ada"}, {MentorID: "m2", Name: "Grace"}} {
		if err := st.SaveMentor(ctx, m); err != nil {
			t.Fatalf("save mentor: %v", err)
		}
	}
	bookings := []models.Booking{
		{BookingID: "b1", MentorID: "m1", StudentName: "Sam", StudentEmail: "sam@example.com", Message: "hi", Date: "2026-01-06", Time: "09:00", Status: models.BookingStatusConfirmed},
		{BookingID: "b2", MentorID: "m2", StudentName: "Kim", StudentEmail: "kim@example.com", Message: "yo", Date: "2026-01-06", Time: "09:00", Status: models.BookingStatusConfirmed},
	}
	for _, b := range bookings {
		if ok, err := st.ClaimSlot(ctx, b); err != nil || !ok {
			t.Fatalf("claim %s: ok=%v err=%v", b.BookingID, ok, err)
		}
	}
	return NewHandler(NewEngine(st, &fakeProvisioner{}), st), st
}

func listBookingsBody(t *testing.T, h *Handler, token string) []models.Booking {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	middleware.OptionalAuth(h.ListBookings)(rec, req, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Bookings []models.Booking `json:"bookings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.Bookings
}

func TestListBookingsRedactsStudentContact(t *testing.T) {
	h, _ := seedListFixture(t)

	// anonymous callers see the bookings but no student contact details
	for _, b := range listBookingsBody(t, h, "") {
		if b.StudentEmail != "" || b.Message != "" {
			t.Fatalf("anonymous list leaked contact details: %+v", b)
		}
		if b.StudentName == "" || b.Time == "" {
			t.Fatalf("anonymous list over-redacted: %+v", b)
		}
	}

	// the owning mentor sees their own students, but not another mentor's
	token, err := auth.GenerateToken("u1")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	for _, b := range listBookingsBody(t, h, token) {
		switch b.MentorID {
		case "m1":
			if b.StudentEmail != "sam@example.com" {
				t.Fatalf("owner redacted on own booking: %+v", b)
			}
		default:
			if b.StudentEmail != "" {
				t.Fatalf("foreign booking leaked contact details: %+v", b)
			}
		}
	}

	// a garbage token behaves like no token at all
	for _, b := range listBookingsBody(t, h, "not-a-jwt") {
		if b.StudentEmail != "" {
			t.Fatalf("bad token leaked contact details: %+v", b)
		}
	}
}

func TestCreateBookingValidationMessage(t *testing.T) {
	h, _ := seedListFixture(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing field", `{"mentorId":"m1"}`, "Missing or invalid field: studentName"},
		{"malformed email", `{"mentorId":"m1","studentName":"Sam","studentEmail":"nope","date":"2026-01-06","time":"09:00"}`, "Missing or invalid field: studentEmail"},
		{"malformed date", `{"mentorId":"m1","studentName":"Sam","studentEmail":"s@x.com","date":"garbage","time":"09:00"}`, "Missing or invalid field: date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.CreateBooking(rec, req, httprouter.Params{})

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Fatalf("body %q does not mention %q", rec.Body.String(), tt.want)
			}
		})
	}
}
