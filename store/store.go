package store

import (
	"context"
	"errors"
	"time"

	"mentorhub/models"
)

var (
	ErrNotFound       = errors.New("store: not found")
	ErrDuplicateEmail = errors.New("store: email already registered")
)

// Store is the persistence boundary for accounts, mentor profiles and
// bookings. Implementations must be safe for concurrent callers. ClaimSlot
// carries the core invariant: it inserts the booking only if no other
// non-cancelled booking holds the same (mentor, date, time) triple, and the
// check-and-insert must be a single atomic step.
type Store interface {
	CreateAccount(ctx context.Context, acc models.Account) error
	GetAccountByEmail(ctx context.Context, email string) (models.Account, error)
	GetAccountByID(ctx context.Context, id string) (models.Account, error)
	RecordLogin(ctx context.Context, id string, at time.Time) error

	SaveMentor(ctx context.Context, m models.Mentor) error
	GetMentor(ctx context.Context, id string) (models.Mentor, error)
	ListMentors(ctx context.Context) ([]models.Mentor, error)
	SaveCalendarTokens(ctx context.Context, mentorID, access, refresh string, expiry time.Time, connected bool) error

	ClaimSlot(ctx context.Context, b models.Booking) (bool, error)
	GetBooking(ctx context.Context, id string) (models.Booking, error)
	ListBookings(ctx context.Context, mentorID string) ([]models.Booking, error)
	SetBookingStatus(ctx context.Context, id, status string) (models.Booking, error)
}
