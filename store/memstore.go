package store

import (
	"context"
	"sync"
	"time"

	"mentorhub/models"
)

// MemStore is an in-memory Store used in tests and as a single-process dev
// backend. A single mutex guards all three record maps, which makes
// ClaimSlot's check-and-insert atomic here by construction.
type MemStore struct {
	mu       sync.Mutex
	accounts map[string]models.Account // keyed by userid
	mentors  map[string]models.Mentor  // keyed by mentorid
	bookings []models.Booking          // storage order preserved
}

func NewMemStore() *MemStore {
	return &MemStore{
		accounts: make(map[string]models.Account),
		mentors:  make(map[string]models.Mentor),
	}
}

func (s *MemStore) CreateAccount(_ context.Context, acc models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accounts {
		if existing.Email == acc.Email {
			return ErrDuplicateEmail
		}
	}
	s.accounts[acc.UserID] = acc
	return nil
}

func (s *MemStore) GetAccountByEmail(_ context.Context, email string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.Email == email {
			return acc, nil
		}
	}
	return models.Account{}, ErrNotFound
}

func (s *MemStore) GetAccountByID(_ context.Context, id string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return models.Account{}, ErrNotFound
	}
	return acc, nil
}

func (s *MemStore) RecordLogin(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return ErrNotFound
	}
	acc.LastLogin = at
	s.accounts[id] = acc
	return nil
}

func (s *MemStore) SaveMentor(_ context.Context, m models.Mentor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mentors[m.MentorID] = m
	return nil
}

func (s *MemStore) GetMentor(_ context.Context, id string) (models.Mentor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.mentors[id]
	if !ok {
		return models.Mentor{}, ErrNotFound
	}
	return m, nil
}

func (s *MemStore) ListMentors(_ context.Context) ([]models.Mentor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mentors := make([]models.Mentor, 0, len(s.mentors))
	for _, m := range s.mentors {
		mentors = append(mentors, m)
	}
	return mentors, nil
}

func (s *MemStore) SaveCalendarTokens(_ context.Context, mentorID, access, refresh string, expiry time.Time, connected bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.mentors[mentorID]
	if !ok {
		return ErrNotFound
	}
	m.GoogleAccessToken = access
	if refresh != "" {
		m.GoogleRefreshToken = refresh
	}
	m.GoogleTokenExpiry = expiry
	m.GoogleCalendarConnected = connected
	s.mentors[mentorID] = m
	return nil
}

func (s *MemStore) ClaimSlot(_ context.Context, b models.Booking) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.bookings {
		if existing.MentorID == b.MentorID &&
			existing.Date == b.Date &&
			existing.Time == b.Time &&
			existing.Active {
			return false, nil
		}
	}
	b.Active = true
	s.bookings = append(s.bookings, b)
	return true, nil
}

func (s *MemStore) GetBooking(_ context.Context, id string) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.BookingID == id {
			return b, nil
		}
	}
	return models.Booking{}, ErrNotFound
}

func (s *MemStore) ListBookings(_ context.Context, mentorID string) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Booking{}
	for _, b := range s.bookings {
		if mentorID == "" || b.MentorID == mentorID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *MemStore) SetBookingStatus(_ context.Context, id, status string) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.bookings {
		if b.BookingID == id {
			s.bookings[i].Status = status
			s.bookings[i].Active = status != models.BookingStatusCancelled
			return s.bookings[i], nil
		}
	}
	return models.Booking{}, ErrNotFound
}
