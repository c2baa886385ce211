// Package memory provides an in-memory InventoryStore. It backs tests and
// local development; the production store lives in internal/repository.
package memory

import (
	"context"
	"sync"

	"github.com/bookit/experience-booking/internal/booking"
	"github.com/bookit/experience-booking/internal/model"
)

// Store keeps experiences and bookings in process memory. A single mutex
// serializes transactions, which gives the same isolation guarantee the SQL
// store gets from row locks: no transaction observes another's intermediate
// state. Writes are staged per transaction and applied only on commit.
type Store struct {
	mu            sync.Mutex
	experiences   map[uint64]*model.Experience
	bookings      []model.Booking
	references    map[string]struct{}
	nextID        uint64
	nextBookingID uint64
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		experiences: make(map[uint64]*model.Experience),
		references:  make(map[string]struct{}),
	}
}

// AddExperience stores a copy of exp, assigning an id when it has none, and
// returns the assigned id.
func (s *Store) AddExperience(exp *model.Experience) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if exp.ID == 0 {
		s.nextID++
		exp.ID = s.nextID
	} else if exp.ID > s.nextID {
		s.nextID = exp.ID
	}
	s.experiences[exp.ID] = copyExperience(exp)
	return exp.ID
}

// tx stages writes until commit.
type tx struct {
	store       *Store
	experiences map[uint64]*model.Experience
	bookings    []*model.Booking
}

// Transact runs fn inside a transaction. The store mutex is held for the
// whole call, so concurrent bookings against the same slot serialize and at
// most one can win the last seats.
func (s *Store) Transact(ctx context.Context, fn func(t booking.InventoryTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	t := &tx{store: s, experiences: make(map[uint64]*model.Experience)}
	if err := fn(t); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// Commit staged writes.
	for id, exp := range t.experiences {
		s.experiences[id] = exp
	}
	for _, b := range t.bookings {
		s.nextBookingID++
		b.ID = s.nextBookingID
		s.bookings = append(s.bookings, *b)
		s.references[b.BookingReference] = struct{}{}
	}
	return nil
}

func (t *tx) ExperienceForUpdate(_ context.Context, id uint64) (*model.Experience, error) {
	if staged, ok := t.experiences[id]; ok {
		return copyExperience(staged), nil
	}
	exp, ok := t.store.experiences[id]
	if !ok {
		return nil, booking.ErrExperienceNotFound
	}
	return copyExperience(exp), nil
}

func (t *tx) SaveExperience(_ context.Context, exp *model.Experience) error {
	t.experiences[exp.ID] = copyExperience(exp)
	return nil
}

func (t *tx) InsertBooking(_ context.Context, b *model.Booking) error {
	if _, taken := t.store.references[b.BookingReference]; taken {
		return booking.ErrDuplicateReference
	}
	for _, staged := range t.bookings {
		if staged.BookingReference == b.BookingReference {
			return booking.ErrDuplicateReference
		}
	}
	// Stage the caller's pointer so the id assigned at commit is visible on
	// the booking the coordinator returns; the store itself only keeps the
	// value copy made at commit.
	t.bookings = append(t.bookings, b)
	return nil
}

// List returns copies of all experiences ordered by id.
func (s *Store) List(_ context.Context) ([]model.Experience, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Experience, 0, len(s.experiences))
	for id := uint64(1); id <= s.nextID; id++ {
		if exp, ok := s.experiences[id]; ok {
			out = append(out, *copyExperience(exp))
		}
	}
	return out, nil
}

// GetByID returns a copy of one experience.
func (s *Store) GetByID(_ context.Context, id uint64) (*model.Experience, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.experiences[id]
	if !ok {
		return nil, booking.ErrExperienceNotFound
	}
	return copyExperience(exp), nil
}

// Bookings returns a copy of all committed bookings.
func (s *Store) Bookings() []model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Booking, len(s.bookings))
	copy(out, s.bookings)
	return out
}

func copyExperience(exp *model.Experience) *model.Experience {
	dup := *exp
	dup.Slots = make([]model.Slot, len(exp.Slots))
	copy(dup.Slots, exp.Slots)
	return &dup
}
