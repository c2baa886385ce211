package booking_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bookit/experience-booking/internal/booking"
	"github.com/bookit/experience-booking/internal/model"
	"github.com/bookit/experience-booking/internal/refgen"
	"github.com/bookit/experience-booking/internal/storage/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testExperience(capacity, available int) *model.Experience {
	return &model.Experience{
		Title:       "Venice Gondola Ride & Aperitivo",
		Description: "Private gondola ride followed by a classic Italian Aperitivo.",
		Price:       99.50,
		Duration:    "1.5 hours",
		Location:    "Venice, Italy",
		ImageURL:    "https://images.example.com/gondola",
		Slots: []model.Slot{
			{
				ID:             "slot-1",
				Date:           "2026-09-15",
				StartTime:      "18:00",
				EndTime:        "20:00",
				Capacity:       capacity,
				AvailableSeats: available,
				IsSoldOut:      available == 0,
			},
		},
	}
}

func validInput(expID uint64) booking.CreateBookingInput {
	return booking.CreateBookingInput{
		ExperienceID:   expID,
		SlotID:         "slot-1",
		UserFullName:   "Ada Lovelace",
		UserEmail:      "ada@example.com",
		NumberOfPeople: 2,
		FinalPrice:     199.00,
	}
}

// countingStore counts how many transactions were started. Used to prove
// that validation failures never touch storage.
type countingStore struct {
	inner booking.InventoryStore
	calls int32
}

func (c *countingStore) Transact(ctx context.Context, fn func(tx booking.InventoryTx) error) error {
	atomic.AddInt32(&c.calls, 1)
	return c.inner.Transact(ctx, fn)
}

// failingStore forces InsertBooking to fail after the seat decrement has
// been staged, to exercise rollback.
type failingStore struct {
	inner     booking.InventoryStore
	insertErr error
}

type failingTx struct {
	booking.InventoryTx
	insertErr error
}

func (f *failingStore) Transact(ctx context.Context, fn func(tx booking.InventoryTx) error) error {
	return f.inner.Transact(ctx, func(tx booking.InventoryTx) error {
		return fn(&failingTx{InventoryTx: tx, insertErr: f.insertErr})
	})
}

func (f *failingTx) InsertBooking(context.Context, *model.Booking) error {
	return f.insertErr
}

// scriptedGenerator returns queued references, falling back to real ones.
type scriptedGenerator struct {
	refs  []string
	calls int
	real  *refgen.Generator
}

func (g *scriptedGenerator) Generate() string {
	g.calls++
	if len(g.refs) > 0 {
		ref := g.refs[0]
		g.refs = g.refs[1:]
		return ref
	}
	if g.real == nil {
		g.real = refgen.New()
	}
	return g.real.Generate()
}

func TestCreateBookingEndToEnd(t *testing.T) {
	store := memory.New()
	expID := store.AddExperience(testExperience(5, 2))
	coord := booking.NewCoordinator(testLogger(), store, refgen.New(), 0)

	in := validInput(expID)
	in.PromoCodeApplied = "SAVE10"
	in.DiscountAmount = 19.90

	b, err := coord.CreateBooking(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	if b.Status != model.StatusConfirmed {
		t.Errorf("status = %q, want %q", b.Status, model.StatusConfirmed)
	}
	if b.ID == 0 {
		t.Error("committed booking was returned without its storage id")
	}
	if len(b.BookingReference) != refgen.Length {
		t.Errorf("reference %q has wrong length", b.BookingReference)
	}
	if b.ExperienceTitle != "Venice Gondola Ride & Aperitivo" || b.Date != "2026-09-15" || b.StartTime != "18:00" {
		t.Errorf("snapshot fields not taken from experience/slot: %+v", b)
	}
	if b.PromoCodeApplied == nil || *b.PromoCodeApplied != "SAVE10" {
		t.Errorf("promo code not recorded: %v", b.PromoCodeApplied)
	}

	exp, err := store.GetByID(context.Background(), expID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	slot := exp.FindSlot("slot-1")
	if slot.AvailableSeats != 0 {
		t.Errorf("availableSeats = %d, want 0", slot.AvailableSeats)
	}
	if !slot.IsSoldOut {
		t.Error("slot should be sold out after last seats were taken")
	}
	if got := len(store.Bookings()); got != 1 {
		t.Fatalf("persisted bookings = %d, want 1", got)
	}

	// A follow-up booking for 1 person must observe 0 remaining seats and
	// leave the count at exactly 0.
	in2 := validInput(expID)
	in2.NumberOfPeople = 1
	_, err = coord.CreateBooking(context.Background(), in2)
	ce := booking.AsCapacityError(err)
	if ce == nil {
		t.Fatalf("expected CapacityError, got %v", err)
	}
	if ce.Remaining != 0 {
		t.Errorf("reported remaining = %d, want 0", ce.Remaining)
	}

	exp, _ = store.GetByID(context.Background(), expID)
	if seats := exp.FindSlot("slot-1").AvailableSeats; seats != 0 {
		t.Errorf("availableSeats after rejected booking = %d, want 0", seats)
	}
	if got := len(store.Bookings()); got != 1 {
		t.Errorf("rejected booking persisted a record: %d bookings", got)
	}
}

func TestCreateBookingValidationSkipsStorage(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*booking.CreateBookingInput)
		field  string
	}{
		{"zero people", func(in *booking.CreateBookingInput) { in.NumberOfPeople = 0 }, "numberOfPeople"},
		{"missing experience", func(in *booking.CreateBookingInput) { in.ExperienceID = 0 }, "experienceId"},
		{"missing slot", func(in *booking.CreateBookingInput) { in.SlotID = "" }, "slotId"},
		{"missing name", func(in *booking.CreateBookingInput) { in.UserFullName = " " }, "userFullName"},
		{"bad email", func(in *booking.CreateBookingInput) { in.UserEmail = "not-an-email" }, "userEmail"},
		{"email without tld", func(in *booking.CreateBookingInput) { in.UserEmail = "ada@localhost" }, "userEmail"},
		{"missing price", func(in *booking.CreateBookingInput) { in.FinalPrice = 0 }, "finalPrice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &countingStore{inner: memory.New()}
			coord := booking.NewCoordinator(testLogger(), store, refgen.New(), 0)

			in := validInput(1)
			tt.mutate(&in)

			_, err := coord.CreateBooking(context.Background(), in)
			ie := booking.AsInputError(err)
			if ie == nil {
				t.Fatalf("expected InputError, got %v", err)
			}
			if _, ok := ie.Fields()[tt.field]; !ok {
				t.Errorf("expected failure on field %q, got %+v", tt.field, ie.Fields())
			}
			if n := atomic.LoadInt32(&store.calls); n != 0 {
				t.Errorf("storage was accessed %d times during validation failure", n)
			}
		})
	}
}

func TestCreateBookingNotFound(t *testing.T) {
	store := memory.New()
	expID := store.AddExperience(testExperience(5, 5))
	coord := booking.NewCoordinator(testLogger(), store, refgen.New(), 0)

	in := validInput(expID + 100)
	if _, err := coord.CreateBooking(context.Background(), in); !errors.Is(err, booking.ErrExperienceNotFound) {
		t.Errorf("unknown experience: got %v, want ErrExperienceNotFound", err)
	}

	in = validInput(expID)
	in.SlotID = "no-such-slot"
	if _, err := coord.CreateBooking(context.Background(), in); !errors.Is(err, booking.ErrSlotNotFound) {
		t.Errorf("unknown slot: got %v, want ErrSlotNotFound", err)
	}
}

func TestCreateBookingRollsBackOnInsertFailure(t *testing.T) {
	inner := memory.New()
	expID := inner.AddExperience(testExperience(5, 5))
	boom := errors.New("disk on fire")
	coord := booking.NewCoordinator(testLogger(), &failingStore{inner: inner, insertErr: boom}, refgen.New(), 0)

	_, err := coord.CreateBooking(context.Background(), validInput(expID))
	if !errors.Is(err, boom) {
		t.Fatalf("expected the insert failure to surface, got %v", err)
	}

	exp, _ := inner.GetByID(context.Background(), expID)
	if seats := exp.FindSlot("slot-1").AvailableSeats; seats != 5 {
		t.Errorf("availableSeats after failed transaction = %d, want 5", seats)
	}
	if got := len(inner.Bookings()); got != 0 {
		t.Errorf("orphaned booking records: %d", got)
	}
}

func TestCreateBookingRetriesOnReferenceCollision(t *testing.T) {
	store := memory.New()
	expID := store.AddExperience(testExperience(10, 10))

	// Seed a booking owning the reference the generator will emit first.
	first := booking.NewCoordinator(testLogger(), store, &scriptedGenerator{refs: []string{"AAAA1111"}}, 0)
	if _, err := first.CreateBooking(context.Background(), validInput(expID)); err != nil {
		t.Fatalf("seeding booking failed: %v", err)
	}

	gen := &scriptedGenerator{refs: []string{"AAAA1111", "BBBB2222"}}
	coord := booking.NewCoordinator(testLogger(), store, gen, 0)
	b, err := coord.CreateBooking(context.Background(), validInput(expID))
	if err != nil {
		t.Fatalf("CreateBooking failed after collision: %v", err)
	}
	if b.BookingReference != "BBBB2222" {
		t.Errorf("reference = %q, want regenerated BBBB2222", b.BookingReference)
	}
	if gen.calls != 2 {
		t.Errorf("generator called %d times, want exactly 2 (one regeneration)", gen.calls)
	}
}

func TestCreateBookingReferenceRetryBudget(t *testing.T) {
	store := memory.New()
	expID := store.AddExperience(testExperience(10, 10))

	seeder := booking.NewCoordinator(testLogger(), store, &scriptedGenerator{refs: []string{"AAAA1111"}}, 0)
	if _, err := seeder.CreateBooking(context.Background(), validInput(expID)); err != nil {
		t.Fatalf("seeding booking failed: %v", err)
	}

	stuck := &scriptedGenerator{refs: []string{"AAAA1111", "AAAA1111", "AAAA1111", "AAAA1111"}}
	coord := booking.NewCoordinator(testLogger(), store, stuck, 0)
	_, err := coord.CreateBooking(context.Background(), validInput(expID))
	if !errors.Is(err, booking.ErrReferenceExhausted) {
		t.Fatalf("expected ErrReferenceExhausted, got %v", err)
	}

	// The failed attempt must not have consumed seats or left records.
	exp, _ := store.GetByID(context.Background(), expID)
	if seats := exp.FindSlot("slot-1").AvailableSeats; seats != 8 {
		t.Errorf("availableSeats = %d, want 8 (only the seeded booking applied)", seats)
	}
	if got := len(store.Bookings()); got != 1 {
		t.Errorf("bookings = %d, want 1", got)
	}
}

func TestCreateBookingNoOversellUnderConcurrency(t *testing.T) {
	const capacity = 5
	store := memory.New()
	expID := store.AddExperience(testExperience(capacity, capacity))
	coord := booking.NewCoordinator(testLogger(), store, refgen.New(), 0)

	const workers = 20
	var wg sync.WaitGroup
	results := make(chan int, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(party int) {
			defer wg.Done()
			in := validInput(expID)
			in.NumberOfPeople = party
			if _, err := coord.CreateBooking(context.Background(), in); err == nil {
				results <- party
			}
		}(1 + i%2) // party sizes of 1 and 2
	}
	wg.Wait()
	close(results)

	booked := 0
	for n := range results {
		booked += n
	}
	if booked > capacity {
		t.Fatalf("oversold: %d seats booked against capacity %d", booked, capacity)
	}

	exp, _ := store.GetByID(context.Background(), expID)
	slot := exp.FindSlot("slot-1")
	if slot.AvailableSeats != capacity-booked {
		t.Errorf("availableSeats = %d, want %d", slot.AvailableSeats, capacity-booked)
	}
	if slot.AvailableSeats < 0 {
		t.Error("availableSeats went negative")
	}
	if slot.IsSoldOut != (slot.AvailableSeats == 0) {
		t.Errorf("isSoldOut = %v inconsistent with availableSeats = %d", slot.IsSoldOut, slot.AvailableSeats)
	}

	total := 0
	for _, b := range store.Bookings() {
		total += b.NumberOfPeople
	}
	if total != booked {
		t.Errorf("persisted party sizes sum to %d, successful requests sum to %d", total, booked)
	}
}

func TestCreateBookingCancelledContext(t *testing.T) {
	store := memory.New()
	expID := store.AddExperience(testExperience(5, 5))
	coord := booking.NewCoordinator(testLogger(), store, refgen.New(), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := coord.CreateBooking(ctx, validInput(expID))
	if !errors.Is(err, booking.ErrTimeout) {
		t.Fatalf("expected ErrTimeout for cancelled caller, got %v", err)
	}

	exp, _ := store.GetByID(context.Background(), expID)
	if seats := exp.FindSlot("slot-1").AvailableSeats; seats != 5 {
		t.Errorf("availableSeats = %d, want 5 after cancelled attempt", seats)
	}
}
