package booking

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/bookit/experience-booking/internal/model"
)

// referenceGenerator mints candidate booking references. Uniqueness is
// enforced by the store; the coordinator retries on collision.
type referenceGenerator interface {
	Generate() string
}

// maxReferenceAttempts bounds how many times a colliding booking reference
// is regenerated before the booking fails.
const maxReferenceAttempts = 3

// defaultTxTimeout bounds the transactional body so a booking blocked on a
// lock held by a concurrent request cannot wait forever.
const defaultTxTimeout = 5 * time.Second

// CreateBookingInput carries one booking request. FinalPrice is computed by
// the caller (via the pricing package) and is only recorded here.
type CreateBookingInput struct {
	ExperienceID     uint64
	SlotID           string
	UserFullName     string
	UserEmail        string
	NumberOfPeople   int
	FinalPrice       float64
	PromoCodeApplied string
	DiscountAmount   float64
}

// Coordinator orchestrates the booking transaction: load experience, locate
// slot, validate capacity, decrement, persist experience and booking as one
// atomic unit. All cross-request coordination is delegated to the store's
// transaction facilities; the coordinator itself holds no shared state.
type Coordinator struct {
	log       *slog.Logger
	store     InventoryStore
	refs      referenceGenerator
	txTimeout time.Duration
}

// NewCoordinator wires a Coordinator. A zero txTimeout selects the default.
func NewCoordinator(log *slog.Logger, store InventoryStore, refs referenceGenerator, txTimeout time.Duration) *Coordinator {
	if txTimeout <= 0 {
		txTimeout = defaultTxTimeout
	}
	return &Coordinator{log: log, store: store, refs: refs, txTimeout: txTimeout}
}

func (in *CreateBookingInput) validate() error {
	inputErr := newInputError()

	if in.ExperienceID == 0 {
		inputErr.add("experienceId", "experienceId is required")
	}
	if strings.TrimSpace(in.SlotID) == "" {
		inputErr.add("slotId", "slotId is required")
	}
	if strings.TrimSpace(in.UserFullName) == "" {
		inputErr.add("userFullName", "userFullName is required")
	}
	if strings.TrimSpace(in.UserEmail) == "" {
		inputErr.add("userEmail", "userEmail is required")
	} else if !isValidEmail(in.UserEmail) {
		inputErr.add("userEmail", "provide a valid email address")
	}
	if in.NumberOfPeople < 1 {
		inputErr.add("numberOfPeople", "must book for at least 1 person")
	}
	if in.FinalPrice <= 0 {
		inputErr.add("finalPrice", "finalPrice is required")
	}
	if in.DiscountAmount < 0 {
		inputErr.add("discountAmount", "discountAmount must not be negative")
	}

	if inputErr.hasErrors() {
		return inputErr
	}
	return nil
}

// isValidEmail checks the basic local@domain.tld shape.
func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	domain := email[strings.LastIndex(email, "@")+1:]
	return strings.Contains(domain, ".")
}

// CreateBooking validates the input, then runs the transactional body under
// a bounded deadline. On success the returned booking is committed with
// status Confirmed; on any failure every write is rolled back and the slot's
// seat count is exactly as it was before the attempt.
func (c *Coordinator) CreateBooking(ctx context.Context, in CreateBookingInput) (*model.Booking, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.txTimeout)
	defer cancel()

	var booked *model.Booking
	err := c.store.Transact(ctx, func(tx InventoryTx) error {
		exp, err := tx.ExperienceForUpdate(ctx, in.ExperienceID)
		if err != nil {
			return err
		}

		slot := exp.FindSlot(in.SlotID)
		if slot == nil {
			return ErrSlotNotFound
		}

		if !slot.TakeSeats(in.NumberOfPeople) {
			return &CapacityError{Requested: in.NumberOfPeople, Remaining: slot.AvailableSeats}
		}

		if err := tx.SaveExperience(ctx, exp); err != nil {
			return err
		}

		b := &model.Booking{
			ExperienceID:    exp.ID,
			ExperienceTitle: exp.Title,
			SlotID:          slot.ID,
			Date:            slot.Date,
			StartTime:       slot.StartTime,
			UserFullName:    in.UserFullName,
			UserEmail:       in.UserEmail,
			DiscountAmount:  in.DiscountAmount,
			FinalPrice:      in.FinalPrice,
			NumberOfPeople:  in.NumberOfPeople,
			Status:          model.StatusConfirmed,
			CreatedAt:       time.Now().UTC(),
		}
		if in.PromoCodeApplied != "" {
			code := in.PromoCodeApplied
			b.PromoCodeApplied = &code
		}

		for attempt := 1; ; attempt++ {
			b.BookingReference = c.refs.Generate()
			err := tx.InsertBooking(ctx, b)
			if err == nil {
				break
			}
			if !errors.Is(err, ErrDuplicateReference) {
				return err
			}
			if attempt >= maxReferenceAttempts {
				c.log.Error("booking reference generation kept colliding",
					"experience_id", exp.ID, "attempts", attempt)
				return ErrReferenceExhausted
			}
			c.log.Warn("booking reference collided, regenerating",
				"reference", b.BookingReference, "attempt", attempt)
		}

		booked = b
		return nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, ErrTimeout
		}
		return nil, err
	}

	c.log.Info("booking confirmed",
		"reference", booked.BookingReference,
		"experience_id", booked.ExperienceID,
		"slot_id", booked.SlotID,
		"party_size", booked.NumberOfPeople)
	return booked, nil
}
