package booking

import (
	"context"

	"github.com/bookit/experience-booking/internal/model"
)

// InventoryTx is the set of operations available inside one booking
// transaction. All mutations performed through a tx become visible together
// on commit or not at all.
type InventoryTx interface {
	// ExperienceForUpdate loads the experience with exclusive intent: no
	// concurrent transaction may observe or mutate the record between this
	// read and the commit. Returns ErrExperienceNotFound when absent.
	ExperienceForUpdate(ctx context.Context, id uint64) (*model.Experience, error)
	// SaveExperience writes the experience back, embedded slots included.
	SaveExperience(ctx context.Context, exp *model.Experience) error
	// InsertBooking persists a new booking. Returns ErrDuplicateReference
	// when the booking reference is already taken; the statement failure
	// does not poison the transaction.
	InsertBooking(ctx context.Context, b *model.Booking) error
}

// InventoryStore runs a function within a single atomic transaction.
// Implementations must roll back every write when fn returns an error or the
// context ends, and must map their engine's lock/deadline failures to
// ErrTimeout.
type InventoryStore interface {
	Transact(ctx context.Context, fn func(tx InventoryTx) error) error
}
