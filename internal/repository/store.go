package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/bookit/experience-booking/internal/booking"
	"github.com/bookit/experience-booking/internal/model"
)

// Store is the MySQL-backed booking.InventoryStore. It wires the repositories'
// *Tx methods into a single atomic unit: every write inside Transact becomes
// visible together at commit, or not at all.
type Store struct {
	db          *sql.DB
	experiences *ExperienceRepo
	bookings    *BookingRepo
}

// NewStore returns a Store over the given handle.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:          db,
		experiences: NewExperienceRepo(db),
		bookings:    NewBookingRepo(db),
	}
}

// Transact runs fn inside one SQL transaction, rolling back on any error and
// translating engine failures into the booking package's classified errors.
func (s *Store) Transact(ctx context.Context, fn func(tx booking.InventoryTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", translateStoreErr(err))
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&sqlTx{store: s, tx: tx}); err != nil {
		return translateStoreErr(err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", translateStoreErr(err))
	}
	committed = true
	return nil
}

type sqlTx struct {
	store *Store
	tx    *sql.Tx
}

func (t *sqlTx) ExperienceForUpdate(ctx context.Context, id uint64) (*model.Experience, error) {
	exp, err := t.store.experiences.GetForUpdateTx(ctx, t.tx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrExperienceNotFound
	}
	return exp, err
}

func (t *sqlTx) SaveExperience(ctx context.Context, exp *model.Experience) error {
	return t.store.experiences.UpdateSlotsTx(ctx, t.tx, exp)
}

func (t *sqlTx) InsertBooking(ctx context.Context, b *model.Booking) error {
	return t.store.bookings.InsertTx(ctx, t.tx, b)
}

// translateStoreErr maps lock-wait expiry onto the retryable timeout error.
// Classified booking errors pass through untouched.
func translateStoreErr(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlErrLockWaitTimeout {
		return booking.ErrTimeout
	}
	return err
}
