package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/bookit/experience-booking/internal/booking"
	"github.com/bookit/experience-booking/internal/model"
)

// MySQL error numbers the store translates into classified failures.
const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrLockWaitTimeout = 1205
)

// BookingRepo persists booking records. Bookings are append-only; nothing in
// normal operation updates or deletes them.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// InsertTx inserts a new booking within the given transaction and populates
// the generated ID. A duplicate booking_reference surfaces as
// booking.ErrDuplicateReference; the failed statement does not poison the
// transaction, so the caller can retry with a fresh reference.
func (r *BookingRepo) InsertTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings
        (experience_id, experience_title, slot_id, slot_date, start_time,
         user_full_name, user_email, promo_code, discount_amount, final_price,
         number_of_people, status, booking_reference)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		b.ExperienceID, b.ExperienceTitle, b.SlotID, b.Date, b.StartTime,
		b.UserFullName, b.UserEmail, b.PromoCodeApplied, b.DiscountAmount, b.FinalPrice,
		b.NumberOfPeople, b.Status, b.BookingReference,
	)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlErrDuplicateEntry {
			return booking.ErrDuplicateReference
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetByReference returns the booking with the given human-facing reference.
// When none exists, sql.ErrNoRows is returned.
func (r *BookingRepo) GetByReference(ctx context.Context, reference string) (*model.Booking, error) {
	const q = `SELECT id, experience_id, experience_title, slot_id,
                      DATE_FORMAT(slot_date, '%Y-%m-%d'), start_time,
                      user_full_name, user_email, promo_code, discount_amount,
                      final_price, number_of_people, status, booking_reference, created_at
               FROM bookings WHERE booking_reference = ?`
	var b model.Booking
	var promo sql.NullString
	err := r.db.QueryRowContext(ctx, q, reference).Scan(
		&b.ID, &b.ExperienceID, &b.ExperienceTitle, &b.SlotID,
		&b.Date, &b.StartTime,
		&b.UserFullName, &b.UserEmail, &promo, &b.DiscountAmount,
		&b.FinalPrice, &b.NumberOfPeople, &b.Status, &b.BookingReference, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if promo.Valid {
		code := promo.String
		b.PromoCodeApplied = &code
	}
	return &b, nil
}

// DeleteAll removes every booking. Used by the seeder's destroy mode.
func (r *BookingRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bookings`)
	return err
}
