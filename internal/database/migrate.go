package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Experiences embed their slot list as a JSON column: slots have no
// independent lifecycle, and keeping them on the parent row lets a single
// row lock cover the read-check-decrement-write of a booking.
const createExperiencesTableSQL = `
CREATE TABLE IF NOT EXISTS experiences (
    id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    title       VARCHAR(255)  NOT NULL,
    description TEXT          NOT NULL,
    price       DECIMAL(10,2) NOT NULL,
    duration    VARCHAR(64)   NOT NULL,
    location    VARCHAR(255)  NOT NULL,
    image_url   VARCHAR(512)  NOT NULL,
    slots       JSON          NOT NULL,
    created_at  TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

// Bookings are a flat append-only table. The unique key on booking_reference
// is what turns a rare generator collision into a retryable insert error.
const createBookingsTableSQL = `
CREATE TABLE IF NOT EXISTS bookings (
    id                BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    experience_id     BIGINT UNSIGNED NOT NULL,
    experience_title  VARCHAR(255)  NOT NULL,
    slot_id           VARCHAR(36)   NOT NULL,
    slot_date         DATE          NOT NULL,
    start_time        VARCHAR(5)    NOT NULL,
    user_full_name    VARCHAR(255)  NOT NULL,
    user_email        VARCHAR(255)  NOT NULL,
    promo_code        VARCHAR(64)   NULL,
    discount_amount   DECIMAL(10,2) NOT NULL DEFAULT 0,
    final_price       DECIMAL(10,2) NOT NULL,
    number_of_people  INT UNSIGNED  NOT NULL,
    status            ENUM('Pending','Confirmed','Cancelled') NOT NULL DEFAULT 'Confirmed',
    booking_reference CHAR(8)       NOT NULL,
    created_at        TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE KEY uq_bookings_reference (booking_reference),
    KEY idx_bookings_experience (experience_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

// Migrate creates the schema when it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, createExperiencesTableSQL); err != nil {
		return fmt.Errorf("create experiences table: %w", err)
	}
	if _, err := db.ExecContext(ctx, createBookingsTableSQL); err != nil {
		return fmt.Errorf("create bookings table: %w", err)
	}
	return nil
}
