package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/bookit/experience-booking/internal/model"
)

// ExperienceRepo provides persistence for experiences. Each experience row
// embeds its slot list as a JSON column, so reading or writing slots always
// goes through the owning row.
type ExperienceRepo struct {
	db *sql.DB
}

// NewExperienceRepo returns an ExperienceRepo bound to the given database.
func NewExperienceRepo(db *sql.DB) *ExperienceRepo { return &ExperienceRepo{db: db} }

// List returns the catalog projection of every experience: id, title, price,
// duration, location and image, never slot detail.
func (r *ExperienceRepo) List(ctx context.Context) ([]model.Experience, error) {
	const q = `SELECT id, title, price, duration, location, image_url FROM experiences ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Experience, 0)
	for rows.Next() {
		var e model.Experience
		if err := rows.Scan(&e.ID, &e.Title, &e.Price, &e.Duration, &e.Location, &e.ImageURL); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetByID returns a full experience including its embedded slots. When no
// row exists, sql.ErrNoRows is returned.
func (r *ExperienceRepo) GetByID(ctx context.Context, id uint64) (*model.Experience, error) {
	const q = `SELECT id, title, description, price, duration, location, image_url, slots, created_at, updated_at
               FROM experiences WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

// GetForUpdateTx loads the experience row with an exclusive row lock inside
// the given transaction. Concurrent bookings against the same experience
// block here; bookings against different experiences do not contend.
func (r *ExperienceRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Experience, error) {
	const q = `SELECT id, title, description, price, duration, location, image_url, slots, created_at, updated_at
               FROM experiences WHERE id = ? FOR UPDATE`
	return r.scanOne(tx.QueryRowContext(ctx, q, id))
}

// UpdateSlotsTx writes the experience's slot list back as part of the same
// record, within the given transaction.
func (r *ExperienceRepo) UpdateSlotsTx(ctx context.Context, tx *sql.Tx, exp *model.Experience) error {
	raw, err := json.Marshal(exp.Slots)
	if err != nil {
		return fmt.Errorf("marshal slots: %w", err)
	}
	const q = `UPDATE experiences SET slots = ? WHERE id = ?`
	_, err = tx.ExecContext(ctx, q, raw, exp.ID)
	return err
}

// Insert stores a new experience and populates its generated ID. Used by the
// seeder.
func (r *ExperienceRepo) Insert(ctx context.Context, exp *model.Experience) error {
	raw, err := json.Marshal(exp.Slots)
	if err != nil {
		return fmt.Errorf("marshal slots: %w", err)
	}
	const q = `INSERT INTO experiences (title, description, price, duration, location, image_url, slots)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		exp.Title, exp.Description, exp.Price, exp.Duration, exp.Location, exp.ImageURL, raw)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	exp.ID = uint64(id)
	return nil
}

// DeleteAll removes every experience. Used by the seeder's destroy mode.
func (r *ExperienceRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM experiences`)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *ExperienceRepo) scanOne(row rowScanner) (*model.Experience, error) {
	var exp model.Experience
	var raw []byte
	if err := row.Scan(
		&exp.ID, &exp.Title, &exp.Description, &exp.Price, &exp.Duration,
		&exp.Location, &exp.ImageURL, &raw, &exp.CreatedAt, &exp.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &exp.Slots); err != nil {
		return nil, fmt.Errorf("unmarshal slots for experience %d: %w", exp.ID, err)
	}
	return &exp, nil
}
