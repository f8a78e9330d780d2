package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// FeeRepo reads and appends the flat booking-fee configuration.
// Fee rows are append-only; the newest row is the fee in effect.
type FeeRepo struct {
	db *sql.DB
}

// NewFeeRepo constructs a FeeRepo with the given DB handle.
func NewFeeRepo(db *sql.DB) *FeeRepo { return &FeeRepo{db: db} }

// CurrentFeeCents returns the most recently configured flat booking
// fee.  When no fee has ever been configured it returns 0, not an
// error.
func (r *FeeRepo) CurrentFeeCents(ctx context.Context) (uint32, error) {
	var fee uint32
	err := r.db.QueryRowContext(ctx,
		`SELECT fee_cents FROM booking_fees ORDER BY created_at DESC, id DESC LIMIT 1`,
	).Scan(&fee)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return fee, nil
}

// Create appends a new fee row, making it the fee in effect.
func (r *FeeRepo) Create(ctx context.Context, f *model.BookingFee) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO booking_fees (fee_cents) VALUES (?)`, f.FeeCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}
