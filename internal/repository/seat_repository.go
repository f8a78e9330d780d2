package repository // repository defines data access for per-showing seats

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// SeatRepo provides methods to work with the seat inventory of a
// showing.  Seats are created once per showing (seeded from a hall
// template) and their availability flag is the only mutable field.
// The reservation flow must only touch seats through the *Tx methods
// so that the lock -> read -> validate -> write sequence stays inside
// one transaction.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// DB exposes the underlying handle so handlers can open transactions
// that span several repositories.
func (r *SeatRepo) DB() *sql.DB { return r.db }

// SeedForShowing creates the full seat grid for a showing from a hall
// template: rows x seatsPerRow seats, all available.  Row labels are
// generated A, B, ... Z, AA, AB and so on.
func (r *SeatRepo) SeedForShowing(ctx context.Context, showingID uint64, rows, seatsPerRow uint32) error {
	if rows == 0 || seatsPerRow == 0 {
		return nil
	}
	query := `INSERT INTO seats (showing_id, row_label, seat_number, is_available) VALUES `
	args := make([]interface{}, 0, int(rows)*int(seatsPerRow)*4)
	first := true
	for ri := uint32(0); ri < rows; ri++ {
		label := rowLabel(int(ri))
		for n := uint32(1); n <= seatsPerRow; n++ {
			if !first {
				query += ","
			}
			first = false
			query += "(?, ?, ?, TRUE)"
			args = append(args, showingID, label, n)
		}
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// rowLabel converts a zero-based row index to an alphabetical label
// like A, B, AA.
func rowLabel(i int) string {
	if i < 0 {
		return ""
	}
	var res []rune
	for {
		res = append(res, rune('A'+i%26))
		i = i/26 - 1
		if i < 0 {
			break
		}
	}
	for j, k := 0, len(res)-1; j < k; j, k = j+1, k-1 {
		res[j], res[k] = res[k], res[j]
	}
	return string(res)
}

// CountByShowing returns how many seat rows exist for a showing.
// Used as an idempotence guard before seeding.
func (r *SeatRepo) CountByShowing(ctx context.Context, showingID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM seats WHERE showing_id = ?`, showingID).Scan(&n)
	return n, err
}

// ListByShowing retrieves all seats of a showing ordered by row label
// then seat number, for the public availability view.
func (r *SeatRepo) ListByShowing(ctx context.Context, showingID uint64) ([]model.Seat, error) {
	const q = `SELECT id, showing_id, row_label, seat_number, is_available, created_at, updated_at
	           FROM seats
	           WHERE showing_id = ?
	           ORDER BY row_label, seat_number`
	rows, err := r.db.QueryContext(ctx, q, showingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(
			&s.ID, &s.ShowingID, &s.RowLabel, &s.SeatNumber,
			&s.IsAvailable, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// LockForReservationTx acquires exclusive row locks on exactly the
// requested seats of a showing and validates them.  All requested ids
// are covered by a single locking read, so two overlapping bookings
// can never acquire their locks in conflicting order.  The locks are
// held until the caller's transaction commits or rolls back.
//
// It returns ErrSeatNotFound when fewer rows come back than ids were
// requested (some seat does not exist for this showing) and a
// *SeatsUnavailableError listing the already-taken seats when any
// locked seat has is_available = FALSE.  Nothing is mutated in either
// case.
func (r *SeatRepo) LockForReservationTx(ctx context.Context, tx *sql.Tx, showingID uint64, seatIDs []uint64) ([]model.Seat, error) {
	if len(seatIDs) == 0 {
		return nil, ErrSeatNotFound
	}
	q := fmt.Sprintf(
		`SELECT id, showing_id, row_label, seat_number, is_available
		 FROM seats
		 WHERE showing_id = ? AND id IN (%s)
		 ORDER BY id
		 FOR UPDATE`,
		placeholders(len(seatIDs)))
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, showingID)
	for _, id := range seatIDs {
		args = append(args, id)
	}
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []model.Seat
	var taken []uint64
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.ShowingID, &s.RowLabel, &s.SeatNumber, &s.IsAvailable); err != nil {
			return nil, err
		}
		if !s.IsAvailable {
			taken = append(taken, s.ID)
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(seats) != len(seatIDs) {
		return nil, ErrSeatNotFound
	}
	if len(taken) > 0 {
		return nil, &SeatsUnavailableError{SeatIDs: taken}
	}
	return seats, nil
}

// MarkUnavailableTx flips is_available to FALSE for exactly the given
// seats.  The showing id in the WHERE clause guards against a booking
// corrupting another showing's inventory.  The caller must hold the
// locks acquired by LockForReservationTx in the same transaction.
func (r *SeatRepo) MarkUnavailableTx(ctx context.Context, tx *sql.Tx, showingID uint64, seatIDs []uint64) error {
	if len(seatIDs) == 0 {
		return nil
	}
	q := fmt.Sprintf(
		`UPDATE seats SET is_available = FALSE, updated_at = CURRENT_TIMESTAMP
		 WHERE showing_id = ? AND id IN (%s)`,
		placeholders(len(seatIDs)))
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, showingID)
	for _, id := range seatIDs {
		args = append(args, id)
	}
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n != int64(len(seatIDs)) {
		return ErrSeatNotFound
	}
	return nil
}

// placeholders builds a "?, ?, ?" list of the given length.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
