package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// ErrShowingNotFound is returned when a showing lookup yields no rows.
var ErrShowingNotFound = errors.New("showing not found")

// ShowingRepo provides CRUD access to scheduled showings.
type ShowingRepo struct {
	db *sql.DB
}

// NewShowingRepo constructs a ShowingRepo with the given DB handle.
func NewShowingRepo(db *sql.DB) *ShowingRepo { return &ShowingRepo{db: db} }

// DB exposes the underlying handle for transaction-spanning callers.
func (r *ShowingRepo) DB() *sql.DB { return r.db }

const showingColumns = `id, movie_id, auditorium, starts_at, ends_at, created_at, updated_at`

func scanShowing(scan func(dest ...interface{}) error) (model.Showing, error) {
	var s model.Showing
	err := scan(&s.ID, &s.MovieID, &s.Auditorium, &s.StartsAt, &s.EndsAt, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// Create inserts a showing and populates its ID.
func (r *ShowingRepo) Create(ctx context.Context, s *model.Showing) error {
	const q = `INSERT INTO showings (movie_id, auditorium, starts_at, ends_at) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.MovieID, s.Auditorium, s.StartsAt.UTC(), s.EndsAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID retrieves a showing by id.
func (r *ShowingRepo) GetByID(ctx context.Context, id uint64) (*model.Showing, error) {
	s, err := scanShowing(r.db.QueryRowContext(ctx,
		`SELECT `+showingColumns+` FROM showings WHERE id = ?`, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowingNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByMovie returns all showings of a movie ordered by start time.
func (r *ShowingRepo) ListByMovie(ctx context.Context, movieID uint64) ([]model.Showing, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+showingColumns+` FROM showings WHERE movie_id = ? ORDER BY starts_at`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Showing, 0)
	for rows.Next() {
		s, err := scanShowing(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update replaces a showing's schedule fields.  sql.ErrNoRows is
// returned when the id does not exist.
func (r *ShowingRepo) Update(ctx context.Context, s *model.Showing) error {
	const q = `UPDATE showings SET auditorium = ?, starts_at = ?, ends_at = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, s.Auditorium, s.StartsAt.UTC(), s.EndsAt.UTC(), s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a showing.  It fails with ErrConflict when bookings
// exist for it.
func (r *ShowingRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE showing_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM showings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
