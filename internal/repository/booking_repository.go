package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// BookingRepo provides persistence for bookings and their tickets.
// A booking groups the tickets bought in one reservation transaction
// for a showing and user; both are inserted atomically and never
// updated afterwards.  All timestamps are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// CreateTx inserts a new booking within the scope of an existing
// transaction and populates the generated ID on the passed record.
// The caller must commit or roll back the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings
	           (user_id, showing_id, status, subtotal_cents, discount_cents, tax_cents, fee_cents, total_cents, promotion_id, payment_card_id)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var promoID, cardID interface{}
	if b.PromotionID != nil {
		promoID = *b.PromotionID
	}
	if b.PaymentCardID != nil {
		cardID = *b.PaymentCardID
	}
	res, err := tx.ExecContext(ctx, q,
		b.UserID, b.ShowingID, b.Status,
		b.SubtotalCents, b.DiscountCents, b.TaxCents, b.FeeCents, b.TotalCents,
		promoID, cardID,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// CreateTicketsBulkTx inserts all ticket rows of a booking in a
// single statement.  Passing an empty slice has no effect.
func (r *BookingRepo) CreateTicketsBulkTx(ctx context.Context, tx *sql.Tx, tickets []model.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	query := `INSERT INTO tickets (booking_id, seat_id, seat_label, category, price_cents) VALUES `
	args := make([]interface{}, 0, len(tickets)*5)
	for i, t := range tickets {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, t.BookingID, t.SeatID, t.SeatLabel, t.Category, t.PriceCents)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// BookingNumber fetches the store-assigned booking number after the
// booking has been committed.  The number is for client display only;
// callers treat a failed lookup as non-fatal because the booking
// itself already exists.
func (r *BookingRepo) BookingNumber(ctx context.Context, bookingID uint64) (string, error) {
	var num string
	err := r.db.QueryRowContext(ctx,
		`SELECT booking_number FROM bookings WHERE id = ?`, bookingID).Scan(&num)
	return num, err
}

// TicketLine is one ticket as returned in booking detail responses.
type TicketLine struct {
	SeatID     uint64 `json:"seat_id"`
	SeatLabel  string `json:"seat_label"`
	Category   string `json:"category"`
	PriceCents uint32 `json:"price_cents"`
}

// BookingDetail aggregates a booking with its showing, movie and
// ticket information for display to customers.
type BookingDetail struct {
	ID            uint64       `json:"id"`
	BookingNumber string       `json:"booking_number"`
	ShowingID     uint64       `json:"showing_id"`
	Status        string       `json:"status"`
	MovieTitle    string       `json:"movie_title"`
	Auditorium    string       `json:"auditorium"`
	StartsAt      *string      `json:"starts_at"`
	SubtotalCents uint32       `json:"subtotal_cents"`
	DiscountCents uint32       `json:"discount_cents"`
	TaxCents      uint32       `json:"tax_cents"`
	FeeCents      uint32       `json:"fee_cents"`
	TotalCents    uint32       `json:"total_cents"`
	Tickets       []TicketLine `json:"tickets"`
}

const bookingDetailQuery = `SELECT b.id, b.booking_number, b.showing_id, b.status,
       m.title, s.auditorium, s.starts_at,
       b.subtotal_cents, b.discount_cents, b.tax_cents, b.fee_cents, b.total_cents
FROM bookings b
JOIN showings s ON s.id = b.showing_id
JOIN movies m ON m.id = s.movie_id`

// scanBookingDetail reads one row of bookingDetailQuery.
func scanBookingDetail(scan func(dest ...interface{}) error) (BookingDetail, error) {
	var d BookingDetail
	var num sql.NullString
	var startsAt sql.NullTime
	err := scan(
		&d.ID, &num, &d.ShowingID, &d.Status,
		&d.MovieTitle, &d.Auditorium, &startsAt,
		&d.SubtotalCents, &d.DiscountCents, &d.TaxCents, &d.FeeCents, &d.TotalCents,
	)
	if err != nil {
		return d, err
	}
	if num.Valid {
		d.BookingNumber = num.String
	}
	if startsAt.Valid {
		iso := startsAt.Time.UTC().Format(time.RFC3339)
		d.StartsAt = &iso
	}
	d.Tickets = []TicketLine{}
	return d, nil
}

// GetByIDForUser returns a single booking for the given user,
// including its ticket lines.  sql.ErrNoRows is returned when no
// booking with the id exists for that user.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, bookingID, userID uint64) (*BookingDetail, error) {
	q := bookingDetailQuery + ` WHERE b.id = ? AND b.user_id = ?`
	row := r.db.QueryRowContext(ctx, q, bookingID, userID)
	d, err := scanBookingDetail(row.Scan)
	if err != nil {
		return nil, err
	}
	if err := r.attachTickets(ctx, map[uint64]*BookingDetail{d.ID: &d}); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByUser returns all bookings of a user, newest first, with their
// ticket lines populated.  An empty slice is returned when the user
// has no bookings.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	q := bookingDetailQuery + ` WHERE b.user_id = ? ORDER BY b.created_at DESC`
	return r.listDetails(ctx, q, userID)
}

// ListByShowing returns all bookings made for a showing, newest
// first.  Used by the admin dashboard.
func (r *BookingRepo) ListByShowing(ctx context.Context, showingID uint64) ([]BookingDetail, error) {
	q := bookingDetailQuery + ` WHERE b.showing_id = ? ORDER BY b.created_at DESC`
	return r.listDetails(ctx, q, showingID)
}

func (r *BookingRepo) listDetails(ctx context.Context, q string, arg interface{}) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]BookingDetail, 0)
	index := make(map[uint64]*BookingDetail)
	for rows.Next() {
		d, err := scanBookingDetail(rows.Scan)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	for i := range details {
		index[details[i].ID] = &details[i]
	}
	if err := r.attachTickets(ctx, index); err != nil {
		return nil, err
	}
	return details, nil
}

// attachTickets populates the ticket lines of all given bookings in a
// single query.
func (r *BookingRepo) attachTickets(ctx context.Context, byID map[uint64]*BookingDetail) error {
	if len(byID) == 0 {
		return nil
	}
	ids := make([]interface{}, 0, len(byID))
	marks := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
		marks = append(marks, "?")
	}
	q := `SELECT booking_id, seat_id, seat_label, category, price_cents
	      FROM tickets
	      WHERE booking_id IN (` + strings.Join(marks, ",") + `)
	      ORDER BY booking_id, seat_label`
	rows, err := r.db.QueryContext(ctx, q, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var bid uint64
		var t TicketLine
		if err := rows.Scan(&bid, &t.SeatID, &t.SeatLabel, &t.Category, &t.PriceCents); err != nil {
			return err
		}
		if d, ok := byID[bid]; ok {
			d.Tickets = append(d.Tickets, t)
		}
	}
	return rows.Err()
}
