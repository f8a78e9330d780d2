package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// PaymentCardRepo provides access to saved payment cards.  Every
// lookup is scoped to the owning user: the booking flow must never be
// able to charge someone else's card id.
type PaymentCardRepo struct {
	db *sql.DB
}

// NewPaymentCardRepo constructs a PaymentCardRepo with the given DB handle.
func NewPaymentCardRepo(db *sql.DB) *PaymentCardRepo { return &PaymentCardRepo{db: db} }

// GetByIDAndUser retrieves a saved card while enforcing ownership.
// ErrCardNotFound is returned when the card does not exist or belongs
// to another user; the two cases are deliberately indistinguishable.
func (r *PaymentCardRepo) GetByIDAndUser(ctx context.Context, cardID, userID uint64) (*model.PaymentCard, error) {
	const q = `SELECT id, user_id, brand, last4, expires, created_at
	           FROM payment_cards WHERE id = ? AND user_id = ?`
	var c model.PaymentCard
	err := r.db.QueryRowContext(ctx, q, cardID, userID).
		Scan(&c.ID, &c.UserID, &c.Brand, &c.Last4, &c.Expires, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByUser returns all saved cards of a user, oldest first.
func (r *PaymentCardRepo) ListByUser(ctx context.Context, userID uint64) ([]model.PaymentCard, error) {
	const q = `SELECT id, user_id, brand, last4, expires, created_at
	           FROM payment_cards WHERE user_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.PaymentCard, 0)
	for rows.Next() {
		var c model.PaymentCard
		if err := rows.Scan(&c.ID, &c.UserID, &c.Brand, &c.Last4, &c.Expires, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create saves a card on the user's profile.  Callers pass only the
// brand, the last four digits and the expiration; the full number is
// never persisted.
func (r *PaymentCardRepo) Create(ctx context.Context, c *model.PaymentCard) error {
	const q = `INSERT INTO payment_cards (user_id, brand, last4, expires) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.UserID, c.Brand, c.Last4, c.Expires)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// DeleteByIDAndUser removes a card while enforcing ownership.
// ErrCardNotFound is returned when nothing was deleted.
func (r *PaymentCardRepo) DeleteByIDAndUser(ctx context.Context, cardID, userID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM payment_cards WHERE id = ? AND user_id = ?`, cardID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCardNotFound
	}
	return nil
}
