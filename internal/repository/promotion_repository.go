package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// PromotionRepo provides data access to promotion codes.  Codes are
// matched exactly (after trimming and upper-casing) and are only
// usable while the current date lies inside the inclusive
// [starts_at, ends_at] window.  The user opt-in half of the
// eligibility gate lives with the user record, not here.
type PromotionRepo struct {
	db *sql.DB
}

// NewPromotionRepo constructs a PromotionRepo with the given DB handle.
func NewPromotionRepo(db *sql.DB) *PromotionRepo { return &PromotionRepo{db: db} }

const promotionColumns = `id, code, description, discount_percent, discount_cents, starts_at, ends_at, created_at, updated_at`

func scanPromotion(scan func(dest ...interface{}) error) (model.Promotion, error) {
	var p model.Promotion
	err := scan(&p.ID, &p.Code, &p.Description, &p.DiscountPercent, &p.DiscountCents,
		&p.StartsAt, &p.EndsAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetValidByCode resolves a promotion by its code and validates the
// date window.  It returns ErrPromotionNotFound both when no row
// matches the code and when the code exists but `now` falls outside
// the window — a promotion outside its window must be rejected, never
// silently applied with zero discount.
func (r *PromotionRepo) GetValidByCode(ctx context.Context, code string, now time.Time) (*model.Promotion, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrPromotionNotFound
	}
	const q = `SELECT ` + promotionColumns + ` FROM promotions WHERE code = ? LIMIT 1`
	p, err := scanPromotion(r.db.QueryRowContext(ctx, q, code).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPromotionNotFound
		}
		return nil, err
	}
	if !PromotionValidOn(&p, now) {
		return nil, ErrPromotionNotFound
	}
	return &p, nil
}

// PromotionValidOn reports whether the date of t (UTC) lies within
// the promotion's inclusive validity window.  Comparison is at day
// granularity: a code starting today is valid today, and one ending
// today remains valid until midnight.
func PromotionValidOn(p *model.Promotion, t time.Time) bool {
	day := t.UTC().Truncate(24 * time.Hour)
	start := p.StartsAt.UTC().Truncate(24 * time.Hour)
	end := p.EndsAt.UTC().Truncate(24 * time.Hour)
	return !day.Before(start) && !day.After(end)
}

// Create inserts a promotion and populates its ID.  The code is
// stored upper-cased so lookups stay case-insensitive.
func (r *PromotionRepo) Create(ctx context.Context, p *model.Promotion) error {
	const q = `INSERT INTO promotions (code, description, discount_percent, discount_cents, starts_at, ends_at)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		strings.ToUpper(strings.TrimSpace(p.Code)), p.Description,
		p.DiscountPercent, p.DiscountCents, p.StartsAt.UTC(), p.EndsAt.UTC())
	if err != nil {
		// 1062 is MySQL's duplicate-key error
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// ListAll returns every promotion ordered by creation time descending.
func (r *PromotionRepo) ListAll(ctx context.Context) ([]model.Promotion, error) {
	const q = `SELECT ` + promotionColumns + ` FROM promotions ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Promotion, 0)
	for rows.Next() {
		p, err := scanPromotion(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a promotion by id.  ErrPromotionNotFound is
// returned when the id does not exist.
func (r *PromotionRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM promotions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPromotionNotFound
	}
	return nil
}
