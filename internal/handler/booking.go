package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/monitoring"
	"github.com/iliyamo/movie-ticket-booking/internal/pricing"
	"github.com/iliyamo/movie-ticket-booking/internal/queue"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
	queue_publisher "github.com/iliyamo/movie-ticket-booking/internal/service"
)

// BookingHandler groups the repositories needed to reserve seats and
// to list a customer's bookings.  JWT authentication and role checks
// are performed by middleware; all monetary state changes run inside
// a single database transaction so a booking either commits whole or
// leaves no trace.
type BookingHandler struct {
	SeatRepo      *repository.SeatRepo
	ShowingRepo   *repository.ShowingRepo
	BookingRepo   *repository.BookingRepo
	PromotionRepo *repository.PromotionRepo
	FeeRepo       *repository.FeeRepo
	CardRepo      *repository.PaymentCardRepo
	UserRepo      *repository.UserRepo
}

// NewBookingHandler constructs a BookingHandler with the provided
// repositories.  All dependencies must be non-nil.
func NewBookingHandler(seatRepo *repository.SeatRepo, showingRepo *repository.ShowingRepo, bookingRepo *repository.BookingRepo, promoRepo *repository.PromotionRepo, feeRepo *repository.FeeRepo, cardRepo *repository.PaymentCardRepo, userRepo *repository.UserRepo) *BookingHandler {
	if seatRepo == nil || showingRepo == nil || bookingRepo == nil || promoRepo == nil || feeRepo == nil || cardRepo == nil || userRepo == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{
		SeatRepo:      seatRepo,
		ShowingRepo:   showingRepo,
		BookingRepo:   bookingRepo,
		PromotionRepo: promoRepo,
		FeeRepo:       feeRepo,
		CardRepo:      cardRepo,
		UserRepo:      userRepo,
	}
}

// ticketReq is one requested line item: one seat at one fare
// category and price.
type ticketReq struct {
	SeatID         uint64          `json:"seat_id"`
	TicketCategory string          `json:"ticket_category"`
	Price          decimal.Decimal `json:"price"`
}

// paymentReq is the payment selector.  Exactly one of the two shapes
// is expected: a saved card id, or transient new-card details.  New
// card details are used for the charge only and are never persisted
// by this endpoint.
type paymentReq struct {
	PaymentCardID  *uint64 `json:"payment_card_id"`
	CardNumber     string  `json:"card_number"`
	ExpirationDate string  `json:"expiration_date"`
	CVV            string  `json:"cvv"`
}

type reserveReq struct {
	Tickets       []ticketReq `json:"tickets"`
	PromotionCode string      `json:"promotion_code"`
	Payment       paymentReq  `json:"payment"`
}

// Reserve handles POST /v1/showings/:id/reserve.  It locks the
// requested seats, validates the optional promotion, prices the
// order, resolves the payment method and writes the booking with its
// tickets — all inside one transaction.  Any failure rolls the whole
// transaction back: no partial seat flips, bookings or tickets may
// survive an error.
func (h *BookingHandler) Reserve(c echo.Context) error {
	start := time.Now()
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showing id"})
	}
	ctx := c.Request().Context()

	if _, err := h.ShowingRepo.GetByID(ctx, showingID); err != nil {
		if errors.Is(err, repository.ErrShowingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	var req reserveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	items, seatIDs, badReq := buildLineItems(req.Tickets)
	if badReq != "" {
		monitoring.ObserveReservation("invalid_request", start)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": badReq})
	}

	tx, err := h.SeatRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// lock -> read -> validate, one locking read over all seat ids
	seats, err := h.SeatRepo.LockForReservationTx(ctx, tx, showingID, seatIDs)
	if err != nil {
		var unavailable *repository.SeatsUnavailableError
		switch {
		case errors.As(err, &unavailable):
			monitoring.ObserveReservation("seats_unavailable", start)
			return c.JSON(http.StatusConflict, echo.Map{
				"error":       "some seats are no longer available",
				"unavailable": unavailable.SeatIDs,
			})
		case errors.Is(err, repository.ErrSeatNotFound):
			monitoring.ObserveReservation("seat_not_found", start)
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat not found for this showing"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to lock seats"})
	}
	if err := h.SeatRepo.MarkUnavailableTx(ctx, tx, showingID, seatIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update seats"})
	}

	// promotion eligibility gate: code match, date window, user opt-in
	var promo *model.Promotion
	var discount *pricing.Discount
	if strings.TrimSpace(req.PromotionCode) != "" {
		promo, err = h.PromotionRepo.GetValidByCode(ctx, req.PromotionCode, time.Now().UTC())
		if err != nil {
			if errors.Is(err, repository.ErrPromotionNotFound) {
				monitoring.ObserveReservation("invalid_promotion", start)
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired promotion code"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve promotion"})
		}
		u, err := h.UserRepo.GetByID(ctx, userID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load user"})
		}
		if !u.PromoOptIn {
			monitoring.ObserveReservation("promo_not_opted_in", start)
			return c.JSON(http.StatusForbidden, echo.Map{"error": "promotion requires opt-in"})
		}
		discount = &pricing.Discount{
			Percent: decimal.NewFromInt(int64(promo.DiscountPercent)),
			Flat:    pricing.FromCents(promo.DiscountCents),
		}
	}

	feeCents, err := h.FeeRepo.CurrentFeeCents(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking fee"})
	}

	quote := pricing.Compute(items, discount, pricing.FeeSchedule{
		BookingFee: pricing.FromCents(feeCents),
		TaxRate:    pricing.DefaultTaxRate,
	})

	// payment method: either a saved card owned by the caller, or
	// transient new-card details that are not persisted here
	var cardID *uint64
	if req.Payment.PaymentCardID != nil {
		card, err := h.CardRepo.GetByIDAndUser(ctx, *req.Payment.PaymentCardID, userID)
		if err != nil {
			if errors.Is(err, repository.ErrCardNotFound) {
				monitoring.ObserveReservation("invalid_payment", start)
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment card"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve payment card"})
		}
		cardID = &card.ID
	} else if req.Payment.CardNumber == "" || req.Payment.ExpirationDate == "" || req.Payment.CVV == "" {
		monitoring.ObserveReservation("invalid_payment", start)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment method required"})
	}

	booking := &model.Booking{
		UserID:        userID,
		ShowingID:     showingID,
		Status:        "CONFIRMED",
		SubtotalCents: pricing.Cents(quote.Subtotal),
		DiscountCents: pricing.Cents(quote.DiscountAmount),
		TaxCents:      pricing.Cents(quote.TaxAmount),
		FeeCents:      pricing.Cents(quote.BookingFee),
		TotalCents:    pricing.Cents(quote.Total),
		PaymentCardID: cardID,
	}
	if promo != nil {
		booking.PromotionID = &promo.ID
	}
	if err := h.BookingRepo.CreateTx(ctx, tx, booking); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}

	labelByID := make(map[uint64]string, len(seats))
	for _, s := range seats {
		labelByID[s.ID] = fmt.Sprintf("%s%d", s.RowLabel, s.SeatNumber)
	}
	tickets := make([]model.Ticket, 0, len(items))
	for _, it := range items {
		tickets = append(tickets, model.Ticket{
			BookingID:  booking.ID,
			SeatID:     it.SeatID,
			SeatLabel:  labelByID[it.SeatID],
			Category:   it.Category,
			PriceCents: pricing.Cents(it.Price),
		})
	}
	if err := h.BookingRepo.CreateTicketsBulkTx(ctx, tx, tickets); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create tickets"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	monitoring.ObserveReservation("confirmed", start)

	// the booking number is display-only; a failed lookup must not
	// turn a committed booking into an error response
	number, err := h.BookingRepo.BookingNumber(ctx, booking.ID)
	if err != nil || number == "" {
		number = fmt.Sprintf("BK%08d", booking.ID)
	}

	h.publishConfirmed(booking, number, tickets)

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id":      booking.ID,
		"booking_number":  number,
		"subtotal":        quote.Subtotal.InexactFloat64(),
		"discount_amount": quote.DiscountAmount.InexactFloat64(),
		"tax_amount":      quote.TaxAmount.InexactFloat64(),
		"booking_fee":     quote.BookingFee.InexactFloat64(),
		"total_amount":    quote.Total.InexactFloat64(),
	})
}

// buildLineItems validates the ticket requests and converts them to
// pricing line items.  It returns a non-empty message describing the
// first problem found, if any.
func buildLineItems(reqs []ticketReq) ([]pricing.LineItem, []uint64, string) {
	if len(reqs) == 0 {
		return nil, nil, "tickets are required"
	}
	items := make([]pricing.LineItem, 0, len(reqs))
	seatIDs := make([]uint64, 0, len(reqs))
	seen := make(map[uint64]struct{}, len(reqs))
	for _, t := range reqs {
		if t.SeatID == 0 {
			return nil, nil, "each ticket requires a seat_id"
		}
		if _, dup := seen[t.SeatID]; dup {
			return nil, nil, "duplicate seat in request"
		}
		seen[t.SeatID] = struct{}{}
		cat := strings.ToUpper(strings.TrimSpace(t.TicketCategory))
		if cat == "" {
			return nil, nil, "each ticket requires a ticket_category"
		}
		if t.Price.IsNegative() {
			return nil, nil, "ticket price must not be negative"
		}
		items = append(items, pricing.LineItem{
			SeatID:   t.SeatID,
			Category: cat,
			Price:    t.Price.Round(2),
		})
		seatIDs = append(seatIDs, t.SeatID)
	}
	return items, seatIDs, ""
}

// publishConfirmed emits the booking.confirmed event.  Publishing is
// best effort: failures are logged by the publisher and never affect
// the response.
func (h *BookingHandler) publishConfirmed(b *model.Booking, number string, tickets []model.Ticket) {
	labels := make([]string, 0, len(tickets))
	for _, t := range tickets {
		labels = append(labels, t.SeatLabel)
	}
	event := queue.BookingConfirmedEvent{
		BookingID:     b.ID,
		BookingNumber: number,
		UserID:        b.UserID,
		ShowingID:     b.ShowingID,
		SeatLabels:    labels,
		TotalCents:    b.TotalCents,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := queue_publisher.PublishBookingConfirmed(ctx, event); err != nil {
		log.Printf("booking %d: confirmed event not published: %v", b.ID, err)
	}
}

// ListBookings handles GET /v1/my-bookings.  It returns every booking
// of the current user with ticket lines, newest first.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.BookingRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// GetBooking handles GET /v1/bookings/:id.  Ownership is enforced in
// the repository query, so a foreign booking simply looks absent.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	detail, err := h.BookingRepo.GetByIDForUser(c.Request().Context(), bookingID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// ListShowingBookings handles GET /v1/admin/showings/:id/bookings and
// returns every booking made for a showing.
func (h *BookingHandler) ListShowingBookings(c echo.Context) error {
	showingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showing id"})
	}
	if _, err := h.ShowingRepo.GetByID(c.Request().Context(), showingID); err != nil {
		if err == repository.ErrShowingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	details, err := h.BookingRepo.ListByShowing(c.Request().Context(), showingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}
