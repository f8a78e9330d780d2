package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/pricing"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// AdminFeeHandler configures the flat booking fee.  Fee rows are
// append-only; setting a fee appends a row and the newest row wins.
type AdminFeeHandler struct {
	Fees *repository.FeeRepo
}

func NewAdminFeeHandler(f *repository.FeeRepo) *AdminFeeHandler {
	return &AdminFeeHandler{Fees: f}
}

type feeReq struct {
	Fee decimal.Decimal `json:"fee"`
}

type feeResp struct {
	Fee float64 `json:"fee"`
}

// GetFee returns the booking fee currently in effect.  A fee that was
// never configured reads as zero.
func (h *AdminFeeHandler) GetFee(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cents, err := h.Fees.CurrentFeeCents(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, feeResp{Fee: pricing.FromCents(cents).InexactFloat64()})
}

// SetFee appends a new fee row, making it the fee in effect for all
// subsequent bookings.  Bookings already made keep their recorded fee.
func (h *AdminFeeHandler) SetFee(c echo.Context) error {
	var req feeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Fee.IsNegative() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fee must not be negative"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	fee := &model.BookingFee{FeeCents: pricing.Cents(req.Fee.Round(2))}
	if err := h.Fees.Create(ctx, fee); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save fee failed"})
	}
	return c.JSON(http.StatusCreated, feeResp{Fee: pricing.FromCents(fee.FeeCents).InexactFloat64()})
}
