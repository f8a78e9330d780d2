package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// AdminPromotionHandler manages promotion codes.
type AdminPromotionHandler struct {
	Promotions *repository.PromotionRepo
}

func NewAdminPromotionHandler(p *repository.PromotionRepo) *AdminPromotionHandler {
	return &AdminPromotionHandler{Promotions: p}
}

type promotionReq struct {
	Code            string    `json:"code"`
	Description     string    `json:"description"`
	DiscountPercent uint32    `json:"discount_percent"`
	DiscountCents   uint32    `json:"discount_cents"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
}

type promotionResp struct {
	ID              uint64    `json:"id"`
	Code            string    `json:"code"`
	Description     string    `json:"description"`
	DiscountPercent uint32    `json:"discount_percent"`
	DiscountCents   uint32    `json:"discount_cents"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
}

func toPromotionResp(p *model.Promotion) promotionResp {
	return promotionResp{
		ID:              p.ID,
		Code:            p.Code,
		Description:     p.Description,
		DiscountPercent: p.DiscountPercent,
		DiscountCents:   p.DiscountCents,
		StartsAt:        p.StartsAt,
		EndsAt:          p.EndsAt,
	}
}

// CreatePromotion adds a promotion code.  Codes are stored upper
// cased; the discount may be a percentage, a flat amount or both.
func (h *AdminPromotionHandler) CreatePromotion(c echo.Context) error {
	var req promotionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if req.Code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code required"})
	}
	if req.DiscountPercent == 0 && req.DiscountCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "discount required"})
	}
	if req.DiscountPercent > 100 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "discount_percent must be at most 100"})
	}
	if req.StartsAt.IsZero() || req.EndsAt.IsZero() || req.EndsAt.Before(req.StartsAt) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid validity window"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p := &model.Promotion{
		Code:            req.Code,
		Description:     req.Description,
		DiscountPercent: req.DiscountPercent,
		DiscountCents:   req.DiscountCents,
		StartsAt:        req.StartsAt.UTC(),
		EndsAt:          req.EndsAt.UTC(),
	}
	if err := h.Promotions.Create(ctx, p); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create promotion failed"})
	}
	return c.JSON(http.StatusCreated, toPromotionResp(p))
}

// ListPromotions returns every promotion, active or not.
func (h *AdminPromotionHandler) ListPromotions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	promos, err := h.Promotions.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]promotionResp, 0, len(promos))
	for i := range promos {
		out = append(out, toPromotionResp(&promos[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// DeletePromotion removes a promotion.  Past bookings keep their
// recorded discount; only future use is affected.
func (h *AdminPromotionHandler) DeletePromotion(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Promotions.Delete(ctx, id); err != nil {
		if err == repository.ErrPromotionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "promotion not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete promotion failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
