package handler

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// ProfileHandler serves the customer's own settings: the promotion
// opt-in flag and saved payment cards.
type ProfileHandler struct {
	Users *repository.UserRepo
	Cards *repository.PaymentCardRepo
}

func NewProfileHandler(u *repository.UserRepo, cards *repository.PaymentCardRepo) *ProfileHandler {
	return &ProfileHandler{Users: u, Cards: cards}
}

// OptInPromotions sets the promotion opt-in flag.  Promotion codes
// only apply at checkout while this flag is on.
func (h *ProfileHandler) OptInPromotions(c echo.Context) error {
	return h.setOptIn(c, true)
}

// OptOutPromotions clears the promotion opt-in flag.
func (h *ProfileHandler) OptOutPromotions(c echo.Context) error {
	return h.setOptIn(c, false)
}

func (h *ProfileHandler) setOptIn(c echo.Context, optIn bool) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.SetPromoOptIn(ctx, uid, optIn); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"promo_opt_in": optIn})
}

// ----- saved payment cards -----

type cardReq struct {
	Brand   string `json:"brand"`
	Last4   string `json:"last4"`
	Expires string `json:"expires"` // MM/YY
}

type cardResp struct {
	ID      uint64 `json:"id"`
	Brand   string `json:"brand"`
	Last4   string `json:"last4"`
	Expires string `json:"expires"`
}

var expiresRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
var last4Re = regexp.MustCompile(`^\d{4}$`)

// ListCards returns the caller's saved cards.
func (h *ProfileHandler) ListCards(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cards, err := h.Cards.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]cardResp, 0, len(cards))
	for _, card := range cards {
		out = append(out, cardResp{ID: card.ID, Brand: card.Brand, Last4: card.Last4, Expires: card.Expires})
	}
	return c.JSON(http.StatusOK, out)
}

// AddCard saves a card reference on the caller's profile.  Only the
// brand, last four digits and expiry are accepted; the endpoint never
// sees a full card number.
func (h *ProfileHandler) AddCard(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req cardReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Brand = strings.TrimSpace(req.Brand)
	if req.Brand == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "brand required"})
	}
	if !last4Re.MatchString(req.Last4) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "last4 must be four digits"})
	}
	if !expiresRe.MatchString(req.Expires) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "expires must be MM/YY"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	card := &model.PaymentCard{UserID: uid, Brand: req.Brand, Last4: req.Last4, Expires: req.Expires}
	if err := h.Cards.Create(ctx, card); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save card failed"})
	}
	return c.JSON(http.StatusCreated, cardResp{ID: card.ID, Brand: card.Brand, Last4: card.Last4, Expires: card.Expires})
}

// DeleteCard removes one of the caller's saved cards.
func (h *ProfileHandler) DeleteCard(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	cardID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Cards.DeleteByIDAndUser(ctx, cardID, uid); err != nil {
		if err == repository.ErrCardNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "card not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
