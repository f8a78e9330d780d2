package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// newReserveContext builds an echo context for POST
// /v1/showings/:id/reserve with the given body, authenticated as
// userID.
func newReserveContext(t *testing.T, showingID string, userID uint64, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/showings/"+showingID+"/reserve", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/showings/:id/reserve")
	c.SetParamNames("id")
	c.SetParamValues(showingID)
	// JWT numeric claims decode as float64
	c.Set("user_id", float64(userID))
	return c, rec
}

func newBookingHandler(t *testing.T) (*BookingHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBookingHandler(
		repository.NewSeatRepo(db),
		repository.NewShowingRepo(db),
		repository.NewBookingRepo(db),
		repository.NewPromotionRepo(db),
		repository.NewFeeRepo(db),
		repository.NewPaymentCardRepo(db),
		repository.NewUserRepo(db),
	), mock
}

func showingRow(id, movieID uint64) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "movie_id", "auditorium", "starts_at", "ends_at", "created_at", "updated_at"}).
		AddRow(id, movieID, "Screen 1", now.Add(time.Hour), now.Add(3*time.Hour), now, now)
}

const reserveBody = `{
	"tickets": [
		{"seat_id": 1, "ticket_category": "ADULT", "price": "12.00"},
		{"seat_id": 2, "ticket_category": "ADULT", "price": "12.00"}
	],
	"payment": {"card_number": "4242424242424242", "expiration_date": "12/30", "cvv": "123"}
}`

func TestReserveConfirmsBooking(t *testing.T) {
	h, mock := newBookingHandler(t)
	c, rec := newReserveContext(t, "5", 7, reserveBody)

	mock.ExpectQuery("SELECT (.+) FROM showings WHERE id").
		WithArgs(5).WillReturnRows(showingRow(5, 3))

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(5, 1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "showing_id", "row_label", "seat_number", "is_available"}).
			AddRow(1, 5, "A", 1, true).
			AddRow(2, 5, "A", 2, true))
	mock.ExpectExec("UPDATE seats SET is_available").
		WithArgs(5, 1, 2).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery("SELECT fee_cents FROM booking_fees").
		WillReturnRows(sqlmock.NewRows([]string{"fee_cents"}).AddRow(150))
	// 24.00 subtotal, no discount, 1.68 tax, 1.50 fee, 27.18 total
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(7, 5, "CONFIRMED", 2400, 0, 168, 150, 2718, nil, nil).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("INSERT INTO tickets").
		WithArgs(42, 1, "A1", "ADULT", 1200, 42, 2, "A2", "ADULT", 1200).
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT booking_number FROM bookings WHERE id").
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"booking_number"}).AddRow("BK00000042"))

	require.NoError(t, h.Reserve(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "BK00000042", resp["booking_number"])
	assert.InDelta(t, 24.00, resp["subtotal"], 0.001)
	assert.InDelta(t, 0.00, resp["discount_amount"], 0.001)
	assert.InDelta(t, 1.68, resp["tax_amount"], 0.001)
	assert.InDelta(t, 1.50, resp["booking_fee"], 0.001)
	assert.InDelta(t, 27.18, resp["total_amount"], 0.001)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveSeatConflictRollsBack(t *testing.T) {
	h, mock := newBookingHandler(t)
	c, rec := newReserveContext(t, "5", 7, reserveBody)

	mock.ExpectQuery("SELECT (.+) FROM showings WHERE id").
		WithArgs(5).WillReturnRows(showingRow(5, 3))

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(5, 1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "showing_id", "row_label", "seat_number", "is_available"}).
			AddRow(1, 5, "A", 1, true).
			AddRow(2, 5, "A", 2, false))
	mock.ExpectRollback()

	require.NoError(t, h.Reserve(c))
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp struct {
		Error       string   `json:"error"`
		Unavailable []uint64 `json:"unavailable"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []uint64{2}, resp.Unavailable)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveUnknownSeatRollsBack(t *testing.T) {
	h, mock := newBookingHandler(t)
	c, rec := newReserveContext(t, "5", 7, reserveBody)

	mock.ExpectQuery("SELECT (.+) FROM showings WHERE id").
		WithArgs(5).WillReturnRows(showingRow(5, 3))

	mock.ExpectBegin()
	// only one of the two requested seats exists for this showing
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(5, 1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "showing_id", "row_label", "seat_number", "is_available"}).
			AddRow(1, 5, "A", 1, true))
	mock.ExpectRollback()

	require.NoError(t, h.Reserve(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveTicketInsertFailureRollsBack(t *testing.T) {
	h, mock := newBookingHandler(t)
	c, rec := newReserveContext(t, "5", 7, reserveBody)

	mock.ExpectQuery("SELECT (.+) FROM showings WHERE id").
		WithArgs(5).WillReturnRows(showingRow(5, 3))

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(5, 1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "showing_id", "row_label", "seat_number", "is_available"}).
			AddRow(1, 5, "A", 1, true).
			AddRow(2, 5, "A", 2, true))
	mock.ExpectExec("UPDATE seats SET is_available").
		WithArgs(5, 1, 2).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery("SELECT fee_cents FROM booking_fees").
		WillReturnRows(sqlmock.NewRows([]string{"fee_cents"}).AddRow(150))
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(7, 5, "CONFIRMED", 2400, 0, 168, 150, 2718, nil, nil).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("INSERT INTO tickets").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	require.NoError(t, h.Reserve(c))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservePromotionRequiresOptIn(t *testing.T) {
	h, mock := newBookingHandler(t)
	body := strings.Replace(reserveBody, `"payment"`, `"promotion_code": "SAVE15", "payment"`, 1)
	c, rec := newReserveContext(t, "5", 7, body)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM showings WHERE id").
		WithArgs(5).WillReturnRows(showingRow(5, 3))

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(5, 1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "showing_id", "row_label", "seat_number", "is_available"}).
			AddRow(1, 5, "A", 1, true).
			AddRow(2, 5, "A", 2, true))
	mock.ExpectExec("UPDATE seats SET is_available").
		WithArgs(5, 1, 2).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery("SELECT (.+) FROM promotions WHERE code").
		WithArgs("SAVE15").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "description", "discount_percent", "discount_cents", "starts_at", "ends_at", "created_at", "updated_at"}).
			AddRow(9, "SAVE15", "15% off", 15, 0, now.Add(-24*time.Hour), now.Add(24*time.Hour), now, now))
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "promo_opt_in", "is_active", "created_at", "updated_at"}).
			AddRow(7, "a@b.c", "x", "CUSTOMER", false, true, now, now))
	mock.ExpectRollback()

	require.NoError(t, h.Reserve(c))
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveRejectsMissingPayment(t *testing.T) {
	h, mock := newBookingHandler(t)
	body := `{"tickets": [{"seat_id": 1, "ticket_category": "ADULT", "price": "10.00"}], "payment": {}}`
	c, rec := newReserveContext(t, "5", 7, body)

	mock.ExpectQuery("SELECT (.+) FROM showings WHERE id").
		WithArgs(5).WillReturnRows(showingRow(5, 3))

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(5, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "showing_id", "row_label", "seat_number", "is_available"}).
			AddRow(1, 5, "A", 1, true))
	mock.ExpectExec("UPDATE seats SET is_available").
		WithArgs(5, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT fee_cents FROM booking_fees").
		WillReturnRows(sqlmock.NewRows([]string{"fee_cents"}).AddRow(0))
	mock.ExpectRollback()

	require.NoError(t, h.Reserve(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveRejectsEmptyTickets(t *testing.T) {
	h, mock := newBookingHandler(t)
	c, rec := newReserveContext(t, "5", 7, `{"tickets": [], "payment": {"card_number": "4", "expiration_date": "12/30", "cvv": "1"}}`)

	mock.ExpectQuery("SELECT (.+) FROM showings WHERE id").
		WithArgs(5).WillReturnRows(showingRow(5, 3))

	require.NoError(t, h.Reserve(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
