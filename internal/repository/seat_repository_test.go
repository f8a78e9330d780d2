package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeatRepoMock(t *testing.T) (*SeatRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSeatRepo(db), mock
}

func lockRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "showing_id", "row_label", "seat_number", "is_available"})
}

func TestLockForReservationLocksAllSeats(t *testing.T) {
	repo, mock := newSeatRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(5, 1, 2, 3).
		WillReturnRows(lockRows().
			AddRow(1, 5, "A", 1, true).
			AddRow(2, 5, "A", 2, true).
			AddRow(3, 5, "B", 1, true))
	mock.ExpectRollback()

	tx, err := repo.DB().BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	seats, err := repo.LockForReservationTx(context.Background(), tx, 5, []uint64{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, seats, 3)
	assert.Equal(t, "A", seats[0].RowLabel)
	assert.Equal(t, uint32(1), seats[2].SeatNumber)
}

func TestLockForReservationMissingSeat(t *testing.T) {
	repo, mock := newSeatRepoMock(t)

	mock.ExpectBegin()
	// two ids requested, only one row exists for this showing
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(5, 1, 99).
		WillReturnRows(lockRows().AddRow(1, 5, "A", 1, true))
	mock.ExpectRollback()

	tx, err := repo.DB().BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	_, err = repo.LockForReservationTx(context.Background(), tx, 5, []uint64{1, 99})
	assert.ErrorIs(t, err, ErrSeatNotFound)
}

func TestLockForReservationReportsTakenSeats(t *testing.T) {
	repo, mock := newSeatRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(5, 1, 2, 3).
		WillReturnRows(lockRows().
			AddRow(1, 5, "A", 1, false).
			AddRow(2, 5, "A", 2, true).
			AddRow(3, 5, "B", 1, false))
	mock.ExpectRollback()

	tx, err := repo.DB().BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	_, err = repo.LockForReservationTx(context.Background(), tx, 5, []uint64{1, 2, 3})
	var unavailable *SeatsUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, []uint64{1, 3}, unavailable.SeatIDs)
}

func TestLockForReservationEmptyRequest(t *testing.T) {
	repo, mock := newSeatRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := repo.DB().BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	_, err = repo.LockForReservationTx(context.Background(), tx, 5, nil)
	assert.ErrorIs(t, err, ErrSeatNotFound)
}

func TestMarkUnavailableScopedToShowing(t *testing.T) {
	repo, mock := newSeatRepoMock(t)

	mock.ExpectBegin()
	// a seat id from another showing affects zero rows
	mock.ExpectExec("UPDATE seats SET is_available").
		WithArgs(5, 1, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	tx, err := repo.DB().BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	err = repo.MarkUnavailableTx(context.Background(), tx, 5, []uint64{1, 2})
	assert.ErrorIs(t, err, ErrSeatNotFound)
}

func TestRowLabel(t *testing.T) {
	cases := map[int]string{
		0:  "A",
		1:  "B",
		25: "Z",
		26: "AA",
		27: "AB",
		51: "AZ",
		52: "BA",
	}
	for in, want := range cases {
		assert.Equal(t, want, rowLabel(in), "index %d", in)
	}
}
