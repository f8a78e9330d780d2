package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentFeeCentsReturnsNewestRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewFeeRepo(db)

	mock.ExpectQuery("SELECT fee_cents FROM booking_fees").
		WillReturnRows(sqlmock.NewRows([]string{"fee_cents"}).AddRow(200))

	fee, err := repo.CurrentFeeCents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint32(200), fee)
}

func TestCurrentFeeCentsDefaultsToZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewFeeRepo(db)

	// an empty fee table means no fee, not an error
	mock.ExpectQuery("SELECT fee_cents FROM booking_fees").
		WillReturnRows(sqlmock.NewRows([]string{"fee_cents"}))

	fee, err := repo.CurrentFeeCents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint32(0), fee)
}
