package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdatePriceBeforeSales(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewShowRepo(db)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(uint64(5), "CANCELLED").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("UPDATE shows SET price_cents").
		WithArgs(int64(1200), uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.UpdatePrice(context.Background(), 5, 1200))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePriceFrozenAfterSale(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewShowRepo(db)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(uint64(5), "CANCELLED").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	err = repo.UpdatePrice(context.Background(), 5, 1200)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePriceUnknownShow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewShowRepo(db)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(uint64(999), "CANCELLED").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("UPDATE shows SET price_cents").
		WithArgs(int64(1200), uint64(999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdatePrice(context.Background(), 999, 1200)
	assert.ErrorIs(t, err, ErrShowNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivateIsIdempotentOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewShowRepo(db)

	mock.ExpectExec("UPDATE shows SET is_active = 0").
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Deactivate(context.Background(), 5))

	// Second call touches no rows and reports not found.
	mock.ExpectExec("UPDATE shows SET is_active = 0").
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Deactivate(context.Background(), 5), ErrShowNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
