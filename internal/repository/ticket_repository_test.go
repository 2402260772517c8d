package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkUsedTransitions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewTicketRepo(db)

	mock.ExpectExec("UPDATE tickets SET status").
		WithArgs("USED", uint64(77), "PAID").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.MarkUsed(context.Background(), 77))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkUsedUnknownTicket(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewTicketRepo(db)

	mock.ExpectExec("UPDATE tickets SET status").
		WithArgs("USED", uint64(404), "PAID").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM tickets").
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	assert.ErrorIs(t, repo.MarkUsed(context.Background(), 404), ErrTicketNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkUsedNotPaid(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewTicketRepo(db)

	mock.ExpectExec("UPDATE tickets SET status").
		WithArgs("USED", uint64(77), "PAID").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM tickets").
		WithArgs(uint64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	assert.ErrorIs(t, repo.MarkUsed(context.Background(), 77), ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDForUserHidesOtherUsers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewTicketRepo(db)

	mock.ExpectQuery("FROM tickets t").
		WithArgs(uint64(77), uint64(999)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "show_id", "status", "total_price_cents", "qr_payload", "booking_time",
			"title", "name", "starts_at", "cancelled_at", "cancellation_reason", "refund_amount_cents",
		}))

	_, err = repo.GetByIDForUser(context.Background(), 77, 999)
	assert.ErrorIs(t, err, ErrTicketNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUserAssemblesSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewTicketRepo(db)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM tickets t").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "show_id", "status", "total_price_cents", "qr_payload", "booking_time",
			"title", "name", "starts_at", "cancelled_at", "cancellation_reason", "refund_amount_cents",
		}).
			AddRow(77, 5, "PAID", 2000, "TICKET:77:abc", now, "Heat", "Screen 1", now.Add(24*time.Hour), nil, nil, nil))
	mock.ExpectQuery("FROM ticket_seats ts").
		WithArgs(uint64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"ticket_id", "seat_id", "seat_number", "seat_type"}).
			AddRow(77, 101, "A1", "STANDARD").
			AddRow(77, 102, "A2", "STANDARD"))

	tickets, err := repo.ListByUser(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, uint64(77), tickets[0].ID)
	assert.Equal(t, "Heat", tickets[0].MovieTitle)
	require.Len(t, tickets[0].Seats, 2)
	assert.Equal(t, "A1", tickets[0].Seats[0].SeatNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUserEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewTicketRepo(db)

	mock.ExpectQuery("FROM tickets t").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "show_id", "status", "total_price_cents", "qr_payload", "booking_time",
			"title", "name", "starts_at", "cancelled_at", "cancellation_reason", "refund_amount_cents",
		}))

	tickets, err := repo.ListByUser(context.Background(), 9)
	require.NoError(t, err)
	assert.Empty(t, tickets)
	assert.NoError(t, mock.ExpectationsWereMet())
}
