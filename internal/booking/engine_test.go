package booking

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mparsa/cinema-ticket-booking/internal/model"
	"github.com/mparsa/cinema-ticket-booking/internal/repository"
)

func newTestEngine(t *testing.T) (*Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	eng := NewEngine(db,
		repository.NewShowRepo(db),
		repository.NewShowSeatRepo(db),
		repository.NewTicketRepo(db),
		repository.NewPaymentRepo(db),
		DefaultRefundPolicy(),
		NewQRSigner("test-secret"),
		nil,
	)
	return eng, mock
}

func showRows(id, movieID, theaterID uint64, startsAt time.Time, priceCents int64, active bool) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "movie_id", "theater_id", "starts_at", "price_cents", "is_active", "created_at", "updated_at"}).
		AddRow(id, movieID, theaterID, startsAt, priceCents, active, now, now)
}

func TestBookTicketsSuccess(t *testing.T) {
	eng, mock := newTestEngine(t)
	startsAt := time.Now().UTC().Add(48 * time.Hour)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM shows WHERE id").
		WithArgs(uint64(5)).
		WillReturnRows(showRows(5, 1, 2, startsAt, 1000, true))
	mock.ExpectQuery("FROM show_seats").
		WithArgs(uint64(5), uint64(11), uint64(12), uint64(13)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "show_id", "seat_id", "is_booked"}).
			AddRow(11, 5, 101, false).
			AddRow(12, 5, 102, false).
			AddRow(13, 5, 103, false))
	mock.ExpectExec("INSERT INTO tickets").
		WithArgs(uint64(9), uint64(5), model.TicketStatusPaid, int64(3000), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(77, 1))
	mock.ExpectQuery("SELECT created_at, updated_at FROM tickets").
		WithArgs(uint64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec("UPDATE tickets SET qr_payload").
		WithArgs(sqlmock.AnyArg(), uint64(77)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO ticket_seats").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("UPDATE show_seats SET is_booked = 1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO payments").
		WithArgs(uint64(77), int64(3000), "CARD", model.PaymentStatusCompleted, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(88, 1))
	mock.ExpectCommit()

	ticket, err := eng.BookTickets(context.Background(), 9, 5, []uint64{11, 12, 13}, "CARD")
	require.NoError(t, err)
	assert.Equal(t, uint64(77), ticket.ID)
	assert.Equal(t, model.TicketStatusPaid, ticket.Status)
	assert.Equal(t, int64(3000), ticket.TotalPriceCents)
	assert.Equal(t, 3, ticket.SeatCount)
	assert.Equal(t, NewQRSigner("test-secret").Payload(77), ticket.QRPayload)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookTicketsSeatConflictRollsBack(t *testing.T) {
	eng, mock := newTestEngine(t)
	startsAt := time.Now().UTC().Add(48 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM shows WHERE id").
		WithArgs(uint64(5)).
		WillReturnRows(showRows(5, 1, 2, startsAt, 1000, true))
	// Seat 12 is already booked: the lock query returns only one of the
	// two requested rows.
	mock.ExpectQuery("FROM show_seats").
		WithArgs(uint64(5), uint64(11), uint64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "show_id", "seat_id", "is_booked"}).
			AddRow(11, 5, 101, false))
	mock.ExpectRollback()

	_, err := eng.BookTickets(context.Background(), 9, 5, []uint64{11, 12}, "CARD")
	assert.ErrorIs(t, err, ErrSeatConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookTicketsInactiveShow(t *testing.T) {
	eng, mock := newTestEngine(t)
	startsAt := time.Now().UTC().Add(48 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM shows WHERE id").
		WithArgs(uint64(5)).
		WillReturnRows(showRows(5, 1, 2, startsAt, 1000, false))
	mock.ExpectRollback()

	_, err := eng.BookTickets(context.Background(), 9, 5, []uint64{11}, "CARD")
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookTicketsShowAlreadyStarted(t *testing.T) {
	eng, mock := newTestEngine(t)
	startsAt := time.Now().UTC().Add(-time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM shows WHERE id").
		WithArgs(uint64(5)).
		WillReturnRows(showRows(5, 1, 2, startsAt, 1000, true))
	mock.ExpectRollback()

	_, err := eng.BookTickets(context.Background(), 9, 5, []uint64{11}, "CARD")
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookTicketsDedupesSeatIDs(t *testing.T) {
	eng, mock := newTestEngine(t)
	startsAt := time.Now().UTC().Add(48 * time.Hour)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM shows WHERE id").
		WithArgs(uint64(5)).
		WillReturnRows(showRows(5, 1, 2, startsAt, 1000, true))
	// Duplicated input IDs collapse to two rows to lock.
	mock.ExpectQuery("FROM show_seats").
		WithArgs(uint64(5), uint64(11), uint64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "show_id", "seat_id", "is_booked"}).
			AddRow(11, 5, 101, false).
			AddRow(12, 5, 102, false))
	mock.ExpectExec("INSERT INTO tickets").
		WithArgs(uint64(9), uint64(5), model.TicketStatusPaid, int64(2000), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(78, 1))
	mock.ExpectQuery("SELECT created_at, updated_at FROM tickets").
		WithArgs(uint64(78)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec("UPDATE tickets SET qr_payload").
		WithArgs(sqlmock.AnyArg(), uint64(78)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO ticket_seats").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE show_seats SET is_booked = 1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO payments").
		WithArgs(uint64(78), int64(2000), "CARD", model.PaymentStatusCompleted, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(89, 1))
	mock.ExpectCommit()

	ticket, err := eng.BookTickets(context.Background(), 9, 5, []uint64{11, 11, 12}, "CARD")
	require.NoError(t, err)
	assert.Equal(t, 2, ticket.SeatCount)
	assert.Equal(t, int64(2000), ticket.TotalPriceCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookTicketsValidation(t *testing.T) {
	eng, _ := newTestEngine(t)

	_, err := eng.BookTickets(context.Background(), 9, 0, []uint64{1}, "CARD")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = eng.BookTickets(context.Background(), 9, 5, nil, "CARD")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	// Zero IDs are dropped; nothing usable remains.
	_, err = eng.BookTickets(context.Background(), 9, 5, []uint64{0, 0}, "CARD")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func ticketRow(id, userID, showID uint64, status string, totalCents int64, bookingTime time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "show_id", "status", "total_price_cents", "qr_payload", "booking_time"}).
		AddRow(id, userID, showID, status, totalCents, "TICKET:x", bookingTime)
}

func TestCancelTicketReleasesSeats(t *testing.T) {
	eng, mock := newTestEngine(t)
	now := time.Now().UTC()
	startsAt := now.Add(48 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM tickets WHERE id").
		WithArgs(uint64(77)).
		WillReturnRows(ticketRow(77, 9, 5, model.TicketStatusPaid, 3000, now.Add(-time.Hour)))
	mock.ExpectQuery("SELECT starts_at FROM shows").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"starts_at"}).AddRow(startsAt))
	mock.ExpectQuery("SELECT seat_id FROM ticket_seats").
		WithArgs(uint64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}).AddRow(101).AddRow(102).AddRow(103))
	mock.ExpectExec("UPDATE tickets").
		WithArgs(model.TicketStatusCancelled, sqlmock.AnyArg(), "change of plans", int64(3000), uint64(77)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE show_seats SET is_booked = 0").
		WithArgs(uint64(5), uint64(101), uint64(102), uint64(103)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("UPDATE payments").
		WithArgs(model.PaymentStatusRefunded, uint64(77)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := eng.CancelTicket(context.Background(), 77, 9, false, "change of plans", now)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), res.RefundAmountCents)
	assert.Equal(t, 100, res.RefundPercentage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelTicketMidTierRefund(t *testing.T) {
	eng, mock := newTestEngine(t)
	now := time.Now().UTC()
	startsAt := now.Add(10 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM tickets WHERE id").
		WithArgs(uint64(77)).
		WillReturnRows(ticketRow(77, 9, 5, model.TicketStatusPaid, 3000, now.Add(-time.Hour)))
	mock.ExpectQuery("SELECT starts_at FROM shows").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"starts_at"}).AddRow(startsAt))
	mock.ExpectQuery("SELECT seat_id FROM ticket_seats").
		WithArgs(uint64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}).AddRow(101))
	mock.ExpectExec("UPDATE tickets").
		WithArgs(model.TicketStatusCancelled, sqlmock.AnyArg(), "", int64(1500), uint64(77)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE show_seats SET is_booked = 0").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE payments").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := eng.CancelTicket(context.Background(), 77, 9, false, "", now)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), res.RefundAmountCents)
	assert.Equal(t, 50, res.RefundPercentage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelTicketNotOwner(t *testing.T) {
	eng, mock := newTestEngine(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM tickets WHERE id").
		WithArgs(uint64(77)).
		WillReturnRows(ticketRow(77, 9, 5, model.TicketStatusPaid, 3000, now))
	mock.ExpectQuery("SELECT starts_at FROM shows").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"starts_at"}).AddRow(now.Add(48 * time.Hour)))
	mock.ExpectRollback()

	_, err := eng.CancelTicket(context.Background(), 77, 10, false, "", now)
	assert.ErrorIs(t, err, repository.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelTicketAdminBypassesOwnership(t *testing.T) {
	eng, mock := newTestEngine(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM tickets WHERE id").
		WithArgs(uint64(77)).
		WillReturnRows(ticketRow(77, 9, 5, model.TicketStatusPaid, 1000, now))
	mock.ExpectQuery("SELECT starts_at FROM shows").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"starts_at"}).AddRow(now.Add(48 * time.Hour)))
	mock.ExpectQuery("SELECT seat_id FROM ticket_seats").
		WithArgs(uint64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}).AddRow(101))
	mock.ExpectExec("UPDATE tickets").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE show_seats SET is_booked = 0").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE payments").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := eng.CancelTicket(context.Background(), 77, 0, true, "no-show refund", now)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), res.RefundAmountCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelTicketTerminalStates(t *testing.T) {
	for _, status := range []string{model.TicketStatusCancelled, model.TicketStatusUsed} {
		t.Run(status, func(t *testing.T) {
			eng, mock := newTestEngine(t)
			now := time.Now().UTC()

			mock.ExpectBegin()
			mock.ExpectQuery("FROM tickets WHERE id").
				WithArgs(uint64(77)).
				WillReturnRows(ticketRow(77, 9, 5, status, 3000, now))
			mock.ExpectQuery("SELECT starts_at FROM shows").
				WithArgs(uint64(5)).
				WillReturnRows(sqlmock.NewRows([]string{"starts_at"}).AddRow(now.Add(48 * time.Hour)))
			mock.ExpectRollback()

			_, err := eng.CancelTicket(context.Background(), 77, 9, false, "", now)
			assert.ErrorIs(t, err, ErrInvalidState)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCancelTicketShowAlreadyStarted(t *testing.T) {
	eng, mock := newTestEngine(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM tickets WHERE id").
		WithArgs(uint64(77)).
		WillReturnRows(ticketRow(77, 9, 5, model.TicketStatusPaid, 3000, now.Add(-72*time.Hour)))
	mock.ExpectQuery("SELECT starts_at FROM shows").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"starts_at"}).AddRow(now.Add(-time.Minute)))
	mock.ExpectRollback()

	_, err := eng.CancelTicket(context.Background(), 77, 9, false, "", now)
	assert.ErrorIs(t, err, ErrShowAlreadyStarted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelTicketWindowClosed(t *testing.T) {
	eng, mock := newTestEngine(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM tickets WHERE id").
		WithArgs(uint64(77)).
		WillReturnRows(ticketRow(77, 9, 5, model.TicketStatusPaid, 3000, now.Add(-72*time.Hour)))
	// 30 minutes out is inside the one hour minimum notice.
	mock.ExpectQuery("SELECT starts_at FROM shows").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"starts_at"}).AddRow(now.Add(30 * time.Minute)))
	mock.ExpectRollback()

	_, err := eng.CancelTicket(context.Background(), 77, 9, false, "", now)
	assert.ErrorIs(t, err, ErrCancellationWindowClosed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdmitTicket(t *testing.T) {
	eng, mock := newTestEngine(t)
	payload := NewQRSigner("test-secret").Payload(77)

	mock.ExpectExec("UPDATE tickets SET status").
		WithArgs(model.TicketStatusUsed, uint64(77), model.TicketStatusPaid).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, eng.AdmitTicket(context.Background(), 77, payload))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdmitTicketBadPayload(t *testing.T) {
	eng, _ := newTestEngine(t)
	err := eng.AdmitTicket(context.Background(), 77, "TICKET:77:forged")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestAdmitTicketAlreadyUsed(t *testing.T) {
	eng, mock := newTestEngine(t)
	payload := NewQRSigner("test-secret").Payload(77)

	mock.ExpectExec("UPDATE tickets SET status").
		WithArgs(model.TicketStatusUsed, uint64(77), model.TicketStatusPaid).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM tickets").
		WithArgs(uint64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	err := eng.AdmitTicket(context.Background(), 77, payload)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.NoError(t, mock.ExpectationsWereMet())
}
