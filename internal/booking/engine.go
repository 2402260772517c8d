package booking

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/mparsa/cinema-ticket-booking/internal/model"
	"github.com/mparsa/cinema-ticket-booking/internal/queue"
	"github.com/mparsa/cinema-ticket-booking/internal/repository"
)

// EventPublisher receives domain events after a booking or cancellation
// transaction has committed.  Publishing failures must not fail the
// operation; implementations log and move on.
type EventPublisher interface {
	TicketBooked(ctx context.Context, ev queue.TicketBookedEvent)
	TicketCancelled(ctx context.Context, ev queue.TicketCancelledEvent)
}

// Engine executes booking and cancellation as single atomic units of
// work.  Every mutation of show_seats state happens inside a
// transaction that row-locks the affected inventory before checking it
// ("lock then verify"), which is what makes overlapping concurrent
// purchases serialize: exactly one commits, the rest observe
// ErrSeatConflict.  The engine never retries internally; retry policy
// belongs to the caller.
type Engine struct {
	db        *sql.DB
	shows     *repository.ShowRepo
	showSeats *repository.ShowSeatRepo
	tickets   *repository.TicketRepo
	payments  *repository.PaymentRepo
	policy    RefundPolicy
	qr        QRSigner
	events    EventPublisher // optional; nil disables event publishing
}

// NewEngine constructs the booking engine.  All repositories must be
// non-nil; events may be nil when no broker is configured.
func NewEngine(db *sql.DB, shows *repository.ShowRepo, showSeats *repository.ShowSeatRepo, tickets *repository.TicketRepo, payments *repository.PaymentRepo, policy RefundPolicy, qr QRSigner, events EventPublisher) *Engine {
	if db == nil || shows == nil || showSeats == nil || tickets == nil || payments == nil {
		panic("nil dependency passed to booking.NewEngine")
	}
	return &Engine{
		db:        db,
		shows:     shows,
		showSeats: showSeats,
		tickets:   tickets,
		payments:  payments,
		policy:    policy,
		qr:        qr,
		events:    events,
	}
}

// Policy returns the refund policy the engine was configured with.
func (e *Engine) Policy() RefundPolicy { return e.policy }

// dedupe drops zero and repeated IDs while preserving order.
func dedupe(ids []uint64) []uint64 {
	unique := make([]uint64, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			unique = append(unique, id)
		}
	}
	return unique
}

// BookTickets atomically converts the requested available inventory
// rows of a show into a PAID ticket with seat links and a payment
// record.  Either all writes become visible or none: any failure after
// BeginTx rolls the whole operation back.
//
// Failure modes: ErrInvalidRequest (empty selection, inactive show or
// a show that has already started),
// repository.ErrShowNotFound, ErrSeatConflict (some requested rows are
// unknown, belong to another show, or are already booked at lock time).
func (e *Engine) BookTickets(ctx context.Context, userID, showID uint64, showSeatIDs []uint64, method string) (*model.Ticket, error) {
	if showID == 0 || len(showSeatIDs) == 0 {
		return nil, ErrInvalidRequest
	}
	ids := dedupe(showSeatIDs)
	if len(ids) == 0 {
		return nil, ErrInvalidRequest
	}
	if method == "" {
		method = "CARD"
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Read the show from the same snapshot the locks will belong to.
	show, err := e.shows.GetByIDTx(ctx, tx, showID)
	if err != nil {
		return nil, err
	}
	if !show.IsActive {
		return nil, ErrInvalidRequest
	}
	// A show that has already started sells no tickets; a ticket
	// created here could never be cancelled either.
	if !show.StartsAt.After(time.Now().UTC()) {
		return nil, ErrInvalidRequest
	}

	// Lock first, then verify: rows already booked (or not part of
	// this show) simply do not come back, and the count mismatch
	// aborts before anything was written.
	rows, err := e.showSeats.LockAndFetchTx(ctx, tx, showID, ids)
	if err != nil {
		return nil, err
	}
	if len(rows) != len(ids) {
		return nil, ErrSeatConflict
	}

	total := show.PriceCents * int64(len(rows))
	now := time.Now().UTC()
	ticket := &model.Ticket{
		UserID:          userID,
		ShowID:          showID,
		Status:          model.TicketStatusPaid,
		TotalPriceCents: total,
		BookingTime:     now,
		SeatCount:       len(rows),
	}
	if err := e.tickets.CreateTx(ctx, tx, ticket); err != nil {
		return nil, err
	}
	ticket.QRPayload = e.qr.Payload(ticket.ID)
	if err := e.tickets.SetQRPayloadTx(ctx, tx, ticket.ID, ticket.QRPayload); err != nil {
		return nil, err
	}

	seatLinks := make([]model.TicketSeat, 0, len(rows))
	lockedIDs := make([]uint64, 0, len(rows))
	seatIDs := make([]uint64, 0, len(rows))
	for _, row := range rows {
		seatLinks = append(seatLinks, model.TicketSeat{
			TicketID:   ticket.ID,
			ShowID:     showID,
			SeatID:     row.SeatID,
			PriceCents: show.PriceCents,
		})
		lockedIDs = append(lockedIDs, row.ID)
		seatIDs = append(seatIDs, row.SeatID)
	}
	if err := e.tickets.CreateSeatsBulkTx(ctx, tx, seatLinks); err != nil {
		return nil, err
	}
	if err := e.showSeats.MarkBookedTx(ctx, tx, showID, lockedIDs); err != nil {
		return nil, err
	}

	payment := &model.Payment{
		TicketID:      ticket.ID,
		AmountCents:   total,
		Method:        method,
		Status:        model.PaymentStatusCompleted,
		TransactionID: uuid.NewString(),
	}
	if err := e.payments.CreateTx(ctx, tx, payment); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	if e.events != nil {
		e.events.TicketBooked(ctx, queue.TicketBookedEvent{
			TicketID:        ticket.ID,
			UserID:          userID,
			ShowID:          showID,
			SeatIDs:         seatIDs,
			TotalPriceCents: total,
			BookedAt:        now.Format(time.RFC3339),
		})
	}
	return ticket, nil
}

// CancellationResult is returned from a successful cancellation.
type CancellationResult struct {
	TicketID          uint64 `json:"ticket_id"`
	RefundAmountCents int64  `json:"refund_amount_cents"`
	RefundPercentage  int    `json:"refund_percentage"`
}

// CancelTicket reverses a booking: it flips the ticket to CANCELLED,
// computes the refund from the policy tiers, marks the payment
// refunded and releases every inventory row the ticket held, all in
// one transaction.  Seat links are retained as history.
//
// Only the ticket's owner (or an admin) may cancel.  CANCELLED and
// USED are terminal: cancelling them fails with ErrInvalidState.
// Cancellation is rejected once the show has started
// (ErrShowAlreadyStarted) or inside the minimum notice window
// (ErrCancellationWindowClosed).
func (e *Engine) CancelTicket(ctx context.Context, ticketID, callerID uint64, isAdmin bool, reason string, now time.Time) (*CancellationResult, error) {
	if ticketID == 0 {
		return nil, ErrInvalidRequest
	}
	now = now.UTC()

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Row-lock the ticket so a racing cancel or admission cannot also
	// observe status PAID.
	ticket, startsAt, err := e.tickets.GetForUpdateTx(ctx, tx, ticketID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && ticket.UserID != callerID {
		return nil, repository.ErrForbidden
	}
	if ticket.Status != model.TicketStatusPaid {
		return nil, ErrInvalidState
	}
	if !startsAt.After(now) {
		return nil, ErrShowAlreadyStarted
	}
	hoursUntil := startsAt.Sub(now).Hours()
	if hoursUntil < e.policy.MinNoticeHours {
		return nil, ErrCancellationWindowClosed
	}
	refund, pct := e.policy.RefundAmountCents(ticket.TotalPriceCents, hoursUntil)

	seatIDs, err := e.tickets.SeatIDsTx(ctx, tx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := e.tickets.UpdateCancelledTx(ctx, tx, ticketID, now, reason, refund); err != nil {
		return nil, err
	}
	if err := e.showSeats.MarkAvailableBySeatsTx(ctx, tx, ticket.ShowID, seatIDs); err != nil {
		return nil, err
	}
	if err := e.payments.MarkRefundedTx(ctx, tx, ticketID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	if e.events != nil {
		e.events.TicketCancelled(ctx, queue.TicketCancelledEvent{
			TicketID:          ticketID,
			UserID:            ticket.UserID,
			ShowID:            ticket.ShowID,
			SeatIDs:           seatIDs,
			RefundAmountCents: refund,
			RefundPercentage:  pct,
			Reason:            reason,
			CancelledAt:       now.Format(time.RFC3339),
		})
	}
	return &CancellationResult{
		TicketID:          ticketID,
		RefundAmountCents: refund,
		RefundPercentage:  pct,
	}, nil
}

// AdmitTicket transitions a PAID ticket to USED at the gate after
// verifying the scanned payload.  repository.ErrConflict from the
// store maps to ErrInvalidState: the ticket was already used or
// cancelled.
func (e *Engine) AdmitTicket(ctx context.Context, ticketID uint64, payload string) error {
	if !e.qr.Verify(ticketID, payload) {
		return ErrInvalidRequest
	}
	err := e.tickets.MarkUsed(ctx, ticketID)
	if errors.Is(err, repository.ErrConflict) {
		return ErrInvalidState
	}
	return err
}

// InitializeInventory materializes one available inventory row per
// theater seat for a freshly created show, inside the caller's
// transaction.  Idempotent: the (show, seat) uniqueness constraint
// absorbs repeat calls without duplicating rows.
func (e *Engine) InitializeInventory(ctx context.Context, tx *sql.Tx, showID, theaterID uint64) error {
	if err := e.showSeats.InitializeForShowTx(ctx, tx, showID, theaterID); err != nil {
		log.Printf("booking: inventory init failed for show %d: %v", showID, err)
		return err
	}
	return nil
}
