// Package booking implements the seat-inventory booking and
// cancellation engine.  It is the only path by which tickets are
// created, cancelled or admitted, and owns the all-or-nothing
// guarantee across inventory, ticket, seat-link and payment writes.
package booking

import "errors"

// Business failures surfaced to callers.  All of them are recoverable
// at the handler boundary; storage failures are returned as-is and are
// safe to retry (a retried booking either succeeds once or observes
// ErrSeatConflict, never a double booking).
var (
	// ErrInvalidRequest covers malformed input: unknown or inactive
	// show, or an empty seat selection.
	ErrInvalidRequest = errors.New("invalid booking request")

	// ErrSeatConflict is returned when some selected seats are already
	// booked or invalid at lock time.  No partial booking is committed.
	ErrSeatConflict = errors.New("some selected seats are already booked or invalid")

	// ErrInvalidState is returned when the operation is not valid for
	// the ticket's current status (CANCELLED and USED are terminal).
	ErrInvalidState = errors.New("operation not valid for ticket state")

	// ErrShowAlreadyStarted rejects cancellation at or after showtime.
	ErrShowAlreadyStarted = errors.New("show already started")

	// ErrCancellationWindowClosed rejects cancellation inside the
	// policy's minimum notice window.
	ErrCancellationWindowClosed = errors.New("cancellation window closed")
)
