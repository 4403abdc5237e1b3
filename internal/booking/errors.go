// Error taxonomy of the booking core.  Handlers translate these sentinels
// into HTTP responses with errors.Is; nothing in this package is retried
// automatically except the sweeper's per-ticket processing.
package booking

import "errors"

// ErrShowtimeNotFound is returned when a booking references an unknown
// showtime.  Handlers should translate this into a 404.
var ErrShowtimeNotFound = errors.New("showtime not found")

// ErrTicketNotFound is returned when a lifecycle operation references a
// ticket that does not exist.  Handlers should translate this into a 404.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrSeatTaken is returned when the ledger denies a claim because another
// occupying ticket already holds the (showtime, seat) pair.  Handlers
// should translate this into a 409.
var ErrSeatTaken = errors.New("seat already taken for this showtime")

// ErrInvalidSeat is returned when a booking carries no seat label.
// Handlers should translate this into a 400.
var ErrInvalidSeat = errors.New("seat label must not be empty")

// ErrForbidden is returned when the actor is neither the ticket's customer
// nor an admin.  Handlers should translate this into a 403.
var ErrForbidden = errors.New("forbidden")

// ErrAlreadyPaid is returned by Pay when the ticket is already PAID.
var ErrAlreadyPaid = errors.New("ticket already paid")

// ErrInvalidState is returned when the requested transition is not legal
// from the ticket's current state, e.g. refunding an unpaid ticket or
// paying an expired one.
var ErrInvalidState = errors.New("operation not valid for ticket state")

// ErrCancelCutoff is returned when a cancellation arrives closer to the
// showtime start than the configured cutoff window allows.
var ErrCancelCutoff = errors.New("cancellation window closed")
