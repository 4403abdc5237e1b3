// Package booking implements the seat-allocation and ticket-lifecycle core of
// the theatre booking service.  The Engine owns every state transition a
// ticket can make; the Ledger owns the per-showtime seat inventory.  The HTTP
// layer and the background sweeper both go through the same Engine entry
// points so there is exactly one code path for every seat-release event.
package booking

import (
	"context"
	"time"
)

// State is the lifecycle state of a ticket.  A ticket occupies seat
// inventory only while it is PENDING or PAID; the remaining states have
// released their seat.
type State string

const (
	StatePending   State = "PENDING"   // created, unpaid, occupies the seat
	StatePaid      State = "PAID"      // paid, occupies the seat
	StateRefunded  State = "REFUNDED"  // refunded after payment, seat released
	StateCancelled State = "CANCELLED" // cancelled by the customer, seat released
	StateExpired   State = "EXPIRED"   // released by the sweeper, never paid
)

// Occupying reports whether a ticket in this state holds seat inventory.
func (s State) Occupying() bool {
	return s == StatePending || s == StatePaid
}

// Roles carried in the JWT and re-checked by the Engine on every
// ownership-gated operation.
const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

// Actor identifies the caller of a lifecycle operation.  The Engine performs
// its own authorization with this value instead of relying on ambient
// middleware: a customer may only act on their own tickets, an admin on any.
type Actor struct {
	ID   uint64
	Role string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Ticket is the engine's view of a ticket row.  TicketNo is a separate
// unique attribute (an opaque token printed on the ticket), never the
// primary key.
type Ticket struct {
	ID         uint64
	TicketNo   string
	ShowtimeID uint64
	Seat       string
	CustomerID uint64
	PriceCents uint32
	State      State
	BookedAt   time.Time
	UpdatedAt  time.Time
}

// Showtime is the engine's view of a scheduled performance.  Capacity is
// fixed seat inventory; availability is always derived from the ledger,
// never stored as an independently mutated counter.
type Showtime struct {
	ID       uint64
	PlayID   uint64
	Venue    string
	StartsAt time.Time
	EndsAt   time.Time
	Capacity uint32
}

// Policy holds the externally supplied booking constants.  Values come from
// configuration at startup; nothing in this package hard-codes them.
type Policy struct {
	// CancelCutoff is the minimum time before the showtime start at which a
	// ticket may still be cancelled.
	CancelCutoff time.Duration
	// ExpireWindow is how long a PENDING ticket may stay unpaid before the
	// sweeper releases its seat.
	ExpireWindow time.Duration
}

// Ledger is the seat inventory for showtimes.  TryClaim is the single
// atomic check-and-reserve for a (showtime, seat) pair: under concurrent
// callers exactly one claim succeeds and the rest observe ErrSeatTaken.
// Release is idempotent; releasing a free seat is a no-op so that partial
// failures can always be recovered by releasing again.
type Ledger interface {
	TryClaim(ctx context.Context, showtimeID uint64, seat string) error
	Release(ctx context.Context, showtimeID uint64, seat string) error
	// AvailableCount returns capacity minus occupying claims.  It is for
	// display only; claim decisions go through TryClaim.
	AvailableCount(ctx context.Context, showtimeID uint64) (int, error)
}

// TicketStore persists tickets.  UpdateState must be a compare-and-set on
// the from-state so concurrent lifecycle operations on the same ticket
// serialize: it returns ErrInvalidState when the ticket is no longer in
// the expected state and ErrTicketNotFound when the row is absent.
//
// CloseAndRelease carries every transition out of an occupying state.  It
// must apply the same compare-and-set AND free the ticket's seat claim
// atomically: either the ticket leaves its occupying state and the seat
// returns to inventory, or neither happens.  A half-applied close would
// leave a seat claimed by a ticket that no longer occupies it, and nothing
// downstream could tell that claim from a live one.
type TicketStore interface {
	Create(ctx context.Context, t *Ticket) error
	GetByID(ctx context.Context, id uint64) (*Ticket, error)
	UpdateState(ctx context.Context, id uint64, from, to State) error
	CloseAndRelease(ctx context.Context, t *Ticket, from, to State) error
	// ListStalePending returns PENDING tickets booked strictly before the
	// given instant.  The result is a snapshot, not a lock.
	ListStalePending(ctx context.Context, before time.Time) ([]Ticket, error)
}

// ShowtimeStore resolves showtime references for booking and cancellation
// checks.  It returns ErrShowtimeNotFound for unknown ids.
type ShowtimeStore interface {
	GetByID(ctx context.Context, id uint64) (*Showtime, error)
}

// Notifier is told about successful bookings after they are durable.
// Implementations must be best-effort: a notification failure is logged by
// the implementation and never surfaces as a booking failure.
type Notifier interface {
	TicketBooked(ctx context.Context, t Ticket, s Showtime)
}
