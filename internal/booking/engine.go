package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
)

// Engine is the ticket lifecycle manager.  It composes the seat ledger and
// the ticket store and is the only writer of ticket state.  All methods are
// safe for concurrent use; the uniqueness of (showtime, seat) among
// occupying tickets is guaranteed by the ledger's atomic claim, never by a
// read-then-write in this package.
type Engine struct {
	ledger    Ledger
	tickets   TicketStore
	showtimes ShowtimeStore
	notifier  Notifier
	policy    Policy
	clock     func() time.Time
}

// NewEngine constructs an Engine.  The ledger, ticket store and showtime
// store must be non-nil.  A nil notifier disables booking notifications.
func NewEngine(ledger Ledger, tickets TicketStore, showtimes ShowtimeStore, notifier Notifier, policy Policy) *Engine {
	if ledger == nil || tickets == nil || showtimes == nil {
		panic("nil dependency passed to NewEngine")
	}
	return &Engine{
		ledger:    ledger,
		tickets:   tickets,
		showtimes: showtimes,
		notifier:  notifier,
		policy:    policy,
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the engine's time source.  Tests use this to pin
// booking timestamps; production code never calls it.
func (e *Engine) SetClock(now func() time.Time) { e.clock = now }

// BookRequest carries the inputs of a booking.  CustomerID may be left
// zero to book for the acting customer; only admins may set it to another
// customer's id.
type BookRequest struct {
	ShowtimeID uint64
	Seat       string
	CustomerID uint64
	PriceCents uint32
}

// Book claims the requested seat and creates a PENDING ticket for it.
//
// The claim and the ticket insert are ordered so a loser of a seat race
// never leaves a ticket row behind: the ledger claim happens first and is
// the single atomic decision point; if the insert afterwards fails the
// claim is released again (Release is idempotent, so a duplicate release
// during recovery is harmless).  The notifier is invoked only after the
// ticket is durable and its outcome never affects the booking result.
func (e *Engine) Book(ctx context.Context, actor Actor, req BookRequest) (*Ticket, error) {
	if req.Seat == "" {
		return nil, ErrInvalidSeat
	}
	customerID := req.CustomerID
	if customerID == 0 {
		customerID = actor.ID
	}
	if customerID != actor.ID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	st, err := e.showtimes.GetByID(ctx, req.ShowtimeID)
	if err != nil {
		return nil, err
	}
	if err := e.ledger.TryClaim(ctx, st.ID, req.Seat); err != nil {
		return nil, err
	}
	t := &Ticket{
		TicketNo:   uuid.NewString(),
		ShowtimeID: st.ID,
		Seat:       req.Seat,
		CustomerID: customerID,
		PriceCents: req.PriceCents,
		State:      StatePending,
		BookedAt:   e.clock(),
	}
	if err := e.tickets.Create(ctx, t); err != nil {
		if relErr := e.ledger.Release(ctx, st.ID, req.Seat); relErr != nil {
			log.Printf("booking: release after failed insert showtime=%d seat=%s: %v", st.ID, req.Seat, relErr)
		}
		return nil, err
	}
	if e.notifier != nil {
		e.notifier.TicketBooked(ctx, *t, *st)
	}
	return t, nil
}

// Pay transitions a PENDING ticket to PAID.  Only the ticket's customer or
// an admin may pay.  Paying twice yields ErrAlreadyPaid; paying a ticket in
// any other non-pending state yields ErrInvalidState.
func (e *Engine) Pay(ctx context.Context, actor Actor, ticketID uint64) (*Ticket, error) {
	t, err := e.authorized(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if t.State == StatePaid {
		return nil, ErrAlreadyPaid
	}
	if !CanTransition(t.State, StatePaid) {
		return nil, ErrInvalidState
	}
	if err := e.tickets.UpdateState(ctx, t.ID, StatePending, StatePaid); err != nil {
		// Lost a race with another transition; re-read to report precisely.
		if errors.Is(err, ErrInvalidState) {
			if cur, gerr := e.tickets.GetByID(ctx, t.ID); gerr == nil && cur.State == StatePaid {
				return nil, ErrAlreadyPaid
			}
		}
		return nil, err
	}
	t.State = StatePaid
	return t, nil
}

// Refund transitions a PAID ticket to REFUNDED and releases its seat back
// to inventory.  Refunding from any other state yields ErrInvalidState.
// The transition and the seat release commit together: a failure leaves
// the ticket PAID and the seat held, and the refund can simply be retried.
func (e *Engine) Refund(ctx context.Context, actor Actor, ticketID uint64) (*Ticket, error) {
	t, err := e.authorized(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(t.State, StateRefunded) {
		return nil, ErrInvalidState
	}
	if err := e.tickets.CloseAndRelease(ctx, t, StatePaid, StateRefunded); err != nil {
		return nil, err
	}
	t.State = StateRefunded
	return t, nil
}

// Cancel transitions an occupying ticket to CANCELLED and releases its
// seat.  The cutoff window is measured against the showtime start and
// applies whether or not the ticket is paid.
func (e *Engine) Cancel(ctx context.Context, actor Actor, ticketID uint64, now time.Time) (*Ticket, error) {
	t, err := e.authorized(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(t.State, StateCancelled) {
		return nil, ErrInvalidState
	}
	st, err := e.showtimes.GetByID(ctx, t.ShowtimeID)
	if err != nil {
		return nil, err
	}
	if st.StartsAt.Sub(now) < e.policy.CancelCutoff {
		return nil, ErrCancelCutoff
	}
	if err := e.tickets.CloseAndRelease(ctx, t, t.State, StateCancelled); err != nil {
		return nil, err
	}
	t.State = StateCancelled
	return t, nil
}

// ExpireStale transitions every PENDING ticket booked more than window ago
// to EXPIRED and releases its seat.  Each ticket is handled independently:
// a ticket that changed state since the snapshot is skipped, and one
// failure never aborts the sweep.  It returns the number of tickets
// expired.  Running twice over the same snapshot is a no-op for tickets
// already processed because the state update is a compare-and-set.  A
// ticket whose close fails stays PENDING, so the next sweep picks it up
// again.
func (e *Engine) ExpireStale(ctx context.Context, now time.Time, window time.Duration) (int, error) {
	stale, err := e.tickets.ListStalePending(ctx, now.Add(-window))
	if err != nil {
		return 0, err
	}
	count := 0
	for i := range stale {
		t := &stale[i]
		select {
		case <-ctx.Done():
			return count, ctx.Err()
		default:
		}
		if err := e.tickets.CloseAndRelease(ctx, t, StatePending, StateExpired); err != nil {
			// Paid or cancelled since the snapshot; leave it alone.
			if !errors.Is(err, ErrInvalidState) && !errors.Is(err, ErrTicketNotFound) {
				log.Printf("booking: expire ticket=%d: %v", t.ID, err)
			}
			continue
		}
		count++
	}
	return count, nil
}

// Get returns a single ticket, enforcing the ownership rule.
func (e *Engine) Get(ctx context.Context, actor Actor, ticketID uint64) (*Ticket, error) {
	return e.authorized(ctx, actor, ticketID)
}

// AvailableSeats returns capacity minus occupying claims for a showtime.
// The value is for display; booking decisions always go through the
// ledger's claim.
func (e *Engine) AvailableSeats(ctx context.Context, showtimeID uint64) (int, error) {
	if _, err := e.showtimes.GetByID(ctx, showtimeID); err != nil {
		return 0, err
	}
	return e.ledger.AvailableCount(ctx, showtimeID)
}

// ExpireWindow exposes the configured expiration window so callers such as
// the admin sweep trigger reuse the same policy value as the sweeper.
func (e *Engine) ExpireWindow() time.Duration { return e.policy.ExpireWindow }

// authorized loads a ticket and applies the ownership rule: the ticket's
// customer or an admin.
func (e *Engine) authorized(ctx context.Context, actor Actor, ticketID uint64) (*Ticket, error) {
	t, err := e.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t.CustomerID != actor.ID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return t, nil
}
