package booking_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slcassoc/theatre-booking/internal/booking"
)

var showStart = time.Date(2026, 9, 12, 19, 30, 0, 0, time.UTC)

type fixture struct {
	ledger    *memLedger
	tickets   *memTickets
	showtimes *memShowtimes
	notifier  *memNotifier
	engine    *booking.Engine
}

func newFixture(capacity int) *fixture {
	f := &fixture{
		ledger:   newMemLedger(),
		notifier: &memNotifier{},
	}
	f.tickets = newMemTickets(f.ledger)
	f.ledger.capacity[1] = capacity
	f.showtimes = &memShowtimes{byID: map[uint64]booking.Showtime{
		1: {ID: 1, PlayID: 7, Venue: "Main Hall", StartsAt: showStart, EndsAt: showStart.Add(2 * time.Hour), Capacity: uint32(capacity)},
	}}
	f.engine = booking.NewEngine(f.ledger, f.tickets, f.showtimes, f.notifier, booking.Policy{
		CancelCutoff: 3 * time.Hour,
		ExpireWindow: 15 * time.Minute,
	})
	return f
}

func TestBook_CreatesPendingTicket(t *testing.T) {
	f := newFixture(10)
	ctx := context.Background()

	tk, err := f.engine.Book(ctx, booking.Actor{ID: 1, Role: booking.RoleCustomer}, booking.BookRequest{
		ShowtimeID: 1, Seat: "A1", PriceCents: 1000,
	})
	require.NoError(t, err)
	assert.Equal(t, booking.StatePending, tk.State)
	assert.Equal(t, uint64(1), tk.CustomerID)
	assert.NotEmpty(t, tk.TicketNo)
	assert.False(t, tk.BookedAt.IsZero())
	assert.Equal(t, 1, f.notifier.booked())

	avail, err := f.engine.AvailableSeats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 9, avail)
}

func TestBook_EmptySeatRejected(t *testing.T) {
	f := newFixture(10)

	_, err := f.engine.Book(context.Background(), booking.Actor{ID: 1, Role: booking.RoleCustomer}, booking.BookRequest{
		ShowtimeID: 1,
	})
	assert.ErrorIs(t, err, booking.ErrInvalidSeat)
	assert.Equal(t, 0, f.ledger.claimed(1))
}

func TestBook_ShowtimeNotFound(t *testing.T) {
	f := newFixture(10)

	_, err := f.engine.Book(context.Background(), booking.Actor{ID: 1, Role: booking.RoleCustomer}, booking.BookRequest{
		ShowtimeID: 99, Seat: "A1",
	})
	assert.ErrorIs(t, err, booking.ErrShowtimeNotFound)
	assert.Equal(t, 0, f.notifier.booked())
}

func TestBook_ForbiddenForOtherCustomer(t *testing.T) {
	f := newFixture(10)

	_, err := f.engine.Book(context.Background(), booking.Actor{ID: 1, Role: booking.RoleCustomer}, booking.BookRequest{
		ShowtimeID: 1, Seat: "A1", CustomerID: 2,
	})
	assert.ErrorIs(t, err, booking.ErrForbidden)

	// An admin may book on behalf of any customer.
	tk, err := f.engine.Book(context.Background(), booking.Actor{ID: 9, Role: booking.RoleAdmin}, booking.BookRequest{
		ShowtimeID: 1, Seat: "A1", CustomerID: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), tk.CustomerID)
}

func TestBook_InsertFailureReleasesClaim(t *testing.T) {
	f := newFixture(10)
	ctx := context.Background()
	actor := booking.Actor{ID: 1, Role: booking.RoleCustomer}

	f.tickets.failCreate = true
	_, err := f.engine.Book(ctx, actor, booking.BookRequest{ShowtimeID: 1, Seat: "A1"})
	require.Error(t, err)
	assert.Equal(t, 0, f.ledger.claimed(1), "failed booking must not hold a claim")
	assert.Equal(t, 0, f.notifier.booked())

	// The seat is immediately bookable again.
	f.tickets.failCreate = false
	_, err = f.engine.Book(ctx, actor, booking.BookRequest{ShowtimeID: 1, Seat: "A1"})
	assert.NoError(t, err)
}

func TestBook_RaceYieldsOneWinner(t *testing.T) {
	f := newFixture(10)
	ctx := context.Background()

	const racers = 16
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.engine.Book(ctx, booking.Actor{ID: uint64(i + 1), Role: booking.RoleCustomer}, booking.BookRequest{
				ShowtimeID: 1, Seat: "B4", PriceCents: 1000,
			})
		}(i)
	}
	wg.Wait()

	wins, losses := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case assert.ErrorIs(t, err, booking.ErrSeatTaken):
			losses++
		}
	}
	assert.Equal(t, 1, wins, "exactly one booking must win the seat")
	assert.Equal(t, racers-1, losses)

	// No ticket row exists for any loser.
	all, err := f.tickets.ListByShowtime(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// Mirrors the canonical walkthrough: capacity 1, seat A1, two customers,
// payment, a cancellation inside the cutoff, then a refund.
func TestLifecycle_BookPayLateCancelRefund(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()
	cust1 := booking.Actor{ID: 1, Role: booking.RoleCustomer}
	cust2 := booking.Actor{ID: 2, Role: booking.RoleCustomer}

	tk, err := f.engine.Book(ctx, cust1, booking.BookRequest{ShowtimeID: 1, Seat: "A1", PriceCents: 1000})
	require.NoError(t, err)
	assert.Equal(t, booking.StatePending, tk.State)

	_, err = f.engine.Book(ctx, cust2, booking.BookRequest{ShowtimeID: 1, Seat: "A1", PriceCents: 1000})
	assert.ErrorIs(t, err, booking.ErrSeatTaken)

	tk, err = f.engine.Pay(ctx, cust1, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatePaid, tk.State)

	// One hour before curtain with a three hour cutoff: too late.
	_, err = f.engine.Cancel(ctx, cust1, tk.ID, showStart.Add(-time.Hour))
	assert.ErrorIs(t, err, booking.ErrCancelCutoff)

	tk, err = f.engine.Refund(ctx, cust1, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StateRefunded, tk.State)

	avail, err := f.engine.AvailableSeats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, avail)
}

func TestPay_Errors(t *testing.T) {
	f := newFixture(10)
	ctx := context.Background()
	owner := booking.Actor{ID: 1, Role: booking.RoleCustomer}
	stranger := booking.Actor{ID: 2, Role: booking.RoleCustomer}

	_, err := f.engine.Pay(ctx, owner, 42)
	assert.ErrorIs(t, err, booking.ErrTicketNotFound)

	tk, err := f.engine.Book(ctx, owner, booking.BookRequest{ShowtimeID: 1, Seat: "A1", PriceCents: 1000})
	require.NoError(t, err)

	_, err = f.engine.Pay(ctx, stranger, tk.ID)
	assert.ErrorIs(t, err, booking.ErrForbidden)

	_, err = f.engine.Pay(ctx, owner, tk.ID)
	require.NoError(t, err)
	_, err = f.engine.Pay(ctx, owner, tk.ID)
	assert.ErrorIs(t, err, booking.ErrAlreadyPaid)

	// Admins may pay on behalf of the customer.
	tk2, err := f.engine.Book(ctx, owner, booking.BookRequest{ShowtimeID: 1, Seat: "A2", PriceCents: 1000})
	require.NoError(t, err)
	_, err = f.engine.Pay(ctx, booking.Actor{ID: 9, Role: booking.RoleAdmin}, tk2.ID)
	assert.NoError(t, err)
}

// A close that cannot commit must leave the ticket in its occupying state
// with the seat still held, so available + occupying == capacity survives
// the failure and a plain retry finishes the refund.
func TestRefund_FailedCloseKeepsTicketPaidAndSeatHeld(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()
	owner := booking.Actor{ID: 1, Role: booking.RoleCustomer}

	tk, err := f.engine.Book(ctx, owner, booking.BookRequest{ShowtimeID: 1, Seat: "A1", PriceCents: 1000})
	require.NoError(t, err)
	_, err = f.engine.Pay(ctx, owner, tk.ID)
	require.NoError(t, err)

	f.tickets.failClose = true
	_, err = f.engine.Refund(ctx, owner, tk.ID)
	require.Error(t, err)

	got, err := f.engine.Get(ctx, owner, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatePaid, got.State, "failed close must not strand a refunded ticket")
	avail, err := f.engine.AvailableSeats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, avail, "seat stays held while the ticket is still PAID")

	// Retrying lands the transition and the release together.
	f.tickets.failClose = false
	_, err = f.engine.Refund(ctx, owner, tk.ID)
	require.NoError(t, err)
	avail, err = f.engine.AvailableSeats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, avail)

	// The freed seat is bookable by someone else.
	_, err = f.engine.Book(ctx, booking.Actor{ID: 2, Role: booking.RoleCustomer}, booking.BookRequest{
		ShowtimeID: 1, Seat: "A1", PriceCents: 1000,
	})
	require.NoError(t, err)
}

func TestExpireStale_FailedCloseRetriedByNextSweep(t *testing.T) {
	f := newFixture(3)
	ctx := context.Background()
	owner := booking.Actor{ID: 1, Role: booking.RoleCustomer}

	t0 := showStart.Add(-48 * time.Hour)
	f.engine.SetClock(func() time.Time { return t0 })
	tk, err := f.engine.Book(ctx, owner, booking.BookRequest{ShowtimeID: 1, Seat: "A1", PriceCents: 1000})
	require.NoError(t, err)

	f.tickets.failClose = true
	n, err := f.engine.ExpireStale(ctx, t0.Add(16*time.Minute), 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	got, err := f.engine.Get(ctx, owner, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatePending, got.State, "ticket stays PENDING for the next sweep")

	f.tickets.failClose = false
	n, err = f.engine.ExpireStale(ctx, t0.Add(16*time.Minute), 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	avail, err := f.engine.AvailableSeats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, avail)
}

func TestRefund_RequiresPaid(t *testing.T) {
	f := newFixture(10)
	ctx := context.Background()
	owner := booking.Actor{ID: 1, Role: booking.RoleCustomer}

	tk, err := f.engine.Book(ctx, owner, booking.BookRequest{ShowtimeID: 1, Seat: "A1", PriceCents: 1000})
	require.NoError(t, err)

	_, err = f.engine.Refund(ctx, owner, tk.ID)
	assert.ErrorIs(t, err, booking.ErrInvalidState)
}

func TestCancel_PendingInsideWindowReleasesSeat(t *testing.T) {
	f := newFixture(2)
	ctx := context.Background()
	owner := booking.Actor{ID: 1, Role: booking.RoleCustomer}

	tk, err := f.engine.Book(ctx, owner, booking.BookRequest{ShowtimeID: 1, Seat: "A1", PriceCents: 1000})
	require.NoError(t, err)

	tk, err = f.engine.Cancel(ctx, owner, tk.ID, showStart.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, booking.StateCancelled, tk.State)

	avail, err := f.engine.AvailableSeats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, avail)

	// Terminal states admit no further transitions.
	_, err = f.engine.Cancel(ctx, owner, tk.ID, showStart.Add(-24*time.Hour))
	assert.ErrorIs(t, err, booking.ErrInvalidState)
	_, err = f.engine.Pay(ctx, owner, tk.ID)
	assert.ErrorIs(t, err, booking.ErrInvalidState)
	_, err = f.engine.Refund(ctx, owner, tk.ID)
	assert.ErrorIs(t, err, booking.ErrInvalidState)
}

func TestExpireStale_ReleasesSeatAndBlocksPayment(t *testing.T) {
	f := newFixture(5)
	ctx := context.Background()
	owner := booking.Actor{ID: 1, Role: booking.RoleCustomer}

	t0 := showStart.Add(-48 * time.Hour)
	f.engine.SetClock(func() time.Time { return t0 })

	tk, err := f.engine.Book(ctx, owner, booking.BookRequest{ShowtimeID: 1, Seat: "A1", PriceCents: 1000})
	require.NoError(t, err)

	// A paid ticket booked at the same moment must survive the sweep.
	paid, err := f.engine.Book(ctx, owner, booking.BookRequest{ShowtimeID: 1, Seat: "A2", PriceCents: 1000})
	require.NoError(t, err)
	_, err = f.engine.Pay(ctx, owner, paid.ID)
	require.NoError(t, err)

	n, err := f.engine.ExpireStale(ctx, t0.Add(16*time.Minute), 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.engine.Get(ctx, owner, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StateExpired, got.State)

	avail, err := f.engine.AvailableSeats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, avail, "expired seat released, paid seat still held")

	_, err = f.engine.Pay(ctx, owner, tk.ID)
	assert.ErrorIs(t, err, booking.ErrInvalidState)

	// A second sweep over the same window is a no-op.
	n, err = f.engine.ExpireStale(ctx, t0.Add(16*time.Minute), 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestExpireStale_FreshTicketsUntouched(t *testing.T) {
	f := newFixture(5)
	ctx := context.Background()
	owner := booking.Actor{ID: 1, Role: booking.RoleCustomer}

	t0 := showStart.Add(-48 * time.Hour)
	f.engine.SetClock(func() time.Time { return t0 })

	tk, err := f.engine.Book(ctx, owner, booking.BookRequest{ShowtimeID: 1, Seat: "A1", PriceCents: 1000})
	require.NoError(t, err)

	n, err := f.engine.ExpireStale(ctx, t0.Add(10*time.Minute), 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	got, err := f.engine.Get(ctx, owner, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatePending, got.State)
}

// Conservation: available + occupying == capacity after every operation.
func TestConservation(t *testing.T) {
	f := newFixture(4)
	ctx := context.Background()
	owner := booking.Actor{ID: 1, Role: booking.RoleCustomer}

	check := func() {
		t.Helper()
		avail, err := f.engine.AvailableSeats(ctx, 1)
		require.NoError(t, err)
		all, err := f.tickets.ListByShowtime(ctx, 1)
		require.NoError(t, err)
		occupying := 0
		for _, tk := range all {
			if tk.State.Occupying() {
				occupying++
			}
		}
		assert.Equal(t, 4, avail+occupying)
	}

	check()
	t1, err := f.engine.Book(ctx, owner, booking.BookRequest{ShowtimeID: 1, Seat: "A1", PriceCents: 500})
	require.NoError(t, err)
	check()
	t2, err := f.engine.Book(ctx, owner, booking.BookRequest{ShowtimeID: 1, Seat: "A2", PriceCents: 500})
	require.NoError(t, err)
	check()
	_, err = f.engine.Pay(ctx, owner, t1.ID)
	require.NoError(t, err)
	check()
	_, err = f.engine.Cancel(ctx, owner, t2.ID, showStart.Add(-24*time.Hour))
	require.NoError(t, err)
	check()
	_, err = f.engine.Refund(ctx, owner, t1.ID)
	require.NoError(t, err)
	check()
}

func TestLedger_ReleaseIsIdempotent(t *testing.T) {
	l := newMemLedger()
	l.capacity[1] = 3
	ctx := context.Background()

	require.NoError(t, l.TryClaim(ctx, 1, "A1"))
	require.NoError(t, l.Release(ctx, 1, "A1"))
	require.NoError(t, l.Release(ctx, 1, "A1"), "double release is a no-op")

	n, err := l.AvailableCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
