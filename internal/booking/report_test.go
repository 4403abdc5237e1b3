package booking_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slcassoc/theatre-booking/internal/booking"
)

func TestSales_RevenueCountsPaidOnly(t *testing.T) {
	f := newFixture(10)
	ctx := context.Background()
	owner := booking.Actor{ID: 1, Role: booking.RoleCustomer}
	reporter := booking.NewReporter(f.tickets, f.showtimes)

	paid, err := f.engine.Book(ctx, owner, booking.BookRequest{ShowtimeID: 1, Seat: "A1", PriceCents: 1500})
	require.NoError(t, err)
	_, err = f.engine.Pay(ctx, owner, paid.ID)
	require.NoError(t, err)

	_, err = f.engine.Book(ctx, owner, booking.BookRequest{ShowtimeID: 1, Seat: "A2", PriceCents: 2000})
	require.NoError(t, err)

	cancelled, err := f.engine.Book(ctx, owner, booking.BookRequest{ShowtimeID: 1, Seat: "A3", PriceCents: 9999})
	require.NoError(t, err)
	_, err = f.engine.Cancel(ctx, owner, cancelled.ID, showStart.Add(-24*time.Hour))
	require.NoError(t, err)

	rep, err := reporter.Sales(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), rep.RevenueCents, "only PAID tickets count toward revenue")
	assert.Equal(t, 2, rep.SeatsSold, "PENDING and PAID occupy seats")
	assert.Equal(t, 1, rep.TicketsByState[booking.StatePaid])
	assert.Equal(t, 1, rep.TicketsByState[booking.StatePending])
	assert.Equal(t, 1, rep.TicketsByState[booking.StateCancelled])
}

func TestSales_UnknownShowtime(t *testing.T) {
	f := newFixture(10)
	reporter := booking.NewReporter(f.tickets, f.showtimes)

	_, err := reporter.Sales(context.Background(), 404)
	assert.ErrorIs(t, err, booking.ErrShowtimeNotFound)
}

func TestCustomerTickets(t *testing.T) {
	f := newFixture(10)
	ctx := context.Background()
	reporter := booking.NewReporter(f.tickets, f.showtimes)

	a := booking.Actor{ID: 1, Role: booking.RoleCustomer}
	b := booking.Actor{ID: 2, Role: booking.RoleCustomer}
	_, err := f.engine.Book(ctx, a, booking.BookRequest{ShowtimeID: 1, Seat: "A1", PriceCents: 1000})
	require.NoError(t, err)
	_, err = f.engine.Book(ctx, a, booking.BookRequest{ShowtimeID: 1, Seat: "A2", PriceCents: 1000})
	require.NoError(t, err)
	_, err = f.engine.Book(ctx, b, booking.BookRequest{ShowtimeID: 1, Seat: "A3", PriceCents: 1000})
	require.NoError(t, err)

	mine, err := reporter.CustomerTickets(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, tk := range mine {
		assert.Equal(t, uint64(1), tk.CustomerID)
	}
}
