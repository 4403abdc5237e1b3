package booking_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slcassoc/theatre-booking/internal/booking"
)

func TestSweeper_ExpiresStaleTickets(t *testing.T) {
	f := newFixture(5)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	owner := booking.Actor{ID: 1, Role: booking.RoleCustomer}

	// Book far enough in the past that the ticket is already stale.
	f.engine.SetClock(func() time.Time { return time.Now().UTC().Add(-time.Hour) })
	tk, err := f.engine.Book(ctx, owner, booking.BookRequest{ShowtimeID: 1, Seat: "A1", PriceCents: 1000})
	require.NoError(t, err)

	sw := booking.NewSweeper(f.engine, 5*time.Millisecond, 15*time.Minute)
	done := make(chan struct{})
	go func() {
		sw.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		got, err := f.engine.Get(ctx, owner, tk.ID)
		return err == nil && got.State == booking.StateExpired
	}, 2*time.Second, 10*time.Millisecond, "sweeper should expire the stale ticket")

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}

	avail, err := f.engine.AvailableSeats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 5, avail)
}

func TestSweeper_OverlappingRunsAreSafe(t *testing.T) {
	f := newFixture(5)
	ctx := context.Background()
	owner := booking.Actor{ID: 1, Role: booking.RoleCustomer}

	f.engine.SetClock(func() time.Time { return time.Now().UTC().Add(-time.Hour) })
	_, err := f.engine.Book(ctx, owner, booking.BookRequest{ShowtimeID: 1, Seat: "A1", PriceCents: 1000})
	require.NoError(t, err)

	// Two sweeps over the same snapshot window: the second must find
	// nothing to do and must not double-release.
	now := time.Now().UTC()
	n1, err := f.engine.ExpireStale(ctx, now, 15*time.Minute)
	require.NoError(t, err)
	n2, err := f.engine.ExpireStale(ctx, now, 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, n1)
	assert.Equal(t, 0, n2)

	avail, err := f.engine.AvailableSeats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, avail)
}
