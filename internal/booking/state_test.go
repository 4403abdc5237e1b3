package booking_test

import (
	"testing"

	"github.com/slcassoc/theatre-booking/internal/booking"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from  booking.State
		to    booking.State
		valid bool
	}{
		{booking.StatePending, booking.StatePaid, true},
		{booking.StatePending, booking.StateCancelled, true},
		{booking.StatePending, booking.StateExpired, true},
		{booking.StatePending, booking.StateRefunded, false},
		{booking.StatePaid, booking.StateRefunded, true},
		{booking.StatePaid, booking.StateCancelled, true},
		{booking.StatePaid, booking.StateExpired, false},
		{booking.StatePaid, booking.StatePaid, false},
		{booking.StateRefunded, booking.StatePaid, false},
		{booking.StateRefunded, booking.StateCancelled, false},
		{booking.StateCancelled, booking.StatePaid, false},
		{booking.StateCancelled, booking.StateRefunded, false},
		{booking.StateExpired, booking.StatePaid, false},
		{booking.StateExpired, booking.StateCancelled, false},
		{booking.State("BOGUS"), booking.StatePaid, false},
	}

	for _, tt := range cases {
		if got := booking.CanTransition(tt.from, tt.to); got != tt.valid {
			t.Fatalf("CanTransition(%q, %q)=%v, want %v", tt.from, tt.to, got, tt.valid)
		}
	}
}

func TestOccupying(t *testing.T) {
	occupying := map[booking.State]bool{
		booking.StatePending:   true,
		booking.StatePaid:      true,
		booking.StateRefunded:  false,
		booking.StateCancelled: false,
		booking.StateExpired:   false,
	}
	for state, want := range occupying {
		if got := state.Occupying(); got != want {
			t.Fatalf("%s.Occupying()=%v, want %v", state, got, want)
		}
	}
}
