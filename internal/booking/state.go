package booking

// transitions lists, per target state, the states a ticket may come from.
// Every mutation in the Engine consults this table; there is no other
// transition path.  EXPIRED is reachable only from PENDING and only the
// sweeper requests it.  REFUNDED is reachable only from PAID.  CANCELLED is
// reachable from both occupying states (the time-window policy is enforced
// separately by Cancel).
var transitions = map[State][]State{
	StatePaid:      {StatePending},
	StateRefunded:  {StatePaid},
	StateCancelled: {StatePending, StatePaid},
	StateExpired:   {StatePending},
}

// CanTransition reports whether a ticket may move from one state to
// another.  Terminal states (REFUNDED, CANCELLED, EXPIRED) appear in no
// from-list, so nothing is reachable from them.
func CanTransition(from, to State) bool {
	for _, s := range transitions[to] {
		if s == from {
			return true
		}
	}
	return false
}
