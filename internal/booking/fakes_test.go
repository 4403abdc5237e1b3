package booking_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/slcassoc/theatre-booking/internal/booking"
)

// memLedger is an in-memory Ledger guarding the claim set with a mutex, the
// same exclusion discipline the SQL implementation gets from its primary
// key.  It doubles as the concurrency harness for the race tests.
type memLedger struct {
	mu       sync.Mutex
	capacity map[uint64]int
	claims   map[uint64]map[string]bool
}

func newMemLedger() *memLedger {
	return &memLedger{capacity: make(map[uint64]int), claims: make(map[uint64]map[string]bool)}
}

func (l *memLedger) TryClaim(_ context.Context, showtimeID uint64, seat string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	set := l.claims[showtimeID]
	if set == nil {
		set = make(map[string]bool)
		l.claims[showtimeID] = set
	}
	if set[seat] {
		return booking.ErrSeatTaken
	}
	set[seat] = true
	return nil
}

func (l *memLedger) Release(_ context.Context, showtimeID uint64, seat string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.claims[showtimeID], seat)
	return nil
}

func (l *memLedger) AvailableCount(_ context.Context, showtimeID uint64) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.capacity[showtimeID] - len(l.claims[showtimeID]), nil
}

func (l *memLedger) claimed(showtimeID uint64) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.claims[showtimeID])
}

// memTickets is an in-memory TicketStore with compare-and-set state
// updates.  failCreate simulates an insert failure after a successful
// claim; failClose simulates a close that cannot commit, in which case
// neither the state nor the claim may change (the SQL implementation
// gets the same all-or-nothing from its transaction).
type memTickets struct {
	mu         sync.Mutex
	seq        uint64
	byID       map[uint64]booking.Ticket
	ledger     *memLedger
	failCreate bool
	failClose  bool
}

func newMemTickets(ledger *memLedger) *memTickets {
	return &memTickets{byID: make(map[uint64]booking.Ticket), ledger: ledger}
}

func (s *memTickets) Create(_ context.Context, t *booking.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate {
		return errors.New("simulated insert failure")
	}
	s.seq++
	t.ID = s.seq
	s.byID[t.ID] = *t
	return nil
}

func (s *memTickets) GetByID(_ context.Context, id uint64) (*booking.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[id]
	if !ok {
		return nil, booking.ErrTicketNotFound
	}
	cp := t
	return &cp, nil
}

func (s *memTickets) UpdateState(_ context.Context, id uint64, from, to booking.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[id]
	if !ok {
		return booking.ErrTicketNotFound
	}
	if t.State != from {
		return booking.ErrInvalidState
	}
	t.State = to
	s.byID[id] = t
	return nil
}

func (s *memTickets) CloseAndRelease(ctx context.Context, t *booking.Ticket, from, to booking.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.byID[t.ID]
	if !ok {
		return booking.ErrTicketNotFound
	}
	if cur.State != from {
		return booking.ErrInvalidState
	}
	if s.failClose {
		return errors.New("simulated close failure")
	}
	cur.State = to
	s.byID[t.ID] = cur
	return s.ledger.Release(ctx, t.ShowtimeID, t.Seat)
}

func (s *memTickets) ListStalePending(_ context.Context, before time.Time) ([]booking.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []booking.Ticket
	for _, t := range s.byID {
		if t.State == booking.StatePending && t.BookedAt.Before(before) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memTickets) ListByShowtime(_ context.Context, showtimeID uint64) ([]booking.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []booking.Ticket
	for _, t := range s.byID {
		if t.ShowtimeID == showtimeID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memTickets) ListByCustomer(_ context.Context, customerID uint64) ([]booking.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []booking.Ticket
	for _, t := range s.byID {
		if t.CustomerID == customerID {
			out = append(out, t)
		}
	}
	return out, nil
}

// memShowtimes is a fixed showtime catalogue.
type memShowtimes struct {
	byID map[uint64]booking.Showtime
}

func (s *memShowtimes) GetByID(_ context.Context, id uint64) (*booking.Showtime, error) {
	st, ok := s.byID[id]
	if !ok {
		return nil, booking.ErrShowtimeNotFound
	}
	cp := st
	return &cp, nil
}

// memNotifier counts notifications so tests can assert fire-and-forget
// delivery without a broker.
type memNotifier struct {
	mu    sync.Mutex
	count int
}

func (n *memNotifier) TicketBooked(context.Context, booking.Ticket, booking.Showtime) {
	n.mu.Lock()
	n.count++
	n.mu.Unlock()
}

func (n *memNotifier) booked() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count
}
