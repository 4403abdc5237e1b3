package booking

import "context"

// ReportStore is the read side used by the reporting façade.  Both methods
// return plain snapshots; reports never mutate anything.
type ReportStore interface {
	ListByShowtime(ctx context.Context, showtimeID uint64) ([]Ticket, error)
	ListByCustomer(ctx context.Context, customerID uint64) ([]Ticket, error)
}

// SalesReport aggregates tickets of one showtime.  Revenue counts PAID
// tickets only: a pending booking is not money in the bank, and refunded,
// cancelled and expired tickets never were.
type SalesReport struct {
	ShowtimeID     uint64       `json:"showtime_id"`
	TicketsByState map[State]int `json:"tickets_by_state"`
	SeatsSold      int          `json:"seats_sold"`
	RevenueCents   uint64       `json:"revenue_cents"`
}

// Reporter is the read-only aggregation façade layered over the ticket
// store and the ledger.  It is exposed to the API layer for admin reports
// and per-customer ticket listings.
type Reporter struct {
	store     ReportStore
	showtimes ShowtimeStore
}

// NewReporter constructs a Reporter.
func NewReporter(store ReportStore, showtimes ShowtimeStore) *Reporter {
	if store == nil || showtimes == nil {
		panic("nil dependency passed to NewReporter")
	}
	return &Reporter{store: store, showtimes: showtimes}
}

// Sales builds the sales report for one showtime.  SeatsSold counts
// occupying tickets (PENDING and PAID); RevenueCents sums the price of
// PAID tickets.
func (r *Reporter) Sales(ctx context.Context, showtimeID uint64) (*SalesReport, error) {
	if _, err := r.showtimes.GetByID(ctx, showtimeID); err != nil {
		return nil, err
	}
	tickets, err := r.store.ListByShowtime(ctx, showtimeID)
	if err != nil {
		return nil, err
	}
	rep := &SalesReport{
		ShowtimeID:     showtimeID,
		TicketsByState: make(map[State]int),
	}
	for _, t := range tickets {
		rep.TicketsByState[t.State]++
		if t.State.Occupying() {
			rep.SeatsSold++
		}
		if t.State == StatePaid {
			rep.RevenueCents += uint64(t.PriceCents)
		}
	}
	return rep, nil
}

// CustomerTickets lists every ticket a customer has ever held, newest
// ordering is the store's concern.
func (r *Reporter) CustomerTickets(ctx context.Context, customerID uint64) ([]Ticket, error) {
	return r.store.ListByCustomer(ctx, customerID)
}
