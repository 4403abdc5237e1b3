// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into customer notifications.
package queue

// TicketQueueName is the durable queue carrying booking confirmations.
const TicketQueueName = "ticket.booked"

// TicketBookedEvent is published once a seat claim and its ticket row
// are durable.  It carries enough information for downstream consumers
// to notify the customer without querying the primary database.
type TicketBookedEvent struct {
	TicketID   uint64 `json:"ticket_id"`
	TicketNo   string `json:"ticket_no"`
	CustomerID uint64 `json:"customer_id"`
	ShowtimeID uint64 `json:"showtime_id"`
	PlayTitle  string `json:"play_title"`
	Venue      string `json:"venue"`
	StartsAt   string `json:"starts_at"`
	Seat       string `json:"seat"`
	PriceCents uint32 `json:"price_cents"`
	BookedAt   string `json:"booked_at"`
}
