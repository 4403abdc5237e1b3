package model

import "time"

// Showtime represents a scheduled performance of a play at a venue
// with a fixed seat capacity.  Availability is always derived from the
// seat-claim ledger, never stored here: a cached counter column was the
// main source of inventory drift in the predecessor system.
//
// Fields:
//  ID        – primary key identifier.
//  PlayID    – the play being performed.
//  Venue     – venue name.
//  StartsAt  – when the performance begins (UTC).
//  EndsAt    – when the performance ends (UTC).
//  Capacity  – total number of seats on sale.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Showtime struct {
	ID        uint64    // showtimes.id
	PlayID    uint64    // showtimes.play_id
	Venue     string    // showtimes.venue
	StartsAt  time.Time // showtimes.starts_at
	EndsAt    time.Time // showtimes.ends_at
	Capacity  uint32    // showtimes.capacity
	CreatedAt time.Time // showtimes.created_at
	UpdatedAt time.Time // showtimes.updated_at
}
