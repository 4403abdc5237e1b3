package model

import "time"

// Director represents a row in the `directors` table.
//
// Fields:
//  ID          – primary key identifier.
//  FullName    – the director's name.
//  Bio         – optional biography.
//  Nationality – optional nationality string.
type Director struct {
	ID          uint64    // directors.id
	FullName    string    // directors.full_name
	Bio         *string   // directors.bio (nullable)
	Nationality *string   // directors.nationality (nullable)
	CreatedAt   time.Time // directors.created_at
	UpdatedAt   time.Time // directors.updated_at
}

// Actor represents a row in the `actors` table.  An actor is linked
// to plays through PlayCredit records.
type Actor struct {
	ID          uint64    // actors.id
	FullName    string    // actors.full_name
	Bio         *string   // actors.bio (nullable)
	Nationality *string   // actors.nationality (nullable)
	CreatedAt   time.Time // actors.created_at
	UpdatedAt   time.Time // actors.updated_at
}

// PlayCredit links an actor to a play with the role they perform.
// The pair (actor_id, play_id) is the primary key.
type PlayCredit struct {
	ActorID  uint64 // play_credits.actor_id
	PlayID   uint64 // play_credits.play_id
	RoleName string // play_credits.role_name
}
