package model

import "time"

// Play represents a stage production in the association's repertoire.
// Plays are scheduled through showtimes and credited to a director
// and a cast of actors.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – title of the production.
//  Genre       – genre label (drama, comedy, concert, ...).
//  Synopsis    – optional synopsis text.
//  DurationMin – running time in minutes.
//  DirectorID  – director of the production (nil when unassigned).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Play struct {
	ID          uint64    // plays.id
	Title       string    // plays.title
	Genre       string    // plays.genre
	Synopsis    *string   // plays.synopsis (nullable)
	DurationMin uint32    // plays.duration_min
	DirectorID  *uint64   // plays.director_id (nullable)
	CreatedAt   time.Time // plays.created_at
	UpdatedAt   time.Time // plays.updated_at
}
