// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow handlers to distinguish
// between failure scenarios.  Booking-domain errors (seat taken, invalid
// state, cutoff) live in the booking package; the sentinels here cover
// the entity CRUD surface.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be performed
// because of dependent state, such as deleting a showtime that still has
// live tickets.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrPlayNotFound indicates the referenced play does not exist.
var ErrPlayNotFound = errors.New("play not found")

// ErrDirectorNotFound indicates the referenced director does not exist.
var ErrDirectorNotFound = errors.New("director not found")

// ErrActorNotFound indicates the referenced actor does not exist.
var ErrActorNotFound = errors.New("actor not found")

// ErrUserNotFound indicates the referenced user does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrAddonNotFound indicates the ticket has no add-on record.
var ErrAddonNotFound = errors.New("addon not found")

// ErrPaymentNotFound indicates the ticket has no payment record.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrPaymentExists indicates a payment was already recorded for the
// ticket; payments are one-per-ticket.
var ErrPaymentExists = errors.New("payment already exists for this ticket")
