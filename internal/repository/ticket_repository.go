package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/slcassoc/theatre-booking/internal/booking"
)

// TicketRepo persists tickets.  It implements booking.TicketStore and
// booking.ReportStore; the booking engine is its only writer.  All
// timestamps are stored in UTC.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

const ticketColumns = `id, ticket_no, showtime_id, seat_label, customer_id, price_cents, state, booked_at, updated_at`

func scanTicket(row interface{ Scan(...any) error }) (*booking.Ticket, error) {
	var t booking.Ticket
	err := row.Scan(&t.ID, &t.TicketNo, &t.ShowtimeID, &t.Seat, &t.CustomerID,
		&t.PriceCents, &t.State, &t.BookedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new ticket and populates the generated ID.  The caller
// (the engine) has already claimed the seat in the ledger; this insert
// carries no uniqueness responsibility of its own.
func (r *TicketRepo) Create(ctx context.Context, t *booking.Ticket) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tickets (ticket_no, showtime_id, seat_label, customer_id, price_cents, state, booked_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.TicketNo, t.ShowtimeID, t.Seat, t.CustomerID, t.PriceCents, string(t.State), t.BookedAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID fetches a ticket by surrogate id.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*booking.Ticket, error) {
	t, err := scanTicket(r.db.QueryRowContext(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrTicketNotFound
	}
	return t, err
}

// GetByTicketNo fetches a ticket by its printed ticket number.
func (r *TicketRepo) GetByTicketNo(ctx context.Context, ticketNo string) (*booking.Ticket, error) {
	t, err := scanTicket(r.db.QueryRowContext(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE ticket_no = ?`, ticketNo))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrTicketNotFound
	}
	return t, err
}

// UpdateState is a compare-and-set on the ticket's state.  When zero rows
// match, the row either vanished (ErrTicketNotFound) or is no longer in
// the expected state (ErrInvalidState); a follow-up read distinguishes
// the two.
func (r *TicketRepo) UpdateState(ctx context.Context, id uint64, from, to booking.State) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tickets SET state = ?, updated_at = UTC_TIMESTAMP() WHERE id = ? AND state = ?`,
		string(to), id, string(from))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM tickets WHERE id = ?)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return booking.ErrTicketNotFound
		}
		return booking.ErrInvalidState
	}
	return nil
}

// CloseAndRelease moves a ticket out of an occupying state and deletes its
// seat claim in one transaction.  Tickets and seat claims live in the same
// database, so the compare-and-set and the claim delete either both commit
// or both roll back; a refunded or expired ticket can never leave a stray
// claim holding its seat.
func (r *TicketRepo) CloseAndRelease(ctx context.Context, t *booking.Ticket, from, to booking.State) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE tickets SET state = ?, updated_at = UTC_TIMESTAMP() WHERE id = ? AND state = ?`,
		string(to), t.ID, string(from))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM tickets WHERE id = ?)`, t.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return booking.ErrTicketNotFound
		}
		return booking.ErrInvalidState
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM seat_claims WHERE showtime_id = ? AND seat_label = ?`,
		t.ShowtimeID, t.Seat); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListStalePending returns a snapshot of PENDING tickets booked strictly
// before the given instant.  No locks are taken; the engine's
// compare-and-set transitions tolerate the snapshot going stale.
func (r *TicketRepo) ListStalePending(ctx context.Context, before time.Time) ([]booking.Ticket, error) {
	return r.list(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE state = ? AND booked_at < ?`,
		string(booking.StatePending), before.UTC())
}

// ListByShowtime returns all tickets of a showtime, newest first.
func (r *TicketRepo) ListByShowtime(ctx context.Context, showtimeID uint64) ([]booking.Ticket, error) {
	return r.list(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE showtime_id = ? ORDER BY booked_at DESC`,
		showtimeID)
}

// ListByCustomer returns all tickets of a customer, newest first.
func (r *TicketRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]booking.Ticket, error) {
	return r.list(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE customer_id = ? ORDER BY booked_at DESC`,
		customerID)
}

// ListAll returns every ticket, newest first.  Admin listing only.
func (r *TicketRepo) ListAll(ctx context.Context) ([]booking.Ticket, error) {
	return r.list(ctx, `SELECT `+ticketColumns+` FROM tickets ORDER BY booked_at DESC`)
}

func (r *TicketRepo) list(ctx context.Context, query string, args ...any) ([]booking.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tickets := make([]booking.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}
