package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/slcassoc/theatre-booking/internal/booking"
	"github.com/slcassoc/theatre-booking/internal/model"
)

// ShowtimeRepo manages scheduled performances.  It serves two callers:
// the booking engine, which needs only GetByID (as booking.ShowtimeStore),
// and the admin handlers, which get full CRUD over model.Showtime.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo returns a ShowtimeRepo bound to the given database.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo { return &ShowtimeRepo{db: db} }

// GetByID fetches the fields the booking engine needs to admit a booking
// or enforce the cancellation cutoff.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (*booking.Showtime, error) {
	var s booking.Showtime
	err := r.db.QueryRowContext(ctx,
		`SELECT id, play_id, venue, starts_at, ends_at, capacity FROM showtimes WHERE id = ?`,
		id).Scan(&s.ID, &s.PlayID, &s.Venue, &s.StartsAt, &s.EndsAt, &s.Capacity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrShowtimeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

const showtimeColumns = `id, play_id, venue, starts_at, ends_at, capacity, created_at, updated_at`

func scanShowtime(row interface{ Scan(...any) error }) (*model.Showtime, error) {
	var s model.Showtime
	err := row.Scan(&s.ID, &s.PlayID, &s.Venue, &s.StartsAt, &s.EndsAt,
		&s.Capacity, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create schedules a new showtime.  The play must exist; a foreign-key
// violation is surfaced as ErrPlayNotFound.
func (r *ShowtimeRepo) Create(ctx context.Context, s *model.Showtime) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO showtimes (play_id, venue, starts_at, ends_at, capacity)
		 VALUES (?, ?, ?, ?, ?)`,
		s.PlayID, s.Venue, s.StartsAt.UTC(), s.EndsAt.UTC(), s.Capacity)
	if err != nil {
		if isFKViolation(err) {
			return ErrPlayNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetDetail fetches the full showtime row for display and admin edits.
func (r *ShowtimeRepo) GetDetail(ctx context.Context, id uint64) (*model.Showtime, error) {
	s, err := scanShowtime(r.db.QueryRowContext(ctx,
		`SELECT `+showtimeColumns+` FROM showtimes WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrShowtimeNotFound
	}
	return s, err
}

// List returns all showtimes ordered by start time.
func (r *ShowtimeRepo) List(ctx context.Context) ([]model.Showtime, error) {
	return r.list(ctx, `SELECT `+showtimeColumns+` FROM showtimes ORDER BY starts_at`)
}

// ListByPlay returns the showtimes of one play ordered by start time.
func (r *ShowtimeRepo) ListByPlay(ctx context.Context, playID uint64) ([]model.Showtime, error) {
	return r.list(ctx,
		`SELECT `+showtimeColumns+` FROM showtimes WHERE play_id = ? ORDER BY starts_at`, playID)
}

// Update rewrites the mutable fields of a showtime.  Capacity may only
// grow: shrinking it could strand already-claimed seats, so a smaller
// value is rejected with ErrConflict.  Schedule fields may change freely
// while no live tickets exist; once tickets are sold the times are
// frozen and only capacity growth is accepted.
func (r *ShowtimeRepo) Update(ctx context.Context, s *model.Showtime) error {
	cur, err := r.GetDetail(ctx, s.ID)
	if err != nil {
		return err
	}
	if s.Capacity < cur.Capacity {
		return ErrConflict
	}
	scheduleChanged := !s.StartsAt.Equal(cur.StartsAt) || !s.EndsAt.Equal(cur.EndsAt) ||
		s.Venue != cur.Venue || s.PlayID != cur.PlayID
	if scheduleChanged {
		live, err := r.liveTicketCount(ctx, s.ID)
		if err != nil {
			return err
		}
		if live > 0 {
			return ErrConflict
		}
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE showtimes SET play_id = ?, venue = ?, starts_at = ?, ends_at = ?, capacity = ?,
		 updated_at = UTC_TIMESTAMP() WHERE id = ?`,
		s.PlayID, s.Venue, s.StartsAt.UTC(), s.EndsAt.UTC(), s.Capacity, s.ID)
	if err != nil && isFKViolation(err) {
		return ErrPlayNotFound
	}
	return err
}

// Delete removes a showtime.  Refused with ErrConflict while any PENDING
// or PAID ticket references it; cancelled and expired history does not
// block deletion and is removed along with the claims.
func (r *ShowtimeRepo) Delete(ctx context.Context, id uint64) error {
	live, err := r.liveTicketCount(ctx, id)
	if err != nil {
		return err
	}
	if live > 0 {
		return ErrConflict
	}

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

	if _, err := tx.ExecContext(ctx, `DELETE FROM seat_claims WHERE showtime_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tickets WHERE showtime_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM showtimes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return booking.ErrShowtimeNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *ShowtimeRepo) liveTicketCount(ctx context.Context, id uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tickets WHERE showtime_id = ? AND state IN (?, ?)`,
		id, string(booking.StatePending), string(booking.StatePaid)).Scan(&n)
	return n, err
}

func (r *ShowtimeRepo) list(ctx context.Context, query string, args ...any) ([]model.Showtime, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Showtime, 0)
	for rows.Next() {
		s, err := scanShowtime(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
