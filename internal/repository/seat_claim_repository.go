package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/slcassoc/theatre-booking/internal/booking"
)

// MySQL error numbers this package cares about.
const (
	mysqlDupEntry    = 1062 // duplicate key
	mysqlFKViolation = 1452 // foreign key constraint fails on insert/update
)

func isDupEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDupEntry
}

func isFKViolation(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlFKViolation
}

// SeatClaimRepo is the SQL implementation of the booking.Ledger.  The
// seat_claims table has PRIMARY KEY (showtime_id, seat_label), so a claim
// is a bare INSERT: the database's duplicate-key check is the single
// atomic decision point for a seat race.  No read-then-write anywhere.
type SeatClaimRepo struct {
	db *sql.DB
}

// NewSeatClaimRepo returns a SeatClaimRepo bound to the given database.
func NewSeatClaimRepo(db *sql.DB) *SeatClaimRepo { return &SeatClaimRepo{db: db} }

// TryClaim reserves (showtimeID, seat).  Two simultaneous claims for the
// same pair yield exactly one success; the loser gets booking.ErrSeatTaken
// from the primary-key violation.
func (r *SeatClaimRepo) TryClaim(ctx context.Context, showtimeID uint64, seat string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO seat_claims (showtime_id, seat_label) VALUES (?, ?)`,
		showtimeID, seat)
	if err != nil {
		if isDupEntry(err) {
			return booking.ErrSeatTaken
		}
		return err
	}
	return nil
}

// Release frees (showtimeID, seat).  Deleting an absent row affects zero
// rows and is not an error, which makes Release idempotent and safe to
// retry after partial failures.
func (r *SeatClaimRepo) Release(ctx context.Context, showtimeID uint64, seat string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM seat_claims WHERE showtime_id = ? AND seat_label = ?`,
		showtimeID, seat)
	return err
}

// AvailableCount returns capacity minus current claims.  Display only;
// booking decisions always go through TryClaim.
func (r *SeatClaimRepo) AvailableCount(ctx context.Context, showtimeID uint64) (int, error) {
	const q = `SELECT s.capacity, COUNT(c.seat_label)
	           FROM showtimes s
	           LEFT JOIN seat_claims c ON c.showtime_id = s.id
	           WHERE s.id = ?
	           GROUP BY s.capacity`
	var capacity, claimed int
	err := r.db.QueryRowContext(ctx, q, showtimeID).Scan(&capacity, &claimed)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, booking.ErrShowtimeNotFound
	}
	if err != nil {
		return 0, err
	}
	return capacity - claimed, nil
}
