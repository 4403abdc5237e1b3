package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/slcassoc/theatre-booking/internal/booking"
	"github.com/slcassoc/theatre-booking/internal/model"
)

// AddonRepo manages the optional extras attached to a ticket.  One row
// per ticket; setting extras twice overwrites the previous choice.
type AddonRepo struct{ DB *sql.DB }

func NewAddonRepo(db *sql.DB) *AddonRepo { return &AddonRepo{DB: db} }

// Upsert writes the add-on selection for a ticket.  A missing ticket
// surfaces as booking.ErrTicketNotFound through the foreign key.
func (r *AddonRepo) Upsert(ctx context.Context, a model.BookingAddon) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO booking_addons (ticket_id, food, drinks, flowers) VALUES (?,?,?,?)
		 ON DUPLICATE KEY UPDATE food=VALUES(food), drinks=VALUES(drinks), flowers=VALUES(flowers)`,
		a.TicketID, a.Food, a.Drinks, a.Flowers)
	if err != nil && isFKViolation(err) {
		return booking.ErrTicketNotFound
	}
	return err
}

// GetByTicket fetches the add-on selection of a ticket.
func (r *AddonRepo) GetByTicket(ctx context.Context, ticketID uint64) (model.BookingAddon, error) {
	var (
		a      model.BookingAddon
		food   sql.NullString
		drinks sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT ticket_id, food, drinks, flowers FROM booking_addons WHERE ticket_id=? LIMIT 1",
		ticketID).Scan(&a.TicketID, &food, &drinks, &a.Flowers)
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrAddonNotFound
	}
	if food.Valid {
		a.Food = &food.String
	}
	if drinks.Valid {
		a.Drinks = &drinks.String
	}
	return a, err
}

// Delete removes a ticket's add-on selection.  Deleting an absent row
// is not an error.
func (r *AddonRepo) Delete(ctx context.Context, ticketID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM booking_addons WHERE ticket_id=?", ticketID)
	return err
}
