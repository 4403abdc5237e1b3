package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/slcassoc/theatre-booking/internal/model"
)

// PaymentRepo records ticket settlements.  Payments are one-per-ticket;
// the unique index on payments.ticket_id enforces it at the database.
type PaymentRepo struct{ DB *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{DB: db} }

const paymentColumns = `id, ticket_id, amount_cents, method, status, receipt_no, created_at`

func scanPayment(row interface{ Scan(...any) error }) (model.Payment, error) {
	var p model.Payment
	err := row.Scan(&p.ID, &p.TicketID, &p.AmountCents, &p.Method, &p.Status,
		&p.ReceiptNo, &p.CreatedAt)
	return p, err
}

// Create records a payment, generating a unique receipt number.  A second
// payment for the same ticket hits the unique index and is reported as
// ErrPaymentExists.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	p.ReceiptNo = "RCT-" + uuid.NewString()
	p.Status = "COMPLETED"
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO payments (ticket_id, amount_cents, method, status, receipt_no) VALUES (?,?,?,?,?)",
		p.TicketID, p.AmountCents, p.Method, p.Status, p.ReceiptNo)
	if err != nil {
		if isDupEntry(err) {
			return ErrPaymentExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByTicket fetches the payment recorded for a ticket.
func (r *PaymentRepo) GetByTicket(ctx context.Context, ticketID uint64) (model.Payment, error) {
	p, err := scanPayment(r.DB.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE ticket_id=? LIMIT 1", ticketID))
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrPaymentNotFound
	}
	return p, err
}

// Void marks a payment as voided after a refund.  Amounts are kept so
// the sales history stays auditable.
func (r *PaymentRepo) Void(ctx context.Context, ticketID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE payments SET status='VOIDED' WHERE ticket_id=? AND status='COMPLETED'", ticketID)
	if err != nil {
		return err
	}
	return requireRow(res, ErrPaymentNotFound)
}

// List returns all payments, newest first.  Admin listing only.
func (r *PaymentRepo) List(ctx context.Context) ([]model.Payment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+paymentColumns+" FROM payments ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
