package model

import "time"

// Payment records the settlement of a ticket.  At most one payment
// exists per ticket; ReceiptNo is generated on creation and returned
// to the customer.
//
// Fields:
//  ID          – primary key identifier.
//  TicketID    – the ticket being paid (unique).
//  AmountCents – amount paid in cents.
//  Method      – payment method label (cash, card, mobile money).
//  Status      – settlement status (COMPLETED, VOIDED).
//  ReceiptNo   – unique receipt reference.
//  CreatedAt   – when the payment was recorded.
type Payment struct {
	ID          uint64    // payments.id
	TicketID    uint64    // payments.ticket_id
	AmountCents uint32    // payments.amount_cents
	Method      string    // payments.method
	Status      string    // payments.status
	ReceiptNo   string    // payments.receipt_no
	CreatedAt   time.Time // payments.created_at
}
