package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/slcassoc/theatre-booking/internal/booking"
	"github.com/slcassoc/theatre-booking/internal/model"
	"github.com/slcassoc/theatre-booking/internal/repository"
)

// PaymentHandler settles tickets.  The engine owns the state machine;
// this handler records the money side (receipt on pay, void on refund).
type PaymentHandler struct {
	Engine   *booking.Engine
	Payments *repository.PaymentRepo
}

func NewPaymentHandler(e *booking.Engine, p *repository.PaymentRepo) *PaymentHandler {
	return &PaymentHandler{Engine: e, Payments: p}
}

type payReq struct {
	Method string `json:"method"` // cash, card, mobile money
}

type paymentResp struct {
	TicketID    uint64 `json:"ticket_id"`
	AmountCents uint32 `json:"amount_cents"`
	Method      string `json:"method"`
	Status      string `json:"status"`
	ReceiptNo   string `json:"receipt_no"`
}

// Pay moves a PENDING ticket to PAID and records the payment.  The
// state transition commits first; if recording the receipt then fails
// the ticket stays PAID and the receipt can be re-issued, so no money
// state is invented ahead of the ticket state.
func (h *PaymentHandler) Pay(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	var req payReq
	_ = c.Bind(&req)
	method := strings.TrimSpace(req.Method)
	if method == "" {
		method = "card"
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Engine.Pay(ctx, actorFrom(c), id)
	if err != nil {
		return bookingError(c, err)
	}

	p := &model.Payment{TicketID: t.ID, AmountCents: t.PriceCents, Method: method}
	if err := h.Payments.Create(ctx, p); err != nil {
		return bookingError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"ticket": toTicketResp(t),
		"payment": paymentResp{
			TicketID:    p.TicketID,
			AmountCents: p.AmountCents,
			Method:      p.Method,
			Status:      p.Status,
			ReceiptNo:   p.ReceiptNo,
		},
	})
}

// Refund moves a PAID ticket to REFUNDED, releases its seat and voids
// the recorded payment.  A missing payment row is tolerated: the ticket
// may have been paid before receipts were recorded.
func (h *PaymentHandler) Refund(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Engine.Refund(ctx, actorFrom(c), id)
	if err != nil {
		return bookingError(c, err)
	}
	if err := h.Payments.Void(ctx, t.ID); err != nil && !errors.Is(err, repository.ErrPaymentNotFound) {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, toTicketResp(t))
}

// List returns every payment on record.  Admin only (enforced at the
// route).
func (h *PaymentHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	payments, err := h.Payments.List(ctx)
	if err != nil {
		return bookingError(c, err)
	}
	out := make([]paymentResp, 0, len(payments))
	for _, p := range payments {
		out = append(out, paymentResp{
			TicketID:    p.TicketID,
			AmountCents: p.AmountCents,
			Method:      p.Method,
			Status:      p.Status,
			ReceiptNo:   p.ReceiptNo,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": out})
}

// Receipt returns the payment recorded for a ticket.  Ownership is
// enforced by loading the ticket through the engine first.
func (h *PaymentHandler) Receipt(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Engine.Get(ctx, actorFrom(c), id)
	if err != nil {
		return bookingError(c, err)
	}
	p, err := h.Payments.GetByTicket(ctx, t.ID)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, paymentResp{
		TicketID:    p.TicketID,
		AmountCents: p.AmountCents,
		Method:      p.Method,
		Status:      p.Status,
		ReceiptNo:   p.ReceiptNo,
	})
}
