package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/slcassoc/theatre-booking/internal/booking"
	"github.com/slcassoc/theatre-booking/internal/repository"
)

// TicketHandler exposes the booking lifecycle to customers.
type TicketHandler struct {
	Engine   *booking.Engine
	Reporter *booking.Reporter
	Tickets  *repository.TicketRepo
}

func NewTicketHandler(e *booking.Engine, r *booking.Reporter, t *repository.TicketRepo) *TicketHandler {
	return &TicketHandler{Engine: e, Reporter: r, Tickets: t}
}

type bookReq struct {
	ShowtimeID uint64 `json:"showtime_id"`
	Seat       string `json:"seat"`
	CustomerID uint64 `json:"customer_id"` // admin only; 0 books for self
	PriceCents uint32 `json:"price_cents"`
}

type ticketResp struct {
	ID         uint64    `json:"id"`
	TicketNo   string    `json:"ticket_no"`
	ShowtimeID uint64    `json:"showtime_id"`
	Seat       string    `json:"seat"`
	CustomerID uint64    `json:"customer_id"`
	PriceCents uint32    `json:"price_cents"`
	State      string    `json:"state"`
	BookedAt   time.Time `json:"booked_at"`
}

func toTicketResp(t *booking.Ticket) ticketResp {
	return ticketResp{
		ID:         t.ID,
		TicketNo:   t.TicketNo,
		ShowtimeID: t.ShowtimeID,
		Seat:       t.Seat,
		CustomerID: t.CustomerID,
		PriceCents: t.PriceCents,
		State:      string(t.State),
		BookedAt:   t.BookedAt,
	}
}

// Book claims a seat and returns the new PENDING ticket.  A lost seat
// race comes back as 409.
func (h *TicketHandler) Book(c echo.Context) error {
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Seat = strings.TrimSpace(strings.ToUpper(req.Seat))
	if req.ShowtimeID == 0 || req.Seat == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "showtime_id/seat required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Engine.Book(ctx, actorFrom(c), booking.BookRequest{
		ShowtimeID: req.ShowtimeID,
		Seat:       req.Seat,
		CustomerID: req.CustomerID,
		PriceCents: req.PriceCents,
	})
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, toTicketResp(t))
}

// Get returns one ticket; customers only see their own.
func (h *TicketHandler) Get(c echo.Context) error {
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
	return c.JSON(http.StatusOK, toTicketResp(t))
}

// GetByNumber resolves a ticket by the opaque number printed on it.
// The ticket number is a lookup token, not an authorization bypass:
// ownership is enforced the same way as for id lookups.
func (h *TicketHandler) GetByNumber(c echo.Context) error {
	no := strings.TrimSpace(c.Param("ticket_no"))
	if no == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket number required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Tickets.GetByTicketNo(ctx, no)
	if err != nil {
		return bookingError(c, err)
	}
	actor := actorFrom(c)
	if t.CustomerID != actor.ID && !actor.IsAdmin() {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, toTicketResp(t))
}

// List returns the caller's ticket history; admins see every ticket.
func (h *TicketHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	actor := actorFrom(c)
	var (
		tickets []booking.Ticket
		err     error
	)
	if actor.IsAdmin() {
		tickets, err = h.Tickets.ListAll(ctx)
	} else {
		tickets, err = h.Reporter.CustomerTickets(ctx, actor.ID)
	}
	if err != nil {
		return bookingError(c, err)
	}
	out := make([]ticketResp, 0, len(tickets))
	for i := range tickets {
		out = append(out, toTicketResp(&tickets[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"tickets": out})
}

// Cancel voids an occupying ticket and returns its seat to inventory.
// Inside the cutoff window the request is refused with 422.
func (h *TicketHandler) Cancel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Engine.Cancel(ctx, actorFrom(c), id, time.Now().UTC())
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, toTicketResp(t))
}
