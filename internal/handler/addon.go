package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/slcassoc/theatre-booking/internal/booking"
	"github.com/slcassoc/theatre-booking/internal/model"
	"github.com/slcassoc/theatre-booking/internal/repository"
)

// AddonHandler manages the interval extras attached to a ticket.
type AddonHandler struct {
	Engine *booking.Engine
	Addons *repository.AddonRepo
}

func NewAddonHandler(e *booking.Engine, a *repository.AddonRepo) *AddonHandler {
	return &AddonHandler{Engine: e, Addons: a}
}

type addonReq struct {
	Food    *string `json:"food"`
	Drinks  *string `json:"drinks"`
	Flowers bool    `json:"flowers"`
}

type addonResp struct {
	TicketID uint64  `json:"ticket_id"`
	Food     *string `json:"food"`
	Drinks   *string `json:"drinks"`
	Flowers  bool    `json:"flowers"`
}

// Set writes the add-on selection for a ticket.  Only the ticket's
// customer (or an admin) may set extras, and only while the ticket
// still occupies its seat.
func (h *AddonHandler) Set(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	var req addonReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Engine.Get(ctx, actorFrom(c), id)
	if err != nil {
		return bookingError(c, err)
	}
	if !t.State.Occupying() {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "ticket is closed"})
	}

	a := model.BookingAddon{TicketID: t.ID, Food: req.Food, Drinks: req.Drinks, Flowers: req.Flowers}
	if err := h.Addons.Upsert(ctx, a); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, addonResp(a))
}

// Get returns a ticket's add-on selection.
func (h *AddonHandler) Get(c echo.Context) error {
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
	a, err := h.Addons.GetByTicket(ctx, t.ID)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, addonResp(a))
}

// Clear removes a ticket's add-on selection.
func (h *AddonHandler) Clear(c echo.Context) error {
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
	if err := h.Addons.Delete(ctx, t.ID); err != nil {
		return bookingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
