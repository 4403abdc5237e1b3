package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/slcassoc/theatre-booking/internal/booking"
	"github.com/slcassoc/theatre-booking/internal/model"
	"github.com/slcassoc/theatre-booking/internal/repository"
)

// ShowtimeHandler is the admin surface for scheduling performances.
type ShowtimeHandler struct {
	Showtimes *repository.ShowtimeRepo
	Engine    *booking.Engine
}

func NewShowtimeHandler(s *repository.ShowtimeRepo, e *booking.Engine) *ShowtimeHandler {
	return &ShowtimeHandler{Showtimes: s, Engine: e}
}

type showtimeReq struct {
	PlayID   uint64    `json:"play_id"`
	Venue    string    `json:"venue"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Capacity uint32    `json:"capacity"`
}

type showtimeResp struct {
	ID       uint64    `json:"id"`
	PlayID   uint64    `json:"play_id"`
	Venue    string    `json:"venue"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Capacity uint32    `json:"capacity"`
}

func toShowtimeResp(s model.Showtime) showtimeResp {
	return showtimeResp{ID: s.ID, PlayID: s.PlayID, Venue: s.Venue,
		StartsAt: s.StartsAt, EndsAt: s.EndsAt, Capacity: s.Capacity}
}

func (req *showtimeReq) validate() string {
	switch {
	case req.PlayID == 0:
		return "play_id required"
	case strings.TrimSpace(req.Venue) == "":
		return "venue required"
	case req.Capacity == 0:
		return "capacity required"
	case req.StartsAt.IsZero() || req.EndsAt.IsZero():
		return "starts_at/ends_at required"
	case !req.EndsAt.After(req.StartsAt):
		return "ends_at must be after starts_at"
	}
	return ""
}

// Create schedules a new showtime.
func (h *ShowtimeHandler) Create(c echo.Context) error {
	var req showtimeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s := model.Showtime{PlayID: req.PlayID, Venue: strings.TrimSpace(req.Venue),
		StartsAt: req.StartsAt, EndsAt: req.EndsAt, Capacity: req.Capacity}
	if err := h.Showtimes.Create(ctx, &s); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, toShowtimeResp(s))
}

// Update rewrites a showtime.  Capacity may only grow, and the schedule
// freezes once tickets are sold; violations come back as 409.
func (h *ShowtimeHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	var req showtimeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s := model.Showtime{ID: id, PlayID: req.PlayID, Venue: strings.TrimSpace(req.Venue),
		StartsAt: req.StartsAt, EndsAt: req.EndsAt, Capacity: req.Capacity}
	if err := h.Showtimes.Update(ctx, &s); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, toShowtimeResp(s))
}

// Delete removes a showtime with no live tickets.
func (h *ShowtimeHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Showtimes.Delete(ctx, id); err != nil {
		return bookingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
