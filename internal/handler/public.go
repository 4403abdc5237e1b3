package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/slcassoc/theatre-booking/internal/booking"
	"github.com/slcassoc/theatre-booking/internal/repository"
)

// PublicHandler serves the unauthenticated browse surface: the
// repertoire, the schedule and live seat availability.  The routes it
// backs sit behind the Redis response cache, so availability may lag by
// the cache TTL; the booking path never reads these numbers.
type PublicHandler struct {
	Plays     *repository.PlayRepo
	People    *repository.PeopleRepo
	Showtimes *repository.ShowtimeRepo
	Engine    *booking.Engine
}

func NewPublicHandler(p *repository.PlayRepo, pe *repository.PeopleRepo,
	s *repository.ShowtimeRepo, e *booking.Engine) *PublicHandler {
	return &PublicHandler{Plays: p, People: pe, Showtimes: s, Engine: e}
}

// ListPlays returns the repertoire.
func (h *PublicHandler) ListPlays(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	plays, err := h.Plays.List(ctx)
	if err != nil {
		return bookingError(c, err)
	}
	out := make([]playResp, 0, len(plays))
	for _, p := range plays {
		out = append(out, toPlayResp(p))
	}
	return c.JSON(http.StatusOK, echo.Map{"plays": out})
}

type creditPart struct {
	ActorID  uint64 `json:"actor_id"`
	FullName string `json:"full_name"`
	RoleName string `json:"role_name"`
}

// PlayDetail returns one play with its cast and scheduled showtimes.
func (h *PublicHandler) PlayDetail(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid play id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Plays.GetByID(ctx, id)
	if err != nil {
		return bookingError(c, err)
	}
	credits, err := h.People.ListCredits(ctx, id)
	if err != nil {
		return bookingError(c, err)
	}
	cast := make([]creditPart, 0, len(credits))
	for _, cr := range credits {
		part := creditPart{ActorID: cr.ActorID, RoleName: cr.RoleName}
		if a, err := h.People.GetActor(ctx, cr.ActorID); err == nil {
			part.FullName = a.FullName
		}
		cast = append(cast, part)
	}
	shows, err := h.Showtimes.ListByPlay(ctx, id)
	if err != nil {
		return bookingError(c, err)
	}
	schedule := make([]showtimeResp, 0, len(shows))
	for _, s := range shows {
		schedule = append(schedule, toShowtimeResp(s))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"play":      toPlayResp(p),
		"cast":      cast,
		"showtimes": schedule,
	})
}

// ListDirectors returns all directors.
func (h *PublicHandler) ListDirectors(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	directors, err := h.People.ListDirectors(ctx)
	if err != nil {
		return bookingError(c, err)
	}
	out := make([]personResp, 0, len(directors))
	for _, d := range directors {
		out = append(out, personResp{ID: d.ID, FullName: d.FullName, Bio: d.Bio, Nationality: d.Nationality})
	}
	return c.JSON(http.StatusOK, echo.Map{"directors": out})
}

// ListActors returns all actors.
func (h *PublicHandler) ListActors(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	actors, err := h.People.ListActors(ctx)
	if err != nil {
		return bookingError(c, err)
	}
	out := make([]personResp, 0, len(actors))
	for _, a := range actors {
		out = append(out, personResp{ID: a.ID, FullName: a.FullName, Bio: a.Bio, Nationality: a.Nationality})
	}
	return c.JSON(http.StatusOK, echo.Map{"actors": out})
}

// ListShowtimes returns the full schedule.
func (h *PublicHandler) ListShowtimes(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	shows, err := h.Showtimes.List(ctx)
	if err != nil {
		return bookingError(c, err)
	}
	out := make([]showtimeResp, 0, len(shows))
	for _, s := range shows {
		out = append(out, toShowtimeResp(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"showtimes": out})
}

// PlayShowtimes returns the scheduled performances of one play.
func (h *PublicHandler) PlayShowtimes(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid play id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Plays.GetByID(ctx, id); err != nil {
		return bookingError(c, err)
	}
	shows, err := h.Showtimes.ListByPlay(ctx, id)
	if err != nil {
		return bookingError(c, err)
	}
	out := make([]showtimeResp, 0, len(shows))
	for _, s := range shows {
		out = append(out, toShowtimeResp(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"showtimes": out})
}

// Availability returns the free-seat count of one showtime.
func (h *PublicHandler) Availability(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	avail, err := h.Engine.AvailableSeats(ctx, id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"showtime_id":     id,
		"available_seats": avail,
	})
}

// ShowtimeDetail returns one showtime with its derived availability.
func (h *PublicHandler) ShowtimeDetail(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Showtimes.GetDetail(ctx, id)
	if err != nil {
		return bookingError(c, err)
	}
	avail, err := h.Engine.AvailableSeats(ctx, id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"showtime":        toShowtimeResp(*s),
		"available_seats": avail,
	})
}
