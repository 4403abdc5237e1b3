package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/slcassoc/theatre-booking/internal/model"
	"github.com/slcassoc/theatre-booking/internal/repository"
)

// CatalogHandler is the admin surface for the repertoire: plays,
// directors, actors and the credits linking them.
type CatalogHandler struct {
	Plays  *repository.PlayRepo
	People *repository.PeopleRepo
}

func NewCatalogHandler(p *repository.PlayRepo, pe *repository.PeopleRepo) *CatalogHandler {
	return &CatalogHandler{Plays: p, People: pe}
}

// ----- plays -----

type playReq struct {
	Title       string  `json:"title"`
	Genre       string  `json:"genre"`
	Synopsis    *string `json:"synopsis"`
	DurationMin uint32  `json:"duration_min"`
	DirectorID  *uint64 `json:"director_id"`
}

type playResp struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Genre       string  `json:"genre"`
	Synopsis    *string `json:"synopsis"`
	DurationMin uint32  `json:"duration_min"`
	DirectorID  *uint64 `json:"director_id"`
}

func toPlayResp(p model.Play) playResp {
	return playResp{ID: p.ID, Title: p.Title, Genre: p.Genre, Synopsis: p.Synopsis,
		DurationMin: p.DurationMin, DirectorID: p.DirectorID}
}

func (h *CatalogHandler) CreatePlay(c echo.Context) error {
	var req playReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p := model.Play{Title: req.Title, Genre: req.Genre, Synopsis: req.Synopsis,
		DurationMin: req.DurationMin, DirectorID: req.DirectorID}
	if err := h.Plays.Create(ctx, &p); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, toPlayResp(p))
}

func (h *CatalogHandler) UpdatePlay(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid play id"})
	}
	var req playReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p := model.Play{ID: id, Title: strings.TrimSpace(req.Title), Genre: req.Genre,
		Synopsis: req.Synopsis, DurationMin: req.DurationMin, DirectorID: req.DirectorID}
	if err := h.Plays.Update(ctx, &p); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, toPlayResp(p))
}

func (h *CatalogHandler) DeletePlay(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid play id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Plays.Delete(ctx, id); err != nil {
		return bookingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- directors -----

type personReq struct {
	FullName    string  `json:"full_name"`
	Bio         *string `json:"bio"`
	Nationality *string `json:"nationality"`
}

type personResp struct {
	ID          uint64  `json:"id"`
	FullName    string  `json:"full_name"`
	Bio         *string `json:"bio"`
	Nationality *string `json:"nationality"`
}

func (h *CatalogHandler) CreateDirector(c echo.Context) error {
	var req personReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.FullName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d := model.Director{FullName: strings.TrimSpace(req.FullName), Bio: req.Bio, Nationality: req.Nationality}
	if err := h.People.CreateDirector(ctx, &d); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, personResp{ID: d.ID, FullName: d.FullName, Bio: d.Bio, Nationality: d.Nationality})
}

func (h *CatalogHandler) UpdateDirector(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid director id"})
	}
	var req personReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.FullName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d := model.Director{ID: id, FullName: strings.TrimSpace(req.FullName), Bio: req.Bio, Nationality: req.Nationality}
	if err := h.People.UpdateDirector(ctx, &d); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, personResp{ID: d.ID, FullName: d.FullName, Bio: d.Bio, Nationality: d.Nationality})
}

func (h *CatalogHandler) DeleteDirector(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid director id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.People.DeleteDirector(ctx, id); err != nil {
		return bookingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- actors -----

func (h *CatalogHandler) CreateActor(c echo.Context) error {
	var req personReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.FullName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a := model.Actor{FullName: strings.TrimSpace(req.FullName), Bio: req.Bio, Nationality: req.Nationality}
	if err := h.People.CreateActor(ctx, &a); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, personResp{ID: a.ID, FullName: a.FullName, Bio: a.Bio, Nationality: a.Nationality})
}

func (h *CatalogHandler) UpdateActor(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid actor id"})
	}
	var req personReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.FullName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a := model.Actor{ID: id, FullName: strings.TrimSpace(req.FullName), Bio: req.Bio, Nationality: req.Nationality}
	if err := h.People.UpdateActor(ctx, &a); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, personResp{ID: a.ID, FullName: a.FullName, Bio: a.Bio, Nationality: a.Nationality})
}

func (h *CatalogHandler) DeleteActor(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid actor id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.People.DeleteActor(ctx, id); err != nil {
		return bookingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- credits -----

type creditReq struct {
	ActorID  uint64 `json:"actor_id"`
	RoleName string `json:"role_name"`
}

// SetCredit records the role an actor performs in a play.
func (h *CatalogHandler) SetCredit(c echo.Context) error {
	playID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid play id"})
	}
	var req creditReq
	if err := c.Bind(&req); err != nil || req.ActorID == 0 || strings.TrimSpace(req.RoleName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "actor_id/role_name required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cr := model.PlayCredit{ActorID: req.ActorID, PlayID: playID, RoleName: strings.TrimSpace(req.RoleName)}
	if err := h.People.SetCredit(ctx, cr); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"play_id":   cr.PlayID,
		"actor_id":  cr.ActorID,
		"role_name": cr.RoleName,
	})
}

// RemoveCredit removes an actor from a play's cast.
func (h *CatalogHandler) RemoveCredit(c echo.Context) error {
	playID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid play id"})
	}
	actorID, err := pathID(c, "actor_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid actor id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.People.RemoveCredit(ctx, actorID, playID); err != nil {
		return bookingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
