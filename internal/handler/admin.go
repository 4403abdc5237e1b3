package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/slcassoc/theatre-booking/internal/booking"
	"github.com/slcassoc/theatre-booking/internal/repository"
)

// AdminHandler groups the operations reserved for administrators:
// account management, the manual expiry trigger and sales reports.
type AdminHandler struct {
	Users    *repository.UserRepo
	Tokens   *repository.TokenRepo
	Engine   *booking.Engine
	Reporter *booking.Reporter
}

func NewAdminHandler(u *repository.UserRepo, tok *repository.TokenRepo,
	e *booking.Engine, r *booking.Reporter) *AdminHandler {
	return &AdminHandler{Users: u, Tokens: tok, Engine: e, Reporter: r}
}

type adminUserResp struct {
	ID       uint64  `json:"id"`
	Email    string  `json:"email"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role"`
	IsActive bool    `json:"is_active"`
}

// ListUsers returns every account.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return bookingError(c, err)
	}
	out := make([]adminUserResp, 0, len(users))
	for _, u := range users {
		out = append(out, adminUserResp{ID: u.ID, Email: u.Email, FullName: u.FullName,
			Phone: u.Phone, Role: u.Role, IsActive: u.IsActive})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

type setRoleReq struct {
	Role string `json:"role"`
}

// SetRole promotes or demotes an account.  Role changes revoke the
// user's refresh tokens so stale claims cannot outlive the change.
func (h *AdminHandler) SetRole(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req setRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role != booking.RoleAdmin && role != booking.RoleCustomer {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be ADMIN or CUSTOMER"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.SetRole(ctx, id, role); err != nil {
		return bookingError(c, err)
	}
	_ = h.Tokens.RevokeAllForUser(ctx, id)
	return c.JSON(http.StatusOK, echo.Map{"id": id, "role": role})
}

// DeactivateUser disables an account and revokes its sessions.  Ticket
// history is kept.
func (h *AdminHandler) DeactivateUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.Deactivate(ctx, id); err != nil {
		return bookingError(c, err)
	}
	_ = h.Tokens.RevokeAllForUser(ctx, id)
	return c.NoContent(http.StatusNoContent)
}

// ExpireTickets runs one expiry sweep immediately, using the same
// policy window as the background sweeper, and reports how many
// tickets it expired.
func (h *AdminHandler) ExpireTickets(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	n, err := h.Engine.ExpireStale(ctx, time.Now().UTC(), h.Engine.ExpireWindow())
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"expired": n})
}

// SalesReport aggregates one showtime's tickets and PAID revenue.
func (h *AdminHandler) SalesReport(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rep, err := h.Reporter.Sales(ctx, id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, rep)
}
