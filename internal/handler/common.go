// Package handler contains the HTTP handlers of the API.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/slcassoc/theatre-booking/internal/booking"
	"github.com/slcassoc/theatre-booking/internal/repository"
)

// reqCtx bounds a database call to five seconds.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// actorFrom rebuilds the acting user from the claims JWTAuth stored in
// context.  JWT numerics decode as float64; string subjects are parsed.
func actorFrom(c echo.Context) booking.Actor {
	var a booking.Actor
	switch v := c.Get("user_id").(type) {
	case float64:
		a.ID = uint64(v)
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			a.ID = n
		}
	}
	if r, ok := c.Get("role").(string); ok {
		a.Role = r
	}
	return a
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// bookingError translates booking and repository sentinels to HTTP
// responses.  Unknown errors become a 500 with a generic message.
func bookingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrInvalidSeat):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrShowtimeNotFound),
		errors.Is(err, booking.ErrTicketNotFound),
		errors.Is(err, repository.ErrPlayNotFound),
		errors.Is(err, repository.ErrDirectorNotFound),
		errors.Is(err, repository.ErrActorNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrAddonNotFound),
		errors.Is(err, repository.ErrPaymentNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrSeatTaken),
		errors.Is(err, booking.ErrAlreadyPaid),
		errors.Is(err, repository.ErrConflict),
		errors.Is(err, repository.ErrPaymentExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrInvalidState),
		errors.Is(err, booking.ErrCancelCutoff):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrForbidden),
		errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
