package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/slcassoc/theatre-booking/internal/booking"
	"github.com/slcassoc/theatre-booking/internal/repository"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestActorFrom(t *testing.T) {
	tests := []struct {
		name string
		sub  interface{}
		role interface{}
		want booking.Actor
	}{
		{"jwt float subject", float64(7), "CUSTOMER", booking.Actor{ID: 7, Role: "CUSTOMER"}},
		{"string subject", "12", "ADMIN", booking.Actor{ID: 12, Role: "ADMIN"}},
		{"missing claims", nil, nil, booking.Actor{}},
		{"garbage subject", "not-a-number", "CUSTOMER", booking.Actor{Role: "CUSTOMER"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestContext(t)
			if tc.sub != nil {
				c.Set("user_id", tc.sub)
			}
			if tc.role != nil {
				c.Set("role", tc.role)
			}
			assert.Equal(t, tc.want, actorFrom(c))
		})
	}
}

func TestBookingErrorStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{booking.ErrInvalidSeat, http.StatusBadRequest},
		{booking.ErrShowtimeNotFound, http.StatusNotFound},
		{booking.ErrTicketNotFound, http.StatusNotFound},
		{repository.ErrPaymentNotFound, http.StatusNotFound},
		{booking.ErrSeatTaken, http.StatusConflict},
		{booking.ErrAlreadyPaid, http.StatusConflict},
		{repository.ErrConflict, http.StatusConflict},
		{booking.ErrInvalidState, http.StatusUnprocessableEntity},
		{booking.ErrCancelCutoff, http.StatusUnprocessableEntity},
		{booking.ErrForbidden, http.StatusForbidden},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			c, rec := newTestContext(t)
			assert.NoError(t, bookingError(c, tc.err))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}
