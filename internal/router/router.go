// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/slcassoc/theatre-booking/internal/booking"
	"github.com/slcassoc/theatre-booking/internal/handler"
	"github.com/slcassoc/theatre-booking/internal/middleware"
)

// Handlers carries every handler the router mounts.
type Handlers struct {
	Auth      *handler.AuthHandler
	Public    *handler.PublicHandler
	Tickets   *handler.TicketHandler
	Payments  *handler.PaymentHandler
	Addons    *handler.AddonHandler
	Catalog   *handler.CatalogHandler
	Showtimes *handler.ShowtimeHandler
	Admin     *handler.AdminHandler
}

// Middleware carries the optional middleware built at startup.  A nil
// entry means the concern is disabled (no Redis, for example).
type Middleware struct {
	Cache     echo.MiddlewareFunc // public browse response cache
	RateLimit echo.MiddlewareFunc // booking-endpoint limiter
}

// Register mounts all routes on the Echo instance.
func Register(e *echo.Echo, h Handlers, mw Middleware, jwtSecret string) {
	e.GET("/healthz", handler.Health)

	// Unauthenticated auth operations.
	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)

	// Public browse surface, optionally behind the response cache.
	pub := e.Group("/v1")
	if mw.Cache != nil {
		pub.Use(mw.Cache)
	}
	pub.GET("/plays", h.Public.ListPlays)
	pub.GET("/plays/:id", h.Public.PlayDetail)
	pub.GET("/plays/:id/showtimes", h.Public.PlayShowtimes)
	pub.GET("/directors", h.Public.ListDirectors)
	pub.GET("/actors", h.Public.ListActors)
	pub.GET("/showtimes", h.Public.ListShowtimes)
	pub.GET("/showtimes/:id", h.Public.ShowtimeDetail)
	pub.GET("/showtimes/:id/availability", h.Public.Availability)

	// Authenticated surface.  Both roles pass the role gate; per-ticket
	// ownership is enforced inside the booking engine.
	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(jwtSecret))
	v1.Use(middleware.RequireRole(booking.RoleAdmin, booking.RoleCustomer))

	v1.GET("/me", h.Auth.Me)

	tickets := v1.Group("/tickets")
	if mw.RateLimit != nil {
		tickets.Use(mw.RateLimit)
	}
	tickets.POST("", h.Tickets.Book)
	tickets.GET("", h.Tickets.List)
	tickets.GET("/by-number/:ticket_no", h.Tickets.GetByNumber)
	tickets.GET("/:id", h.Tickets.Get)
	tickets.DELETE("/:id", h.Tickets.Cancel)
	tickets.POST("/:id/pay", h.Payments.Pay)
	tickets.POST("/:id/refund", h.Payments.Refund)
	tickets.GET("/:id/payment", h.Payments.Receipt)
	tickets.PUT("/:id/addons", h.Addons.Set)
	tickets.GET("/:id/addons", h.Addons.Get)
	tickets.DELETE("/:id/addons", h.Addons.Clear)

	v1.GET("/payments", h.Payments.List, middleware.RequireRole(booking.RoleAdmin))

	// Admin panel.
	admin := v1.Group("/admin", middleware.RequireRole(booking.RoleAdmin))
	admin.POST("/plays", h.Catalog.CreatePlay)
	admin.PUT("/plays/:id", h.Catalog.UpdatePlay)
	admin.DELETE("/plays/:id", h.Catalog.DeletePlay)
	admin.POST("/plays/:id/credits", h.Catalog.SetCredit)
	admin.DELETE("/plays/:id/credits/:actor_id", h.Catalog.RemoveCredit)
	admin.POST("/directors", h.Catalog.CreateDirector)
	admin.PUT("/directors/:id", h.Catalog.UpdateDirector)
	admin.DELETE("/directors/:id", h.Catalog.DeleteDirector)
	admin.POST("/actors", h.Catalog.CreateActor)
	admin.PUT("/actors/:id", h.Catalog.UpdateActor)
	admin.DELETE("/actors/:id", h.Catalog.DeleteActor)
	admin.POST("/showtimes", h.Showtimes.Create)
	admin.PUT("/showtimes/:id", h.Showtimes.Update)
	admin.DELETE("/showtimes/:id", h.Showtimes.Delete)
	admin.GET("/showtimes/:id/sales", h.Admin.SalesReport)
	admin.GET("/users", h.Admin.ListUsers)
	admin.PUT("/users/:id/role", h.Admin.SetRole)
	admin.DELETE("/users/:id", h.Admin.DeactivateUser)
	admin.POST("/tickets/expire", h.Admin.ExpireTickets)
}
