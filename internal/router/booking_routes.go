package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-seat-reservation/internal/handler"
	"github.com/iliyamo/flight-seat-reservation/internal/middleware"
	"github.com/iliyamo/flight-seat-reservation/internal/model"
)

// RegisterBookings registers the booking lifecycle under /v1.  All
// routes require a valid JWT; both USER and ADMIN roles are accepted,
// ownership checks happen inside the engine (admins may read and cancel
// any booking).
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser, model.RoleAdmin),
	)
	g.POST("/bookings", b.Hold)
	g.POST("/bookings/:id/pay", b.Pay)
	g.POST("/bookings/:id/cancel", b.Cancel)
	g.GET("/bookings", b.List)
	g.GET("/bookings/:id", b.Detail)
}
