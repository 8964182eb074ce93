package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-seat-reservation/internal/handler"
)

// RegisterMarket registers the unauthenticated market surface: flight
// search, the full flight list, seat maps and fare history.  The
// optional middleware (Redis response cache) is applied to every route
// here; quotes drift with each simulator tick, so the cache TTL must
// stay short.
func RegisterMarket(e *echo.Echo, f *handler.FlightHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	g.GET("/flights/search", f.Search)
	g.GET("/flights", f.List)
	g.GET("/flights/:id/seats", f.SeatMap)
	g.GET("/fares/history", f.FareHistory)
}
