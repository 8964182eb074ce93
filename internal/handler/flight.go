package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-seat-reservation/internal/engine"
	"github.com/iliyamo/flight-seat-reservation/internal/model"
)

// FlightHandler serves the public market surface: search, flight
// listing, seat maps and fare history.
type FlightHandler struct {
	Engine *engine.Engine
}

func NewFlightHandler(e *engine.Engine) *FlightHandler { return &FlightHandler{Engine: e} }

// ----- DTOs -----

type flightPart struct {
	ID           uint64  `json:"id"`
	FlightNumber string  `json:"flight_number"`
	Airline      string  `json:"airline"`
	Origin       string  `json:"origin"`
	Destination  string  `json:"destination"`
	Date         string  `json:"date"`
	BaseFare     float64 `json:"base_fare"`
	SeatsTotal   int     `json:"seats_total"`
	SeatsLeft    int     `json:"seats_left"`
	DemandScore  float64 `json:"demand_score"`
}

type flightQuoteResp struct {
	Flight        flightPart          `json:"flight"`
	DepartureTime string              `json:"departure_time,omitempty"`
	ArrivalTime   string              `json:"arrival_time,omitempty"`
	Price         float64             `json:"price"`
	Cabins        []engine.CabinQuote `json:"cabins,omitempty"`
}

type seatPart struct {
	SeatNumber string  `json:"seat_number"`
	CabinClass string  `json:"cabin_class"`
	IsReserved bool    `json:"is_reserved"`
	Source     string  `json:"reservation_source"`
	Price      float64 `json:"price"`
}

type fareSamplePart struct {
	Timestamp string  `json:"timestamp"`
	Price     float64 `json:"price"`
}

func toFlightPart(f *model.FlightMarket) flightPart {
	return flightPart{
		ID:           f.ID,
		FlightNumber: f.FlightNumber,
		Airline:      f.Airline,
		Origin:       f.Origin,
		Destination:  f.Destination,
		Date:         f.Date,
		BaseFare:     f.BaseFare,
		SeatsTotal:   f.SeatsTotal,
		SeatsLeft:    f.SeatsLeft,
		DemandScore:  f.DemandScore,
	}
}

func toQuoteResp(q engine.FlightQuote) flightQuoteResp {
	return flightQuoteResp{
		Flight:        toFlightPart(q.Flight),
		DepartureTime: q.DepartureTime,
		ArrivalTime:   q.ArrivalTime,
		Price:         q.Price,
		Cabins:        q.Cabins,
	}
}

// Search returns live quotes for every scheduled flight on the route
// and date, creating market records on first sight.
// GET /v1/flights/search?origin=PNQ&destination=DEL&date=2026-06-01
func (h *FlightHandler) Search(c echo.Context) error {
	origin := strings.ToUpper(strings.TrimSpace(c.QueryParam("origin")))
	destination := strings.ToUpper(strings.TrimSpace(c.QueryParam("destination")))
	date := strings.TrimSpace(c.QueryParam("date"))

	quotes, err := h.Engine.Search(c.Request().Context(), origin, destination, date)
	if err != nil {
		return engineError(c, err)
	}
	out := make([]flightQuoteResp, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, toQuoteResp(q))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"origin":      origin,
		"destination": destination,
		"date":        date,
		"flights":     out,
	})
}

// List returns every known market record with a live quote.
// GET /v1/flights?sort_by=price|duration
func (h *FlightHandler) List(c echo.Context) error {
	quotes, err := h.Engine.ListFlights(c.Request().Context(), c.QueryParam("sort_by"))
	if err != nil {
		return engineError(c, err)
	}
	out := make([]flightQuoteResp, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, toQuoteResp(q))
	}
	return c.JSON(http.StatusOK, echo.Map{"flights": out})
}

// SeatMap returns every seat of a flight with its live per-seat price.
// GET /v1/flights/:id/seats
func (h *FlightHandler) SeatMap(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}
	f, seats, err := h.Engine.SeatMap(c.Request().Context(), id)
	if err != nil {
		return engineError(c, err)
	}
	out := make([]seatPart, 0, len(seats))
	for _, sq := range seats {
		out = append(out, seatPart{
			SeatNumber: sq.Seat.SeatNumber,
			CabinClass: sq.Seat.CabinClass,
			IsReserved: sq.Seat.IsReserved,
			Source:     sq.Seat.ReservationSource,
			Price:      sq.Price,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"flight": toFlightPart(f),
		"seats":  out,
	})
}

// FareHistory returns the fare time series recorded for one flight.
// GET /v1/fares/history?flight_number=AI342&date=2026-06-01
func (h *FlightHandler) FareHistory(c echo.Context) error {
	number := strings.ToUpper(strings.TrimSpace(c.QueryParam("flight_number")))
	date := strings.TrimSpace(c.QueryParam("date"))
	if number == "" || date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight_number and date are required"})
	}
	f, samples, err := h.Engine.FareHistory(c.Request().Context(), number, date)
	if err != nil {
		return engineError(c, err)
	}
	out := make([]fareSamplePart, 0, len(samples))
	for _, s := range samples {
		out = append(out, fareSamplePart{
			Timestamp: s.Timestamp.UTC().Format(time.RFC3339),
			Price:     s.Price,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"flight":  toFlightPart(f),
		"history": out,
	})
}
