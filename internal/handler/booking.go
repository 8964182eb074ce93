package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-seat-reservation/internal/engine"
	"github.com/iliyamo/flight-seat-reservation/internal/middleware"
	"github.com/iliyamo/flight-seat-reservation/internal/model"
	"github.com/iliyamo/flight-seat-reservation/internal/queue"
	queue_publisher "github.com/iliyamo/flight-seat-reservation/internal/service"
)

// BookingHandler serves the booking lifecycle: hold, pay, cancel and
// the user's booking history.  Flights is used only to enrich the
// confirmation event with route details.
type BookingHandler struct {
	Engine  *engine.Engine
	Flights engine.FlightStore
}

func NewBookingHandler(e *engine.Engine, flights engine.FlightStore) *BookingHandler {
	return &BookingHandler{Engine: e, Flights: flights}
}

// ----- DTOs -----

type passengerReq struct {
	FullName string  `json:"full_name"`
	Age      *int    `json:"age,omitempty"`
	Gender   *string `json:"gender,omitempty"`
}

type holdReq struct {
	FlightID     uint64         `json:"flight_id"`
	SeatNumbers  []string       `json:"seats"`
	Passengers   []passengerReq `json:"passengers"`
	HoldMinutes  int            `json:"hold_minutes"`
	Currency     string         `json:"currency"`
	ContactName  string         `json:"contact_name"`
	ContactEmail string         `json:"contact_email"`
	ContactPhone string         `json:"contact_phone"`
}

type payReq struct {
	Outcome string `json:"outcome"` // optional: SUCCESS or FAIL forces the gateway
}

type assignmentPart struct {
	SeatNumber string  `json:"seat_number"`
	CabinClass string  `json:"cabin_class"`
	Price      float64 `json:"price"`
}

type bookingResp struct {
	ID              uint64            `json:"id"`
	FlightID        uint64            `json:"flight_id"`
	PNR             *string           `json:"pnr,omitempty"`
	Status          string            `json:"status"`
	PaymentStatus   string            `json:"payment_status"`
	TotalAmount     float64           `json:"total_amount"`
	Currency        string            `json:"currency"`
	PaymentRef      *string           `json:"payment_reference,omitempty"`
	PaymentAttempts int               `json:"payment_attempts"`
	HoldExpiresAt   string            `json:"hold_expires_at"`
	CreatedAt       string            `json:"created_at"`
	Passengers      []model.Passenger `json:"passengers,omitempty"`
	Seats           []assignmentPart  `json:"seats,omitempty"`
}

func toBookingResp(b *model.Booking, seats []model.SeatAssignment) bookingResp {
	resp := bookingResp{
		ID:              b.ID,
		FlightID:        b.FlightID,
		PNR:             b.PNR,
		Status:          b.Status,
		PaymentStatus:   b.PaymentStatus,
		TotalAmount:     b.TotalAmount,
		Currency:        b.Currency,
		PaymentRef:      b.PaymentRef,
		PaymentAttempts: b.PaymentAttempts,
		HoldExpiresAt:   b.HoldExpiresAt.UTC().Format(time.RFC3339),
		CreatedAt:       b.CreatedAt.UTC().Format(time.RFC3339),
		Passengers:      b.Manifest,
	}
	for _, sa := range seats {
		resp.Seats = append(resp.Seats, assignmentPart{
			SeatNumber: sa.SeatNumber,
			CabinClass: sa.CabinClass,
			Price:      sa.Price,
		})
	}
	return resp
}

// Hold places an all-or-nothing hold on the requested seats.
// POST /v1/bookings
func (h *BookingHandler) Hold(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req holdReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	passengers := make([]model.Passenger, 0, len(req.Passengers))
	for _, p := range req.Passengers {
		passengers = append(passengers, model.Passenger{FullName: p.FullName, Age: p.Age, Gender: p.Gender})
	}

	b, err := h.Engine.Hold(c.Request().Context(), uid, engine.HoldInput{
		FlightID:     req.FlightID,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Passengers:   passengers,
		SeatNumbers:  req.SeatNumbers,
		HoldMinutes:  req.HoldMinutes,
		Currency:     req.Currency,
	})
	if err != nil {
		return engineError(c, err)
	}
	seats, err := h.Engine.BookingSeats(c.Request().Context(), b.ID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, toBookingResp(b, seats))
}

// Pay resolves the payment of a held booking.  On success the
// confirmation event is published in the background.
// POST /v1/bookings/:id/pay
func (h *BookingHandler) Pay(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req payReq
	_ = c.Bind(&req) // empty body means the simulated gateway decides

	b, err := h.Engine.Pay(c.Request().Context(), uid, id, req.Outcome)
	if err != nil {
		return engineError(c, err)
	}
	seats, err := h.Engine.BookingSeats(c.Request().Context(), b.ID)
	if err != nil {
		return engineError(c, err)
	}

	go h.publishConfirmed(b, seats)

	return c.JSON(http.StatusOK, toBookingResp(b, seats))
}

// publishConfirmed fires the booking.confirmed event.  Failures are
// logged by the publisher and never affect the response.
func (h *BookingHandler) publishConfirmed(b *model.Booking, seats []model.SeatAssignment) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	f, err := h.Flights.ByID(ctx, b.FlightID)
	if err != nil || f == nil {
		log.Printf("booking-event: load flight %d failed: %v", b.FlightID, err)
		return
	}
	labels := make([]string, 0, len(seats))
	for _, sa := range seats {
		labels = append(labels, sa.SeatNumber)
	}
	pnr := ""
	if b.PNR != nil {
		pnr = *b.PNR
	}
	_ = queue_publisher.PublishBookingConfirmed(ctx, queue.BookingConfirmedEvent{
		BookingID:    b.ID,
		UserID:       b.UserID,
		PNR:          pnr,
		FlightNumber: f.FlightNumber,
		Airline:      f.Airline,
		Origin:       f.Origin,
		Destination:  f.Destination,
		Date:         f.Date,
		Seats:        labels,
		TotalAmount:  b.TotalAmount,
		Currency:     b.Currency,
		ConfirmedAt:  b.UpdatedAt.UTC().Format(time.RFC3339),
	})
}

// Cancel releases the booking's seats.  Cancelling a terminal booking
// is a no-op that returns the current state.
// POST /v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Engine.Cancel(c.Request().Context(), uid, middleware.CurrentRole(c), id)
	if err != nil {
		return engineError(c, err)
	}
	seats, err := h.Engine.BookingSeats(c.Request().Context(), b.ID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(b, seats))
}

// List returns the caller's bookings, newest first.
// GET /v1/bookings
func (h *BookingHandler) List(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, err := h.Engine.ListBookings(c.Request().Context(), uid)
	if err != nil {
		return engineError(c, err)
	}
	out := make([]bookingResp, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResp(&bookings[i], nil))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// Detail returns one booking with its seat assignments.  Admins may
// view any booking.
// GET /v1/bookings/:id
func (h *BookingHandler) Detail(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, seats, err := h.Engine.GetBooking(c.Request().Context(), uid, middleware.CurrentRole(c), id)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(b, seats))
}
