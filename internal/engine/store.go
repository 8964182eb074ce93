package engine

import (
	"context"

	"github.com/iliyamo/flight-seat-reservation/internal/model"
)

// FlightStore persists flight market records.  FindByKey and
// FindByNumberAndDate return (nil, nil) when no record matches.
type FlightStore interface {
	ByID(ctx context.Context, id uint64) (*model.FlightMarket, error)
	FindByKey(ctx context.Context, flightNumber, date, origin, destination string) (*model.FlightMarket, error)
	FindByNumberAndDate(ctx context.Context, flightNumber, date string) (*model.FlightMarket, error)
	Create(ctx context.Context, f *model.FlightMarket) error
	Update(ctx context.Context, f *model.FlightMarket) error
	List(ctx context.Context) ([]model.FlightMarket, error)
}

// SeatStore persists per-flight seat inventory.  Reserve must flip the
// given seats to BOOKING only if they are currently AVAILABLE and
// report ErrSeatConflict otherwise, so the database backs up the
// engine's lock even under a misbehaving caller.
type SeatStore interface {
	ByFlight(ctx context.Context, flightID uint64) ([]model.Seat, error)
	ByFlightAndNumbers(ctx context.Context, flightID uint64, numbers []string) ([]model.Seat, error)
	CreateBulk(ctx context.Context, seats []model.Seat) error
	Counts(ctx context.Context, flightID uint64) (total int, available int, err error)
	Reserve(ctx context.Context, flightID uint64, numbers []string, bookingID uint64) error
	ReleaseByBooking(ctx context.Context, bookingID uint64) (int, error)
	SetSource(ctx context.Context, seatID uint64, source string) error
}

// BookingStore persists bookings and their seat assignments.  Create
// writes the booking and all assignments atomically and fills in the
// generated ids.  ByID returns (nil, nil) when the booking is unknown.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking, seats []model.SeatAssignment) error
	ByID(ctx context.Context, id uint64) (*model.Booking, error)
	Update(ctx context.Context, b *model.Booking) error
	ByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	Assignments(ctx context.Context, bookingID uint64) ([]model.SeatAssignment, error)
	PNRExists(ctx context.Context, pnr string) (bool, error)
}

// FareStore appends and reads the per-flight fare history time series.
type FareStore interface {
	Append(ctx context.Context, s *model.FareSample) error
	ByFlight(ctx context.Context, flightID uint64) ([]model.FareSample, error)
}

// ScheduleSource is the external flight schedule collaborator.  The
// shipped implementation simulates a provider; a real feed would
// satisfy the same interface.
type ScheduleSource interface {
	Departures(origin, destination, date string) ([]Departure, error)
}

// Departure is one scheduled flight as reported by the schedule source.
type Departure struct {
	FlightNumber  string
	Airline       string
	DepartureTime string
	ArrivalTime   string
}
