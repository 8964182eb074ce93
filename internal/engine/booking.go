package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/flight-seat-reservation/internal/model"
	"github.com/iliyamo/flight-seat-reservation/internal/pricing"
)

// Forced payment outcomes accepted by Pay.  An empty outcome lets the
// simulated gateway decide.
const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFail    = "FAIL"
)

// paySuccessProbability is the chance a non-forced payment succeeds.
const paySuccessProbability = 0.75

// Hold window bounds in minutes; requests outside are clamped.
const (
	holdMinutesMin     = 5
	holdMinutesMax     = 60
	holdMinutesDefault = 15
)

// HoldInput carries everything needed to place a hold.  Passengers and
// SeatNumbers must be the same length; passenger order maps to seat
// order.
type HoldInput struct {
	FlightID     uint64
	ContactName  string
	ContactEmail string
	ContactPhone string
	Passengers   []model.Passenger
	SeatNumbers  []string
	HoldMinutes  int
	Currency     string
}

// Hold reserves the requested seats atomically and creates a booking in
// HOLD state.  Each seat is priced with a decrementing seats_left
// counter, so a multi-seat hold prices progressively higher, and the
// cabin tier multiplier is applied per seat.  Either every seat is
// reserved or none is.
func (e *Engine) Hold(ctx context.Context, userID uint64, in HoldInput) (*model.Booking, error) {
	if len(in.SeatNumbers) == 0 {
		return nil, fmt.Errorf("%w: no seats requested", ErrInvalidInput)
	}
	if len(in.Passengers) != len(in.SeatNumbers) {
		return nil, fmt.Errorf("%w: %d passengers for %d seats", ErrInvalidInput, len(in.Passengers), len(in.SeatNumbers))
	}
	seen := make(map[string]struct{}, len(in.SeatNumbers))
	for _, n := range in.SeatNumbers {
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("%w: seat %s requested twice", ErrInvalidInput, n)
		}
		seen[n] = struct{}{}
	}

	f, err := e.flights.ByID(ctx, in.FlightID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("%w: id %d", ErrFlightNotFound, in.FlightID)
	}
	if e.departed(f.Date) {
		return nil, fmt.Errorf("%w: flight %s already departed", ErrInvalidInput, f.FlightNumber)
	}

	unlock := e.locks.acquire(f.Key())
	defer unlock()

	// Re-read under the lock; a concurrent hold may have moved the
	// counters between the lookup above and lock acquisition.
	f, err = e.flights.ByID(ctx, in.FlightID)
	if err != nil {
		return nil, err
	}
	if err := e.ensureLayoutLocked(ctx, f); err != nil {
		return nil, err
	}

	rows, err := e.seats.ByFlightAndNumbers(ctx, f.ID, in.SeatNumbers)
	if err != nil {
		return nil, err
	}
	byNumber := make(map[string]model.Seat, len(rows))
	for _, s := range rows {
		byNumber[s.SeatNumber] = s
	}
	for _, n := range in.SeatNumbers {
		s, ok := byNumber[n]
		if !ok {
			return nil, fmt.Errorf("%w: seat %s on flight %s", ErrSeatNotFound, n, f.FlightNumber)
		}
		if s.ReservationSource != model.SourceAvailable {
			return nil, fmt.Errorf("%w: seat %s", ErrSeatConflict, n)
		}
	}

	now := e.clock.Now()
	left := f.SeatsLeft
	total := 0.0
	assignments := make([]model.SeatAssignment, 0, len(in.SeatNumbers))
	for _, n := range in.SeatNumbers {
		seat := byNumber[n]
		price := pricing.Quote(f.BaseFare, left, f.SeatsTotal, f.DemandScore, f.Date,
			pricing.TierMultiplier(seat.CabinClass), now)
		total += price
		left--
		assignments = append(assignments, model.SeatAssignment{
			FlightID:   f.ID,
			SeatNumber: seat.SeatNumber,
			CabinClass: seat.CabinClass,
			Price:      price,
		})
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "INR"
	}
	b := &model.Booking{
		UserID:        userID,
		FlightID:      f.ID,
		Status:        model.BookingHold,
		PaymentStatus: model.PaymentPending,
		ContactName:   in.ContactName,
		ContactEmail:  in.ContactEmail,
		ContactPhone:  in.ContactPhone,
		Manifest:      in.Passengers,
		TotalAmount:   total,
		Currency:      currency,
		HoldExpiresAt: now.Add(holdWindow(in.HoldMinutes)),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := e.bookings.Create(ctx, b, assignments); err != nil {
		return nil, err
	}
	if err := e.seats.Reserve(ctx, f.ID, in.SeatNumbers, b.ID); err != nil {
		// The availability check above ran under the flight lock, so a
		// reserve failure means the store itself is unhealthy.  Void
		// the freshly created booking rather than leave a seatless HOLD.
		b.Status = model.BookingCancelled
		b.UpdatedAt = e.clock.Now()
		_ = e.bookings.Update(ctx, b)
		return nil, err
	}
	if err := e.syncCountersLocked(ctx, f); err != nil {
		return nil, err
	}
	if err := e.appendFareSampleLocked(ctx, f); err != nil {
		return nil, err
	}
	return b, nil
}

// Pay resolves a payment attempt for a booking in HOLD or
// PAYMENT_FAILED.  Hold expiry is checked first and wins over any
// forced outcome: an expired booking is moved to EXPIRED, its seats
// released, and ErrHoldExpired returned.  On a declined payment the
// booking row is still durably updated before ErrPaymentDeclined
// surfaces.
func (e *Engine) Pay(ctx context.Context, userID, bookingID uint64, forcedOutcome string) (*model.Booking, error) {
	outcome, err := normalizeOutcome(forcedOutcome)
	if err != nil {
		return nil, err
	}

	b, err := e.bookings.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%w: id %d", ErrBookingNotFound, bookingID)
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}
	if b.Status != model.BookingHold && b.Status != model.BookingPaymentFailed {
		return nil, fmt.Errorf("%w: cannot pay booking in %s", ErrWrongState, b.Status)
	}

	f, err := e.flights.ByID(ctx, b.FlightID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("%w: id %d", ErrFlightNotFound, b.FlightID)
	}

	unlock := e.locks.acquire(f.Key())
	defer unlock()

	now := e.clock.Now()
	if now.After(b.HoldExpiresAt) {
		if _, err := e.releaseSeatsLocked(ctx, f, b.ID); err != nil {
			return nil, err
		}
		b.Status = model.BookingExpired
		b.PaymentStatus = model.PaymentFailed
		b.UpdatedAt = now
		if err := e.bookings.Update(ctx, b); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: hold lapsed at %s", ErrHoldExpired, b.HoldExpiresAt.Format("15:04:05"))
	}

	b.PaymentAttempts++
	success := outcome == OutcomeSuccess
	if outcome == "" {
		success = e.randFloat() < paySuccessProbability
	}
	ref, err := paymentReference()
	if err != nil {
		return nil, err
	}
	b.PaymentRef = &ref

	if !success {
		if _, err := e.releaseSeatsLocked(ctx, f, b.ID); err != nil {
			return nil, err
		}
		b.Status = model.BookingPaymentFailed
		b.PaymentStatus = model.PaymentFailed
		b.UpdatedAt = now
		if err := e.bookings.Update(ctx, b); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: reference %s", ErrPaymentDeclined, ref)
	}

	b.Status = model.BookingConfirmed
	b.PaymentStatus = model.PaymentSuccess
	if b.PNR == nil {
		pnr, err := e.generatePNR(ctx)
		if err != nil {
			return nil, err
		}
		b.PNR = &pnr
	}
	b.UpdatedAt = now
	if err := e.bookings.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Cancel releases the booking's seats and marks it CANCELLED.  A paid
// booking is flipped to REFUNDED.  Cancelling an already terminal
// booking is an idempotent no-op returning the current state.
func (e *Engine) Cancel(ctx context.Context, userID uint64, role string, bookingID uint64) (*model.Booking, error) {
	b, err := e.bookings.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%w: id %d", ErrBookingNotFound, bookingID)
	}
	if b.UserID != userID && role != model.RoleAdmin {
		return nil, ErrForbidden
	}
	if b.Terminal() {
		return b, nil
	}

	f, err := e.flights.ByID(ctx, b.FlightID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("%w: id %d", ErrFlightNotFound, b.FlightID)
	}

	unlock := e.locks.acquire(f.Key())
	defer unlock()

	if _, err := e.releaseSeatsLocked(ctx, f, b.ID); err != nil {
		return nil, err
	}
	b.Status = model.BookingCancelled
	if b.PaymentStatus == model.PaymentSuccess {
		b.PaymentStatus = model.PaymentRefunded
	}
	b.UpdatedAt = e.clock.Now()
	if err := e.bookings.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ListBookings returns all bookings created by the user, newest first.
func (e *Engine) ListBookings(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return e.bookings.ByUser(ctx, userID)
}

// GetBooking returns one booking with its seat assignments.  Only the
// owner or an admin may view it.
func (e *Engine) GetBooking(ctx context.Context, userID uint64, role string, bookingID uint64) (*model.Booking, []model.SeatAssignment, error) {
	b, err := e.bookings.ByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if b == nil {
		return nil, nil, fmt.Errorf("%w: id %d", ErrBookingNotFound, bookingID)
	}
	if b.UserID != userID && role != model.RoleAdmin {
		return nil, nil, ErrForbidden
	}
	seats, err := e.bookings.Assignments(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	return b, seats, nil
}

// BookingSeats returns the seat assignments of a booking without an
// ownership check.  Callers use it right after an operation that
// already verified access.
func (e *Engine) BookingSeats(ctx context.Context, bookingID uint64) ([]model.SeatAssignment, error) {
	return e.bookings.Assignments(ctx, bookingID)
}

func holdWindow(minutes int) time.Duration {
	if minutes == 0 {
		minutes = holdMinutesDefault
	}
	if minutes < holdMinutesMin {
		minutes = holdMinutesMin
	}
	if minutes > holdMinutesMax {
		minutes = holdMinutesMax
	}
	return time.Duration(minutes) * time.Minute
}
