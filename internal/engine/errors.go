// Package engine implements the seat reservation and dynamic pricing
// core: flight market records, seat inventory, the booking lifecycle
// state machine and the market simulator daemon.  Handlers translate
// the sentinel errors defined here into HTTP responses.
package engine

import "errors"

// ErrFlightNotFound is returned when a flight id or identity tuple does
// not match any market record.
var ErrFlightNotFound = errors.New("flight not found")

// ErrSeatNotFound is returned when a requested seat number does not
// exist on the flight.
var ErrSeatNotFound = errors.New("seat not found")

// ErrBookingNotFound is returned when a booking id is unknown.
var ErrBookingNotFound = errors.New("booking not found")

// ErrSeatConflict is returned when any requested seat is already
// reserved.  No seats are reserved when this is returned.
var ErrSeatConflict = errors.New("seat already reserved")

// ErrInvalidInput covers malformed dates, mismatched passenger/seat
// counts, bad forced payment outcomes and already-departed flights.
var ErrInvalidInput = errors.New("invalid input")

// ErrWrongState is returned when payment is attempted on a booking that
// is not in HOLD or PAYMENT_FAILED.
var ErrWrongState = errors.New("wrong booking state")

// ErrHoldExpired is returned by the payment path when the hold window
// has passed.  The expiry side effect (seat release, EXPIRED status)
// has already been applied when this surfaces.
var ErrHoldExpired = errors.New("hold expired")

// ErrPaymentDeclined is the simulated gateway failure.  Seats are
// already released and the booking row updated when this surfaces.
var ErrPaymentDeclined = errors.New("payment declined")

// ErrForbidden is returned when the caller is neither the booking's
// owner nor an admin.
var ErrForbidden = errors.New("forbidden")
