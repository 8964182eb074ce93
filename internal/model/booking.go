package model

import "time"

// Booking lifecycle states.  HOLD is the initial state.  CANCELLED and
// EXPIRED are terminal; PAYMENT_FAILED may be retried back to CONFIRMED.
const (
	BookingHold          = "HOLD"
	BookingConfirmed     = "CONFIRMED"
	BookingCancelled     = "CANCELLED"
	BookingExpired       = "EXPIRED"
	BookingPaymentFailed = "PAYMENT_FAILED"
)

// Payment states tracked alongside the booking status.
const (
	PaymentPending  = "PENDING"
	PaymentSuccess  = "SUCCESS"
	PaymentFailed   = "FAILED"
	PaymentRefunded = "REFUNDED"
)

// Passenger is one entry of a booking's passenger manifest.  The
// manifest is stored as a JSON array in the bookings table.
type Passenger struct {
	FullName string  `json:"full_name"`
	Age      *int    `json:"age,omitempty"`
	Gender   *string `json:"gender,omitempty"`
}

// Booking records a user's reservation of one or more seats on a
// flight.  Bookings are never physically deleted; terminal states are
// retained for history.  TotalAmount is fixed at hold time and never
// recomputed.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – user who created the hold.
//  FlightID        – flight_cache row being booked.
//  PNR             – passenger name record, assigned on confirmation (nullable, unique).
//  Status          – HOLD, CONFIRMED, CANCELLED, EXPIRED or PAYMENT_FAILED.
//  PaymentStatus   – PENDING, SUCCESS, FAILED or REFUNDED.
//  ContactName     – booking contact.
//  ContactEmail    – booking contact email.
//  ContactPhone    – booking contact phone (optional).
//  Manifest        – ordered passenger list, one entry per seat.
//  TotalAmount     – sum of per-seat quotes at hold time.
//  Currency        – ISO currency code, INR by default.
//  PaymentRef      – simulated gateway reference (nullable).
//  PaymentAttempts – number of payment calls made against this booking.
//  HoldExpiresAt   – instant after which payment is refused.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last modification timestamp.
type Booking struct {
	ID              uint64      // bookings.id
	UserID          uint64      // bookings.user_id
	FlightID        uint64      // bookings.flight_id
	PNR             *string     // bookings.pnr (nullable)
	Status          string      // bookings.status
	PaymentStatus   string      // bookings.payment_status
	ContactName     string      // bookings.contact_name
	ContactEmail    string      // bookings.contact_email
	ContactPhone    string      // bookings.contact_phone
	Manifest        []Passenger // bookings.passenger_manifest (JSON)
	TotalAmount     float64     // bookings.total_amount
	Currency        string      // bookings.currency
	PaymentRef      *string     // bookings.payment_reference (nullable)
	PaymentAttempts int         // bookings.payment_attempts
	HoldExpiresAt   time.Time   // bookings.hold_expires_at
	CreatedAt       time.Time   // bookings.created_at
	UpdatedAt       time.Time   // bookings.updated_at
}

// Terminal reports whether the booking can no longer change state.
func (b *Booking) Terminal() bool {
	return b.Status == BookingCancelled || b.Status == BookingExpired
}

// SeatAssignment is the denormalized join row between a booking and the
// seats it reserved, stored in `seat_assignments`.  It survives seat
// release so that booking history stays readable after cancellation.
//
// Fields:
//  ID         – primary key identifier.
//  BookingID  – owning booking.
//  FlightID   – flight the seat belongs to.
//  SeatNumber – seat label snapshot.
//  CabinClass – cabin class snapshot.
//  Price      – per-seat quote at hold time.
type SeatAssignment struct {
	ID         uint64  // seat_assignments.id
	BookingID  uint64  // seat_assignments.booking_id
	FlightID   uint64  // seat_assignments.flight_id
	SeatNumber string  // seat_assignments.seat_number
	CabinClass string  // seat_assignments.cabin_class
	Price      float64 // seat_assignments.price
}
