package model

// Cabin classes assigned to seats when a flight layout is generated.
const (
	CabinEconomy  = "ECONOMY"
	CabinPremium  = "PREMIUM"
	CabinBusiness = "BUSINESS"
)

// Reservation sources explain why a seat is (or is not) available.
// A seat is reserved exactly when its source is not AVAILABLE.
const (
	SourceAvailable = "AVAILABLE" // free for sale
	SourceBlocked   = "BLOCKED"   // held back by the airline / market simulation
	SourceBooking   = "BOOKING"   // claimed by a booking
)

// Seat is one physical seat on a flight, stored in `seat_inventory`.
// SeatNumber is unique per flight.  BookingID is set if and only if
// ReservationSource is BOOKING.
//
// Fields:
//  ID                – primary key identifier.
//  FlightID          – owning flight_cache row.
//  SeatNumber        – row number plus letter, e.g. "12C".
//  CabinClass        – ECONOMY, PREMIUM or BUSINESS.
//  IsReserved        – true when the seat cannot be sold.
//  ReservationSource – AVAILABLE, BLOCKED or BOOKING.
//  BookingID         – booking that owns the seat (nullable).
type Seat struct {
	ID                uint64  // seat_inventory.id
	FlightID          uint64  // seat_inventory.flight_id
	SeatNumber        string  // seat_inventory.seat_number
	CabinClass        string  // seat_inventory.cabin_class
	IsReserved        bool    // seat_inventory.is_reserved
	ReservationSource string  // seat_inventory.reservation_source
	BookingID         *uint64 // seat_inventory.booking_id (nullable)
}
