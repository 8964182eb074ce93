package model

import "time"

// FlightMarket is the per-flight pricing and availability record held in
// the `flight_cache` table.  One row exists per (flight_number, date,
// origin, destination) tuple.  Rows are created lazily the first time a
// flight is referenced and are never deleted.  BaseFare and the seat
// layout are fixed at creation; price movement comes only from
// DemandScore drift and seat occupancy.
//
// Fields:
//  ID           – primary key identifier.
//  FlightNumber – carrier code plus number, e.g. "AI342".
//  Airline      – display label; last write wins.
//  Origin       – departure city code.
//  Destination  – arrival city code.
//  Date         – departure date as YYYY-MM-DD.
//  BaseFare     – fare before any dynamic factors, in whole currency units.
//  SeatsTotal   – number of physical seats generated for the flight.
//  SeatsLeft    – count of seats whose reservation source is AVAILABLE.
//  DemandScore  – normalized demand proxy in [0,1].
//  LastUpdated  – timestamp of the last counter sync or market tick.
type FlightMarket struct {
	ID           uint64    // flight_cache.id
	FlightNumber string    // flight_cache.flight_number
	Airline      string    // flight_cache.airline
	Origin       string    // flight_cache.origin
	Destination  string    // flight_cache.destination
	Date         string    // flight_cache.date (YYYY-MM-DD)
	BaseFare     float64   // flight_cache.base_fare
	SeatsTotal   int       // flight_cache.seats_total
	SeatsLeft    int       // flight_cache.seats_left
	DemandScore  float64   // flight_cache.demand_score
	LastUpdated  time.Time // flight_cache.last_updated
}

// Key returns the identity tuple of the flight as a single string.  It
// is used both for the per-flight lock registry and as the seed input
// for deterministic seat layout generation, so its format must stay
// stable across releases.
func (f *FlightMarket) Key() string {
	return f.FlightNumber + "|" + f.Date + "|" + f.Origin + "|" + f.Destination
}
