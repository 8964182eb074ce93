package model

import "time"

// FareSample is one point of a flight's append-only fare time series,
// stored in `fare_history`.  A sample is appended on every market
// simulator tick and whenever a search or hold recomputes the price.
// Samples are never mutated or deleted.
type FareSample struct {
	ID        uint64    // fare_history.id
	FlightID  uint64    // fare_history.flight_id
	Timestamp time.Time // fare_history.timestamp
	Price     float64   // fare_history.price
}
