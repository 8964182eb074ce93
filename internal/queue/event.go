// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking payment succeeds.
// It carries enough information for downstream consumers to log, notify
// or feed analytics without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID    uint64   `json:"booking_id"`
	UserID       uint64   `json:"user_id"`
	PNR          string   `json:"pnr"`
	FlightNumber string   `json:"flight_number"`
	Airline      string   `json:"airline"`
	Origin       string   `json:"origin"`
	Destination  string   `json:"destination"`
	Date         string   `json:"date"`
	Seats        []string `json:"seats"`
	TotalAmount  float64  `json:"total_amount"`
	Currency     string   `json:"currency"`
	ConfirmedAt  string   `json:"confirmed_at"`
}
