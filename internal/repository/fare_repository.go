package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/flight-seat-reservation/internal/model"
)

// FareRepo persists the append-only fare history time series.
type FareRepo struct {
	db *sql.DB
}

// NewFareRepo constructs a FareRepo with the given DB handle.
func NewFareRepo(db *sql.DB) *FareRepo { return &FareRepo{db: db} }

// Append inserts one fare sample and assigns the generated ID back.
func (r *FareRepo) Append(ctx context.Context, s *model.FareSample) error {
	const q = `INSERT INTO fare_history (flight_id, timestamp, price) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.FlightID, s.Timestamp, s.Price)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// ByFlight returns the full fare series for a flight in time order.
func (r *FareRepo) ByFlight(ctx context.Context, flightID uint64) ([]model.FareSample, error) {
	const q = `SELECT id, flight_id, timestamp, price FROM fare_history
               WHERE flight_id = ? ORDER BY timestamp ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.FareSample
	for rows.Next() {
		var s model.FareSample
		if err := rows.Scan(&s.ID, &s.FlightID, &s.Timestamp, &s.Price); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
