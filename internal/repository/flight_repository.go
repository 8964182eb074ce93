// Package repository contains the MySQL data access layer.  Each repo
// wraps a *sql.DB handle and speaks raw SQL.  The engine consumes the
// repos through its store interfaces, so everything here stays free of
// pricing or reservation logic.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/flight-seat-reservation/internal/model"
)

// FlightRepo persists flight market records in the flight_cache table.
// One row exists per (flight_number, date, origin, destination) tuple;
// rows are created lazily and never deleted.
type FlightRepo struct {
	db *sql.DB
}

// NewFlightRepo constructs a FlightRepo with the given DB handle.
func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{db: db} }

const flightColumns = `id, flight_number, airline, origin, destination, date,
       base_fare, seats_total, seats_left, demand_score, last_updated`

func scanFlight(row interface{ Scan(...any) error }) (*model.FlightMarket, error) {
	var f model.FlightMarket
	err := row.Scan(
		&f.ID, &f.FlightNumber, &f.Airline, &f.Origin, &f.Destination, &f.Date,
		&f.BaseFare, &f.SeatsTotal, &f.SeatsLeft, &f.DemandScore, &f.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ByID fetches a flight record by primary key.  Returns (nil, nil) when
// no row matches.
func (r *FlightRepo) ByID(ctx context.Context, id uint64) (*model.FlightMarket, error) {
	const q = `SELECT ` + flightColumns + ` FROM flight_cache WHERE id = ?`
	f, err := scanFlight(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return f, err
}

// FindByKey fetches the record for the full flight identity tuple.
// Returns (nil, nil) when no row matches.
func (r *FlightRepo) FindByKey(ctx context.Context, flightNumber, date, origin, destination string) (*model.FlightMarket, error) {
	const q = `SELECT ` + flightColumns + `
               FROM flight_cache
               WHERE flight_number = ? AND date = ? AND origin = ? AND destination = ?`
	f, err := scanFlight(r.db.QueryRowContext(ctx, q, flightNumber, date, origin, destination))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return f, err
}

// FindByNumberAndDate fetches a record by flight number and date alone.
// Used by the fare history lookup, where the route is not part of the
// query.  Returns (nil, nil) when no row matches.
func (r *FlightRepo) FindByNumberAndDate(ctx context.Context, flightNumber, date string) (*model.FlightMarket, error) {
	const q = `SELECT ` + flightColumns + `
               FROM flight_cache
               WHERE flight_number = ? AND date = ?
               LIMIT 1`
	f, err := scanFlight(r.db.QueryRowContext(ctx, q, flightNumber, date))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return f, err
}

// Create inserts a new market record and assigns the generated ID back
// to the struct.
func (r *FlightRepo) Create(ctx context.Context, f *model.FlightMarket) error {
	const q = `INSERT INTO flight_cache
               (flight_number, airline, origin, destination, date,
                base_fare, seats_total, seats_left, demand_score, last_updated)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		f.FlightNumber, f.Airline, f.Origin, f.Destination, f.Date,
		f.BaseFare, f.SeatsTotal, f.SeatsLeft, f.DemandScore, f.LastUpdated,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// Update rewrites the mutable columns of a market record.  The identity
// tuple is fixed at creation and never updated.
func (r *FlightRepo) Update(ctx context.Context, f *model.FlightMarket) error {
	const q = `UPDATE flight_cache
               SET airline = ?, base_fare = ?, seats_total = ?, seats_left = ?,
                   demand_score = ?, last_updated = ?
               WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		f.Airline, f.BaseFare, f.SeatsTotal, f.SeatsLeft,
		f.DemandScore, f.LastUpdated, f.ID,
	)
	if err != nil {
		return err
	}
	if _, err := res.RowsAffected(); err != nil {
		return err
	}
	return nil
}

// List returns every known market record ordered by date then flight
// number.  The market simulator walks this list on each tick.
func (r *FlightRepo) List(ctx context.Context) ([]model.FlightMarket, error) {
	const q = `SELECT ` + flightColumns + ` FROM flight_cache ORDER BY date ASC, flight_number ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.FlightMarket
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}
