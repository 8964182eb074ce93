package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/iliyamo/flight-seat-reservation/internal/engine"
	"github.com/iliyamo/flight-seat-reservation/internal/model"
)

// SeatRepo persists the per-flight seat inventory.  Seat rows are
// created in bulk when a flight layout is generated and only their
// reservation state changes afterwards.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

const seatColumns = `id, flight_id, seat_number, cabin_class, is_reserved, reservation_source, booking_id`

func scanSeat(row interface{ Scan(...any) error }) (model.Seat, error) {
	var s model.Seat
	var bookingID sql.NullInt64
	err := row.Scan(&s.ID, &s.FlightID, &s.SeatNumber, &s.CabinClass, &s.IsReserved, &s.ReservationSource, &bookingID)
	if err != nil {
		return model.Seat{}, err
	}
	if bookingID.Valid {
		id := uint64(bookingID.Int64)
		s.BookingID = &id
	}
	return s, nil
}

// ByFlight returns every seat of a flight in cabin layout order (rows
// are inserted in that order, so id order suffices).
func (r *SeatRepo) ByFlight(ctx context.Context, flightID uint64) ([]model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seat_inventory WHERE flight_id = ? ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, q, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ByFlightAndNumbers returns the seat rows for the given seat numbers on
// one flight.  Missing numbers are simply absent from the result; the
// caller decides whether that is an error.
func (r *SeatRepo) ByFlightAndNumbers(ctx context.Context, flightID uint64, numbers []string) ([]model.Seat, error) {
	if len(numbers) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat(",?", len(numbers))[1:]
	q := `SELECT ` + seatColumns + ` FROM seat_inventory
          WHERE flight_id = ? AND seat_number IN (` + placeholders + `)`
	args := make([]any, 0, len(numbers)+1)
	args = append(args, flightID)
	for _, n := range numbers {
		args = append(args, n)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CreateBulk inserts all seat rows of a freshly generated layout in a
// single statement.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seat_inventory (flight_id, seat_number, cabin_class, is_reserved, reservation_source) VALUES `
	args := make([]any, 0, len(seats)*5)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, s.FlightID, s.SeatNumber, s.CabinClass, s.IsReserved, s.ReservationSource)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	// MySQL assigns consecutive ids for a multi-row insert.
	first, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for i := range seats {
		seats[i].ID = uint64(first) + uint64(i)
	}
	return nil
}

// Counts returns the total seat count and the number of AVAILABLE seats
// for a flight in one query.
func (r *SeatRepo) Counts(ctx context.Context, flightID uint64) (int, int, error) {
	const q = `SELECT COUNT(*), COALESCE(SUM(reservation_source = 'AVAILABLE'), 0)
               FROM seat_inventory WHERE flight_id = ?`
	var total, available int
	if err := r.db.QueryRowContext(ctx, q, flightID).Scan(&total, &available); err != nil {
		return 0, 0, err
	}
	return total, available, nil
}

// Reserve flips the given seats to BOOKING for the booking, inside a
// transaction, with a conditional UPDATE per seat that only matches an
// AVAILABLE row.  The engine already checked availability under its
// flight lock; the WHERE clause makes the database reject the write
// anyway if the two ever disagree, and the transaction rolls the whole
// batch back.
func (r *SeatRepo) Reserve(ctx context.Context, flightID uint64, numbers []string, bookingID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `UPDATE seat_inventory
               SET is_reserved = TRUE, reservation_source = 'BOOKING', booking_id = ?
               WHERE flight_id = ? AND seat_number = ? AND reservation_source = 'AVAILABLE'`
	for _, n := range numbers {
		res, err := tx.ExecContext(ctx, q, bookingID, flightID, n)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("%w: seat %s", engine.ErrSeatConflict, n)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ReleaseByBooking frees every seat held by the booking and returns the
// number of rows released.
func (r *SeatRepo) ReleaseByBooking(ctx context.Context, bookingID uint64) (int, error) {
	const q = `UPDATE seat_inventory
               SET is_reserved = FALSE, reservation_source = 'AVAILABLE', booking_id = NULL
               WHERE booking_id = ?`
	res, err := r.db.ExecContext(ctx, q, bookingID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// SetSource moves one seat to the given reservation source.  Used by
// the market simulator for BLOCKED flips; a move away from BOOKING also
// clears the owning booking.
func (r *SeatRepo) SetSource(ctx context.Context, seatID uint64, source string) error {
	const q = `UPDATE seat_inventory
               SET reservation_source = ?, is_reserved = (? <> 'AVAILABLE'),
                   booking_id = IF(? = 'BOOKING', booking_id, NULL)
               WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, source, source, source, seatID)
	return err
}
