package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/iliyamo/flight-seat-reservation/internal/model"
)

// BookingRepo persists bookings and their seat assignments.  A booking
// row and its seat_assignments rows are written in one transaction;
// assignments are never deleted so that cancelled and expired bookings
// keep a readable history.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, user_id, flight_id, pnr, status, payment_status,
       contact_name, contact_email, contact_phone, passenger_manifest,
       total_amount, currency, payment_reference, payment_attempts,
       hold_expires_at, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var b model.Booking
	var pnr, paymentRef sql.NullString
	var manifest []byte
	err := row.Scan(
		&b.ID, &b.UserID, &b.FlightID, &pnr, &b.Status, &b.PaymentStatus,
		&b.ContactName, &b.ContactEmail, &b.ContactPhone, &manifest,
		&b.TotalAmount, &b.Currency, &paymentRef, &b.PaymentAttempts,
		&b.HoldExpiresAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if pnr.Valid {
		v := pnr.String
		b.PNR = &v
	}
	if paymentRef.Valid {
		v := paymentRef.String
		b.PaymentRef = &v
	}
	if len(manifest) > 0 {
		if err := json.Unmarshal(manifest, &b.Manifest); err != nil {
			return nil, err
		}
	}
	return &b, nil
}

// Create inserts the booking together with all its seat assignments in
// one transaction and fills the generated ids back into the structs.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking, seats []model.SeatAssignment) error {
	manifest, err := json.Marshal(b.Manifest)
	if err != nil {
		return err
	}
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

	const q = `INSERT INTO bookings
               (user_id, flight_id, status, payment_status,
                contact_name, contact_email, contact_phone, passenger_manifest,
                total_amount, currency, payment_attempts, hold_expires_at,
                created_at, updated_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		b.UserID, b.FlightID, b.Status, b.PaymentStatus,
		b.ContactName, b.ContactEmail, b.ContactPhone, manifest,
		b.TotalAmount, b.Currency, b.PaymentAttempts, b.HoldExpiresAt,
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	if len(seats) > 0 {
		query := `INSERT INTO seat_assignments (booking_id, flight_id, seat_number, cabin_class, price) VALUES `
		args := make([]any, 0, len(seats)*5)
		for i := range seats {
			seats[i].BookingID = b.ID
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?, ?)"
			args = append(args, seats[i].BookingID, seats[i].FlightID, seats[i].SeatNumber, seats[i].CabinClass, seats[i].Price)
		}
		sres, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		first, err := sres.LastInsertId()
		if err != nil {
			return err
		}
		for i := range seats {
			seats[i].ID = uint64(first) + uint64(i)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ByID fetches one booking.  Returns (nil, nil) when no row matches.
func (r *BookingRepo) ByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return b, err
}

// Update rewrites the mutable columns of a booking.
func (r *BookingRepo) Update(ctx context.Context, b *model.Booking) error {
	const q = `UPDATE bookings
               SET pnr = ?, status = ?, payment_status = ?,
                   payment_reference = ?, payment_attempts = ?, updated_at = ?
               WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q,
		b.PNR, b.Status, b.PaymentStatus,
		b.PaymentRef, b.PaymentAttempts, b.UpdatedAt, b.ID,
	)
	return err
}

// ByUser returns all bookings created by the user, newest first.
func (r *BookingRepo) ByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// Assignments returns the seat assignment rows of a booking in seat
// order.
func (r *BookingRepo) Assignments(ctx context.Context, bookingID uint64) ([]model.SeatAssignment, error) {
	const q = `SELECT id, booking_id, flight_id, seat_number, cabin_class, price
               FROM seat_assignments WHERE booking_id = ? ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.SeatAssignment
	for rows.Next() {
		var sa model.SeatAssignment
		if err := rows.Scan(&sa.ID, &sa.BookingID, &sa.FlightID, &sa.SeatNumber, &sa.CabinClass, &sa.Price); err != nil {
			return nil, err
		}
		out = append(out, sa)
	}
	return out, rows.Err()
}

// PNRExists reports whether any booking already carries the given PNR.
func (r *BookingRepo) PNRExists(ctx context.Context, pnr string) (bool, error) {
	const q = `SELECT 1 FROM bookings WHERE pnr = ? LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, q, pnr).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
