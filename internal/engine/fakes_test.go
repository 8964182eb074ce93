package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iliyamo/flight-seat-reservation/internal/model"
)

// memStore is an in-memory implementation of the engine's store
// interfaces.  Reads return copies and writes store copies, so engine
// code only persists state through explicit Update calls, the same way
// the SQL repositories behave.
type memStore struct {
	mu          sync.Mutex
	flights     map[uint64]model.FlightMarket
	seats       map[uint64]model.Seat
	bookings    map[uint64]model.Booking
	assignments map[uint64][]model.SeatAssignment
	fares       []model.FareSample

	nextFlightID  uint64
	nextSeatID    uint64
	nextBookingID uint64

	pnrAlwaysTaken bool
}

func newMemStore() *memStore {
	return &memStore{
		flights:     map[uint64]model.FlightMarket{},
		seats:       map[uint64]model.Seat{},
		bookings:    map[uint64]model.Booking{},
		assignments: map[uint64][]model.SeatAssignment{},
	}
}

// --- FlightStore ---

func (m *memStore) ByID(_ context.Context, id uint64) (*model.FlightMarket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.flights[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (m *memStore) FindByKey(_ context.Context, number, date, origin, destination string) (*model.FlightMarket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.flights {
		if f.FlightNumber == number && f.Date == date && f.Origin == origin && f.Destination == destination {
			f := f
			return &f, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindByNumberAndDate(_ context.Context, number, date string) (*model.FlightMarket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.flights {
		if f.FlightNumber == number && f.Date == date {
			f := f
			return &f, nil
		}
	}
	return nil, nil
}

func (m *memStore) Create(_ context.Context, f *model.FlightMarket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextFlightID++
	f.ID = m.nextFlightID
	m.flights[f.ID] = *f
	return nil
}

func (m *memStore) Update(_ context.Context, f *model.FlightMarket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.flights[f.ID]; !ok {
		return fmt.Errorf("update of unknown flight %d", f.ID)
	}
	m.flights[f.ID] = *f
	return nil
}

func (m *memStore) List(_ context.Context) ([]model.FlightMarket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.FlightMarket, 0, len(m.flights))
	for id := uint64(1); id <= m.nextFlightID; id++ {
		if f, ok := m.flights[id]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// --- SeatStore ---

func (m *memStore) ByFlight(_ context.Context, flightID uint64) ([]model.Seat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Seat
	for id := uint64(1); id <= m.nextSeatID; id++ {
		if s, ok := m.seats[id]; ok && s.FlightID == flightID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) ByFlightAndNumbers(_ context.Context, flightID uint64, numbers []string) ([]model.Seat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[string]struct{}, len(numbers))
	for _, n := range numbers {
		want[n] = struct{}{}
	}
	var out []model.Seat
	for id := uint64(1); id <= m.nextSeatID; id++ {
		s, ok := m.seats[id]
		if !ok || s.FlightID != flightID {
			continue
		}
		if _, match := want[s.SeatNumber]; match {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) CreateBulk(_ context.Context, seats []model.Seat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range seats {
		m.nextSeatID++
		seats[i].ID = m.nextSeatID
		m.seats[seats[i].ID] = seats[i]
	}
	return nil
}

func (m *memStore) Counts(_ context.Context, flightID uint64) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total, available := 0, 0
	for _, s := range m.seats {
		if s.FlightID != flightID {
			continue
		}
		total++
		if s.ReservationSource == model.SourceAvailable {
			available++
		}
	}
	return total, available, nil
}

func (m *memStore) Reserve(_ context.Context, flightID uint64, numbers []string, bookingID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]uint64, 0, len(numbers))
	for _, n := range numbers {
		found := false
		for id, s := range m.seats {
			if s.FlightID == flightID && s.SeatNumber == n {
				if s.ReservationSource != model.SourceAvailable {
					return fmt.Errorf("%w: seat %s", ErrSeatConflict, n)
				}
				ids = append(ids, id)
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: seat %s", ErrSeatNotFound, n)
		}
	}
	for _, id := range ids {
		s := m.seats[id]
		owner := bookingID
		s.ReservationSource = model.SourceBooking
		s.IsReserved = true
		s.BookingID = &owner
		m.seats[id] = s
	}
	return nil
}

func (m *memStore) ReleaseByBooking(_ context.Context, bookingID uint64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	released := 0
	for id, s := range m.seats {
		if s.BookingID != nil && *s.BookingID == bookingID {
			s.ReservationSource = model.SourceAvailable
			s.IsReserved = false
			s.BookingID = nil
			m.seats[id] = s
			released++
		}
	}
	return released, nil
}

func (m *memStore) SetSource(_ context.Context, seatID uint64, source string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.seats[seatID]
	if !ok {
		return fmt.Errorf("unknown seat %d", seatID)
	}
	s.ReservationSource = source
	s.IsReserved = source != model.SourceAvailable
	if source != model.SourceBooking {
		s.BookingID = nil
	}
	m.seats[seatID] = s
	return nil
}

// --- BookingStore ---

func (m *memStore) CreateBooking(ctx context.Context, b *model.Booking, seats []model.SeatAssignment) error {
	return m.createBooking(b, seats)
}

func (m *memStore) createBooking(b *model.Booking, seats []model.SeatAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextBookingID++
	b.ID = m.nextBookingID
	m.bookings[b.ID] = *b
	rows := make([]model.SeatAssignment, len(seats))
	for i, sa := range seats {
		sa.ID = uint64(i + 1)
		sa.BookingID = b.ID
		rows[i] = sa
	}
	m.assignments[b.ID] = rows
	return nil
}

func (m *memStore) BookingByID(_ context.Context, id uint64) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m *memStore) UpdateBooking(_ context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[b.ID]; !ok {
		return fmt.Errorf("update of unknown booking %d", b.ID)
	}
	m.bookings[b.ID] = *b
	return nil
}

func (m *memStore) ByUser(_ context.Context, userID uint64) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Booking
	for id := m.nextBookingID; id >= 1; id-- {
		if b, ok := m.bookings[id]; ok && b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) Assignments(_ context.Context, bookingID uint64) ([]model.SeatAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.SeatAssignment(nil), m.assignments[bookingID]...), nil
}

func (m *memStore) PNRExists(_ context.Context, pnr string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pnrAlwaysTaken {
		return true, nil
	}
	for _, b := range m.bookings {
		if b.PNR != nil && *b.PNR == pnr {
			return true, nil
		}
	}
	return false, nil
}

// --- FareStore ---

func (m *memStore) Append(_ context.Context, s *model.FareSample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = uint64(len(m.fares) + 1)
	m.fares = append(m.fares, *s)
	return nil
}

func (m *memStore) FaresByFlight(_ context.Context, flightID uint64) ([]model.FareSample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.FareSample
	for _, s := range m.fares {
		if s.FlightID == flightID {
			out = append(out, s)
		}
	}
	return out, nil
}

// bookingView re-reads a booking directly from the store.
func (m *memStore) bookingView(id uint64) model.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bookings[id]
}

// seatBySeatNumber re-reads a seat row directly from the store.
func (m *memStore) seatBySeatNumber(flightID uint64, number string) model.Seat {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.seats {
		if s.FlightID == flightID && s.SeatNumber == number {
			return s
		}
	}
	return model.Seat{}
}

// stepClock is a mutable test clock.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock(t time.Time) *stepClock { return &stepClock{now: t.UTC()} }

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// fakeSchedule returns a fixed departure list for every route.
type fakeSchedule struct {
	deps []Departure
}

func (f *fakeSchedule) Departures(origin, destination, date string) ([]Departure, error) {
	return f.deps, nil
}
