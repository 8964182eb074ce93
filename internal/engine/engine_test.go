package engine

import (
	"context"
	"errors"
	"math/rand"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/flight-seat-reservation/internal/model"
)

// memBookings and memFares expose memStore under the BookingStore and
// FareStore method names, which collide with the flight methods on the
// shared struct.
type memBookings struct{ s *memStore }

func (m memBookings) Create(ctx context.Context, b *model.Booking, seats []model.SeatAssignment) error {
	return m.s.CreateBooking(ctx, b, seats)
}
func (m memBookings) ByID(ctx context.Context, id uint64) (*model.Booking, error) {
	return m.s.BookingByID(ctx, id)
}
func (m memBookings) Update(ctx context.Context, b *model.Booking) error {
	return m.s.UpdateBooking(ctx, b)
}
func (m memBookings) ByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return m.s.ByUser(ctx, userID)
}
func (m memBookings) Assignments(ctx context.Context, bookingID uint64) ([]model.SeatAssignment, error) {
	return m.s.Assignments(ctx, bookingID)
}
func (m memBookings) PNRExists(ctx context.Context, pnr string) (bool, error) {
	return m.s.PNRExists(ctx, pnr)
}

type memFares struct{ s *memStore }

func (m memFares) Append(ctx context.Context, sample *model.FareSample) error {
	return m.s.Append(ctx, sample)
}
func (m memFares) ByFlight(ctx context.Context, flightID uint64) ([]model.FareSample, error) {
	return m.s.FaresByFlight(ctx, flightID)
}

var testNow = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, sched ScheduleSource) (*Engine, *memStore, *stepClock) {
	t.Helper()
	st := newMemStore()
	clk := newStepClock(testNow)
	e := New(st, st, memBookings{s: st}, memFares{s: st}, sched, clk, rand.New(rand.NewSource(1)))
	return e, st, clk
}

// seedFlight creates a market record with a generated layout and
// returns it with fresh counters.
func seedFlight(t *testing.T, e *Engine, date string) *model.FlightMarket {
	t.Helper()
	ctx := context.Background()
	f, err := e.EnsureFlight(ctx, FlightRef{
		FlightNumber: "AI342", Airline: "Air India",
		Origin: "PNQ", Destination: "DEL", Date: date,
	})
	require.NoError(t, err)
	require.NoError(t, e.EnsureLayout(ctx, f))
	return f
}

// availableSeats returns n AVAILABLE seat numbers of the given cabin.
func availableSeats(t *testing.T, st *memStore, flightID uint64, cabin string, n int) []string {
	t.Helper()
	rows, err := st.ByFlight(context.Background(), flightID)
	require.NoError(t, err)
	var out []string
	for _, s := range rows {
		if s.CabinClass == cabin && s.ReservationSource == model.SourceAvailable {
			out = append(out, s.SeatNumber)
			if len(out) == n {
				return out
			}
		}
	}
	t.Fatalf("not enough available %s seats", cabin)
	return nil
}

func passengers(n int) []model.Passenger {
	out := make([]model.Passenger, n)
	for i := range out {
		out[i] = model.Passenger{FullName: "Passenger " + string(rune('A'+i))}
	}
	return out
}

func requireCountersConsistent(t *testing.T, st *memStore, flightID uint64) {
	t.Helper()
	ctx := context.Background()
	f, err := st.ByID(ctx, flightID)
	require.NoError(t, err)
	total, available, err := st.Counts(ctx, flightID)
	require.NoError(t, err)
	assert.Equal(t, total, f.SeatsTotal, "seats_total out of sync")
	assert.Equal(t, available, f.SeatsLeft, "seats_left out of sync")
}

func TestEnsureLayout(t *testing.T) {
	blockedSet := func(st *memStore, flightID uint64) map[string]struct{} {
		rows, _ := st.ByFlight(context.Background(), flightID)
		out := map[string]struct{}{}
		for _, s := range rows {
			if s.ReservationSource == model.SourceBlocked {
				out[s.SeatNumber] = struct{}{}
			}
		}
		return out
	}

	t.Run("deterministic pre-blocking across regenerations", func(t *testing.T) {
		e1, st1, _ := newTestEngine(t, nil)
		f1 := seedFlight(t, e1, "2026-06-01")

		e2, st2, _ := newTestEngine(t, nil)
		f2 := seedFlight(t, e2, "2026-06-01")

		require.NotEmpty(t, blockedSet(st1, f1.ID))
		assert.Equal(t, blockedSet(st1, f1.ID), blockedSet(st2, f2.ID))
	})

	t.Run("idempotent", func(t *testing.T) {
		e, st, _ := newTestEngine(t, nil)
		f := seedFlight(t, e, "2026-06-01")
		require.NoError(t, e.EnsureLayout(context.Background(), f))

		rows, err := st.ByFlight(context.Background(), f.ID)
		require.NoError(t, err)
		assert.Len(t, rows, 172)
		requireCountersConsistent(t, st, f.ID)
	})

	t.Run("cabin template", func(t *testing.T) {
		e, st, _ := newTestEngine(t, nil)
		f := seedFlight(t, e, "2026-06-01")
		rows, _ := st.ByFlight(context.Background(), f.ID)

		perCabin := map[string]int{}
		for _, s := range rows {
			perCabin[s.CabinClass]++
		}
		assert.Equal(t, 16, perCabin[model.CabinBusiness])
		assert.Equal(t, 24, perCabin[model.CabinPremium])
		assert.Equal(t, 132, perCabin[model.CabinEconomy])
	})
}

func TestHold(t *testing.T) {
	ctx := context.Background()

	t.Run("multi-seat hold prices progressively and syncs counters", func(t *testing.T) {
		e, st, _ := newTestEngine(t, nil)
		f := seedFlight(t, e, "2026-06-01")
		seats := availableSeats(t, st, f.ID, model.CabinEconomy, 3)
		before, _ := st.ByID(ctx, f.ID)

		b, err := e.Hold(ctx, 7, HoldInput{
			FlightID:    f.ID,
			Passengers:  passengers(3),
			SeatNumbers: seats,
			HoldMinutes: 30,
		})
		require.NoError(t, err)
		assert.Equal(t, model.BookingHold, b.Status)
		assert.Equal(t, model.PaymentPending, b.PaymentStatus)
		assert.Equal(t, "INR", b.Currency)
		assert.Equal(t, testNow.Add(30*time.Minute), b.HoldExpiresAt)

		rows, err := st.Assignments(ctx, b.ID)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		sum := 0.0
		for i, sa := range rows {
			sum += sa.Price
			if i > 0 {
				assert.GreaterOrEqual(t, sa.Price, rows[i-1].Price, "later seat priced lower")
			}
		}
		assert.Equal(t, sum, b.TotalAmount)

		after, _ := st.ByID(ctx, f.ID)
		assert.Equal(t, before.SeatsLeft-3, after.SeatsLeft)
		requireCountersConsistent(t, st, f.ID)
		for _, n := range seats {
			seat := st.seatBySeatNumber(f.ID, n)
			assert.Equal(t, model.SourceBooking, seat.ReservationSource)
			require.NotNil(t, seat.BookingID)
			assert.Equal(t, b.ID, *seat.BookingID)
		}
	})

	t.Run("hold window clamps to 5..60 minutes", func(t *testing.T) {
		e, st, _ := newTestEngine(t, nil)
		f := seedFlight(t, e, "2026-06-01")

		low, err := e.Hold(ctx, 1, HoldInput{
			FlightID:    f.ID,
			Passengers:  passengers(1),
			SeatNumbers: availableSeats(t, st, f.ID, model.CabinEconomy, 1),
			HoldMinutes: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, testNow.Add(5*time.Minute), low.HoldExpiresAt)

		high, err := e.Hold(ctx, 1, HoldInput{
			FlightID:    f.ID,
			Passengers:  passengers(1),
			SeatNumbers: availableSeats(t, st, f.ID, model.CabinEconomy, 1),
			HoldMinutes: 240,
		})
		require.NoError(t, err)
		assert.Equal(t, testNow.Add(60*time.Minute), high.HoldExpiresAt)
	})

	t.Run("business cabin carries the tier multiplier", func(t *testing.T) {
		e, st, _ := newTestEngine(t, nil)
		f := seedFlight(t, e, "2026-06-01")

		eco, err := e.Hold(ctx, 1, HoldInput{
			FlightID:    f.ID,
			Passengers:  passengers(1),
			SeatNumbers: availableSeats(t, st, f.ID, model.CabinEconomy, 1),
		})
		require.NoError(t, err)
		biz, err := e.Hold(ctx, 1, HoldInput{
			FlightID:    f.ID,
			Passengers:  passengers(1),
			SeatNumbers: availableSeats(t, st, f.ID, model.CabinBusiness, 1),
		})
		require.NoError(t, err)
		assert.Greater(t, biz.TotalAmount, eco.TotalAmount)
	})

	t.Run("conflict reserves nothing", func(t *testing.T) {
		e, st, _ := newTestEngine(t, nil)
		f := seedFlight(t, e, "2026-06-01")
		seats := availableSeats(t, st, f.ID, model.CabinEconomy, 2)

		_, err := e.Hold(ctx, 1, HoldInput{
			FlightID:    f.ID,
			Passengers:  passengers(1),
			SeatNumbers: seats[:1],
		})
		require.NoError(t, err)
		before, _ := st.ByID(ctx, f.ID)

		_, err = e.Hold(ctx, 2, HoldInput{
			FlightID:    f.ID,
			Passengers:  passengers(2),
			SeatNumbers: []string{seats[1], seats[0]}, // second one collides
		})
		require.ErrorIs(t, err, ErrSeatConflict)

		free := st.seatBySeatNumber(f.ID, seats[1])
		assert.Equal(t, model.SourceAvailable, free.ReservationSource, "non-colliding seat must stay free")
		after, _ := st.ByID(ctx, f.ID)
		assert.Equal(t, before.SeatsLeft, after.SeatsLeft)
	})

	t.Run("input validation", func(t *testing.T) {
		e, st, _ := newTestEngine(t, nil)
		f := seedFlight(t, e, "2026-06-01")
		seat := availableSeats(t, st, f.ID, model.CabinEconomy, 1)

		_, err := e.Hold(ctx, 1, HoldInput{FlightID: f.ID, Passengers: passengers(2), SeatNumbers: seat})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = e.Hold(ctx, 1, HoldInput{FlightID: f.ID, Passengers: passengers(2), SeatNumbers: []string{seat[0], seat[0]}})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = e.Hold(ctx, 1, HoldInput{FlightID: 999, Passengers: passengers(1), SeatNumbers: seat})
		assert.ErrorIs(t, err, ErrFlightNotFound)

		_, err = e.Hold(ctx, 1, HoldInput{FlightID: f.ID, Passengers: passengers(1), SeatNumbers: []string{"99Z"}})
		assert.ErrorIs(t, err, ErrSeatNotFound)
	})

	t.Run("departed flight rejected", func(t *testing.T) {
		e, st, _ := newTestEngine(t, nil)
		f := seedFlight(t, e, "2026-01-05") // before testNow
		_, err := e.Hold(ctx, 1, HoldInput{
			FlightID:    f.ID,
			Passengers:  passengers(1),
			SeatNumbers: availableSeats(t, st, f.ID, model.CabinEconomy, 1),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestConcurrentHoldRace(t *testing.T) {
	ctx := context.Background()
	e, st, _ := newTestEngine(t, nil)
	f := seedFlight(t, e, "2026-06-01")
	seat := availableSeats(t, st, f.ID, model.CabinEconomy, 1)
	before, _ := st.ByID(ctx, f.ID)

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = e.Hold(ctx, uint64(i+1), HoldInput{
				FlightID:    f.ID,
				Passengers:  passengers(1),
				SeatNumbers: seat,
			})
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrSeatConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)

	after, _ := st.ByID(ctx, f.ID)
	assert.Equal(t, before.SeatsLeft-1, after.SeatsLeft)
	requireCountersConsistent(t, st, f.ID)
}

func holdOne(t *testing.T, e *Engine, st *memStore, f *model.FlightMarket, userID uint64, minutes int) (*model.Booking, string) {
	t.Helper()
	seat := availableSeats(t, st, f.ID, model.CabinEconomy, 1)
	b, err := e.Hold(context.Background(), userID, HoldInput{
		FlightID:    f.ID,
		Passengers:  passengers(1),
		SeatNumbers: seat,
		HoldMinutes: minutes,
	})
	require.NoError(t, err)
	return b, seat[0]
}

var pnrPattern = regexp.MustCompile(`^[A-Z]{3}[0-9]{3}$`)

func TestPay(t *testing.T) {
	ctx := context.Background()

	t.Run("forced success confirms and assigns a PNR", func(t *testing.T) {
		e, st, _ := newTestEngine(t, nil)
		f := seedFlight(t, e, "2026-06-01")
		b, seat := holdOne(t, e, st, f, 7, 15)

		paid, err := e.Pay(ctx, 7, b.ID, OutcomeSuccess)
		require.NoError(t, err)
		assert.Equal(t, model.BookingConfirmed, paid.Status)
		assert.Equal(t, model.PaymentSuccess, paid.PaymentStatus)
		assert.Equal(t, 1, paid.PaymentAttempts)
		require.NotNil(t, paid.PNR)
		assert.Regexp(t, pnrPattern, *paid.PNR)
		require.NotNil(t, paid.PaymentRef)
		assert.Contains(t, *paid.PaymentRef, "PAY-")

		row := st.seatBySeatNumber(f.ID, seat)
		assert.Equal(t, model.SourceBooking, row.ReservationSource)
	})

	t.Run("forced failure releases seats but persists the attempt", func(t *testing.T) {
		e, st, _ := newTestEngine(t, nil)
		f := seedFlight(t, e, "2026-06-01")
		b, seat := holdOne(t, e, st, f, 7, 15)
		before, _ := st.ByID(ctx, f.ID)

		_, err := e.Pay(ctx, 7, b.ID, OutcomeFail)
		require.ErrorIs(t, err, ErrPaymentDeclined)

		stored := st.bookingView(b.ID)
		assert.Equal(t, model.BookingPaymentFailed, stored.Status)
		assert.Equal(t, model.PaymentFailed, stored.PaymentStatus)
		assert.Equal(t, 1, stored.PaymentAttempts)
		assert.NotNil(t, stored.PaymentRef)

		row := st.seatBySeatNumber(f.ID, seat)
		assert.Equal(t, model.SourceAvailable, row.ReservationSource)
		after, _ := st.ByID(ctx, f.ID)
		assert.Equal(t, before.SeatsLeft+1, after.SeatsLeft)
		requireCountersConsistent(t, st, f.ID)

		// PAYMENT_FAILED may be retried back toward CONFIRMED.
		paid, err := e.Pay(ctx, 7, b.ID, OutcomeSuccess)
		require.NoError(t, err)
		assert.Equal(t, model.BookingConfirmed, paid.Status)
		assert.Equal(t, 2, paid.PaymentAttempts)
	})

	t.Run("hold expiry beats a forced success", func(t *testing.T) {
		e, st, clk := newTestEngine(t, nil)
		f := seedFlight(t, e, "2026-06-01")
		b, seat := holdOne(t, e, st, f, 7, 5)

		clk.Advance(6 * time.Minute)
		_, err := e.Pay(ctx, 7, b.ID, OutcomeSuccess)
		require.ErrorIs(t, err, ErrHoldExpired)

		stored := st.bookingView(b.ID)
		assert.Equal(t, model.BookingExpired, stored.Status)
		assert.Equal(t, model.PaymentFailed, stored.PaymentStatus)
		assert.Equal(t, 0, stored.PaymentAttempts)

		row := st.seatBySeatNumber(f.ID, seat)
		assert.Equal(t, model.SourceAvailable, row.ReservationSource)
		requireCountersConsistent(t, st, f.ID)

		// Terminal: a later payment call is a wrong-state error.
		_, err = e.Pay(ctx, 7, b.ID, OutcomeSuccess)
		assert.ErrorIs(t, err, ErrWrongState)
	})

	t.Run("guards", func(t *testing.T) {
		e, st, _ := newTestEngine(t, nil)
		f := seedFlight(t, e, "2026-06-01")
		b, _ := holdOne(t, e, st, f, 7, 15)

		_, err := e.Pay(ctx, 8, b.ID, OutcomeSuccess)
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = e.Pay(ctx, 7, b.ID, "MAYBE")
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = e.Pay(ctx, 7, 404, OutcomeSuccess)
		assert.ErrorIs(t, err, ErrBookingNotFound)

		_, err = e.Pay(ctx, 7, b.ID, OutcomeSuccess)
		require.NoError(t, err)
		_, err = e.Pay(ctx, 7, b.ID, OutcomeSuccess)
		assert.ErrorIs(t, err, ErrWrongState, "confirmed booking cannot be paid again")
	})

	t.Run("PNR falls back to a timestamp code when every draw collides", func(t *testing.T) {
		e, st, _ := newTestEngine(t, nil)
		st.pnrAlwaysTaken = true
		f := seedFlight(t, e, "2026-06-01")
		b, _ := holdOne(t, e, st, f, 7, 15)

		paid, err := e.Pay(ctx, 7, b.ID, OutcomeSuccess)
		require.NoError(t, err)
		require.NotNil(t, paid.PNR)
		assert.Len(t, *paid.PNR, 6)
		assert.NotRegexp(t, pnrPattern, *paid.PNR)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("releases seats and is idempotent", func(t *testing.T) {
		e, st, _ := newTestEngine(t, nil)
		f := seedFlight(t, e, "2026-06-01")
		b, seat := holdOne(t, e, st, f, 7, 15)

		first, err := e.Cancel(ctx, 7, model.RoleUser, b.ID)
		require.NoError(t, err)
		assert.Equal(t, model.BookingCancelled, first.Status)

		row := st.seatBySeatNumber(f.ID, seat)
		assert.Equal(t, model.SourceAvailable, row.ReservationSource)
		requireCountersConsistent(t, st, f.ID)

		flightBefore, _ := st.ByID(ctx, f.ID)
		second, err := e.Cancel(ctx, 7, model.RoleUser, b.ID)
		require.NoError(t, err)
		assert.Equal(t, model.BookingCancelled, second.Status)
		flightAfter, _ := st.ByID(ctx, f.ID)
		assert.Equal(t, flightBefore.LastUpdated, flightAfter.LastUpdated, "second cancel must not touch the flight")
	})

	t.Run("refunds a paid booking", func(t *testing.T) {
		e, st, _ := newTestEngine(t, nil)
		f := seedFlight(t, e, "2026-06-01")
		b, _ := holdOne(t, e, st, f, 7, 15)
		_, err := e.Pay(ctx, 7, b.ID, OutcomeSuccess)
		require.NoError(t, err)

		cancelled, err := e.Cancel(ctx, 7, model.RoleUser, b.ID)
		require.NoError(t, err)
		assert.Equal(t, model.BookingCancelled, cancelled.Status)
		assert.Equal(t, model.PaymentRefunded, cancelled.PaymentStatus)
	})

	t.Run("ownership", func(t *testing.T) {
		e, st, _ := newTestEngine(t, nil)
		f := seedFlight(t, e, "2026-06-01")
		b, _ := holdOne(t, e, st, f, 7, 15)

		_, err := e.Cancel(ctx, 8, model.RoleUser, b.ID)
		assert.ErrorIs(t, err, ErrForbidden)

		// An admin may cancel anyone's booking.
		cancelled, err := e.Cancel(ctx, 8, model.RoleAdmin, b.ID)
		require.NoError(t, err)
		assert.Equal(t, model.BookingCancelled, cancelled.Status)
	})

	t.Run("keeps assignments for history", func(t *testing.T) {
		e, st, _ := newTestEngine(t, nil)
		f := seedFlight(t, e, "2026-06-01")
		b, seat := holdOne(t, e, st, f, 7, 15)
		_, err := e.Cancel(ctx, 7, model.RoleUser, b.ID)
		require.NoError(t, err)

		_, rows, err := e.GetBooking(ctx, 7, model.RoleUser, b.ID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, seat, rows[0].SeatNumber)
	})
}

func TestSimulator(t *testing.T) {
	ctx := context.Background()
	e, st, _ := newTestEngine(t, nil)
	f := seedFlight(t, e, "2026-06-01")
	b, seat := holdOne(t, e, st, f, 7, 15)
	_ = b

	sim := NewSimulator(e, time.Second, nil)
	const ticks = 25
	for i := 0; i < ticks; i++ {
		require.NoError(t, sim.Tick(ctx))
	}

	// A booked seat is never touched by market activity.
	row := st.seatBySeatNumber(f.ID, seat)
	assert.Equal(t, model.SourceBooking, row.ReservationSource)

	updated, _ := st.ByID(ctx, f.ID)
	assert.GreaterOrEqual(t, updated.DemandScore, 0.0)
	assert.LessOrEqual(t, updated.DemandScore, 1.0)
	requireCountersConsistent(t, st, f.ID)

	samples, err := st.FaresByFlight(ctx, f.ID)
	require.NoError(t, err)
	// One sample per tick plus the one appended by the hold.
	assert.Len(t, samples, ticks+1)
}

func TestSearchAndQuotes(t *testing.T) {
	ctx := context.Background()
	sched := &fakeSchedule{deps: []Departure{
		{FlightNumber: "AI342", Airline: "Air India", DepartureTime: "2026-06-01 06:00", ArrivalTime: "2026-06-01 08:05"},
		{FlightNumber: "6E201", Airline: "IndiGo", DepartureTime: "2026-06-01 09:30", ArrivalTime: "2026-06-01 11:20"},
	}}
	e, st, _ := newTestEngine(t, sched)

	quotes, err := e.Search(ctx, "PNQ", "DEL", "2026-06-01")
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	for _, q := range quotes {
		assert.Greater(t, q.Price, 0.0)
		require.Len(t, q.Cabins, 3)
		assert.Greater(t, q.Cabins[1].Price, q.Cabins[0].Price, "premium above economy")
		assert.Greater(t, q.Cabins[2].Price, q.Cabins[1].Price, "business above premium")
	}

	// A repeated search reuses the market records it created.
	again, err := e.Search(ctx, "PNQ", "DEL", "2026-06-01")
	require.NoError(t, err)
	flights, _ := st.List(ctx)
	assert.Len(t, flights, 2)
	assert.Equal(t, quotes[0].Flight.BaseFare, again[0].Flight.BaseFare, "base fare fixed at creation")

	t.Run("validation", func(t *testing.T) {
		_, err := e.Search(ctx, "", "DEL", "2026-06-01")
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = e.Search(ctx, "PNQ", "DEL", "01-06-2026")
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = e.Search(ctx, "PNQ", "DEL", "2025-06-01")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("fare history", func(t *testing.T) {
		f, samples, err := e.FareHistory(ctx, "AI342", "2026-06-01")
		require.NoError(t, err)
		assert.Equal(t, "AI342", f.FlightNumber)
		assert.Len(t, samples, 2) // one per search

		_, _, err = e.FareHistory(ctx, "XX999", "2026-06-01")
		assert.ErrorIs(t, err, ErrFlightNotFound)
	})

	t.Run("seat map", func(t *testing.T) {
		f, seats, err := e.SeatMap(ctx, quotes[0].Flight.ID)
		require.NoError(t, err)
		assert.Len(t, seats, 172)
		for _, sq := range seats {
			assert.Greater(t, sq.Price, 0.0)
		}
		assert.Equal(t, quotes[0].Flight.ID, f.ID)

		_, _, err = e.SeatMap(ctx, 999)
		assert.ErrorIs(t, err, ErrFlightNotFound)
	})

	t.Run("list flights sorted by price", func(t *testing.T) {
		listed, err := e.ListFlights(ctx, "price")
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.LessOrEqual(t, listed[0].Price, listed[1].Price)
	})

	t.Run("list flights sorted by duration", func(t *testing.T) {
		listed, err := e.ListFlights(ctx, "duration")
		require.NoError(t, err)
		require.Len(t, listed, 2)
		// 6E201 flies 1h50m, AI342 2h05m.
		assert.Equal(t, "6E201", listed[0].Flight.FlightNumber)
		assert.Equal(t, "2026-06-01 09:30", listed[0].DepartureTime)
		assert.Equal(t, "2026-06-01 11:20", listed[0].ArrivalTime)
	})
}
