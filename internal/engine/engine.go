package engine

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/flight-seat-reservation/internal/clock"
	"github.com/iliyamo/flight-seat-reservation/internal/model"
	"github.com/iliyamo/flight-seat-reservation/internal/pricing"
)

// Randomized ranges for lazily created market records.  Base fare and
// the seat layout are fixed once at creation; only demand and occupancy
// move prices afterwards.
const (
	baseFareMin  = 2500.0
	baseFareStep = 50.0
	baseFareMax  = 6000.0

	demandInitMin  = 0.15
	demandInitSpan = 0.20
)

// Engine owns the seat reservation and pricing core.  All mutating
// operations take the per-flight lock from the lock table, making the
// check-then-write sequences atomic per flight with respect to both
// concurrent requests and the market simulator.
type Engine struct {
	flights  FlightStore
	seats    SeatStore
	bookings BookingStore
	fares    FareStore
	schedule ScheduleSource
	clock    clock.Clock
	locks    *lockTable

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New wires an Engine.  A nil clk defaults to the system clock and a
// nil rng to a time-seeded source; tests pass fixed ones.
func New(flights FlightStore, seats SeatStore, bookings BookingStore, fares FareStore, schedule ScheduleSource, clk clock.Clock, rng *rand.Rand) *Engine {
	if flights == nil || seats == nil || bookings == nil || fares == nil {
		panic("nil store passed to engine.New")
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		flights:  flights,
		seats:    seats,
		bookings: bookings,
		fares:    fares,
		schedule: schedule,
		clock:    clk,
		locks:    newLockTable(),
		rng:      rng,
	}
}

// FlightRef identifies a flight as reported by the schedule source.
type FlightRef struct {
	FlightNumber string
	Airline      string
	Origin       string
	Destination  string
	Date         string
}

func (r FlightRef) key() string {
	return r.FlightNumber + "|" + r.Date + "|" + r.Origin + "|" + r.Destination
}

// EnsureFlight returns the market record for the given flight identity,
// creating it with a randomized base fare and starting demand when it
// is referenced for the first time.  The airline label is updated
// last-write-wins on existing records.
func (e *Engine) EnsureFlight(ctx context.Context, ref FlightRef) (*model.FlightMarket, error) {
	unlock := e.locks.acquire(ref.key())
	defer unlock()
	return e.ensureFlightLocked(ctx, ref)
}

func (e *Engine) ensureFlightLocked(ctx context.Context, ref FlightRef) (*model.FlightMarket, error) {
	f, err := e.flights.FindByKey(ctx, ref.FlightNumber, ref.Date, ref.Origin, ref.Destination)
	if err != nil {
		return nil, err
	}
	if f != nil {
		if ref.Airline != "" && ref.Airline != f.Airline {
			f.Airline = ref.Airline
			f.LastUpdated = e.clock.Now()
			if err := e.flights.Update(ctx, f); err != nil {
				return nil, err
			}
		}
		return f, nil
	}

	f = &model.FlightMarket{
		FlightNumber: ref.FlightNumber,
		Airline:      ref.Airline,
		Origin:       ref.Origin,
		Destination:  ref.Destination,
		Date:         ref.Date,
		BaseFare:     e.randomBaseFare(),
		DemandScore:  demandInitMin + e.randFloat()*demandInitSpan,
		LastUpdated:  e.clock.Now(),
	}
	if err := e.flights.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (e *Engine) randomBaseFare() float64 {
	steps := int((baseFareMax-baseFareMin)/baseFareStep) + 1
	return baseFareMin + float64(e.randIntn(steps))*baseFareStep
}

// quoteLocked prices one seat of the flight at its current state.
func (e *Engine) quoteLocked(f *model.FlightMarket, tierMultiplier float64) float64 {
	return pricing.Quote(f.BaseFare, f.SeatsLeft, f.SeatsTotal, f.DemandScore, f.Date, tierMultiplier, e.clock.Now())
}

// appendFareSampleLocked records the current full-fare quote in the
// flight's fare history.
func (e *Engine) appendFareSampleLocked(ctx context.Context, f *model.FlightMarket) error {
	return e.fares.Append(ctx, &model.FareSample{
		FlightID:  f.ID,
		Timestamp: e.clock.Now(),
		Price:     e.quoteLocked(f, 1.0),
	})
}

// FareHistory returns the full time-ordered fare series for a flight
// identified by number and date.
func (e *Engine) FareHistory(ctx context.Context, flightNumber, date string) (*model.FlightMarket, []model.FareSample, error) {
	f, err := e.flights.FindByNumberAndDate(ctx, flightNumber, date)
	if err != nil {
		return nil, nil, err
	}
	if f == nil {
		return nil, nil, fmt.Errorf("%w: %s on %s", ErrFlightNotFound, flightNumber, date)
	}
	samples, err := e.fares.ByFlight(ctx, f.ID)
	if err != nil {
		return nil, nil, err
	}
	return f, samples, nil
}

func (e *Engine) randFloat() float64 {
	e.rngMu.Lock()
	v := e.rng.Float64()
	e.rngMu.Unlock()
	return v
}

func (e *Engine) randIntn(n int) int {
	e.rngMu.Lock()
	v := e.rng.Intn(n)
	e.rngMu.Unlock()
	return v
}

// departed reports whether the flight date lies strictly before today.
// A malformed stored date counts as departed so it cannot be booked.
func (e *Engine) departed(date string) bool {
	dep, err := time.Parse(pricing.DateLayout, date)
	if err != nil {
		return true
	}
	today := e.clock.Now().Truncate(24 * time.Hour)
	return dep.Before(today)
}

func normalizeOutcome(v string) (string, error) {
	v = strings.ToUpper(strings.TrimSpace(v))
	switch v {
	case "", OutcomeSuccess, OutcomeFail:
		return v, nil
	}
	return "", fmt.Errorf("%w: unknown payment outcome %q", ErrInvalidInput, v)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
