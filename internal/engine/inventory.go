package engine

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"

	"github.com/iliyamo/flight-seat-reservation/internal/model"
)

// Fixed single-aisle cabin template applied to every flight:
// BUSINESS rows 1-4 (no middle seats), PREMIUM rows 5-8, ECONOMY rows
// 9-30.  172 seats in total.
var cabinLayout = []struct {
	class    string
	firstRow int
	lastRow  int
	letters  []string
}{
	{model.CabinBusiness, 1, 4, []string{"A", "C", "D", "F"}},
	{model.CabinPremium, 5, 8, []string{"A", "B", "C", "D", "E", "F"}},
	{model.CabinEconomy, 9, 30, []string{"A", "B", "C", "D", "E", "F"}},
}

// preBlockRatio is the share of seats marked BLOCKED at generation time
// to emulate airline-held inventory.
const preBlockRatio = 0.08

// layoutSeed derives a stable PRNG seed from the flight identity tuple
// so the generated layout, including the pre-blocked set, is
// reproducible across restarts.
func layoutSeed(key string) int64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return int64(h.Sum64())
}

// EnsureLayout generates the seat map for a flight that has none yet
// and refreshes the record's seat counters.  Calling it when seats
// already exist is a no-op.
func (e *Engine) EnsureLayout(ctx context.Context, f *model.FlightMarket) error {
	unlock := e.locks.acquire(f.Key())
	defer unlock()
	return e.ensureLayoutLocked(ctx, f)
}

func (e *Engine) ensureLayoutLocked(ctx context.Context, f *model.FlightMarket) error {
	existing, err := e.seats.ByFlight(ctx, f.ID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(layoutSeed(f.Key())))
	var seats []model.Seat
	for _, cabin := range cabinLayout {
		for row := cabin.firstRow; row <= cabin.lastRow; row++ {
			for _, letter := range cabin.letters {
				source := model.SourceAvailable
				if rng.Float64() < preBlockRatio {
					source = model.SourceBlocked
				}
				seats = append(seats, model.Seat{
					FlightID:          f.ID,
					SeatNumber:        fmt.Sprintf("%d%s", row, letter),
					CabinClass:        cabin.class,
					IsReserved:        source != model.SourceAvailable,
					ReservationSource: source,
				})
			}
		}
	}
	if err := e.seats.CreateBulk(ctx, seats); err != nil {
		return err
	}
	return e.syncCountersLocked(ctx, f)
}

// SyncCounters recomputes seats_left/seats_total from live seat rows
// and timestamps the market record.  Used to self-heal after any batch
// mutation.
func (e *Engine) SyncCounters(ctx context.Context, f *model.FlightMarket) error {
	unlock := e.locks.acquire(f.Key())
	defer unlock()
	return e.syncCountersLocked(ctx, f)
}

func (e *Engine) syncCountersLocked(ctx context.Context, f *model.FlightMarket) error {
	total, available, err := e.seats.Counts(ctx, f.ID)
	if err != nil {
		return err
	}
	f.SeatsTotal = total
	f.SeatsLeft = available
	f.LastUpdated = e.clock.Now()
	return e.flights.Update(ctx, f)
}

// releaseSeatsLocked frees every seat owned by the booking and resyncs
// the flight's counters.  Returns the number of seats released; zero
// when the booking holds none.
func (e *Engine) releaseSeatsLocked(ctx context.Context, f *model.FlightMarket, bookingID uint64) (int, error) {
	released, err := e.seats.ReleaseByBooking(ctx, bookingID)
	if err != nil {
		return 0, err
	}
	if err := e.syncCountersLocked(ctx, f); err != nil {
		return released, err
	}
	return released, nil
}
