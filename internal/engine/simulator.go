package engine

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/flight-seat-reservation/internal/model"
)

// Per-tick market behaviour: demand drifts inside a bounded random
// walk biased slightly upward, and a fraction of ticks blocks or frees
// one seat to emulate external market activity.
const (
	demandDriftMin  = -0.04
	demandDriftSpan = 0.12
	blockChance     = 0.25
	unblockChance   = 0.15
)

// Simulator ages every flight market record on a fixed interval.  It
// is the second concurrent writer next to the booking controller, so
// every per-flight step runs under the same flight lock the controller
// uses.  Per-tick failures are logged and swallowed; the loop only
// stops when its context is cancelled.
type Simulator struct {
	engine   *Engine
	interval time.Duration
	logger   *log.Logger
}

// NewSimulator builds a market simulator daemon for the engine.  A nil
// logger falls back to the standard logger.
func NewSimulator(e *Engine, interval time.Duration, logger *log.Logger) *Simulator {
	if interval <= 0 {
		interval = 20 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Simulator{engine: e, interval: interval, logger: logger}
}

// Run drives the tick loop until ctx is cancelled.  It always re-arms
// after the interval regardless of tick errors.
func (s *Simulator) Run(ctx context.Context) {
	s.logger.Printf("market-simulator: started (interval=%s)", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Printf("market-simulator: stopped")
			return
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				s.logger.Printf("market-simulator: tick failed: %v", err)
			}
		}
	}
}

// Tick ages every known flight once.  A failure on one flight is
// logged and does not stop the others.
func (s *Simulator) Tick(ctx context.Context) error {
	flights, err := s.engine.flights.List(ctx)
	if err != nil {
		return err
	}
	for i := range flights {
		if err := s.stepFlight(ctx, &flights[i]); err != nil {
			s.logger.Printf("market-simulator: flight %s %s: %v", flights[i].FlightNumber, flights[i].Date, err)
		}
	}
	return nil
}

// stepFlight applies one market tick to a single flight: layout
// backfill, demand drift, random block/unblock of non-booked seats,
// counter resync and one fare history sample.
func (s *Simulator) stepFlight(ctx context.Context, f *model.FlightMarket) error {
	e := s.engine
	unlock := e.locks.acquire(f.Key())
	defer unlock()

	// Covers flights created by means other than a search.
	if err := e.ensureLayoutLocked(ctx, f); err != nil {
		return err
	}

	f.DemandScore = clamp01(f.DemandScore + demandDriftMin + e.randFloat()*demandDriftSpan)

	if e.randFloat() < blockChance {
		if err := s.flipRandomSeat(ctx, f.ID, model.SourceAvailable, model.SourceBlocked); err != nil {
			return err
		}
	}
	if e.randFloat() < unblockChance {
		if err := s.flipRandomSeat(ctx, f.ID, model.SourceBlocked, model.SourceAvailable); err != nil {
			return err
		}
	}

	if err := e.syncCountersLocked(ctx, f); err != nil {
		return err
	}
	return e.appendFareSampleLocked(ctx, f)
}

// flipRandomSeat moves one random seat from one reservation source to
// another.  Only seats in the `from` source are candidates, so a
// BOOKING-owned seat is never touched.  No-op when no seat qualifies.
func (s *Simulator) flipRandomSeat(ctx context.Context, flightID uint64, from, to string) error {
	rows, err := s.engine.seats.ByFlight(ctx, flightID)
	if err != nil {
		return err
	}
	var candidates []model.Seat
	for _, seat := range rows {
		if seat.ReservationSource == from {
			candidates = append(candidates, seat)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	pick := candidates[s.engine.randIntn(len(candidates))]
	return s.engine.seats.SetSource(ctx, pick.ID, to)
}
