package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/iliyamo/flight-seat-reservation/internal/model"
	"github.com/iliyamo/flight-seat-reservation/internal/pricing"
)

// CabinQuote is the per-cabin price breakdown returned with search
// results.
type CabinQuote struct {
	CabinClass string  `json:"cabin_class"`
	SeatsLeft  int     `json:"seats_left"`
	Price      float64 `json:"seat_price"`
}

// FlightQuote pairs a market record with its live economy quote and
// schedule metadata.
type FlightQuote struct {
	Flight        *model.FlightMarket
	DepartureTime string
	ArrivalTime   string
	Price         float64
	Cabins        []CabinQuote
}

// SeatQuote is one seat of the seat map with its live quoted price.
type SeatQuote struct {
	Seat  model.Seat
	Price float64
}

// Search asks the schedule source for departures on the route and
// date, ensures a market record and seat layout for each, and returns
// live quotes with a per-cabin breakdown.  Each priced flight gets one
// fare history sample appended.
func (e *Engine) Search(ctx context.Context, origin, destination, date string) ([]FlightQuote, error) {
	if origin == "" || destination == "" {
		return nil, fmt.Errorf("%w: origin and destination are required", ErrInvalidInput)
	}
	if _, err := time.Parse(pricing.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if e.departed(date) {
		return nil, fmt.Errorf("%w: date %s is in the past", ErrInvalidInput, date)
	}
	if e.schedule == nil {
		return nil, fmt.Errorf("no schedule source configured")
	}

	deps, err := e.schedule.Departures(origin, destination, date)
	if err != nil {
		return nil, err
	}

	quotes := make([]FlightQuote, 0, len(deps))
	for _, dep := range deps {
		ref := FlightRef{
			FlightNumber: dep.FlightNumber,
			Airline:      dep.Airline,
			Origin:       origin,
			Destination:  destination,
			Date:         date,
		}
		q, err := e.quoteFlight(ctx, ref, dep)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

func (e *Engine) quoteFlight(ctx context.Context, ref FlightRef, dep Departure) (FlightQuote, error) {
	unlock := e.locks.acquire(ref.key())
	defer unlock()

	f, err := e.ensureFlightLocked(ctx, ref)
	if err != nil {
		return FlightQuote{}, err
	}
	if err := e.ensureLayoutLocked(ctx, f); err != nil {
		return FlightQuote{}, err
	}
	cabins, err := e.cabinQuotesLocked(ctx, f)
	if err != nil {
		return FlightQuote{}, err
	}
	if err := e.appendFareSampleLocked(ctx, f); err != nil {
		return FlightQuote{}, err
	}
	return FlightQuote{
		Flight:        f,
		DepartureTime: dep.DepartureTime,
		ArrivalTime:   dep.ArrivalTime,
		Price:         e.quoteLocked(f, 1.0),
		Cabins:        cabins,
	}, nil
}

// cabinQuotesLocked prices one seat per cabin class at the flight's
// current scarcity, ordered economy first.
func (e *Engine) cabinQuotesLocked(ctx context.Context, f *model.FlightMarket) ([]CabinQuote, error) {
	rows, err := e.seats.ByFlight(ctx, f.ID)
	if err != nil {
		return nil, err
	}
	available := map[string]int{}
	for _, s := range rows {
		if s.ReservationSource == model.SourceAvailable {
			available[s.CabinClass]++
		}
	}
	order := []string{model.CabinEconomy, model.CabinPremium, model.CabinBusiness}
	quotes := make([]CabinQuote, 0, len(order))
	for _, class := range order {
		quotes = append(quotes, CabinQuote{
			CabinClass: class,
			SeatsLeft:  available[class],
			Price:      e.quoteLocked(f, pricing.TierMultiplier(class)),
		})
	}
	return quotes, nil
}

// SeatMap returns every seat of the flight with its cabin class,
// reservation flag and a live per-seat quote.
func (e *Engine) SeatMap(ctx context.Context, flightID uint64) (*model.FlightMarket, []SeatQuote, error) {
	f, err := e.flights.ByID(ctx, flightID)
	if err != nil {
		return nil, nil, err
	}
	if f == nil {
		return nil, nil, fmt.Errorf("%w: id %d", ErrFlightNotFound, flightID)
	}

	unlock := e.locks.acquire(f.Key())
	defer unlock()

	if err := e.ensureLayoutLocked(ctx, f); err != nil {
		return nil, nil, err
	}
	rows, err := e.seats.ByFlight(ctx, f.ID)
	if err != nil {
		return nil, nil, err
	}
	quotes := make([]SeatQuote, 0, len(rows))
	for _, s := range rows {
		quotes = append(quotes, SeatQuote{
			Seat:  s,
			Price: e.quoteLocked(f, pricing.TierMultiplier(s.CabinClass)),
		})
	}
	return f, quotes, nil
}

// ListFlights returns every known market record with a live economy
// quote and, where the schedule source still reports the flight, its
// departure and arrival times.  sortBy "price" orders cheapest first,
// "duration" shortest first (unscheduled flights sort last); anything
// else keeps date order.
func (e *Engine) ListFlights(ctx context.Context, sortBy string) ([]FlightQuote, error) {
	flights, err := e.flights.List(ctx)
	if err != nil {
		return nil, err
	}
	// One schedule lookup per route+date, not per flight.
	type routeKey struct{ origin, destination, date string }
	type listed struct {
		quote    FlightQuote
		duration time.Duration
	}
	byRoute := map[routeKey]map[string]Departure{}
	rows := make([]listed, 0, len(flights))
	for i := range flights {
		f := &flights[i]
		row := listed{quote: FlightQuote{
			Flight: f,
			Price:  e.quoteLocked(f, 1.0),
		}}
		if e.schedule != nil {
			rk := routeKey{f.Origin, f.Destination, f.Date}
			deps, ok := byRoute[rk]
			if !ok {
				deps = map[string]Departure{}
				if route, err := e.schedule.Departures(f.Origin, f.Destination, f.Date); err == nil {
					for _, d := range route {
						deps[d.FlightNumber] = d
					}
				}
				byRoute[rk] = deps
			}
			if d, ok := deps[f.FlightNumber]; ok {
				row.quote.DepartureTime = d.DepartureTime
				row.quote.ArrivalTime = d.ArrivalTime
				row.duration = scheduleDuration(d)
			}
		}
		rows = append(rows, row)
	}
	switch sortBy {
	case "price":
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].quote.Price < rows[j].quote.Price })
	case "duration":
		sort.SliceStable(rows, func(i, j int) bool {
			di, dj := rows[i].duration, rows[j].duration
			if di == 0 {
				return false
			}
			if dj == 0 {
				return true
			}
			return di < dj
		})
	default:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].quote.Flight.Date < rows[j].quote.Flight.Date })
	}
	quotes := make([]FlightQuote, 0, len(rows))
	for _, row := range rows {
		quotes = append(quotes, row.quote)
	}
	return quotes, nil
}

const scheduleTimeLayout = "2006-01-02 15:04"

func scheduleDuration(d Departure) time.Duration {
	dep, err1 := time.Parse(scheduleTimeLayout, d.DepartureTime)
	arr, err2 := time.Parse(scheduleTimeLayout, d.ArrivalTime)
	if err1 != nil || err2 != nil || !arr.After(dep) {
		return 0
	}
	return arr.Sub(dep)
}
