// Package schedule simulates the external flight schedule provider.
// Departures are generated deterministically from the route and date so
// repeated searches see the same flights, mirroring a stable upstream
// feed without network calls.
package schedule

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/iliyamo/flight-seat-reservation/internal/engine"
)

// carriers is the simulated airline roster.
var carriers = []struct {
	name string
	code string
}{
	{"Air India", "AI"},
	{"IndiGo", "6E"},
	{"SpiceJet", "SG"},
	{"Vistara", "UK"},
}

// Simulated produces deterministic departures per (origin, destination,
// date).  It satisfies engine.ScheduleSource.
type Simulated struct{}

// NewSimulated returns the simulated schedule source.
func NewSimulated() *Simulated { return &Simulated{} }

// Departures generates between three and six flights for the route,
// seeded from the (origin, destination, date) tuple.  Departure times
// spread across the day; durations run 90 minutes to 4 hours.
func (s *Simulated) Departures(origin, destination, date string) ([]engine.Departure, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("schedule: bad date %q: %w", date, err)
	}

	rng := rand.New(rand.NewSource(routeSeed(origin, destination, date)))
	n := 3 + rng.Intn(4)

	seen := make(map[string]struct{}, n)
	deps := make([]engine.Departure, 0, n)
	for len(deps) < n {
		carrier := carriers[rng.Intn(len(carriers))]
		number := fmt.Sprintf("%s%d", carrier.code, 100+rng.Intn(900))
		if _, dup := seen[number]; dup {
			continue
		}
		seen[number] = struct{}{}

		depart := day.Add(time.Duration(5+rng.Intn(17)) * time.Hour).
			Add(time.Duration(rng.Intn(12)*5) * time.Minute)
		arrive := depart.Add(90 * time.Minute).Add(time.Duration(rng.Intn(31)*5) * time.Minute)

		deps = append(deps, engine.Departure{
			FlightNumber:  number,
			Airline:       carrier.name,
			DepartureTime: depart.Format("2006-01-02 15:04"),
			ArrivalTime:   arrive.Format("2006-01-02 15:04"),
		})
	}
	return deps, nil
}

func routeSeed(origin, destination, date string) int64 {
	h := fnv.New64a()
	h.Write([]byte(origin + "|" + destination + "|" + date))
	return int64(h.Sum64())
}
