// Package pricing implements the dynamic fare calculator.  Quote is a
// pure function of its inputs; the reference time is passed in so that
// callers (and tests) control the urgency term.
package pricing

import (
	"math"
	"time"

	"github.com/iliyamo/flight-seat-reservation/internal/model"
)

const (
	scarcityWeight = 0.8 // scarcity raises price up to +80%
	urgencyWeight  = 0.6 // urgency raises price up to +60%
	demandWeight   = 0.7 // demand raises price up to +70%

	urgencyWindowDays = 30  // urgency is flat beyond this many days out
	floorRatio        = 0.5 // quotes never drop below half the base fare
)

// DateLayout is the wire format for flight dates.
const DateLayout = "2006-01-02"

// TierMultiplier returns the per-cabin scaling factor applied on top of
// the dynamic price.  Unknown cabin classes price as economy.
func TierMultiplier(cabinClass string) float64 {
	switch cabinClass {
	case model.CabinBusiness:
		return 1.6
	case model.CabinPremium:
		return 1.25
	default:
		return 1.0
	}
}

// Quote computes the dynamic price for one seat.  Inputs are clamped to
// valid ranges before use: seatsTotal ≥ 1, 0 ≤ seatsLeft ≤ seatsTotal,
// 0 ≤ demandScore ≤ 1.  An unparseable flightDate falls back to "now",
// which prices the flight as departing today.
func Quote(baseFare float64, seatsLeft, seatsTotal int, demandScore float64, flightDate string, tierMultiplier float64, now time.Time) float64 {
	if seatsTotal < 1 {
		seatsTotal = 1
	}
	if seatsLeft < 0 {
		seatsLeft = 0
	}
	if seatsLeft > seatsTotal {
		seatsLeft = seatsTotal
	}
	demandScore = clamp01(demandScore)
	if tierMultiplier <= 0 {
		tierMultiplier = 1.0
	}

	seatFactor := 1 + (1-float64(seatsLeft)/float64(seatsTotal))*scarcityWeight

	days := daysToDeparture(flightDate, now)
	urgency := float64(urgencyWindowDays-days) / urgencyWindowDays
	if urgency < 0 {
		urgency = 0
	}
	timeFactor := 1 + urgency*urgencyWeight

	demandFactor := 1 + demandScore*demandWeight

	raw := baseFare * seatFactor * timeFactor * demandFactor * tierMultiplier
	rounded := roundToDenomination(raw)

	if floor := baseFare * floorRatio; rounded < floor {
		rounded = floor
	}
	return rounded
}

// daysToDeparture returns the number of whole days between now and the
// flight date, never negative.
func daysToDeparture(flightDate string, now time.Time) int {
	dep, err := time.Parse(DateLayout, flightDate)
	if err != nil {
		dep = now
	}
	days := int(dep.Sub(now).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days
}

// roundToDenomination snaps the price to a step that grows with its
// magnitude: nearest 50 below 3000, nearest 100 below 10000, nearest
// 200 otherwise.
func roundToDenomination(v float64) float64 {
	den := 200.0
	switch {
	case v < 3000:
		den = 50
	case v < 10000:
		den = 100
	}
	return math.Round(v/den) * den
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
