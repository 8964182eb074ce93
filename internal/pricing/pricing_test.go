package pricing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/flight-seat-reservation/internal/model"
)

var refNow = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestQuote_FullFlightExample(t *testing.T) {
	// 29 days out: seat_factor 1.0, time_factor 1.02, demand_factor 1.14
	// -> 4000 * 1.02 * 1.14 = 4651.2, nearest 100 -> 4700.
	got := Quote(4000, 180, 180, 0.2, "2026-01-30", 1.0, refNow)
	assert.Equal(t, 4700.0, got)
}

func TestQuote_Monotonic(t *testing.T) {
	prev := 0.0
	for left := 180; left >= 0; left -= 10 {
		p := Quote(4000, left, 180, 0.3, "2026-02-15", 1.0, refNow)
		if p < prev {
			t.Fatalf("price dropped from %.0f to %.0f at seats_left=%d", prev, p, left)
		}
		prev = p
	}
}

func TestQuote_Floor(t *testing.T) {
	cases := []struct {
		name     string
		baseFare float64
		left     int
		demand   float64
		date     string
	}{
		{"empty demand far out", 4000, 180, 0, "2099-01-01"},
		{"tiny base fare", 100, 180, 0, "2099-01-01"},
		{"negative demand clamped", 2600, 180, -3, "2099-01-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Quote(tc.baseFare, tc.left, 180, tc.demand, tc.date, 1.0, refNow)
			if p < math.Floor(tc.baseFare*0.5) {
				t.Fatalf("price %.0f below floor %.0f", p, tc.baseFare*0.5)
			}
		})
	}
}

func TestQuote_BadDateFallsBackToNow(t *testing.T) {
	// Unparseable date means departure "now": full urgency.
	bad := Quote(4000, 180, 180, 0, "not-a-date", 1.0, refNow)
	today := Quote(4000, 180, 180, 0, refNow.Format(DateLayout), 1.0, refNow)
	assert.Equal(t, today, bad)
	// 4000 * 1.6 = 6400, already on a 100 step.
	assert.Equal(t, 6400.0, bad)
}

func TestQuote_UrgencyFlatBeyondWindow(t *testing.T) {
	at31 := Quote(4000, 180, 180, 0.2, "2026-02-01", 1.0, refNow)
	at90 := Quote(4000, 180, 180, 0.2, "2026-04-01", 1.0, refNow)
	assert.Equal(t, at31, at90)
}

func TestQuote_InputClamping(t *testing.T) {
	// seats_left above total and zero total must not panic or skew.
	p := Quote(4000, 999, 0, 0.5, "2026-02-15", 1.0, refNow)
	assert.Greater(t, p, 0.0)
	// Over-range demand behaves as demand=1.
	hi := Quote(4000, 180, 180, 7, "2026-02-15", 1.0, refNow)
	one := Quote(4000, 180, 180, 1, "2026-02-15", 1.0, refNow)
	assert.Equal(t, one, hi)
}

func TestRoundToDenomination(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1024, 1000},  // nearest 50 below 3000
		{1026, 1050},  // rounds up on the 50 step
		{4651.2, 4700}, // nearest 100 below 10000
		{9949, 9900},
		{10100, 10200}, // nearest 200 from 10000 up
		{12099, 12000},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, roundToDenomination(tc.in), "round(%v)", tc.in)
	}
}

func TestTierMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, TierMultiplier(model.CabinEconomy))
	assert.Equal(t, 1.25, TierMultiplier(model.CabinPremium))
	assert.Equal(t, 1.6, TierMultiplier(model.CabinBusiness))
	assert.Equal(t, 1.0, TierMultiplier("FIRST"))
}
