package ratesource

import (
	"context"
	"math/rand"
	"time"

	"remitiq/internal/domain"
)

// Synthetic generates a plausible AUD/INR series when no upstream is
// reachable. Generation is seeded, so identical (seed, clock, days)
// inputs reproduce the same series.
type Synthetic struct {
	seed int64
	now  func() time.Time
}

func NewSynthetic(seed int64, now func() time.Time) *Synthetic {
	if now == nil {
		now = time.Now
	}
	return &Synthetic{seed: seed, now: now}
}

// Monthly drift applied to the daily return, loosely tracking the pair's
// seasonal pattern (strong AUD early in the year, weak mid-year).
var seasonalBias = [12]float64{
	0.0008, 0.0005, 0.0002, -0.0002, -0.0004, -0.0003,
	-0.0005, -0.0004, -0.0001, 0.0003, 0.0006, 0.0004,
}

// Liquidity factor by weekday; Monday and Friday run thinner.
var weekdayFactor = [7]float64{0, 0.8, 1.0, 1.0, 1.0, 0.8, 0}

func (s *Synthetic) LatestRate(ctx context.Context) (LatestRate, error) {
	return LatestRate{Rate: 64.10, Source: "fallback"}, nil
}

// HistoricalRates walks a mean-reverting random series over the last days
// calendar days, skipping weekends, clamped to a sane band.
func (s *Synthetic) HistoricalRates(ctx context.Context, days int) ([]domain.RatePoint, domain.Provenance, error) {
	rng := rand.New(rand.NewSource(s.seed))
	today := s.now().UTC()

	const baseVol = 0.003
	rate := 62.5

	points := make([]domain.RatePoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		wd := d.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			continue
		}

		bias := seasonalBias[d.Month()-1]
		meanReversion := (63.5 - rate) * 0.02
		dailyReturn := (rng.Float64()-0.48)*baseVol*weekdayFactor[wd] + bias + meanReversion
		rate *= 1 + dailyReturn
		if rate < 59 {
			rate = 59
		}
		if rate > 68 {
			rate = 68
		}
		midMarket := rate + 0.15 + rng.Float64()*0.12

		volume := 0.3 + rng.Float64()*0.4
		if d.Month() == time.October || d.Month() == time.November {
			volume = 0.7 + rng.Float64()*0.3
		}

		points = append(points, domain.RatePoint{
			Date:           d,
			Label:          d.Format("2 Jan"),
			Rate:           round2(rate),
			MidMarket:      round2(midMarket),
			RelativeVolume: round2(volume),
		})
	}
	return points, domain.ProvenanceFallback, nil
}
