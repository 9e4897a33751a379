package ratesource

import (
	"context"
	"math"

	"remitiq/internal/domain"
)

// LatestRate is the current mid-market quote and the upstream that
// produced it.
type LatestRate struct {
	Rate   float64
	Source string
}

// Source supplies assembled AUD/INR series. Implementations report the
// provenance of what they return; the orchestration layer picks which
// source to use, never the analytics.
type Source interface {
	LatestRate(ctx context.Context) (LatestRate, error)
	HistoricalRates(ctx context.Context, days int) ([]domain.RatePoint, domain.Provenance, error)
}

// platformMargin is the percentage the best-rate platform subtracts from
// mid-market to form its offered rate.
const platformMargin = 0.0034

// BestRateFor derives the best available platform rate from a mid-market
// quote.
func BestRateFor(midMarket float64) float64 {
	return round2(midMarket * (1 - platformMargin))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
