package intel

import (
	"time"

	"remitiq/internal/domain"
)

const defaultChartWindow = 30

// Engine assembles the full intelligence payload from a rate series.
// It is stateless apart from its configuration; callers own all caching.
type Engine struct {
	thresholds      Thresholds
	referenceAmount float64
	now             func() time.Time
}

func NewEngine(thresholds Thresholds, referenceAmount float64, now func() time.Time) *Engine {
	if referenceAmount <= 0 {
		referenceAmount = 2000
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{thresholds: thresholds, referenceAmount: referenceAmount, now: now}
}

// Compute runs statistics, factor extraction, the decision engine, and the
// backtest over one immutable series snapshot. The provenance tag passes
// through untouched; computation never branches on it.
func (e *Engine) Compute(points []domain.RatePoint, midMarket float64, source domain.Provenance) domain.IntelligenceData {
	stats := ComputeStatistics(points)
	recommendation := Recommend(stats, points, e.thresholds)
	backtest := RunBacktest(points, e.thresholds, e.referenceAmount)

	chart := points
	if len(chart) > defaultChartWindow {
		chart = chart[len(chart)-defaultChartWindow:]
	}

	return domain.IntelligenceData{
		ChartData:      chart,
		FullHistory:    points,
		Stats:          stats,
		Recommendation: recommendation,
		Backtest:       backtest,
		MacroEvents:    UpcomingMacroEvents(e.now()),
		MidMarketRate:  midMarket,
		Source:         source,
		ComputedAt:     e.now().UTC(),
	}
}
