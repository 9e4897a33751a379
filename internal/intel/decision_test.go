package intel

import (
	"strings"
	"testing"

	"remitiq/internal/domain"
)

func recommendFor(t *testing.T, points []domain.RatePoint) domain.TimingRecommendation {
	t.Helper()
	stats := ComputeStatistics(points)
	return Recommend(stats, points, DefaultThresholds())
}

func TestRecommendFlatSeriesDefaultsToSendNow(t *testing.T) {
	rec := recommendFor(t, flatSeries(40, 21))

	if rec.Signal != domain.SignalSendNow {
		t.Fatalf("expected SEND_NOW on a flat series, got %s", rec.Signal)
	}
	if rec.Confidence != 50 {
		t.Fatalf("expected confidence exactly 50, got %d", rec.Confidence)
	}
	if !strings.Contains(rec.Reason, "no strong signal") {
		t.Fatalf("expected no-strong-signal reason, got %q", rec.Reason)
	}
	if !strings.Contains(rec.Details, "21.00") {
		t.Fatalf("expected current rate in details, got %q", rec.Details)
	}
	if len(rec.Factors) != 8 {
		t.Fatalf("expected 8 factors attached, got %d", len(rec.Factors))
	}
}

func TestRecommendUrgentOnSpike(t *testing.T) {
	// Steady strong rise: top of range, week change above the spike gate.
	rec := recommendFor(t, risingSeries(40, 20, 0.08))

	if rec.Signal != domain.SignalUrgent {
		t.Fatalf("expected URGENT, got %s (confidence %d)", rec.Signal, rec.Confidence)
	}
	if rec.Confidence != 90 {
		t.Fatalf("expected capped confidence 90, got %d", rec.Confidence)
	}
	if !strings.Contains(rec.Details, "better than") {
		t.Fatalf("expected percentile wording in details, got %q", rec.Details)
	}
}

func TestRecommendSendNowWithoutSpike(t *testing.T) {
	// Rising, but the weekly move stays under the spike gate.
	rec := recommendFor(t, risingSeries(40, 20, 0.05))

	if rec.Signal != domain.SignalSendNow {
		t.Fatalf("expected SEND_NOW, got %s", rec.Signal)
	}
	if rec.Confidence != 85 {
		t.Fatalf("expected capped confidence 85, got %d", rec.Confidence)
	}
	if !strings.Contains(rec.Details, "30-day average") {
		t.Fatalf("expected average wording in details, got %q", rec.Details)
	}
}

func TestRecommendWaitOnFallingSeries(t *testing.T) {
	rec := recommendFor(t, risingSeries(40, 23, -0.08))

	if rec.Signal != domain.SignalWait {
		t.Fatalf("expected WAIT on a falling series, got %s", rec.Signal)
	}
	if rec.Confidence > 82 {
		t.Fatalf("expected confidence capped at 82, got %d", rec.Confidence)
	}
	if !strings.Contains(rec.Details, "could improve") {
		t.Fatalf("expected improvement wording, got %q", rec.Details)
	}
}

func TestRecommendConfidenceBounds(t *testing.T) {
	cases := [][]domain.RatePoint{
		flatSeries(40, 21),
		flatSeries(1, 21),
		risingSeries(40, 20, 0.08),
		risingSeries(40, 23, -0.08),
		risingSeries(90, 20, 0.01),
		seriesFromRates([]float64{21}),
		nil,
	}
	for i, series := range cases {
		rec := recommendFor(t, series)
		if rec.Confidence < 0 || rec.Confidence > 100 {
			t.Fatalf("case %d: confidence out of bounds: %d", i, rec.Confidence)
		}
		if !rec.Signal.IsValid() {
			t.Fatalf("case %d: invalid signal %q", i, rec.Signal)
		}
		if rec.Forecast.Confidence < 0 || rec.Forecast.Confidence > 100 {
			t.Fatalf("case %d: forecast confidence out of bounds: %d", i, rec.Forecast.Confidence)
		}
	}
}

func TestForecastMeanReversionAfterDrop(t *testing.T) {
	rates := make([]float64, 0, 31)
	for i := 0; i < 30; i++ {
		rates = append(rates, 22)
	}
	rates = append(rates, 21.2)

	rec := recommendFor(t, seriesFromRates(rates))
	if rec.Forecast.Direction == domain.ForecastFalling {
		t.Fatalf("expected mean reversion to offset the drop, got %s", rec.Forecast.Direction)
	}
	if !strings.Contains(rec.Forecast.Reason, "likely to recover") {
		t.Fatalf("expected recovery reasoning, got %q", rec.Forecast.Reason)
	}
}

func TestForecastSteadyOnFlatSeries(t *testing.T) {
	rec := recommendFor(t, flatSeries(60, 21))

	if rec.Forecast.Direction != domain.ForecastSteady {
		t.Fatalf("expected steady forecast, got %s", rec.Forecast.Direction)
	}
	if rec.Forecast.Confidence != 70 {
		t.Fatalf("expected steady ceiling 70, got %d", rec.Forecast.Confidence)
	}
	if rec.Forecast.Horizon != "3-5 days" {
		t.Fatalf("unexpected horizon %q", rec.Forecast.Horizon)
	}
}

func TestForecastFallingOnOverboughtRally(t *testing.T) {
	// A long hard rally: overbought mean reversion dominates and the
	// horizon shortens under the elevated short-term volatility.
	rates := make([]float64, 0, 50)
	for i := 0; i < 40; i++ {
		rates = append(rates, 21)
	}
	for i := 0; i < 10; i++ {
		rates = append(rates, 21+float64(i+1)*0.4)
	}

	rec := recommendFor(t, seriesFromRates(rates))
	fc := rec.Forecast
	if fc.Direction == domain.ForecastFalling && fc.Horizon != "2-4 days" {
		t.Fatalf("expected shortened horizon under volatility, got %q", fc.Horizon)
	}
	if fc.Confidence < 0 || fc.Confidence > 85 {
		t.Fatalf("directional confidence out of cap: %d", fc.Confidence)
	}
}
