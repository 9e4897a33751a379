package chart

import (
	"bytes"
	"image/png"
	"math"
	"testing"
	"time"

	"remitiq/internal/domain"
)

func ratePoints(n int) []domain.RatePoint {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	out := make([]domain.RatePoint, n)
	for i := range out {
		rate := 64.0 + 0.5*math.Sin(float64(i)/9)
		out[i] = domain.RatePoint{
			Date:      start.AddDate(0, 0, i),
			Rate:      rate,
			MidMarket: rate + 0.2,
		}
	}
	return out
}

func TestRenderRateChartProducesPNG(t *testing.T) {
	r := NewRenderer()

	data, err := r.RenderRateChart(ratePoints(90))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a decodable PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != defaultChartWidth || bounds.Dy() != defaultChartHeight {
		t.Fatalf("unexpected dimensions %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderRateChartRequiresTwoPoints(t *testing.T) {
	r := NewRenderer()
	if _, err := r.RenderRateChart(ratePoints(1)); err == nil {
		t.Fatal("expected error for single point")
	}
	if _, err := r.RenderRateChart(nil); err == nil {
		t.Fatal("expected error for empty series")
	}
}

func TestRenderRateChartTruncatesLongSeries(t *testing.T) {
	r := NewRenderer()
	if _, err := r.RenderRateChart(ratePoints(300)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSMASeries(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	sma := smaSeries(values, 3)
	if !math.IsNaN(sma[0]) || !math.IsNaN(sma[1]) {
		t.Fatal("expected NaN before the window fills")
	}
	if sma[2] != 2 || sma[4] != 4 {
		t.Fatalf("unexpected SMA values: %v", sma)
	}
}

func TestRSISeriesBounds(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = 64 + math.Sin(float64(i))
	}
	rsi := rsiSeries(values, 14)
	for i, v := range rsi {
		if math.IsNaN(v) {
			continue
		}
		if v < 0 || v > 100 {
			t.Fatalf("RSI out of bounds at %d: %f", i, v)
		}
	}

	if got := rsiSeries(values[:10], 14); got != nil {
		t.Fatal("expected nil for series shorter than the period")
	}
}
