package intel

import (
	"math"

	"remitiq/internal/domain"
)

const (
	rsiPeriod        = 14
	macdFastPeriod   = 12
	macdSlowPeriod   = 26
	macdSignalPeriod = 9

	// Floors a zero average loss so the RSI ratio stays defined on
	// monotonically rising series.
	lossEpsilon = 1e-10
)

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func extractRates(points []domain.RatePoint) []float64 {
	rates := make([]float64, len(points))
	for i := range points {
		rates[i] = points[i].Rate
	}
	return rates
}

// sma is the arithmetic mean of the trailing min(period, len) values.
func sma(values []float64, period int) float64 {
	if len(values) == 0 {
		return 0
	}
	if period > len(values) {
		period = len(values)
	}
	window := values[len(values)-period:]
	var sum float64
	for _, v := range window {
		sum += v
	}
	return sum / float64(len(window))
}

// ema runs the exponential recurrence over the whole slice, seeded with
// the first value, smoothing factor k = 2/(period+1).
func ema(values []float64, period int) float64 {
	if len(values) == 0 {
		return 0
	}
	k := 2.0 / (float64(period) + 1.0)
	out := values[0]
	for i := 1; i < len(values); i++ {
		out = values[i]*k + out*(1-k)
	}
	return out
}

// rsi is the 14-period momentum oscillator. Fewer than period+1 points
// returns the neutral midpoint 50.
func rsi(values []float64, period int) float64 {
	if len(values) < period+1 {
		return 50
	}

	var avgGain, avgLoss float64
	recent := values[len(values)-period-1:]
	for i := 1; i < len(recent); i++ {
		delta := recent[i] - recent[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgGain == 0 && avgLoss == 0 {
		return 50
	}
	if avgLoss < lossEpsilon {
		avgLoss = lossEpsilon
	}
	rs := avgGain / avgLoss
	return roundTo(100-100/(1+rs), 1)
}

// volatility is the standard deviation of day-over-day fractional returns
// over the trailing window, expressed as a percentage. Fewer than two
// points yields 0.
func volatility(values []float64, period int) float64 {
	if period+1 > len(values) {
		period = len(values) - 1
	}
	if period < 1 {
		return 0
	}
	window := values[len(values)-period-1:]

	returns := make([]float64, 0, period)
	for i := 1; i < len(window); i++ {
		if window[i-1] == 0 {
			continue
		}
		returns = append(returns, window[i]/window[i-1]-1)
	}
	if len(returns) == 0 {
		return 0
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))

	return roundTo(math.Sqrt(variance)*100, 2)
}

// rangePosition ranks current within [min, max] of the window as 0-100.
// A flat window has no meaningful rank and reports the midpoint.
func rangePosition(current float64, window []float64) float64 {
	if len(window) == 0 {
		return 50
	}
	low, high := window[0], window[0]
	for _, v := range window {
		if v < low {
			low = v
		}
		if v > high {
			high = v
		}
	}
	span := high - low
	if span < 1e-9 {
		return 50
	}
	pos := (current - low) / span * 100
	if pos < 0 {
		pos = 0
	}
	if pos > 100 {
		pos = 100
	}
	return roundTo(pos, 0)
}

func windowMinMax(values []float64, period int) (low, high float64) {
	if len(values) == 0 {
		return 0, 0
	}
	if period > len(values) {
		period = len(values)
	}
	window := values[len(values)-period:]
	low, high = window[0], window[0]
	for _, v := range window {
		if v < low {
			low = v
		}
		if v > high {
			high = v
		}
	}
	return low, high
}

// ComputeStatistics derives the full statistics snapshot for an
// ascending-by-date rate series. Window sizes clamp to the available
// length, so short series degrade instead of failing.
func ComputeStatistics(points []domain.RatePoint) domain.RateStatistics {
	if len(points) == 0 {
		return domain.RateStatistics{RSI14: 50, Percentile30d: 50, Percentile90d: 50}
	}

	rates := extractRates(points)
	current := rates[len(rates)-1]

	low30, high30 := windowMinMax(rates, 30)
	low90, high90 := windowMinMax(rates, 90)

	weekAgo := rates[maxInt(0, len(rates)-6)]
	monthAgo := rates[maxInt(0, len(rates)-23)]

	weekChange := roundTo(current-weekAgo, 2)
	monthChange := roundTo(current-monthAgo, 2)

	// Full-history MACD signal line: the trend line is re-derived at
	// every trailing index, then smoothed with a 9-period EMA.
	var macdValues []float64
	for i := macdSlowPeriod; i < len(rates); i++ {
		e12 := ema(rates[:i+1], macdFastPeriod)
		e26 := ema(rates[:i+1], macdSlowPeriod)
		macdValues = append(macdValues, e12-e26)
	}
	macdLine := roundTo(ema(rates, macdFastPeriod)-ema(rates, macdSlowPeriod), 4)
	macdSignal := macdLine
	if len(macdValues) >= macdSignalPeriod {
		macdSignal = roundTo(ema(macdValues, macdSignalPeriod), 4)
	}

	last30 := rates[maxInt(0, len(rates)-30):]
	last90 := rates[maxInt(0, len(rates)-90):]

	return domain.RateStatistics{
		Current:        roundTo(current, 2),
		Avg7d:          roundTo(sma(rates, 7), 2),
		Avg30d:         roundTo(sma(rates, 30), 2),
		Avg90d:         roundTo(sma(rates, 90), 2),
		High30d:        roundTo(high30, 2),
		Low30d:         roundTo(low30, 2),
		High90d:        roundTo(high90, 2),
		Low90d:         roundTo(low90, 2),
		WeekChange:     weekChange,
		WeekChangePct:  roundTo(safePctChange(weekChange, weekAgo), 2),
		MonthChange:    monthChange,
		MonthChangePct: roundTo(safePctChange(monthChange, monthAgo), 2),
		Volatility7d:   volatility(rates, 7),
		Volatility30d:  volatility(rates, 30),
		RSI14:          rsi(rates, rsiPeriod),
		Momentum:       roundTo(safePctChange(current-weekAgo, weekAgo), 3),
		SMA7:           roundTo(sma(rates, 7), 2),
		SMA20:          roundTo(sma(rates, 20), 2),
		EMA12:          roundTo(ema(rates, macdFastPeriod), 2),
		EMA26:          roundTo(ema(rates, macdSlowPeriod), 2),
		MACDLine:       macdLine,
		MACDSignal:     macdSignal,
		Percentile30d:  rangePosition(current, last30),
		Percentile90d:  rangePosition(current, last90),
	}
}

func safePctChange(delta, base float64) float64 {
	if base == 0 {
		return 0
	}
	return delta / base * 100
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
