package intel

import (
	"fmt"
	"sort"

	"remitiq/internal/domain"
)

// ExtractFactors scores the eight decision factors for a statistics
// snapshot. All eight are always emitted, sorted descending by weight.
// Names and descriptions are plain English for end users.
func ExtractFactors(stats domain.RateStatistics, th Thresholds) []domain.SignalFactor {
	factors := make([]domain.SignalFactor, 0, 8)

	// 1. Rate vs 30-day average.
	rateVsAvg := 0.0
	if stats.Avg30d != 0 {
		rateVsAvg = (stats.Current - stats.Avg30d) / stats.Avg30d * 100
	}
	f := domain.SignalFactor{
		Name:   "Rate near average",
		Signal: domain.FactorNeutral,
		Weight: minFloat(absFloat(rateVsAvg)/1.5, 1),
	}
	switch {
	case rateVsAvg > th.RateVsAvgPct:
		f.Name = "Rate above average"
		f.Signal = domain.FactorBullish
		f.Description = fmt.Sprintf("Today's rate is %.1f%% better than the 30-day average", rateVsAvg)
	case rateVsAvg < -th.RateVsAvgPct:
		f.Name = "Rate below average"
		f.Signal = domain.FactorBearish
		f.Description = fmt.Sprintf("Today's rate is %.1f%% worse than the 30-day average", absFloat(rateVsAvg))
	default:
		f.Description = fmt.Sprintf("Today's rate is close to the 30-day average of ₹%.2f", stats.Avg30d)
	}
	factors = append(factors, f)

	// 2. Momentum oscillator.
	f = domain.SignalFactor{
		Name:   "Momentum",
		Signal: domain.FactorNeutral,
		Weight: minFloat(absFloat(stats.RSI14-50)/40, 1),
	}
	switch {
	case stats.RSI14 > th.RSIBullish:
		f.Signal = domain.FactorBullish
	case stats.RSI14 < th.RSIBearish:
		f.Signal = domain.FactorBearish
	}
	switch {
	case stats.RSI14 > 65:
		f.Description = "Rate has been rising strongly — may slow down soon"
	case stats.RSI14 > th.RSIBullish:
		f.Description = "Rate is rising steadily"
	case stats.RSI14 < 35:
		f.Description = "Rate has dropped a lot — may be due for a bounce"
	case stats.RSI14 < th.RSIBearish:
		f.Description = "Rate has been falling"
	default:
		f.Description = "Rate is moving sideways — no strong direction"
	}
	factors = append(factors, f)

	// 3. Trend crossover.
	macdCross := stats.MACDLine - stats.MACDSignal
	f = domain.SignalFactor{
		Name:   "Price Trend",
		Signal: domain.FactorNeutral,
		Weight: minFloat(absFloat(macdCross)*8, 1),
	}
	switch {
	case macdCross > th.MACDCrossGap:
		f.Signal = domain.FactorBullish
		f.Description = "The overall trend is moving in your favour"
	case macdCross < -th.MACDCrossGap:
		f.Signal = domain.FactorBearish
		f.Description = "The overall trend is moving against you"
	default:
		f.Description = "No clear trend right now"
	}
	factors = append(factors, f)

	// 4. Position in the 30-day range.
	f = domain.SignalFactor{
		Name:   "How Today Compares",
		Signal: domain.FactorNeutral,
		Weight: minFloat(absFloat(stats.Percentile30d-50)/40, 1),
	}
	switch {
	case stats.Percentile30d > th.PercentileHigh:
		f.Signal = domain.FactorBullish
	case stats.Percentile30d < th.PercentileLow:
		f.Signal = domain.FactorBearish
	}
	switch {
	case stats.Percentile30d > 80:
		f.Description = fmt.Sprintf("Better than %.0f%% of rates this month — a great day to send", stats.Percentile30d)
	case stats.Percentile30d > th.PercentileHigh:
		f.Description = fmt.Sprintf("Better than %.0f%% of rates this month", stats.Percentile30d)
	case stats.Percentile30d < 20:
		f.Description = fmt.Sprintf("Worse than %.0f%% of rates this month — consider waiting", 100-stats.Percentile30d)
	case stats.Percentile30d < th.PercentileLow:
		f.Description = "Below average for this month"
	default:
		f.Description = "About average for this month"
	}
	factors = append(factors, f)

	// 5. Short vs long moving-average crossover. 1.5x weight, the most
	// predictive factor for the near-term window.
	smaDiff := 0.0
	if stats.SMA20 != 0 {
		smaDiff = (stats.SMA7 - stats.SMA20) / stats.SMA20 * 100
	}
	f = domain.SignalFactor{
		Name:   "Short vs Long Trend",
		Signal: domain.FactorNeutral,
		Weight: minFloat(absFloat(smaDiff)/0.5, 1) * 1.5,
	}
	switch {
	case stats.SMA7 > stats.SMA20:
		f.Signal = domain.FactorBullish
		f.Description = "Recent rates are trending higher than the monthly average"
	case stats.SMA7 < stats.SMA20:
		f.Signal = domain.FactorBearish
		f.Description = "Recent rates are trending lower than the monthly average"
	default:
		f.Description = "Short-term and monthly trends are aligned"
	}
	factors = append(factors, f)

	// 6. This week's movement. Also 1.5x weight.
	f = domain.SignalFactor{
		Name:   "This Week's Movement",
		Signal: domain.FactorNeutral,
		Weight: minFloat(absFloat(stats.WeekChange)/0.4, 1) * 1.5,
	}
	switch {
	case stats.WeekChange > th.WeekChange:
		f.Signal = domain.FactorBullish
		f.Description = fmt.Sprintf("Rate went up ₹%.2f (%.2f%%) this week", stats.WeekChange, stats.WeekChangePct)
	case stats.WeekChange < -th.WeekChange:
		f.Signal = domain.FactorBearish
		f.Description = fmt.Sprintf("Rate went down ₹%.2f (%.2f%%) this week", absFloat(stats.WeekChange), stats.WeekChangePct)
	default:
		f.Description = "Rate hasn't moved much this week"
	}
	factors = append(factors, f)

	// 7. Volatility regime. Tiered weight instead of magnitude-scaled.
	f = domain.SignalFactor{
		Name:   "Market Stability",
		Signal: domain.FactorNeutral,
		Weight: 0.4,
	}
	switch {
	case stats.Volatility30d < th.VolCalm:
		f.Signal = domain.FactorBullish
	case stats.Volatility30d > th.VolRisky:
		f.Signal = domain.FactorBearish
		f.Weight = 0.8
	}
	switch {
	case stats.Volatility30d < 0.5:
		f.Description = "Market is calm and stable — rate is predictable"
	case stats.Volatility30d < 1.0:
		f.Description = "Normal market conditions"
	case stats.Volatility30d < th.VolRisky:
		f.Description = "Market is somewhat choppy"
	default:
		f.Description = "Market is very unpredictable right now — be cautious"
	}
	factors = append(factors, f)

	// 8. Position in the 90-day range.
	span90 := stats.High90d - stats.Low90d
	range90 := 50.0
	if span90 > 1e-9 {
		range90 = (stats.Current - stats.Low90d) / span90 * 100
	}
	f = domain.SignalFactor{
		Name:   "Bigger Picture",
		Signal: domain.FactorNeutral,
		Weight: minFloat(absFloat(range90-50)/40, 1),
	}
	switch {
	case range90 > th.Range90High:
		f.Signal = domain.FactorBullish
	case range90 < th.Range90Low:
		f.Signal = domain.FactorBearish
	}
	switch {
	case range90 > 75:
		f.Description = "Rate is near the highest it's been in 3 months"
	case range90 > th.Range90High:
		f.Description = "Rate is in the upper half of its 3-month range"
	case range90 < 25:
		f.Description = "Rate is near the lowest it's been in 3 months"
	case range90 < th.Range90Low:
		f.Description = "Rate is in the lower half of its 3-month range"
	default:
		f.Description = "Rate is in the middle of its 3-month range"
	}
	factors = append(factors, f)

	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].Weight > factors[j].Weight
	})
	return factors
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
