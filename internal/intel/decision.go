package intel

import (
	"fmt"
	"strings"

	"remitiq/internal/domain"
)

// Recommend aggregates the factors into a timing decision plus an
// independently scored directional forecast. Gates run in priority order;
// the first match wins.
func Recommend(stats domain.RateStatistics, points []domain.RatePoint, th Thresholds) domain.TimingRecommendation {
	factors := ExtractFactors(stats, th)

	var bullishScore, bearishScore float64
	var bullishCount, bearishCount int
	for _, f := range factors {
		switch f.Signal {
		case domain.FactorBullish:
			bullishScore += f.Weight
			bullishCount++
		case domain.FactorBearish:
			bearishScore += f.Weight
			bearishCount++
		}
	}

	// Share of the directional weight only; neutral factors abstain.
	bullishPct, bearishPct := 50.0, 50.0
	if directional := bullishScore + bearishScore; directional > 0 {
		bullishPct = bullishScore / directional * 100
		bearishPct = bearishScore / directional * 100
	}

	rec := domain.TimingRecommendation{Factors: factors}
	rateAboveAvg := stats.Current > stats.Avg30d

	switch {
	case bullishPct >= th.BullishSharePct && bullishCount >= th.ConsensusCount && rateAboveAvg &&
		stats.Percentile30d > th.UrgentPercentile && stats.WeekChange > th.UrgentWeekChange:
		rec.Signal = domain.SignalUrgent
		rec.Confidence = clampConfidence(roundInt(minFloat(bullishPct+10, 90)))
		rec.Reason = "Today's rate is unusually good — it may not last"
		rec.Details = fmt.Sprintf(
			"At ₹%.2f, you're getting a rate that's better than %.0f%% of the last month. Rates this high don't usually stick around. If you've been planning to send, today is a great day to do it.",
			stats.Current, stats.Percentile30d,
		)

	case bullishPct >= th.BullishSharePct && bullishCount >= th.ConsensusCount && rateAboveAvg:
		rec.Signal = domain.SignalSendNow
		rec.Confidence = clampConfidence(roundInt(minFloat(bullishPct+2, 85)))
		rec.Reason = "The rate looks good right now"
		var extra string
		if stats.Percentile30d > 60 {
			extra = fmt.Sprintf(" You're getting a better rate than %.0f%% of days this month.", stats.Percentile30d)
		}
		rec.Details = fmt.Sprintf(
			"Today's rate of ₹%.2f is above the 30-day average of ₹%.2f. %d out of 8 indicators suggest the rate is in your favour.%s",
			stats.Current, stats.Avg30d, bullishCount, extra,
		)

	case bearishPct >= th.BearishSharePct && bearishCount >= th.ConsensusCount:
		rec.Signal = domain.SignalWait
		rec.Confidence = clampConfidence(roundInt(minFloat(bearishPct, 82)))
		rec.Reason = "The rate might get better in a few days"
		position := "not at its best right now"
		if stats.Current < stats.Avg30d {
			position = fmt.Sprintf("below the 30-day average of ₹%.2f", stats.Avg30d)
		}
		rec.Details = fmt.Sprintf(
			"Today's rate of ₹%.2f is %s. %d out of 8 indicators suggest the rate could improve. If you can wait 3-7 days, you might get a better deal.",
			stats.Current, position, bearishCount,
		)

	case rateAboveAvg && bullishPct > bearishPct && bullishCount >= th.LeanCount:
		rec.Signal = domain.SignalSendNow
		rec.Confidence = clampConfidence(roundInt(minFloat(50+(bullishPct-bearishPct)/4, 62)))
		rec.Reason = "Rate is okay — slightly in your favour"
		rec.Details = fmt.Sprintf(
			"Today's rate of ₹%.2f is near the 30-day average. The signals are mixed, but lean slightly positive. If you need to send money, today is a reasonable day — but there's no rush.",
			stats.Current,
		)

	case bearishPct > bullishPct && bearishCount >= th.LeanCount:
		rec.Signal = domain.SignalWait
		rec.Confidence = clampConfidence(roundInt(minFloat(50+(bearishPct-bullishPct)/4, 62)))
		rec.Reason = "Rate is okay — but might improve slightly"
		rec.Details = fmt.Sprintf(
			"Today's rate of ₹%.2f is near the 30-day average. Signals are mixed but lean slightly negative. If you can wait a few days, there's a chance the rate improves.",
			stats.Current,
		)

	default:
		// Balanced: default to action rather than blocking the user.
		rec.Signal = domain.SignalSendNow
		rec.Confidence = 50
		rec.Reason = "Rate is average — no strong signal either way"
		rec.Details = fmt.Sprintf(
			"Today's rate of ₹%.2f is right around the monthly average of ₹%.2f. Our indicators don't agree on a direction, which usually means the rate will stay in this range. Sending now is fine.",
			stats.Current, stats.Avg30d,
		)
	}

	rec.Forecast = computeForecast(stats, points)
	return rec
}

// computeForecast predicts short-horizon direction from a signed score,
// scored independently of the timing decision. Positive means rising.
func computeForecast(stats domain.RateStatistics, points []domain.RatePoint) domain.RateForecast {
	var score float64
	var reasons []string

	// Mean reversion on the oscillator: stretched readings anticipate a
	// move back toward the middle.
	switch {
	case stats.RSI14 > 70:
		score -= 30
		reasons = append(reasons, "Rate has been rising a lot — may ease off soon")
	case stats.RSI14 > 60:
		score -= 10
		reasons = append(reasons, "Rate gains may be slowing down")
	case stats.RSI14 < 30:
		score += 30
		reasons = append(reasons, "Rate has dropped a lot — likely to recover")
	case stats.RSI14 < 40:
		score += 10
		reasons = append(reasons, "Rate dip may be ending")
	}

	macdCross := stats.MACDLine - stats.MACDSignal
	switch {
	case macdCross > 0.03:
		score += 20
		reasons = append(reasons, "Overall trend is moving in your favour")
	case macdCross < -0.03:
		score -= 20
		reasons = append(reasons, "Overall trend is moving against you")
	}

	switch {
	case stats.SMA7 > stats.SMA20*1.002:
		score += 15
		reasons = append(reasons, "Recent rates are higher than the monthly average")
	case stats.SMA7 < stats.SMA20*0.998:
		score -= 15
		reasons = append(reasons, "Recent rates are lower than the monthly average")
	}

	// Very recent momentum: last 3 points against last 7.
	if len(points) >= 7 {
		var last3, last7 float64
		for _, p := range points[len(points)-3:] {
			last3 += p.Rate
		}
		for _, p := range points[len(points)-7:] {
			last7 += p.Rate
		}
		last3 /= 3
		last7 /= 7
		if last7 != 0 {
			recentTrend := (last3 - last7) / last7 * 100
			switch {
			case recentTrend > 0.15:
				score += 15
				reasons = append(reasons, "Rate has been picking up in the last few days")
			case recentTrend < -0.15:
				score -= 15
				reasons = append(reasons, "Rate has been dipping in the last few days")
			}
		}
	}

	// Volatility narrows the horizon, never the direction.
	isVolatile := stats.Volatility7d > 1.2

	fc := domain.RateForecast{}
	switch {
	case score > 20:
		fc.Direction = domain.ForecastRising
		fc.Horizon = horizonFor(isVolatile)
		fc.Confidence = clampConfidence(roundInt(minFloat(absFloat(score), 85)))
	case score < -20:
		fc.Direction = domain.ForecastFalling
		fc.Horizon = horizonFor(isVolatile)
		fc.Confidence = clampConfidence(roundInt(minFloat(absFloat(score), 85)))
	default:
		fc.Direction = domain.ForecastSteady
		fc.Horizon = "3-5 days"
		fc.Confidence = clampConfidence(roundInt(minFloat(70-absFloat(score), 70)))
	}

	if len(reasons) > 2 {
		reasons = reasons[:2]
	}
	switch {
	case len(reasons) > 0:
		fc.Reason = strings.Join(reasons, ". ")
	case isVolatile:
		fc.Reason = "Market is choppy — no clear direction"
	default:
		fc.Reason = "Indicators are balanced — rate likely to stay in this range"
	}
	return fc
}

func horizonFor(volatile bool) string {
	if volatile {
		return "2-4 days"
	}
	return "3-7 days"
}

func roundInt(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

func clampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
