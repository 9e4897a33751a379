package intel

import "remitiq/internal/domain"

const (
	backtestMinHistory = 30
	backtestMinSeries  = 40
	backtestLookAhead  = 5
	backtestStride     = 3

	// Signals below this confidence are advisory only and excluded
	// from scoring.
	backtestConfidenceFloor = 60
)

// RunBacktest walk-forward replays the decision engine over the series,
// scoring each confident signal against the realized rates in the next
// lookAhead points. Series shorter than the minimum return the zero result.
func RunBacktest(points []domain.RatePoint, th Thresholds, referenceAmount float64) domain.BacktestResult {
	var result domain.BacktestResult
	if len(points) < backtestMinSeries {
		return result
	}

	var totalSavings float64
	for i := backtestMinHistory; i < len(points)-backtestLookAhead; i += backtestStride {
		window := points[:i+1]
		stats := ComputeStatistics(window)
		rec := Recommend(stats, window, th)

		if rec.Confidence < backtestConfidenceFloor {
			continue
		}

		current := points[i].Rate
		future := points[i+1 : i+1+backtestLookAhead]
		var sum float64
		maxFuture := future[0].Rate
		for _, p := range future {
			sum += p.Rate
			if p.Rate > maxFuture {
				maxFuture = p.Rate
			}
		}
		avgFuture := sum / float64(len(future))

		switch rec.Signal {
		case domain.SignalSendNow, domain.SignalUrgent:
			result.SendNowTotal++
			// Correct if the rate didn't meaningfully decline over the
			// look-ahead window.
			if current >= avgFuture*0.997 {
				result.SendNowCorrect++
				if current > avgFuture {
					totalSavings += (current - avgFuture) * referenceAmount
				}
			}
		case domain.SignalWait:
			result.WaitTotal++
			// Correct if waiting would have bought a better rate.
			if maxFuture > current*1.002 {
				result.WaitCorrect++
				totalSavings += (maxFuture - current) * referenceAmount
			}
		}
	}

	result.TotalSignals = result.SendNowTotal + result.WaitTotal
	if result.TotalSignals > 0 {
		correct := result.SendNowCorrect + result.WaitCorrect
		result.Accuracy = roundTo(float64(correct)/float64(result.TotalSignals)*100, 1)
		result.AvgSavingsPerTransfer = roundTo(totalSavings/float64(result.TotalSignals), 0)
	}
	return result
}
