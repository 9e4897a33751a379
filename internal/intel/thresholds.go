package intel

// Thresholds holds the trigger constants of the factor extraction and
// decision gates. Defaults are calibrated against AUD/INR daily history;
// other pairs or volatility regimes can override per-field.
type Thresholds struct {
	// Factor triggers.
	RateVsAvgPct   float64 // % distance from the 30d average before factor 1 leaves neutral
	RSIBullish     float64
	RSIBearish     float64
	MACDCrossGap   float64 // absolute macd line vs signal line gap
	PercentileHigh float64
	PercentileLow  float64
	WeekChange     float64 // absolute rupee move over the week lookback
	VolCalm        float64 // 30d volatility below this reads bullish
	VolRisky       float64 // 30d volatility above this reads bearish
	Range90High    float64
	Range90Low     float64

	// Decision gates.
	ConsensusCount   int     // factors agreeing before a strong call
	LeanCount        int     // factors agreeing before a mixed lean
	BullishSharePct  float64
	BearishSharePct  float64
	UrgentPercentile float64 // 30d percentile spike gate
	UrgentWeekChange float64 // week change spike gate
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		RateVsAvgPct:   0.3,
		RSIBullish:     58,
		RSIBearish:     42,
		MACDCrossGap:   0.02,
		PercentileHigh: 65,
		PercentileLow:  35,
		WeekChange:     0.15,
		VolCalm:        0.8,
		VolRisky:       1.5,
		Range90High:    60,
		Range90Low:     40,

		ConsensusCount:   4,
		LeanCount:        3,
		BullishSharePct:  65,
		BearishSharePct:  60,
		UrgentPercentile: 85,
		UrgentWeekChange: 0.3,
	}
}
