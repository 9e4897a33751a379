package domain

import "time"

// Provenance describes where a rate series came from. It is informational
// passthrough only; computations never branch on it.
type Provenance string

const (
	ProvenanceLive     Provenance = "live"
	ProvenanceReplay   Provenance = "replay"
	ProvenanceFallback Provenance = "fallback"
)

type TimingSignal string

const (
	SignalSendNow TimingSignal = "SEND_NOW"
	SignalWait    TimingSignal = "WAIT"
	SignalUrgent  TimingSignal = "URGENT"
)

func (s TimingSignal) IsValid() bool {
	return s == SignalSendNow || s == SignalWait || s == SignalUrgent
}

type FactorSignal string

const (
	FactorBullish FactorSignal = "bullish"
	FactorBearish FactorSignal = "bearish"
	FactorNeutral FactorSignal = "neutral"
)

type ForecastDirection string

const (
	ForecastRising  ForecastDirection = "rising"
	ForecastFalling ForecastDirection = "falling"
	ForecastSteady  ForecastDirection = "steady"
)

// RatePoint is one observed trading day of the AUD/INR pair.
// Rate is the best available platform rate; MidMarket the unmarked-up
// reference rate. Rate <= MidMarket by construction (providers apply a
// margin below mid-market).
type RatePoint struct {
	Date           time.Time `json:"date"`
	Label          string    `json:"label"`
	Rate           float64   `json:"rate"`
	MidMarket      float64   `json:"mid_market"`
	RelativeVolume float64   `json:"relative_volume,omitempty"`
}

// RateStatistics is a derived snapshot of a rate series. Every field is a
// pure function of the input series; recomputing on an identical series
// yields identical values.
type RateStatistics struct {
	Current        float64 `json:"current"`
	Avg7d          float64 `json:"avg_7d"`
	Avg30d         float64 `json:"avg_30d"`
	Avg90d         float64 `json:"avg_90d"`
	High30d        float64 `json:"high_30d"`
	Low30d         float64 `json:"low_30d"`
	High90d        float64 `json:"high_90d"`
	Low90d         float64 `json:"low_90d"`
	WeekChange     float64 `json:"week_change"`
	WeekChangePct  float64 `json:"week_change_pct"`
	MonthChange    float64 `json:"month_change"`
	MonthChangePct float64 `json:"month_change_pct"`
	Volatility7d   float64 `json:"volatility_7d"`
	Volatility30d  float64 `json:"volatility_30d"`
	RSI14          float64 `json:"rsi_14"`
	Momentum       float64 `json:"momentum"`
	SMA7           float64 `json:"sma_7"`
	SMA20          float64 `json:"sma_20"`
	EMA12          float64 `json:"ema_12"`
	EMA26          float64 `json:"ema_26"`
	MACDLine       float64 `json:"macd_line"`
	MACDSignal     float64 `json:"macd_signal"`
	Percentile30d  float64 `json:"percentile_30d"`
	Percentile90d  float64 `json:"percentile_90d"`
}

// SignalFactor is one named, independently justified contribution to the
// timing decision. The description embeds the numbers that produced the
// classification so callers can verify the reasoning without recomputation.
type SignalFactor struct {
	Name        string       `json:"name"`
	Signal      FactorSignal `json:"signal"`
	Weight      float64      `json:"weight"`
	Description string       `json:"description"`
}

type RateForecast struct {
	Direction  ForecastDirection `json:"direction"`
	Horizon    string            `json:"horizon"`
	Confidence int               `json:"confidence"`
	Reason     string            `json:"reason"`
}

type TimingRecommendation struct {
	Signal     TimingSignal   `json:"signal"`
	Confidence int            `json:"confidence"`
	Reason     string         `json:"reason"`
	Details    string         `json:"details"`
	Factors    []SignalFactor `json:"factors"`
	Forecast   RateForecast   `json:"forecast"`
}

type BacktestResult struct {
	TotalSignals          int     `json:"total_signals"`
	SendNowCorrect        int     `json:"send_now_correct"`
	SendNowTotal          int     `json:"send_now_total"`
	WaitCorrect           int     `json:"wait_correct"`
	WaitTotal             int     `json:"wait_total"`
	AvgSavingsPerTransfer float64 `json:"avg_savings_per_transfer"`
	Accuracy              float64 `json:"accuracy"`
}

type MacroImpact string

const (
	ImpactPositive MacroImpact = "positive"
	ImpactNegative MacroImpact = "negative"
	ImpactNeutral  MacroImpact = "neutral"
)

// MacroEvent is calendar-driven context attached to the intelligence
// payload. Events never feed the numeric decision.
type MacroEvent struct {
	Date        time.Time   `json:"date"`
	Event       string      `json:"event"`
	Impact      MacroImpact `json:"impact"`
	Description string      `json:"description"`
}

// IntelligenceData is the full bundle returned by one intelligence
// computation. It is created and fully owned by the call that produces it.
type IntelligenceData struct {
	ChartData      []RatePoint          `json:"chart_data"`
	FullHistory    []RatePoint          `json:"full_history"`
	Stats          RateStatistics       `json:"stats"`
	Recommendation TimingRecommendation `json:"recommendation"`
	Backtest       BacktestResult       `json:"backtest"`
	MacroEvents    []MacroEvent         `json:"macro_events"`
	MidMarketRate  float64              `json:"mid_market_rate"`
	Source         Provenance           `json:"source"`
	ComputedAt     time.Time            `json:"computed_at"`
}

// DailyRate is the persisted form of one trading day.
type DailyRate struct {
	Date      string    `json:"date"`
	MidMarket float64   `json:"mid_market"`
	BestRate  float64   `json:"best_rate"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}

// ProviderConfig holds the margin and fee schedule of one money-transfer
// provider. PromoMarginPct/PromoCap describe an optional promotional tier
// applied to the first PromoCap units of a transfer.
type ProviderConfig struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	MarginPct      float64  `json:"margin_pct"`
	BaseFee        float64  `json:"base_fee"`
	FeePct         float64  `json:"fee_pct"`
	PromoMarginPct *float64 `json:"promo_margin_pct,omitempty"`
	PromoCap       *float64 `json:"promo_cap,omitempty"`
	Speed          string   `json:"speed"`
	SpeedDays      float64  `json:"speed_days"`
	Stars          float64  `json:"stars"`
	Badge          string   `json:"badge,omitempty"`
	PromoText      string   `json:"promo_text,omitempty"`
}

// ProviderQuote is a ProviderConfig evaluated against a concrete transfer
// amount and mid-market rate.
type ProviderQuote struct {
	ProviderConfig
	Rate     float64 `json:"rate"`
	Fee      float64 `json:"fee"`
	Received float64 `json:"received"`
	Savings  float64 `json:"savings"`
}

type Alert struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	TargetRate  float64    `json:"target_rate"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	TriggeredAt *time.Time `json:"triggered_at,omitempty"`
	TriggerRate *float64   `json:"trigger_rate,omitempty"`
}
