package mcp

import (
	"fmt"

	"remitiq/internal/domain"
)

const (
	defaultHistoryDays = 30
	maxHistoryDays     = 180
	defaultAmount      = 2000
	maxAmount          = 1_000_000
)

type rateGetCurrentInput struct{}

type rateGetCurrentOutput struct {
	Rate       float64           `json:"rate"`
	MidMarket  float64           `json:"mid_market"`
	Source     domain.Provenance `json:"source"`
	ComputedAt string            `json:"computed_at"`
}

type intelligenceGetInput struct{}

type intelligenceGetOutput struct {
	Intelligence domain.IntelligenceData `json:"intelligence"`
}

type historyListInput struct {
	Days int `json:"days,omitempty" jsonschema:"number of trailing days, max 180"`
}

type historyListOutput struct {
	Days    int                `json:"days"`
	History []domain.RatePoint `json:"history"`
}

type providersCompareInput struct {
	Amount float64 `json:"amount,omitempty" jsonschema:"transfer amount in AUD, defaults to 2000"`
}

type providersCompareOutput struct {
	Amount    float64                `json:"amount"`
	MidMarket float64                `json:"mid_market"`
	Providers []domain.ProviderQuote `json:"providers"`
}

type alertsCreateInput struct {
	Email      string  `json:"email" jsonschema:"email address to notify"`
	TargetRate float64 `json:"target_rate" jsonschema:"AUD/INR rate that triggers the alert"`
}

type alertsCreateOutput struct {
	ID         int64   `json:"id"`
	TargetRate float64 `json:"target_rate"`
}

func normalizeDays(days int) (int, error) {
	if days == 0 {
		return defaultHistoryDays, nil
	}
	if days < 0 || days > maxHistoryDays {
		return 0, fmt.Errorf("days must be between 1 and %d", maxHistoryDays)
	}
	return days, nil
}

func normalizeAmount(amount float64) (float64, error) {
	if amount == 0 {
		return defaultAmount, nil
	}
	if amount < 0 || amount > maxAmount {
		return 0, fmt.Errorf("amount must be between 1 and %d", maxAmount)
	}
	return amount, nil
}
