package mcp

import (
	"context"

	"remitiq/internal/domain"
)

// IntelligenceReader exposes read operations for the rate analysis.
type IntelligenceReader interface {
	GetIntelligence(ctx context.Context) (domain.IntelligenceData, error)
	RecentHistory(ctx context.Context, days int) ([]domain.RatePoint, error)
}

// ProviderQuoter exposes provider comparison for a transfer amount.
type ProviderQuoter interface {
	RankedQuotes(ctx context.Context, amount, midMarket float64) ([]domain.ProviderQuote, error)
}

// AlertWriter exposes rate alert creation.
type AlertWriter interface {
	Create(ctx context.Context, email string, targetRate float64) (int64, error)
}
