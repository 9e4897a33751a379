package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"remitiq/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type ProviderConfigStore interface {
	ListConfigs(ctx context.Context) ([]domain.ProviderConfig, error)
	SeedIfEmpty(ctx context.Context, defaults []domain.ProviderConfig) error
}

// ProviderService ranks money-transfer providers by total INR payout for
// a given AUD amount. Display metadata comes from the static catalog;
// margins and fees can be overridden from the config store.
type ProviderService struct {
	tracer trace.Tracer
	store  ProviderConfigStore
}

func NewProviderService(tracer trace.Tracer, store ProviderConfigStore) *ProviderService {
	return &ProviderService{tracer: tracer, store: store}
}

func floatPtr(v float64) *float64 { return &v }

// ProviderCatalog is the static provider roster with margins verified
// manually against each platform. The store can override the pricing
// fields per provider.
func ProviderCatalog() []domain.ProviderConfig {
	return []domain.ProviderConfig{
		{ID: "wise", Name: "Wise", MarginPct: 0, BaseFee: 0.42, FeePct: 0.50, Speed: "Minutes", SpeedDays: 0, Stars: 4.8, Badge: "BEST RATE", PromoText: "First transfer free for new users"},
		{ID: "remitly", Name: "Remitly", MarginPct: 0.06, BaseFee: 0, FeePct: 0, PromoMarginPct: floatPtr(-0.93), PromoCap: floatPtr(1500), Speed: "Minutes", SpeedDays: 0, Stars: 4.7, Badge: "NO FEES", PromoText: "Zero fees on first 3 transfers"},
		{ID: "torfx", Name: "TorFX", MarginPct: 0.75, BaseFee: 0, FeePct: 0, Speed: "1-2 days", SpeedDays: 2, Stars: 4.6},
		{ID: "ofx", Name: "OFX", MarginPct: 0.86, BaseFee: 0, FeePct: 0, Speed: "1-2 days", SpeedDays: 2, Stars: 4.5, PromoText: "No fees on transfers over $1,000"},
		{ID: "instarem", Name: "Instarem", MarginPct: 1.03, BaseFee: 1.99, FeePct: 0, Speed: "Same day", SpeedDays: 0.5, Stars: 4.4},
		{ID: "wu", Name: "Western Union", MarginPct: 1.86, BaseFee: 4.99, FeePct: 0, Speed: "Minutes", SpeedDays: 0, Stars: 3.9, PromoText: "Zero fees & 0% margin for new users"},
	}
}

// RankedQuotes evaluates every provider against the amount and mid-market
// rate, sorted by received INR descending. Savings compare each quote
// against the worst payout in the list.
func (s *ProviderService) RankedQuotes(ctx context.Context, amount, midMarket float64) ([]domain.ProviderQuote, error) {
	ctx, span := s.tracer.Start(ctx, "provider-service.ranked-quotes")
	defer span.End()

	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	if midMarket <= 0 {
		return nil, fmt.Errorf("mid-market rate must be positive")
	}

	catalog := ProviderCatalog()
	if s.store != nil {
		if err := s.store.SeedIfEmpty(ctx, catalog); err != nil {
			return nil, fmt.Errorf("seed provider configs: %w", err)
		}
		overrides, err := s.store.ListConfigs(ctx)
		if err != nil {
			return nil, fmt.Errorf("list provider configs: %w", err)
		}
		catalog = mergeOverrides(catalog, overrides)
	}

	quotes := make([]domain.ProviderQuote, 0, len(catalog))
	for _, cfg := range catalog {
		quotes = append(quotes, quoteFor(cfg, amount, midMarket))
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].Received > quotes[j].Received
	})

	if len(quotes) > 1 {
		worst := quotes[len(quotes)-1].Received
		for i := range quotes {
			quotes[i].Savings = quotes[i].Received - worst
		}
	}
	return quotes, nil
}

func quoteFor(cfg domain.ProviderConfig, amount, midMarket float64) domain.ProviderQuote {
	fee := round2(cfg.BaseFee + amount*cfg.FeePct/100)
	amountAfterFee := amount - fee

	var rate float64
	if amountAfterFee > 0 {
		if cfg.PromoCap != nil && cfg.PromoMarginPct != nil {
			// Promo tier covers the first PromoCap units; the rest
			// converts at the standard margin. The quote carries the
			// blended effective rate.
			promoRate := midMarket * (1 - *cfg.PromoMarginPct/100)
			standardRate := midMarket * (1 - cfg.MarginPct/100)

			promoAmount := math.Min(amountAfterFee, *cfg.PromoCap)
			standardAmount := amountAfterFee - promoAmount

			rate = (promoAmount*promoRate + standardAmount*standardRate) / amountAfterFee
		} else {
			rate = midMarket * (1 - cfg.MarginPct/100)
		}
	}
	rate = round4(rate)

	received := math.Round(amountAfterFee * rate)
	if received < 0 {
		received = 0
	}

	return domain.ProviderQuote{
		ProviderConfig: cfg,
		Rate:           rate,
		Fee:            fee,
		Received:       received,
	}
}

func mergeOverrides(catalog, overrides []domain.ProviderConfig) []domain.ProviderConfig {
	byID := make(map[string]domain.ProviderConfig, len(overrides))
	for _, o := range overrides {
		byID[o.ID] = o
	}
	merged := make([]domain.ProviderConfig, len(catalog))
	for i, cfg := range catalog {
		if o, ok := byID[cfg.ID]; ok {
			cfg.MarginPct = o.MarginPct
			cfg.BaseFee = o.BaseFee
			cfg.FeePct = o.FeePct
			if o.PromoMarginPct != nil {
				cfg.PromoMarginPct = o.PromoMarginPct
			}
			if o.PromoCap != nil {
				cfg.PromoCap = o.PromoCap
			}
		}
		merged[i] = cfg
	}
	return merged
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
