package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"remitiq/internal/cache"
	"remitiq/internal/domain"
	"remitiq/internal/ratesource"
	"remitiq/internal/repository"

	"go.opentelemetry.io/otel/trace"
)

const (
	// Window handed to the analytics on every recompute.
	historyDays = 180

	// Below this count the store is considered unseeded and a long-term
	// backfill runs first.
	minSeededRates = 100

	seedYears = 3

	// Below this many usable points the live store is too thin to
	// analyze; the synthetic fallback takes over.
	minUsableHistory = 30
)

type RateStore interface {
	UpsertDailyRates(ctx context.Context, rates []domain.DailyRate) error
	RecentRates(ctx context.Context, days int) ([]domain.DailyRate, error)
	Count(ctx context.Context) (int, error)
}

type HistorySeeder interface {
	LongTermHistory(ctx context.Context, years int) ([]domain.RatePoint, error)
}

type IntelligenceStore interface {
	Get(ctx context.Context) (domain.IntelligenceData, error)
	Put(ctx context.Context, data domain.IntelligenceData) error
}

type IntelligenceEngine interface {
	Compute(points []domain.RatePoint, midMarket float64, source domain.Provenance) domain.IntelligenceData
}

// AnomalyDetector screens the assembled series for unusual behavior.
// Its verdicts are appended to the macro calendar as advisory context
// and never feed the numeric decision.
type AnomalyDetector interface {
	Check(points []domain.RatePoint) (domain.MacroEvent, bool)
}

type IntelligenceService struct {
	tracer   trace.Tracer
	source   ratesource.Source
	fallback ratesource.Source
	seeder   HistorySeeder
	rates    RateStore
	cache    IntelligenceStore
	engine   IntelligenceEngine
	anomaly  AnomalyDetector
	now      func() time.Time
}

func NewIntelligenceService(
	tracer trace.Tracer,
	source ratesource.Source,
	fallback ratesource.Source,
	seeder HistorySeeder,
	rates RateStore,
	cacheStore IntelligenceStore,
	engine IntelligenceEngine,
	now func() time.Time,
) *IntelligenceService {
	if now == nil {
		now = time.Now
	}
	return &IntelligenceService{
		tracer:   tracer,
		source:   source,
		fallback: fallback,
		seeder:   seeder,
		rates:    rates,
		cache:    cacheStore,
		engine:   engine,
		now:      now,
	}
}

func NewIntelligenceServiceWithAnomaly(
	tracer trace.Tracer,
	source ratesource.Source,
	fallback ratesource.Source,
	seeder HistorySeeder,
	rates RateStore,
	cacheStore IntelligenceStore,
	engine IntelligenceEngine,
	anomaly AnomalyDetector,
	now func() time.Time,
) *IntelligenceService {
	s := NewIntelligenceService(tracer, source, fallback, seeder, rates, cacheStore, engine, now)
	s.anomaly = anomaly
	return s
}

// GetIntelligence serves the cached payload, recomputing only on a miss.
func (s *IntelligenceService) GetIntelligence(ctx context.Context) (domain.IntelligenceData, error) {
	ctx, span := s.tracer.Start(ctx, "intelligence-service.get")
	defer span.End()

	data, err := s.cache.Get(ctx)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("intelligence cache read failed, recomputing: %v", err)
	}
	return s.Refresh(ctx)
}

// Refresh runs the full pipeline: seed the store if sparse, fetch and
// persist today's rate, assemble the series, compute, and cache. A dead
// upstream degrades to persisted history (replay) and then to the
// synthetic fallback rather than failing.
func (s *IntelligenceService) Refresh(ctx context.Context) (domain.IntelligenceData, error) {
	ctx, span := s.tracer.Start(ctx, "intelligence-service.refresh")
	defer span.End()

	if err := s.seedIfSparse(ctx); err != nil {
		return domain.IntelligenceData{}, fmt.Errorf("seed history: %w", err)
	}

	provenance := domain.ProvenanceReplay
	var midMarket float64

	latest, err := s.source.LatestRate(ctx)
	if err != nil {
		log.Printf("latest rate fetch failed, serving persisted history: %v", err)
	} else {
		provenance = domain.ProvenanceLive
		midMarket = latest.Rate
		today := s.now().UTC().Format("2006-01-02")
		dr := domain.DailyRate{
			Date:      today,
			MidMarket: latest.Rate,
			BestRate:  ratesource.BestRateFor(latest.Rate),
			Source:    latest.Source,
		}
		if err := s.rates.UpsertDailyRates(ctx, []domain.DailyRate{dr}); err != nil {
			return domain.IntelligenceData{}, fmt.Errorf("persist daily rate: %w", err)
		}
	}

	persisted, err := s.rates.RecentRates(ctx, historyDays)
	if err != nil {
		return domain.IntelligenceData{}, fmt.Errorf("load recent rates: %w", err)
	}
	points := repository.RatePoints(persisted)

	if len(points) < minUsableHistory {
		log.Printf("only %d usable points, generating synthetic series", len(points))
		var fbErr error
		points, provenance, fbErr = s.fallback.HistoricalRates(ctx, historyDays)
		if fbErr != nil {
			return domain.IntelligenceData{}, fmt.Errorf("synthetic fallback: %w", fbErr)
		}
	}

	if midMarket == 0 && len(points) > 0 {
		midMarket = points[len(points)-1].MidMarket
	}

	data := s.engine.Compute(points, midMarket, provenance)
	if s.anomaly != nil {
		if event, ok := s.anomaly.Check(points); ok {
			data.MacroEvents = append(data.MacroEvents, event)
		}
	}
	if err := s.cache.Put(ctx, data); err != nil {
		log.Printf("intelligence cache write failed: %v", err)
	}
	return data, nil
}

// RecentHistory exposes the persisted series for the public rate
// endpoints.
func (s *IntelligenceService) RecentHistory(ctx context.Context, days int) ([]domain.RatePoint, error) {
	ctx, span := s.tracer.Start(ctx, "intelligence-service.recent-history")
	defer span.End()

	if days <= 0 || days > historyDays {
		days = historyDays
	}
	persisted, err := s.rates.RecentRates(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("load recent rates: %w", err)
	}
	return repository.RatePoints(persisted), nil
}

func (s *IntelligenceService) seedIfSparse(ctx context.Context) error {
	count, err := s.rates.Count(ctx)
	if err != nil {
		return err
	}
	if count >= minSeededRates || s.seeder == nil {
		return nil
	}

	log.Printf("rate store has %d rows, seeding %d years of history", count, seedYears)
	points, err := s.seeder.LongTermHistory(ctx, seedYears)
	if err != nil {
		return err
	}

	rates := make([]domain.DailyRate, 0, len(points))
	for _, p := range points {
		rates = append(rates, domain.DailyRate{
			Date:      p.Date.Format("2006-01-02"),
			MidMarket: p.MidMarket,
			BestRate:  p.Rate,
			Source:    "frankfurter",
		})
	}
	return s.rates.UpsertDailyRates(ctx, rates)
}
