package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"remitiq/internal/cache"
	"remitiq/internal/domain"
	"remitiq/internal/ratesource"

	"go.opentelemetry.io/otel/trace"
)

func testClock() time.Time {
	return time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
}

func persistedRates(n int, base float64) []domain.DailyRate {
	rates := make([]domain.DailyRate, 0, n)
	start := testClock().AddDate(0, 0, -n)
	for i := 0; i < n; i++ {
		mid := base + float64(i)*0.01
		rates = append(rates, domain.DailyRate{
			Date:      start.AddDate(0, 0, i).Format("2006-01-02"),
			MidMarket: mid,
			BestRate:  ratesource.BestRateFor(mid),
			Source:    "frankfurter",
		})
	}
	return rates
}

func newTestIntelligenceService(
	source ratesource.Source,
	fallback ratesource.Source,
	seeder HistorySeeder,
	rates RateStore,
	cacheStore IntelligenceStore,
	engine IntelligenceEngine,
) *IntelligenceService {
	return NewIntelligenceService(
		trace.NewNoopTracerProvider().Tracer("test"),
		source, fallback, seeder, rates, cacheStore, engine, testClock,
	)
}

func TestIntelligenceServiceServesFromCache(t *testing.T) {
	cached := domain.IntelligenceData{MidMarketRate: 64.2, Source: domain.ProvenanceLive}
	cacheStore := &stubIntelligenceStore{data: &cached}
	engine := &stubIntelligenceEngine{}
	svc := newTestIntelligenceService(
		&stubRateSource{}, &stubRateSource{}, nil,
		&stubRateStore{count: 200}, cacheStore, engine,
	)

	got, err := svc.GetIntelligence(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MidMarketRate != 64.2 {
		t.Fatalf("expected cached payload, got mid-market %v", got.MidMarketRate)
	}
	if engine.computeCalls != 0 {
		t.Fatalf("cache hit must not recompute, engine ran %d times", engine.computeCalls)
	}
}

func TestIntelligenceServiceCacheMissRunsPipeline(t *testing.T) {
	store := &stubRateStore{count: 200, recent: persistedRates(60, 63.0)}
	cacheStore := &stubIntelligenceStore{}
	engine := &stubIntelligenceEngine{
		result: domain.IntelligenceData{MidMarketRate: 64.5},
	}
	source := &stubRateSource{latest: ratesource.LatestRate{Rate: 64.5, Source: "wise"}}
	svc := newTestIntelligenceService(source, &stubRateSource{}, nil, store, cacheStore, engine)

	got, err := svc.GetIntelligence(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MidMarketRate != 64.5 {
		t.Fatalf("expected computed payload, got %v", got.MidMarketRate)
	}
	if engine.computeCalls != 1 {
		t.Fatalf("expected one compute, got %d", engine.computeCalls)
	}
	if engine.lastProvenance != domain.ProvenanceLive {
		t.Fatalf("expected live provenance, got %s", engine.lastProvenance)
	}
	if engine.lastMidMarket != 64.5 {
		t.Fatalf("expected mid-market 64.5 handed to engine, got %v", engine.lastMidMarket)
	}
	if cacheStore.putCalls != 1 {
		t.Fatalf("expected refreshed payload cached, put ran %d times", cacheStore.putCalls)
	}
	if len(store.upserted) != 1 {
		t.Fatalf("expected one upsert batch for today's rate, got %d", len(store.upserted))
	}
	today := store.upserted[0]
	if today.Date != "2025-06-10" || today.Source != "wise" {
		t.Fatalf("unexpected persisted rate: %+v", today)
	}
	if today.BestRate != ratesource.BestRateFor(64.5) {
		t.Fatalf("expected platform-adjusted best rate, got %v", today.BestRate)
	}
}

func TestIntelligenceServiceSeedsSparseStore(t *testing.T) {
	store := &stubRateStore{count: 10, recent: persistedRates(60, 63.0)}
	seeder := &stubHistorySeeder{points: syntheticPoints(700, 62.0)}
	engine := &stubIntelligenceEngine{}
	svc := newTestIntelligenceService(
		&stubRateSource{latest: ratesource.LatestRate{Rate: 64.0, Source: "wise"}},
		&stubRateSource{}, seeder, store, &stubIntelligenceStore{}, engine,
	)

	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seeder.calls != 1 {
		t.Fatalf("expected one seed pass, got %d", seeder.calls)
	}
	if seeder.lastYears != seedYears {
		t.Fatalf("expected %d-year seed, got %d", seedYears, seeder.lastYears)
	}
	if len(store.upserted) != 701 {
		t.Fatalf("expected 700 seeded rows plus today's rate, got %d", len(store.upserted))
	}
	if store.upserted[0].Source != "frankfurter" {
		t.Fatalf("seeded rows should carry frankfurter source, got %s", store.upserted[0].Source)
	}
}

func TestIntelligenceServiceDeadUpstreamDegradesToReplay(t *testing.T) {
	store := &stubRateStore{count: 200, recent: persistedRates(60, 63.0)}
	engine := &stubIntelligenceEngine{}
	source := &stubRateSource{latestErr: errors.New("upstream down")}
	svc := newTestIntelligenceService(source, &stubRateSource{}, nil, store, &stubIntelligenceStore{}, engine)

	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("dead upstream should degrade, not fail: %v", err)
	}
	if engine.lastProvenance != domain.ProvenanceReplay {
		t.Fatalf("expected replay provenance, got %s", engine.lastProvenance)
	}
	if len(store.upserted) != 0 {
		t.Fatal("no rate should be persisted when the fetch fails")
	}
	if engine.lastMidMarket == 0 {
		t.Fatal("mid-market should fall back to the last persisted point")
	}
}

func TestIntelligenceServiceThinHistoryUsesSyntheticFallback(t *testing.T) {
	store := &stubRateStore{count: 200, recent: persistedRates(5, 63.0)}
	fallback := &stubRateSource{
		history:           syntheticPoints(90, 62.5),
		historyProvenance: domain.ProvenanceFallback,
	}
	engine := &stubIntelligenceEngine{}
	svc := newTestIntelligenceService(
		&stubRateSource{latestErr: errors.New("down")},
		fallback, nil, store, &stubIntelligenceStore{}, engine,
	)

	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fallback.historyCalls != 1 {
		t.Fatalf("expected synthetic fallback, got %d history calls", fallback.historyCalls)
	}
	if engine.lastProvenance != domain.ProvenanceFallback {
		t.Fatalf("expected fallback provenance, got %s", engine.lastProvenance)
	}
	if len(engine.lastPoints) != 90 {
		t.Fatalf("expected synthetic series handed to engine, got %d points", len(engine.lastPoints))
	}
}

func TestIntelligenceServiceRecentHistoryClampsDays(t *testing.T) {
	store := &stubRateStore{recent: persistedRates(30, 63.0)}
	svc := newTestIntelligenceService(
		&stubRateSource{}, &stubRateSource{}, nil, store, &stubIntelligenceStore{}, &stubIntelligenceEngine{},
	)

	if _, err := svc.RecentHistory(context.Background(), -1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.lastRecentDays != historyDays {
		t.Fatalf("expected clamp to %d days, got %d", historyDays, store.lastRecentDays)
	}

	points, err := svc.RecentHistory(context.Background(), 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.lastRecentDays != 30 {
		t.Fatalf("expected 30-day query, got %d", store.lastRecentDays)
	}
	if len(points) != 30 {
		t.Fatalf("expected 30 points, got %d", len(points))
	}
}

func TestIntelligenceServiceAppendsAnomalyEvent(t *testing.T) {
	store := &stubRateStore{count: 200, recent: persistedRates(90, 63.0)}
	engine := &stubIntelligenceEngine{
		result: domain.IntelligenceData{
			MacroEvents: []domain.MacroEvent{{Event: "RBI policy decision"}},
		},
	}
	detector := &stubAnomalyDetector{
		event: domain.MacroEvent{Event: "Unusual rate movement", Impact: domain.ImpactPositive},
		fire:  true,
	}
	svc := NewIntelligenceServiceWithAnomaly(
		trace.NewNoopTracerProvider().Tracer("test"),
		&stubRateSource{latest: ratesource.LatestRate{Rate: 64.0, Source: "wise"}},
		&stubRateSource{}, nil, store, &stubIntelligenceStore{}, engine, detector, testClock,
	)

	got, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detector.calls != 1 {
		t.Fatalf("expected one anomaly check, got %d", detector.calls)
	}
	if len(got.MacroEvents) != 2 {
		t.Fatalf("expected anomaly appended to calendar, got %d events", len(got.MacroEvents))
	}
	if got.MacroEvents[1].Event != "Unusual rate movement" {
		t.Fatalf("unexpected appended event: %+v", got.MacroEvents[1])
	}

	detector.fire = false
	got, err = svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.MacroEvents) != 1 {
		t.Fatalf("expected calendar untouched on a quiet day, got %d events", len(got.MacroEvents))
	}
}

type stubAnomalyDetector struct {
	event domain.MacroEvent
	fire  bool
	calls int
}

func (s *stubAnomalyDetector) Check(points []domain.RatePoint) (domain.MacroEvent, bool) {
	s.calls++
	if !s.fire {
		return domain.MacroEvent{}, false
	}
	return s.event, true
}

func syntheticPoints(n int, base float64) []domain.RatePoint {
	points := make([]domain.RatePoint, 0, n)
	start := testClock().AddDate(0, 0, -n)
	for i := 0; i < n; i++ {
		d := start.AddDate(0, 0, i)
		mid := base + float64(i)*0.005
		points = append(points, domain.RatePoint{
			Date:      d,
			Label:     d.Format("2 Jan"),
			Rate:      ratesource.BestRateFor(mid),
			MidMarket: mid,
		})
	}
	return points
}

type stubRateStore struct {
	count          int
	recent         []domain.DailyRate
	upserted       []domain.DailyRate
	lastRecentDays int
}

func (s *stubRateStore) UpsertDailyRates(ctx context.Context, rates []domain.DailyRate) error {
	s.upserted = append(s.upserted, rates...)
	return nil
}

func (s *stubRateStore) RecentRates(ctx context.Context, days int) ([]domain.DailyRate, error) {
	s.lastRecentDays = days
	return append([]domain.DailyRate(nil), s.recent...), nil
}

func (s *stubRateStore) Count(ctx context.Context) (int, error) {
	return s.count, nil
}

type stubHistorySeeder struct {
	points    []domain.RatePoint
	calls     int
	lastYears int
}

func (s *stubHistorySeeder) LongTermHistory(ctx context.Context, years int) ([]domain.RatePoint, error) {
	s.calls++
	s.lastYears = years
	return append([]domain.RatePoint(nil), s.points...), nil
}

type stubIntelligenceStore struct {
	data     *domain.IntelligenceData
	putCalls int
}

func (s *stubIntelligenceStore) Get(ctx context.Context) (domain.IntelligenceData, error) {
	if s.data == nil {
		return domain.IntelligenceData{}, cache.ErrCacheMiss
	}
	return *s.data, nil
}

func (s *stubIntelligenceStore) Put(ctx context.Context, data domain.IntelligenceData) error {
	s.putCalls++
	s.data = &data
	return nil
}

type stubIntelligenceEngine struct {
	result         domain.IntelligenceData
	computeCalls   int
	lastPoints     []domain.RatePoint
	lastMidMarket  float64
	lastProvenance domain.Provenance
}

func (s *stubIntelligenceEngine) Compute(points []domain.RatePoint, midMarket float64, source domain.Provenance) domain.IntelligenceData {
	s.computeCalls++
	s.lastPoints = points
	s.lastMidMarket = midMarket
	s.lastProvenance = source
	return s.result
}

type stubRateSource struct {
	latest            ratesource.LatestRate
	latestErr         error
	history           []domain.RatePoint
	historyProvenance domain.Provenance
	historyErr        error
	historyCalls      int
}

func (s *stubRateSource) LatestRate(ctx context.Context) (ratesource.LatestRate, error) {
	if s.latestErr != nil {
		return ratesource.LatestRate{}, s.latestErr
	}
	if s.latest.Rate == 0 {
		return ratesource.LatestRate{}, fmt.Errorf("no rate configured")
	}
	return s.latest, nil
}

func (s *stubRateSource) HistoricalRates(ctx context.Context, days int) ([]domain.RatePoint, domain.Provenance, error) {
	s.historyCalls++
	if s.historyErr != nil {
		return nil, "", s.historyErr
	}
	return append([]domain.RatePoint(nil), s.history...), s.historyProvenance, nil
}
