package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"remitiq/internal/cache"
	"remitiq/internal/domain"
	"remitiq/internal/ratesource"
	"remitiq/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testIntelligence() domain.IntelligenceData {
	return domain.IntelligenceData{
		Stats:         domain.RateStatistics{Current: 64.1},
		MidMarketRate: 64.32,
		Source:        domain.ProvenanceLive,
		Recommendation: domain.TimingRecommendation{
			Signal:     domain.SignalSendNow,
			Confidence: 50,
		},
		ComputedAt: time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestGetIntelligenceSuccess(t *testing.T) {
	h := newTestHandler(testIntelligence(), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/intelligence", nil)

	router := gin.New()
	h.RegisterRoutes(router)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var data domain.IntelligenceData
	if err := json.Unmarshal(w.Body.Bytes(), &data); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if data.Recommendation.Signal != domain.SignalSendNow {
		t.Fatalf("expected SEND_NOW payload, got %s", data.Recommendation.Signal)
	}
	if data.MidMarketRate != 64.32 {
		t.Fatalf("unexpected mid-market rate %v", data.MidMarketRate)
	}
}

func TestGetIntelligenceUnavailable(t *testing.T) {
	h := &Handler{tracer: trace.NewNoopTracerProvider().Tracer("handler-test")}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/intelligence", nil)

	router := gin.New()
	router.GET("/api/intelligence", h.GetIntelligence)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestGetIntelligencePipelineError(t *testing.T) {
	h := newTestHandler(domain.IntelligenceData{}, errors.New("store down"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/intelligence", nil)

	router := gin.New()
	router.GET("/api/intelligence", h.GetIntelligence)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestGetRates(t *testing.T) {
	h := newTestHandler(testIntelligence(), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/rates", nil)

	router := gin.New()
	router.GET("/api/rates", h.GetRates)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Rate      float64 `json:"rate"`
		MidMarket float64 `json:"mid_market"`
		Source    string  `json:"source"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if resp.Rate != 64.1 || resp.MidMarket != 64.32 || resp.Source != "live" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestGetRateHistoryInvalidDays(t *testing.T) {
	h := newTestHandler(testIntelligence(), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/rates/history?days=abc", nil)

	router := gin.New()
	router.GET("/api/rates/history", h.GetRateHistory)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetRateHistorySuccess(t *testing.T) {
	h := newTestHandler(testIntelligence(), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/rates/history?days=30", nil)

	router := gin.New()
	router.GET("/api/rates/history", h.GetRateHistory)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		History []domain.RatePoint `json:"history"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(resp.History) != 30 {
		t.Fatalf("expected 30 points, got %d", len(resp.History))
	}
}

func TestGetProvidersRanksQuotes(t *testing.T) {
	h := newTestHandler(testIntelligence(), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/providers?amount=2000", nil)

	router := gin.New()
	router.GET("/api/providers", h.GetProviders)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Amount    float64                `json:"amount"`
		MidMarket float64                `json:"mid_market"`
		Providers []domain.ProviderQuote `json:"providers"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if resp.Amount != 2000 {
		t.Fatalf("expected amount 2000, got %v", resp.Amount)
	}
	if len(resp.Providers) != len(service.ProviderCatalog()) {
		t.Fatalf("expected %d providers, got %d", len(service.ProviderCatalog()), len(resp.Providers))
	}
	for i := 1; i < len(resp.Providers); i++ {
		if resp.Providers[i].Received > resp.Providers[i-1].Received {
			t.Fatal("providers not ranked by received INR")
		}
	}
}

func TestGetProvidersInvalidAmount(t *testing.T) {
	h := newTestHandler(testIntelligence(), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/providers?amount=-5", nil)

	router := gin.New()
	router.GET("/api/providers", h.GetProviders)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreateAlert(t *testing.T) {
	h := newTestHandler(testIntelligence(), nil)

	w := httptest.NewRecorder()
	body := `{"email":"user@example.com","target_rate":64.5}`
	req := httptest.NewRequest(http.MethodPost, "/api/alerts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	router := gin.New()
	router.POST("/api/alerts", h.CreateAlert)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if resp.ID != 1 {
		t.Fatalf("expected id 1, got %d", resp.ID)
	}
}

func TestCreateAlertRejectsBadInput(t *testing.T) {
	h := newTestHandler(testIntelligence(), nil)
	router := gin.New()
	router.POST("/api/alerts", h.CreateAlert)

	for _, body := range []string{
		`{}`,
		`{"email":"user@example.com"}`,
		`{"email":"not-an-email","target_rate":64.5}`,
		`{"email":"user@example.com","target_rate":-1}`,
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/alerts", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", body, w.Code)
		}
	}
}

type stubIntelCache struct {
	data *domain.IntelligenceData
}

func (s *stubIntelCache) Get(ctx context.Context) (domain.IntelligenceData, error) {
	if s.data == nil {
		return domain.IntelligenceData{}, cache.ErrCacheMiss
	}
	return *s.data, nil
}

func (s *stubIntelCache) Put(ctx context.Context, data domain.IntelligenceData) error {
	s.data = &data
	return nil
}

type stubRateStore struct {
	countErr error
}

func (s *stubRateStore) UpsertDailyRates(ctx context.Context, rates []domain.DailyRate) error {
	return nil
}

func (s *stubRateStore) RecentRates(ctx context.Context, days int) ([]domain.DailyRate, error) {
	rates := make([]domain.DailyRate, 0, days)
	start := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days)
	for i := 0; i < days; i++ {
		rates = append(rates, domain.DailyRate{
			Date:      start.AddDate(0, 0, i).Format("2006-01-02"),
			MidMarket: 64.3,
			BestRate:  64.08,
			Source:    "frankfurter",
		})
	}
	return rates, nil
}

func (s *stubRateStore) Count(ctx context.Context) (int, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return 500, nil
}

type stubAlertStore struct {
	nextID int64
}

func (s *stubAlertStore) Insert(ctx context.Context, email string, targetRate float64) (int64, error) {
	s.nextID++
	return s.nextID, nil
}

func (s *stubAlertStore) ActiveBelow(ctx context.Context, rate float64) ([]domain.Alert, error) {
	return nil, nil
}

func (s *stubAlertStore) MarkTriggered(ctx context.Context, id int64, triggerRate float64) error {
	return nil
}

func (s *stubAlertStore) CountActive(ctx context.Context) (int, error) { return 0, nil }

func newTestHandler(data domain.IntelligenceData, pipelineErr error) *Handler {
	tracer := trace.NewNoopTracerProvider().Tracer("handler-test")

	cacheStore := &stubIntelCache{}
	if pipelineErr == nil {
		cacheStore.data = &data
	}
	rates := &stubRateStore{countErr: pipelineErr}
	fallback := ratesource.NewSynthetic(42, nil)

	intelligence := service.NewIntelligenceService(
		tracer, fallback, fallback, nil, rates, cacheStore, nil, nil,
	)
	providerService := service.NewProviderService(tracer, nil)
	alertService := service.NewAlertService(tracer, &stubAlertStore{}, nil)

	return New(tracer, intelligence, providerService, alertService)
}
