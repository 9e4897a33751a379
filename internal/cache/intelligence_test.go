package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"remitiq/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

func newTestCache(t *testing.T, ttl time.Duration) (*IntelligenceCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewIntelligenceCache(client, ttl, trace.NewNoopTracerProvider().Tracer("test")), mr
}

func TestIntelligenceCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)

	data := domain.IntelligenceData{
		MidMarketRate: 55.4,
		Source:        domain.ProvenanceLive,
		Stats:         domain.RateStatistics{Current: 55.21, RSI14: 62.5},
		Recommendation: domain.TimingRecommendation{
			Signal:     domain.SignalSendNow,
			Confidence: 72,
		},
		ComputedAt: time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC),
	}
	if err := cache.Put(context.Background(), data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := cache.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MidMarketRate != 55.4 || got.Source != domain.ProvenanceLive {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if got.Recommendation.Signal != domain.SignalSendNow || got.Recommendation.Confidence != 72 {
		t.Fatalf("unexpected recommendation: %+v", got.Recommendation)
	}
	if !got.ComputedAt.Equal(data.ComputedAt) {
		t.Fatalf("expected computed-at preserved, got %v", got.ComputedAt)
	}
}

func TestIntelligenceCacheKeyIsNamespaced(t *testing.T) {
	cache, mr := newTestCache(t, time.Hour)

	if err := cache.Put(context.Background(), domain.IntelligenceData{MidMarketRate: 55.4}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mr.Exists("remitiq:intelligence:aud-inr") {
		t.Fatalf("expected namespaced key, got %v", mr.Keys())
	}
}

func TestIntelligenceCacheMiss(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)

	if _, err := cache.Get(context.Background()); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected cache miss, got %v", err)
	}
}

func TestIntelligenceCacheExpires(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)

	if err := cache.Put(context.Background(), domain.IntelligenceData{MidMarketRate: 55.4}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := cache.Get(context.Background()); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss after ttl, got %v", err)
	}
}

func TestIntelligenceCacheInvalidate(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)

	if err := cache.Put(context.Background(), domain.IntelligenceData{MidMarketRate: 55.4}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cache.Invalidate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cache.Get(context.Background()); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss after invalidate, got %v", err)
	}
}
