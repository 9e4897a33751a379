package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"remitiq/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

const intelligenceKey = keyPrefix + "intelligence:aud-inr"

// ErrCacheMiss is returned when no fresh payload is stored.
var ErrCacheMiss = errors.New("intelligence cache miss")

// IntelligenceCache stores the last computed intelligence payload under an
// explicit TTL. Freshness is the TTL itself; an expired entry is a miss,
// never served stale.
type IntelligenceCache struct {
	client *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

func NewIntelligenceCache(client *redis.Client, ttl time.Duration, tracer trace.Tracer) *IntelligenceCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &IntelligenceCache{client: client, ttl: ttl, tracer: tracer}
}

func (c *IntelligenceCache) Put(ctx context.Context, data domain.IntelligenceData) error {
	ctx, span := c.tracer.Start(ctx, "cache.intelligence-put")
	defer span.End()

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal intelligence: %w", err)
	}
	if err := c.client.Set(ctx, intelligenceKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("store intelligence: %w", err)
	}
	return nil
}

func (c *IntelligenceCache) Get(ctx context.Context) (domain.IntelligenceData, error) {
	ctx, span := c.tracer.Start(ctx, "cache.intelligence-get")
	defer span.End()

	var data domain.IntelligenceData
	payload, err := c.client.Get(ctx, intelligenceKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return data, ErrCacheMiss
	}
	if err != nil {
		return data, fmt.Errorf("load intelligence: %w", err)
	}
	if err := json.Unmarshal(payload, &data); err != nil {
		return data, fmt.Errorf("decode intelligence: %w", err)
	}
	return data, nil
}

func (c *IntelligenceCache) Invalidate(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "cache.intelligence-invalidate")
	defer span.End()

	return c.client.Del(ctx, intelligenceKey).Err()
}
