package repository

import (
	"context"

	"remitiq/internal/domain"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/trace"
)

// ProviderRepository stores the margin and fee schedule per provider.
// Display metadata (name, speed, rating) stays with the static provider
// catalog; only the pricing knobs are database-overridable.
type ProviderRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewProviderRepository(pool PgxPool, tracer trace.Tracer) *ProviderRepository {
	return &ProviderRepository{pool: pool, tracer: tracer}
}

func (r *ProviderRepository) ListConfigs(ctx context.Context) ([]domain.ProviderConfig, error) {
	_, span := r.tracer.Start(ctx, "provider-repo.list-configs")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT platform_id, margin_pct, base_fee, fee_pct, promo_margin_pct, promo_cap
		 FROM provider_configs`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []domain.ProviderConfig
	for rows.Next() {
		var cfg domain.ProviderConfig
		if err := rows.Scan(&cfg.ID, &cfg.MarginPct, &cfg.BaseFee, &cfg.FeePct, &cfg.PromoMarginPct, &cfg.PromoCap); err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

func (r *ProviderRepository) UpsertConfigs(ctx context.Context, configs []domain.ProviderConfig) error {
	if len(configs) == 0 {
		return nil
	}

	_, span := r.tracer.Start(ctx, "provider-repo.upsert-configs")
	defer span.End()

	batch := &pgx.Batch{}
	for _, cfg := range configs {
		batch.Queue(
			`INSERT INTO provider_configs
			 (platform_id, margin_pct, base_fee, fee_pct, promo_margin_pct, promo_cap, last_updated)
			 VALUES ($1, $2, $3, $4, $5, $6, NOW())
			 ON CONFLICT (platform_id) DO UPDATE SET
			     margin_pct = EXCLUDED.margin_pct,
			     base_fee = EXCLUDED.base_fee,
			     fee_pct = EXCLUDED.fee_pct,
			     promo_margin_pct = EXCLUDED.promo_margin_pct,
			     promo_cap = EXCLUDED.promo_cap,
			     last_updated = NOW()`,
			cfg.ID, cfg.MarginPct, cfg.BaseFee, cfg.FeePct, cfg.PromoMarginPct, cfg.PromoCap,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range configs {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// SeedIfEmpty writes the default catalog pricing on first run.
func (r *ProviderRepository) SeedIfEmpty(ctx context.Context, defaults []domain.ProviderConfig) error {
	ctx, span := r.tracer.Start(ctx, "provider-repo.seed-if-empty")
	defer span.End()

	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM provider_configs`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.UpsertConfigs(ctx, defaults)
}
