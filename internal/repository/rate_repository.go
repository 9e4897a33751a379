package repository

import (
	"context"
	"time"

	"remitiq/internal/domain"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/trace"
)

type RateRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewRateRepository(pool PgxPool, tracer trace.Tracer) *RateRepository {
	return &RateRepository{pool: pool, tracer: tracer}
}

// UpsertDailyRates stores one row per calendar date. Existing dates are
// left untouched so a backfill never rewrites observed history.
func (r *RateRepository) UpsertDailyRates(ctx context.Context, rates []domain.DailyRate) error {
	if len(rates) == 0 {
		return nil
	}

	_, span := r.tracer.Start(ctx, "rate-repo.upsert-daily-rates")
	defer span.End()

	batch := &pgx.Batch{}
	for _, dr := range rates {
		batch.Queue(
			`INSERT INTO daily_rates (date, mid_market, best_rate, source, fetched_at)
			 VALUES ($1, $2, $3, $4, NOW())
			 ON CONFLICT (date) DO NOTHING`,
			dr.Date, dr.MidMarket, dr.BestRate, dr.Source,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range rates {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// RecentRates returns the most recent days of rates in ascending date order.
func (r *RateRepository) RecentRates(ctx context.Context, days int) ([]domain.DailyRate, error) {
	_, span := r.tracer.Start(ctx, "rate-repo.recent-rates")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT date, mid_market, best_rate, source, fetched_at
		 FROM daily_rates
		 ORDER BY date DESC
		 LIMIT $1`,
		days,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []domain.DailyRate
	for rows.Next() {
		var dr domain.DailyRate
		if err := rows.Scan(&dr.Date, &dr.MidMarket, &dr.BestRate, &dr.Source, &dr.FetchedAt); err != nil {
			return nil, err
		}
		rates = append(rates, dr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(rates)-1; i < j; i, j = i+1, j-1 {
		rates[i], rates[j] = rates[j], rates[i]
	}
	return rates, nil
}

func (r *RateRepository) LatestRate(ctx context.Context) (*domain.DailyRate, error) {
	_, span := r.tracer.Start(ctx, "rate-repo.latest-rate")
	defer span.End()

	var dr domain.DailyRate
	err := r.pool.QueryRow(ctx,
		`SELECT date, mid_market, best_rate, source, fetched_at
		 FROM daily_rates
		 ORDER BY date DESC
		 LIMIT 1`,
	).Scan(&dr.Date, &dr.MidMarket, &dr.BestRate, &dr.Source, &dr.FetchedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dr, nil
}

func (r *RateRepository) Count(ctx context.Context) (int, error) {
	_, span := r.tracer.Start(ctx, "rate-repo.count")
	defer span.End()

	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM daily_rates`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// RatePoints converts persisted rows to the analytics input series.
func RatePoints(rates []domain.DailyRate) []domain.RatePoint {
	points := make([]domain.RatePoint, 0, len(rates))
	for _, dr := range rates {
		d, err := time.ParseInLocation("2006-01-02", dr.Date, time.UTC)
		if err != nil {
			continue
		}
		points = append(points, domain.RatePoint{
			Date:      d,
			Label:     d.Format("2 Jan"),
			Rate:      dr.BestRate,
			MidMarket: dr.MidMarket,
		})
	}
	return points
}
