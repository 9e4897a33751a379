package repository

import (
	"context"

	"remitiq/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type AlertRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewAlertRepository(pool PgxPool, tracer trace.Tracer) *AlertRepository {
	return &AlertRepository{pool: pool, tracer: tracer}
}

func (r *AlertRepository) Insert(ctx context.Context, email string, targetRate float64) (int64, error) {
	_, span := r.tracer.Start(ctx, "alert-repo.insert")
	defer span.End()

	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO alerts (email, target_rate) VALUES ($1, $2) RETURNING id`,
		email, targetRate,
	).Scan(&id)
	return id, err
}

// ActiveBelow returns active alerts whose target is already met by the
// given rate.
func (r *AlertRepository) ActiveBelow(ctx context.Context, rate float64) ([]domain.Alert, error) {
	_, span := r.tracer.Start(ctx, "alert-repo.active-below")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT id, email, target_rate, is_active, created_at, triggered_at, trigger_rate
		 FROM alerts
		 WHERE is_active = TRUE AND target_rate <= $1`,
		rate,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []domain.Alert
	for rows.Next() {
		var a domain.Alert
		if err := rows.Scan(&a.ID, &a.Email, &a.TargetRate, &a.IsActive, &a.CreatedAt, &a.TriggeredAt, &a.TriggerRate); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// MarkTriggered deactivates an alert, recording the rate that fired it.
// Alerts fire once.
func (r *AlertRepository) MarkTriggered(ctx context.Context, id int64, triggerRate float64) error {
	_, span := r.tracer.Start(ctx, "alert-repo.mark-triggered")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`UPDATE alerts
		 SET is_active = FALSE, triggered_at = NOW(), trigger_rate = $2
		 WHERE id = $1`,
		id, triggerRate,
	)
	return err
}

func (r *AlertRepository) CountActive(ctx context.Context) (int, error) {
	_, span := r.tracer.Start(ctx, "alert-repo.count-active")
	defer span.End()

	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM alerts WHERE is_active = TRUE`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
