package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"remitiq/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type AlertStore interface {
	Insert(ctx context.Context, email string, targetRate float64) (int64, error)
	ActiveBelow(ctx context.Context, rate float64) ([]domain.Alert, error)
	MarkTriggered(ctx context.Context, id int64, triggerRate float64) error
	CountActive(ctx context.Context) (int, error)
}

// AlertNotifier delivers a triggered alert. Delivery failures do not roll
// back the trigger; an alert fires once.
type AlertNotifier interface {
	NotifyTriggered(ctx context.Context, alert domain.Alert, rate float64)
}

type AlertService struct {
	tracer   trace.Tracer
	store    AlertStore
	notifier AlertNotifier
}

func NewAlertService(tracer trace.Tracer, store AlertStore, notifier AlertNotifier) *AlertService {
	return &AlertService{tracer: tracer, store: store, notifier: notifier}
}

func (s *AlertService) Create(ctx context.Context, email string, targetRate float64) (int64, error) {
	_, span := s.tracer.Start(ctx, "alert-service.create")
	defer span.End()

	email = strings.TrimSpace(strings.ToLower(email))
	if !strings.Contains(email, "@") || len(email) < 5 {
		return 0, fmt.Errorf("invalid email address")
	}
	if targetRate <= 0 {
		return 0, fmt.Errorf("target rate must be positive")
	}

	id, err := s.store.Insert(ctx, email, targetRate)
	if err != nil {
		return 0, fmt.Errorf("insert alert: %w", err)
	}
	return id, nil
}

// Process fires every active alert whose target is met by the current
// best rate. Returns the number of alerts triggered.
func (s *AlertService) Process(ctx context.Context, bestRate float64) (int, error) {
	ctx, span := s.tracer.Start(ctx, "alert-service.process")
	defer span.End()

	if bestRate <= 0 {
		return 0, nil
	}

	alerts, err := s.store.ActiveBelow(ctx, bestRate)
	if err != nil {
		return 0, fmt.Errorf("list matching alerts: %w", err)
	}

	triggered := 0
	for _, a := range alerts {
		if err := s.store.MarkTriggered(ctx, a.ID, bestRate); err != nil {
			log.Printf("mark alert %d triggered failed: %v", a.ID, err)
			continue
		}
		triggered++
		if s.notifier != nil {
			s.notifier.NotifyTriggered(ctx, a, bestRate)
		}
	}
	return triggered, nil
}

func (s *AlertService) ActiveCount(ctx context.Context) (int, error) {
	_, span := s.tracer.Start(ctx, "alert-service.active-count")
	defer span.End()

	return s.store.CountActive(ctx)
}
