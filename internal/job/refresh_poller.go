package job

import (
	"context"
	"log"
	"time"

	"remitiq/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const defaultRefreshInterval = time.Hour

type IntelligenceRefresher interface {
	Refresh(ctx context.Context) (domain.IntelligenceData, error)
}

type AlertProcessor interface {
	Process(ctx context.Context, bestRate float64) (int, error)
}

// RefreshPoller periodically recomputes the intelligence payload and fires
// any rate alerts the fresh best rate satisfies.
type RefreshPoller struct {
	tracer   trace.Tracer
	refresh  IntelligenceRefresher
	alerts   AlertProcessor
	interval time.Duration
}

func NewRefreshPoller(tracer trace.Tracer, refresh IntelligenceRefresher, alerts AlertProcessor, interval time.Duration) *RefreshPoller {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	return &RefreshPoller{
		tracer:   tracer,
		refresh:  refresh,
		alerts:   alerts,
		interval: interval,
	}
}

// Start runs an immediate refresh then ticks until ctx is cancelled.
func (p *RefreshPoller) Start(ctx context.Context) {
	if p.refresh == nil {
		log.Println("Refresh poller disabled: no intelligence service")
		<-ctx.Done()
		return
	}

	log.Println("Refresh poller starting...")
	p.runOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Refresh poller stopped")
			return
		case <-ticker.C:
			p.runOnce(ctx)
		}
	}
}

func (p *RefreshPoller) runOnce(ctx context.Context) {
	if p.tracer != nil {
		_, span := p.tracer.Start(ctx, "refresh-poller.run")
		defer span.End()
	}

	data, err := p.refresh.Refresh(ctx)
	if err != nil {
		log.Printf("intelligence refresh error: %v", err)
		return
	}

	if p.alerts == nil {
		return
	}
	fired, err := p.alerts.Process(ctx, data.Stats.Current)
	if err != nil {
		log.Printf("alert processing error: %v", err)
		return
	}
	if fired > 0 {
		log.Printf("fired %d rate alert(s) at %.2f", fired, data.Stats.Current)
	}
}
