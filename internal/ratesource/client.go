package ratesource

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"time"

	"remitiq/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	defaultWiseBaseURL        = "https://wise.com"
	defaultFrankfurterBaseURL = "https://api.frankfurter.app"

	wiseHistoryMaxDays = 30
	minUsableHistory   = 10

	userAgent = "RemitIQ/1.0"
)

// Client fetches live AUD/INR rates. Wise is the primary upstream; the
// Frankfurter ECB feed is the fallback for both latest and history.
type Client struct {
	httpClient         *http.Client
	wiseBaseURL        string
	frankfurterBaseURL string
	tracer             trace.Tracer
}

type ClientOption func(*Client)

func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) { cl.httpClient = c }
}

func WithWiseBaseURL(u string) ClientOption {
	return func(cl *Client) { cl.wiseBaseURL = u }
}

func WithFrankfurterBaseURL(u string) ClientOption {
	return func(cl *Client) { cl.frankfurterBaseURL = u }
}

func NewClient(tracer trace.Tracer, opts ...ClientOption) *Client {
	c := &Client{
		httpClient:         &http.Client{Timeout: 10 * time.Second},
		wiseBaseURL:        defaultWiseBaseURL,
		frankfurterBaseURL: defaultFrankfurterBaseURL,
		tracer:             tracer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type wiseRate struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
	Time   int64   `json:"time"`
}

type frankfurterLatest struct {
	Date  string `json:"date"`
	Rates struct {
		INR float64 `json:"INR"`
	} `json:"rates"`
}

type frankfurterSeries struct {
	Rates map[string]struct {
		INR float64 `json:"INR"`
	} `json:"rates"`
}

// LatestRate returns the current mid-market quote, Wise first with a
// Frankfurter fallback.
func (c *Client) LatestRate(ctx context.Context) (LatestRate, error) {
	ctx, span := c.tracer.Start(ctx, "ratesource.latest-rate")
	defer span.End()

	var wise wiseRate
	err := c.getJSON(ctx, c.wiseBaseURL+"/rates/live?source=AUD&target=INR", &wise)
	if err == nil && wise.Value > 0 {
		return LatestRate{Rate: wise.Value, Source: "wise"}, nil
	}
	if err != nil {
		log.Printf("wise live rate failed, falling back to frankfurter: %v", err)
	}

	var latest frankfurterLatest
	if err := c.getJSON(ctx, c.frankfurterBaseURL+"/latest?from=AUD&to=INR", &latest); err != nil {
		return LatestRate{}, fmt.Errorf("fetch latest rate: %w", err)
	}
	if latest.Rates.INR <= 0 {
		return LatestRate{}, fmt.Errorf("frankfurter returned empty INR rate")
	}
	return LatestRate{Rate: latest.Rates.INR, Source: "frankfurter"}, nil
}

// HistoricalRates returns up to days of daily points in ascending date
// order. Wise serves at most 30 days; longer requests go straight to
// Frankfurter.
func (c *Client) HistoricalRates(ctx context.Context, days int) ([]domain.RatePoint, domain.Provenance, error) {
	ctx, span := c.tracer.Start(ctx, "ratesource.historical-rates")
	defer span.End()

	if days <= wiseHistoryMaxDays {
		points, err := c.wiseHistory(ctx, days)
		if err == nil && len(points) >= minUsableHistory {
			return points, domain.ProvenanceLive, nil
		}
		if err != nil {
			log.Printf("wise history failed, falling back to frankfurter: %v", err)
		}
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)
	points, err := c.frankfurterRange(ctx, start, end)
	if err != nil {
		return nil, "", fmt.Errorf("fetch historical rates: %w", err)
	}
	return points, domain.ProvenanceLive, nil
}

// LongTermHistory fetches up to years of daily rates in yearly chunks, for
// one-time history seeding. Failed chunks are skipped rather than failing
// the whole seed.
func (c *Client) LongTermHistory(ctx context.Context, years int) ([]domain.RatePoint, error) {
	ctx, span := c.tracer.Start(ctx, "ratesource.long-term-history")
	defer span.End()

	var all []domain.RatePoint
	now := time.Now().UTC()
	for y := years; y > 0; y-- {
		start := now.AddDate(-y, 0, 0)
		end := now.AddDate(-(y - 1), 0, 0)
		points, err := c.frankfurterRange(ctx, start, end)
		if err != nil {
			log.Printf("long-term chunk -%dy failed: %v", y, err)
			continue
		}
		all = append(all, points...)
	}

	seen := make(map[string]bool, len(all))
	deduped := all[:0]
	for _, p := range all {
		key := p.Date.Format("2006-01-02")
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, p)
	}
	sort.Slice(deduped, func(i, j int) bool { return deduped[i].Date.Before(deduped[j].Date) })
	return deduped, nil
}

func (c *Client) wiseHistory(ctx context.Context, days int) ([]domain.RatePoint, error) {
	url := fmt.Sprintf("%s/rates/history+live?source=AUD&target=INR&length=%d&resolution=daily&unit=day", c.wiseBaseURL, days)

	var raw []wiseRate
	if err := c.getJSON(ctx, url, &raw); err != nil {
		return nil, err
	}

	points := make([]domain.RatePoint, 0, len(raw))
	for _, item := range raw {
		d := time.UnixMilli(item.Time).UTC()
		points = append(points, newPoint(d, item.Value))
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}

func (c *Client) frankfurterRange(ctx context.Context, start, end time.Time) ([]domain.RatePoint, error) {
	url := fmt.Sprintf("%s/%s..%s?from=AUD&to=INR",
		c.frankfurterBaseURL, start.Format("2006-01-02"), end.Format("2006-01-02"))

	var raw frankfurterSeries
	if err := c.getJSON(ctx, url, &raw); err != nil {
		return nil, err
	}

	points := make([]domain.RatePoint, 0, len(raw.Rates))
	for dateStr, rates := range raw.Rates {
		d, err := time.ParseInLocation("2006-01-02", dateStr, time.UTC)
		if err != nil {
			continue
		}
		points = append(points, newPoint(d, rates.INR))
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func newPoint(date time.Time, midMarket float64) domain.RatePoint {
	return domain.RatePoint{
		Date:      date,
		Label:     date.Format("2 Jan"),
		Rate:      BestRateFor(midMarket),
		MidMarket: midMarket,
	}
}
