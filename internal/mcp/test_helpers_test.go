package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"remitiq/internal/domain"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type stubIntelligenceService struct {
	data    domain.IntelligenceData
	history []domain.RatePoint

	getCalls int
	lastDays int
}

func (s *stubIntelligenceService) GetIntelligence(ctx context.Context) (domain.IntelligenceData, error) {
	s.getCalls++
	return s.data, nil
}

func (s *stubIntelligenceService) RecentHistory(ctx context.Context, days int) ([]domain.RatePoint, error) {
	s.lastDays = days
	if days > 0 && len(s.history) > days {
		return append([]domain.RatePoint(nil), s.history[len(s.history)-days:]...), nil
	}
	return append([]domain.RatePoint(nil), s.history...), nil
}

type stubProviderQuoter struct {
	quotes []domain.ProviderQuote

	lastAmount    float64
	lastMidMarket float64
}

func (s *stubProviderQuoter) RankedQuotes(ctx context.Context, amount, midMarket float64) ([]domain.ProviderQuote, error) {
	s.lastAmount = amount
	s.lastMidMarket = midMarket
	return append([]domain.ProviderQuote(nil), s.quotes...), nil
}

type stubAlertWriter struct {
	nextID     int64
	lastEmail  string
	lastTarget float64
}

func (s *stubAlertWriter) Create(ctx context.Context, email string, targetRate float64) (int64, error) {
	s.nextID++
	s.lastEmail = email
	s.lastTarget = targetRate
	return s.nextID, nil
}

func testHistory(n int) []domain.RatePoint {
	start := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -n+1)
	points := make([]domain.RatePoint, 0, n)
	for i := 0; i < n; i++ {
		day := start.AddDate(0, 0, i)
		points = append(points, domain.RatePoint{
			Date:      day,
			Label:     day.Format("2 Jan"),
			Rate:      64.0 + float64(i)*0.01,
			MidMarket: 64.22 + float64(i)*0.01,
		})
	}
	return points
}

func testServer() (*sdkmcp.Server, *stubIntelligenceService, *stubProviderQuoter, *stubAlertWriter) {
	intelligence := &stubIntelligenceService{
		data: domain.IntelligenceData{
			Stats:         domain.RateStatistics{Current: 64.1},
			MidMarketRate: 64.32,
			Source:        domain.ProvenanceLive,
			Recommendation: domain.TimingRecommendation{
				Signal:     domain.SignalSendNow,
				Confidence: 50,
				Reason:     "Conditions are balanced",
			},
			ComputedAt: time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC),
		},
		history: testHistory(60),
	}
	providers := &stubProviderQuoter{
		quotes: []domain.ProviderQuote{
			{ProviderConfig: domain.ProviderConfig{ID: "wise", Name: "Wise"}, Rate: 64.32, Fee: 10.42, Received: 127969},
			{ProviderConfig: domain.ProviderConfig{ID: "wu", Name: "Western Union"}, Rate: 62.55, Fee: 4.9, Received: 124794},
		},
	}
	alerts := &stubAlertWriter{}

	srv := NewServer(nil, intelligence, providers, alerts, ServerConfig{RequestTimeout: time.Second})
	return srv, intelligence, providers, alerts
}

func connectInMemory(ctx context.Context, srv *sdkmcp.Server) (*sdkmcp.ClientSession, context.CancelFunc, error) {
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	runCtx, cancel := context.WithCancel(ctx)
	go func() { _ = srv.Run(runCtx, serverTransport) }()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "mcp-test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return session, cancel, nil
}

type authRoundTripper struct {
	token string
	base  http.RoundTripper
}

func (t *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if t.token != "" {
		clone.Header.Set("Authorization", "Bearer "+t.token)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}

func decodeResourceJSON(result *sdkmcp.ReadResourceResult, out any) error {
	if len(result.Contents) == 0 {
		return nil
	}
	return json.Unmarshal([]byte(result.Contents[0].Text), out)
}
