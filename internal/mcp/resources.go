package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"remitiq/internal/service"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerResources(server *mcp.Server, intelligence IntelligenceReader, providers ProviderQuoter) {
	server.AddResource(&mcp.Resource{
		URI:         "rates://latest",
		Name:        "rates-latest",
		Description: "Current AUD/INR best platform rate and mid-market reference",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if intelligence == nil {
			return nil, fmt.Errorf("intelligence service unavailable")
		}
		data, err := intelligence.GetIntelligence(ctx)
		if err != nil {
			return nil, err
		}
		return jsonResource(req.Params.URI, rateGetCurrentOutput{
			Rate:       data.Stats.Current,
			MidMarket:  data.MidMarketRate,
			Source:     data.Source,
			ComputedAt: data.ComputedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	})

	server.AddResource(&mcp.Resource{
		URI:         "intelligence://current",
		Name:        "intelligence-current",
		Description: "Full AUD/INR rate analysis bundle",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if intelligence == nil {
			return nil, fmt.Errorf("intelligence service unavailable")
		}
		data, err := intelligence.GetIntelligence(ctx)
		if err != nil {
			return nil, err
		}
		return jsonResource(req.Params.URI, intelligenceGetOutput{Intelligence: data})
	})

	server.AddResource(&mcp.Resource{
		URI:         "providers://catalog",
		Name:        "providers-catalog",
		Description: "Static roster of supported money-transfer providers",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		_ = ctx
		return jsonResource(req.Params.URI, service.ProviderCatalog())
	})

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "rates://history{?days}",
		Name:        "rates-history",
		Description: "Persisted daily AUD/INR series; optional days query param (max 180)",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if intelligence == nil {
			return nil, fmt.Errorf("intelligence service unavailable")
		}

		parsed, err := url.Parse(req.Params.URI)
		if err != nil {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		if parsed.Scheme != "rates" || parsed.Host != "history" {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}

		days := 0
		if rawDays := strings.TrimSpace(parsed.Query().Get("days")); rawDays != "" {
			n, err := strconv.Atoi(rawDays)
			if err != nil {
				return nil, fmt.Errorf("invalid days: %s", rawDays)
			}
			days = n
		}
		days, err = normalizeDays(days)
		if err != nil {
			return nil, err
		}

		points, err := intelligence.RecentHistory(ctx, days)
		if err != nil {
			return nil, err
		}
		return jsonResource(req.Params.URI, historyListOutput{Days: days, History: points})
	})
}

func jsonResource(uri string, payload any) (*mcp.ReadResourceResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(body),
		}},
	}, nil
}
