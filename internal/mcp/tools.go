package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerTools(server *mcp.Server, intelligence IntelligenceReader, providers ProviderQuoter, alerts AlertWriter) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "rates_get_current",
		Description: "Get the current AUD/INR best platform rate and mid-market reference",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ rateGetCurrentInput) (*mcp.CallToolResult, rateGetCurrentOutput, error) {
		if intelligence == nil {
			return nil, rateGetCurrentOutput{}, fmt.Errorf("intelligence service unavailable")
		}
		data, err := intelligence.GetIntelligence(ctx)
		if err != nil {
			return nil, rateGetCurrentOutput{}, err
		}
		return nil, rateGetCurrentOutput{
			Rate:       data.Stats.Current,
			MidMarket:  data.MidMarketRate,
			Source:     data.Source,
			ComputedAt: data.ComputedAt.Format("2006-01-02T15:04:05Z07:00"),
		}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "intelligence_get",
		Description: "Get the full AUD/INR analysis: statistics, timing recommendation, forecast, backtest and macro calendar",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ intelligenceGetInput) (*mcp.CallToolResult, intelligenceGetOutput, error) {
		if intelligence == nil {
			return nil, intelligenceGetOutput{}, fmt.Errorf("intelligence service unavailable")
		}
		data, err := intelligence.GetIntelligence(ctx)
		if err != nil {
			return nil, intelligenceGetOutput{}, err
		}
		return nil, intelligenceGetOutput{Intelligence: data}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "rates_history_list",
		Description: "Get the persisted daily AUD/INR series for the trailing N days",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in historyListInput) (*mcp.CallToolResult, historyListOutput, error) {
		if intelligence == nil {
			return nil, historyListOutput{}, fmt.Errorf("intelligence service unavailable")
		}
		days, err := normalizeDays(in.Days)
		if err != nil {
			return nil, historyListOutput{}, err
		}
		points, err := intelligence.RecentHistory(ctx, days)
		if err != nil {
			return nil, historyListOutput{}, err
		}
		return nil, historyListOutput{Days: days, History: points}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "providers_compare",
		Description: "Compare money-transfer providers for an AUD amount, ranked by INR received",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in providersCompareInput) (*mcp.CallToolResult, providersCompareOutput, error) {
		if intelligence == nil || providers == nil {
			return nil, providersCompareOutput{}, fmt.Errorf("provider service unavailable")
		}
		amount, err := normalizeAmount(in.Amount)
		if err != nil {
			return nil, providersCompareOutput{}, err
		}
		data, err := intelligence.GetIntelligence(ctx)
		if err != nil {
			return nil, providersCompareOutput{}, err
		}
		quotes, err := providers.RankedQuotes(ctx, amount, data.MidMarketRate)
		if err != nil {
			return nil, providersCompareOutput{}, err
		}
		return nil, providersCompareOutput{
			Amount:    amount,
			MidMarket: data.MidMarketRate,
			Providers: quotes,
		}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "alerts_create",
		Description: "Create a one-shot email alert that fires when the best rate reaches the target",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in alertsCreateInput) (*mcp.CallToolResult, alertsCreateOutput, error) {
		if alerts == nil {
			return nil, alertsCreateOutput{}, fmt.Errorf("alert service unavailable")
		}
		id, err := alerts.Create(ctx, in.Email, in.TargetRate)
		if err != nil {
			return nil, alertsCreateOutput{}, err
		}
		return nil, alertsCreateOutput{ID: id, TargetRate: in.TargetRate}, nil
	})
}
