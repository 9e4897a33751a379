package bot

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"remitiq/internal/chart"
	"remitiq/internal/domain"

	tele "gopkg.in/telebot.v3"
)

type IntelligenceQuerier interface {
	GetIntelligence(ctx context.Context) (domain.IntelligenceData, error)
}

type ProviderQuoter interface {
	RankedQuotes(ctx context.Context, amount, midMarket float64) ([]domain.ProviderQuote, error)
}

type Advisor interface {
	Ask(ctx context.Context, chatID int64, message string) (string, error)
}

const botDefaultAmount = 2000

func StartTelegramBot(intelligence IntelligenceQuerier, providers ProviderQuoter, advisor Advisor) *AlertDispatcher {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return nil
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}
	alerts := NewAlertDispatcher(b)
	renderer := chart.NewRenderer()

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/rate", func(c tele.Context) error {
		if intelligence == nil {
			return c.Send("Rate data unavailable")
		}
		data, err := intelligence.GetIntelligence(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching rate: %v", err))
		}
		return c.Send(formatRateSummary(data))
	})

	b.Handle("/advice", func(c tele.Context) error {
		if intelligence == nil {
			return c.Send("Advice unavailable")
		}
		data, err := intelligence.GetIntelligence(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching advice: %v", err))
		}
		return c.Send(formatRecommendation(data.Recommendation))
	})

	b.Handle("/providers", func(c tele.Context) error {
		if intelligence == nil || providers == nil {
			return c.Send("Provider comparison unavailable")
		}

		amount, err := parseAmountArg(c.Args())
		if err != nil {
			return c.Send("Usage: /providers [amount in AUD]\nExample: /providers 2000")
		}

		data, err := intelligence.GetIntelligence(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching rate: %v", err))
		}
		quotes, err := providers.RankedQuotes(context.Background(), amount, data.MidMarketRate)
		if err != nil {
			return c.Send(fmt.Sprintf("Error comparing providers: %v", err))
		}
		return c.Send(formatQuotes(amount, quotes))
	})

	b.Handle("/alerts", func(c tele.Context) error {
		chat := c.Chat()
		if chat == nil {
			return c.Send("Unable to detect chat")
		}

		mode, err := parseAlertMode(c.Args())
		if err != nil {
			return c.Send("Usage: /alerts on | /alerts off | /alerts status")
		}

		switch mode {
		case "on":
			if alerts.Subscribe(chat.ID) {
				return c.Send("Rate alert broadcasts enabled for this chat.")
			}
			return c.Send("Rate alert broadcasts are already enabled for this chat.")
		case "off":
			if alerts.Unsubscribe(chat.ID) {
				return c.Send("Rate alert broadcasts disabled for this chat.")
			}
			return c.Send("Rate alert broadcasts are already disabled for this chat.")
		default:
			if alerts.IsSubscribed(chat.ID) {
				return c.Send("Alerts status: ON")
			}
			return c.Send("Alerts status: OFF")
		}
	})

	b.Handle("/chart", func(c tele.Context) error {
		if intelligence == nil {
			return c.Send("Chart unavailable")
		}
		data, err := intelligence.GetIntelligence(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching rate history: %v", err))
		}
		img, err := renderer.RenderRateChart(data.ChartData)
		if err != nil {
			return c.Send(fmt.Sprintf("Error rendering chart: %v", err))
		}
		photo := &tele.Photo{
			File:    tele.FromReader(bytes.NewReader(img)),
			Caption: fmt.Sprintf("AUD/INR 90-day trend (current %.2f)", data.Stats.Current),
		}
		return c.Send(photo)
	})

	b.Handle("/ask", func(c tele.Context) error {
		if advisor == nil {
			return c.Send("Advisor not configured. Set OPENAI_API_KEY to enable.")
		}
		question := strings.TrimSpace(c.Message().Payload)
		if question == "" {
			return c.Send("Usage: /ask <question>\nExample: /ask Should I send money this week?")
		}
		return handleAdvisorQuery(c, advisor, question)
	})

	b.Handle(tele.OnText, func(c tele.Context) error {
		if advisor == nil {
			return nil
		}
		text := strings.TrimSpace(c.Text())
		if text == "" {
			return nil
		}
		return handleAdvisorQuery(c, advisor, text)
	})

	log.Println("Telegram bot started")
	go b.Start()
	return alerts
}

func handleAdvisorQuery(c tele.Context, advisor Advisor, question string) error {
	_ = c.Notify(tele.Typing)

	reply, err := advisor.Ask(context.Background(), c.Chat().ID, question)
	if err != nil {
		log.Printf("advisor error for chat %d: %v", c.Chat().ID, err)
		return c.Send("Sorry, I'm having trouble right now. Try /rate or /providers for raw numbers.")
	}

	if len(reply) > 4000 {
		reply = reply[:4000] + "\n\n[truncated]"
	}

	return c.Send(reply)
}

func parseAmountArg(args []string) (float64, error) {
	if len(args) == 0 {
		return botDefaultAmount, nil
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
	if err != nil {
		return 0, err
	}
	if amount <= 0 || amount > 1_000_000 {
		return 0, fmt.Errorf("amount out of range")
	}
	return amount, nil
}

func formatRateSummary(data domain.IntelligenceData) string {
	return fmt.Sprintf(
		"AUD/INR: %.2f\nMid-market: %.2f\nWeek: %+.2f (%+.2f%%)\n30d range: %.2f - %.2f",
		data.Stats.Current,
		data.MidMarketRate,
		data.Stats.WeekChange,
		data.Stats.WeekChangePct,
		data.Stats.Low30d,
		data.Stats.High30d,
	)
}

func formatRecommendation(rec domain.TimingRecommendation) string {
	lines := []string{
		fmt.Sprintf("%s (%d%% confidence)", rec.Signal, rec.Confidence),
		rec.Reason,
	}
	if rec.Forecast.Direction != "" {
		lines = append(lines, fmt.Sprintf(
			"Forecast: %s over %s (%d%%)",
			rec.Forecast.Direction, rec.Forecast.Horizon, rec.Forecast.Confidence,
		))
	}
	return strings.Join(lines, "\n")
}

func formatQuotes(amount float64, quotes []domain.ProviderQuote) string {
	if len(quotes) == 0 {
		return "No provider quotes available right now."
	}
	lines := make([]string, 0, len(quotes)+1)
	lines = append(lines, fmt.Sprintf("Sending A$%.0f to India:", amount))
	for i, q := range quotes {
		lines = append(lines, fmt.Sprintf(
			"%d. %s: ₹%.0f (rate %.4f, fee A$%.2f)",
			i+1, q.Name, q.Received, q.Rate, q.Fee,
		))
	}
	return strings.Join(lines, "\n")
}
