package tui

import (
	"context"

	"remitiq/internal/domain"
)

// IntelligenceQuerier provides the rate analysis bundle to the TUI.
type IntelligenceQuerier interface {
	GetIntelligence(ctx context.Context) (domain.IntelligenceData, error)
}

// ProviderQuerier provides ranked transfer quotes to the TUI.
type ProviderQuerier interface {
	RankedQuotes(ctx context.Context, amount, midMarket float64) ([]domain.ProviderQuote, error)
}

// AdvisorQuerier provides LLM advisor access to the TUI.
type AdvisorQuerier interface {
	Ask(ctx context.Context, chatID int64, message string) (string, error)
}

// SSHChatIDOffset is the base offset for generating synthetic chat IDs
// for SSH users. The final chat ID is SSHChatIDOffset - user.ID.
// This avoids collisions with Telegram chat IDs.
const SSHChatIDOffset int64 = -1_000_000

// Services bundles all service dependencies injected into the TUI.
// DefaultAmount is the registered user's preferred transfer size; zero
// means no profile and the provider screen falls back to its default.
type Services struct {
	Intelligence  IntelligenceQuerier
	Providers     ProviderQuerier
	Advisor       AdvisorQuerier
	UserID        int64
	Username      string
	DefaultAmount float64
}

// ChatID returns the synthetic chat ID for this SSH session.
func (s Services) ChatID() int64 {
	return SSHChatIDOffset - s.UserID
}
