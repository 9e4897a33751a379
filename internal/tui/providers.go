package tui

import (
	"context"
	"fmt"
	"strings"

	"remitiq/internal/domain"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Provider explorer message types.
type quotesMsg struct {
	amount float64
	quotes []domain.ProviderQuote
}
type quotesErrMsg struct{ err error }

const (
	defaultCompareAmount = 2000
	amountStep           = 500
	minCompareAmount     = 500
	maxCompareAmount     = 50_000
)

// ProviderExplorerModel is the Bubble Tea model for the provider
// comparison screen. The transfer amount is adjustable from the
// keyboard and quotes re-rank on every change.
type ProviderExplorerModel struct {
	services Services
	amount   float64
	quotes   []domain.ProviderQuote
	loading  bool
	err      error
	width    int
	height   int
}

// NewProviderExplorerModel creates a new provider comparison model.
// A registered user's preferred transfer size seeds the amount when it
// falls within the adjustable range.
func NewProviderExplorerModel(svc Services) ProviderExplorerModel {
	amount := float64(defaultCompareAmount)
	if svc.DefaultAmount >= minCompareAmount && svc.DefaultAmount <= maxCompareAmount {
		amount = svc.DefaultAmount
	}
	return ProviderExplorerModel{
		services: svc,
		amount:   amount,
		loading:  true,
	}
}

// Init fires the initial quote fetch.
func (m ProviderExplorerModel) Init() tea.Cmd {
	return m.fetchQuotesCmd()
}

// Update handles incoming messages.
func (m ProviderExplorerModel) Update(msg tea.Msg) (ProviderExplorerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case quotesMsg:
		// Quotes for a stale amount can arrive after another key press.
		if msg.amount == m.amount {
			m.quotes = msg.quotes
			m.loading = false
			m.err = nil
		}
		return m, nil

	case quotesErrMsg:
		m.err = msg.err
		m.loading = false
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DefaultKeyMap.AmountUp):
			if m.amount+amountStep <= maxCompareAmount {
				m.amount += amountStep
				m.loading = true
				return m, m.fetchQuotesCmd()
			}
		case key.Matches(msg, DefaultKeyMap.AmountDown):
			if m.amount-amountStep >= minCompareAmount {
				m.amount -= amountStep
				m.loading = true
				return m, m.fetchQuotesCmd()
			}
		case key.Matches(msg, DefaultKeyMap.Refresh):
			m.loading = true
			return m, m.fetchQuotesCmd()
		}
	}

	return m, nil
}

// View renders the provider comparison.
func (m ProviderExplorerModel) View() string {
	var sections []string

	sections = append(sections, HeaderStyle.Render("  Provider Comparison")+
		SubtextStyle.Render(fmt.Sprintf("   sending A$%s", addCommas(fmt.Sprintf("%.0f", m.amount)))))
	sections = append(sections, "")

	switch {
	case m.loading && len(m.quotes) == 0:
		sections = append(sections, SubtextStyle.Render("  Fetching quotes..."))
	case m.err != nil && len(m.quotes) == 0:
		sections = append(sections, ErrorStyle.Render(fmt.Sprintf("  Error: %v", m.err)))
	case len(m.quotes) == 0:
		sections = append(sections, SubtextStyle.Render("  No quotes available."))
	default:
		sections = append(sections, SubtextStyle.Render("     Provider          Rate     Fee       Received"))
		sections = append(sections, SubtextStyle.Render("  "+strings.Repeat("─", 62)))
		for i, q := range m.quotes {
			sections = append(sections, "  "+FormatQuote(i+1, q))
		}
	}

	sections = append(sections, "")
	sections = append(sections, SubtextStyle.Render("  [+/-] adjust amount  [R] refresh"))

	return strings.Join(sections, "\n")
}

// SetSize updates the model dimensions.
func (m *ProviderExplorerModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Amount returns the current comparison amount (for testing).
func (m ProviderExplorerModel) Amount() float64 { return m.amount }

// Quotes returns the loaded quotes (for testing).
func (m ProviderExplorerModel) Quotes() []domain.ProviderQuote { return m.quotes }

func (m ProviderExplorerModel) fetchQuotesCmd() tea.Cmd {
	amount := m.amount
	return func() tea.Msg {
		if m.services.Intelligence == nil || m.services.Providers == nil {
			return quotesErrMsg{err: fmt.Errorf("provider service not available")}
		}
		data, err := m.services.Intelligence.GetIntelligence(context.Background())
		if err != nil {
			return quotesErrMsg{err: err}
		}
		quotes, err := m.services.Providers.RankedQuotes(context.Background(), amount, data.MidMarketRate)
		if err != nil {
			return quotesErrMsg{err: err}
		}
		return quotesMsg{amount: amount, quotes: quotes}
	}
}
