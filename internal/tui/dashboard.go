package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"remitiq/internal/domain"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Dashboard message types.
type intelligenceMsg domain.IntelligenceData
type intelligenceErrMsg struct{ err error }
type dashTickMsg time.Time

// DashboardModel is the Bubble Tea model for the live rate dashboard.
type DashboardModel struct {
	services Services
	data     domain.IntelligenceData
	loaded   bool
	loading  bool
	err      error
	width    int
	height   int
}

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel(svc Services) DashboardModel {
	return DashboardModel{
		services: svc,
		loading:  true,
	}
}

// Init fires the initial data fetch.
func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(
		m.fetchIntelligenceCmd(),
		m.tickCmd(),
	)
}

// Update handles incoming messages.
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case intelligenceMsg:
		m.data = domain.IntelligenceData(msg)
		m.loaded = true
		m.loading = false
		m.err = nil
		return m, nil

	case intelligenceErrMsg:
		m.err = msg.err
		m.loading = false
		return m, nil

	case dashTickMsg:
		return m, tea.Batch(
			m.fetchIntelligenceCmd(),
			m.tickCmd(),
		)
	}

	return m, nil
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	if m.loading && !m.loaded {
		return SubtextStyle.Render("Loading rate intelligence...")
	}
	if m.err != nil && !m.loaded {
		return ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	var sections []string

	rateBox := BorderStyle.Width(m.boxWidth(2)).Render(m.renderRatePanel())
	adviceBox := BorderStyle.Width(m.boxWidth(2)).Render(m.renderAdvicePanel())
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, rateBox, adviceBox))

	chartBox := BorderStyle.Width(m.width - 2).Render(m.renderChartPanel())
	sections = append(sections, chartBox)

	if len(m.data.MacroEvents) > 0 {
		eventBox := BorderStyle.Width(m.width - 2).Render(m.renderEventsPanel())
		sections = append(sections, eventBox)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the model dimensions.
func (m *DashboardModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Data returns the loaded analysis (for testing).
func (m DashboardModel) Data() domain.IntelligenceData { return m.data }

// Loaded reports whether a payload has arrived (for testing).
func (m DashboardModel) Loaded() bool { return m.loaded }

func (m DashboardModel) boxWidth(columns int) int {
	w := m.width/columns - 2
	if w < 30 {
		w = 30
	}
	return w
}

func (m DashboardModel) renderRatePanel() string {
	stats := m.data.Stats
	lines := []string{
		HeaderStyle.Render("  AUD/INR"),
		fmt.Sprintf("  Best rate:   %.4f", stats.Current),
		fmt.Sprintf("  Mid-market:  %.4f", m.data.MidMarketRate),
		"  Week:        " + FormatChange(stats.WeekChange, stats.WeekChangePct),
		"  Month:       " + FormatChange(stats.MonthChange, stats.MonthChangePct),
		fmt.Sprintf("  30d range:   %.4f - %.4f", stats.Low30d, stats.High30d),
		fmt.Sprintf("  RSI(14):     %.1f", stats.RSI14),
		SubtextStyle.Render(fmt.Sprintf("  Source: %s, computed %s", m.data.Source, m.data.ComputedAt.Format("15:04 MST"))),
	}
	return strings.Join(lines, "\n")
}

func (m DashboardModel) renderAdvicePanel() string {
	rec := m.data.Recommendation
	render := SignalStyleFor(rec.Signal)

	lines := []string{
		HeaderStyle.Render("  Transfer Timing"),
		fmt.Sprintf("  %s  %d%% confidence", render(string(rec.Signal)), rec.Confidence),
		"  " + rec.Reason,
	}
	if rec.Forecast.Direction != "" {
		lines = append(lines, SubtextStyle.Render(fmt.Sprintf(
			"  Forecast: %s over %s (%d%%)",
			rec.Forecast.Direction, rec.Forecast.Horizon, rec.Forecast.Confidence,
		)))
	}
	if m.data.Backtest.TotalSignals > 0 {
		lines = append(lines, SubtextStyle.Render(fmt.Sprintf(
			"  Backtest: %.0f%% accurate over %d signals",
			m.data.Backtest.Accuracy, m.data.Backtest.TotalSignals,
		)))
	}
	return strings.Join(lines, "\n")
}

func (m DashboardModel) renderChartPanel() string {
	sparkWidth := m.width - 8
	if sparkWidth < 20 {
		sparkWidth = 20
	}
	return HeaderStyle.Render("  90-Day Trend") + "\n  " + RenderSparkline(m.data.ChartData, sparkWidth)
}

func (m DashboardModel) renderEventsPanel() string {
	lines := []string{HeaderStyle.Render("  Macro Calendar")}
	count := len(m.data.MacroEvents)
	if count > 5 {
		count = 5
	}
	for i := 0; i < count; i++ {
		e := m.data.MacroEvents[i]
		lines = append(lines, fmt.Sprintf("  %s  %s (%s)",
			SubtextStyle.Render(e.Date.Format("02 Jan")), e.Event, e.Impact))
	}
	return strings.Join(lines, "\n")
}

func (m DashboardModel) fetchIntelligenceCmd() tea.Cmd {
	return func() tea.Msg {
		if m.services.Intelligence == nil {
			return intelligenceErrMsg{err: fmt.Errorf("intelligence service not available")}
		}
		data, err := m.services.Intelligence.GetIntelligence(context.Background())
		if err != nil {
			return intelligenceErrMsg{err: err}
		}
		return intelligenceMsg(data)
	}
}

func (m DashboardModel) tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return dashTickMsg(t)
	})
}
