package tui

import (
	"context"
	"fmt"
	"strings"

	"remitiq/internal/domain"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Backtest message types.
type backtestMsg domain.IntelligenceData
type backtestErrMsg struct{ err error }

const (
	backtestViewAccuracy = 0
	backtestViewFactors  = 1
)

// BacktestModel is the Bubble Tea model for the accuracy viewer. It
// shows the walk-forward backtest of the timing engine and the factor
// breakdown behind the current recommendation.
type BacktestModel struct {
	services   Services
	data       domain.IntelligenceData
	loaded     bool
	activeView int
	loading    bool
	err        error
	width      int
	height     int
}

// NewBacktestModel creates a new backtest viewer model.
func NewBacktestModel(svc Services) BacktestModel {
	return BacktestModel{
		services: svc,
		loading:  true,
	}
}

// Init fires the initial data fetch.
func (m BacktestModel) Init() tea.Cmd {
	return m.fetchCmd()
}

// Update handles incoming messages.
func (m BacktestModel) Update(msg tea.Msg) (BacktestModel, tea.Cmd) {
	switch msg := msg.(type) {
	case backtestMsg:
		m.data = domain.IntelligenceData(msg)
		m.loaded = true
		m.loading = false
		m.err = nil
		return m, nil

	case backtestErrMsg:
		m.err = msg.err
		m.loading = false
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DefaultKeyMap.ToggleView):
			m.activeView = 1 - m.activeView
			return m, nil

		case key.Matches(msg, DefaultKeyMap.Refresh):
			m.loading = true
			return m, m.fetchCmd()
		}
	}

	return m, nil
}

// View renders the backtest viewer.
func (m BacktestModel) View() string {
	var sections []string

	viewLabel := "[Accuracy]  Factors"
	if m.activeView == backtestViewFactors {
		viewLabel = " Accuracy  [Factors]"
	}
	sections = append(sections, HeaderStyle.Render("  Signal Accuracy")+"  "+SubtextStyle.Render(viewLabel))
	sections = append(sections, "")

	if m.loading && !m.loaded {
		sections = append(sections, SubtextStyle.Render("  Loading backtest data..."))
		return strings.Join(sections, "\n")
	}
	if m.err != nil && !m.loaded {
		sections = append(sections, ErrorStyle.Render(fmt.Sprintf("  Error: %v", m.err)))
		return strings.Join(sections, "\n")
	}

	if m.activeView == backtestViewAccuracy {
		sections = append(sections, m.renderAccuracyView()...)
	} else {
		sections = append(sections, m.renderFactorsView()...)
	}

	sections = append(sections, "")
	sections = append(sections, SubtextStyle.Render("  [v] toggle view  [R] refresh"))

	return strings.Join(sections, "\n")
}

// SetSize updates the model dimensions.
func (m *BacktestModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// ActiveView returns the current view index (for testing).
func (m BacktestModel) ActiveView() int { return m.activeView }

// HasData reports whether an analysis has loaded (for testing).
func (m BacktestModel) HasData() bool { return m.loaded }

func (m BacktestModel) renderAccuracyView() []string {
	bt := m.data.Backtest
	var lines []string

	if bt.TotalSignals == 0 {
		lines = append(lines, SubtextStyle.Render("  Not enough history for a walk-forward backtest yet."))
		return lines
	}

	barWidth := m.width/3 - 5
	if barWidth < 10 {
		barWidth = 10
	}
	if barWidth > 30 {
		barWidth = 30
	}

	lines = append(lines, HeaderStyle.Render("  Walk-Forward Backtest"))
	lines = append(lines, "")
	lines = append(lines, "  "+RenderBarChart("Overall", bt.Accuracy/100, barWidth)+fmt.Sprintf("  (%d signals)", bt.TotalSignals))

	if bt.SendNowTotal > 0 {
		frac := float64(bt.SendNowCorrect) / float64(bt.SendNowTotal)
		lines = append(lines, "  "+RenderBarChart("SEND_NOW", frac, barWidth)+fmt.Sprintf("  (%d/%d)", bt.SendNowCorrect, bt.SendNowTotal))
	}
	if bt.WaitTotal > 0 {
		frac := float64(bt.WaitCorrect) / float64(bt.WaitTotal)
		lines = append(lines, "  "+RenderBarChart("WAIT", frac, barWidth)+fmt.Sprintf("  (%d/%d)", bt.WaitCorrect, bt.WaitTotal))
	}

	lines = append(lines, "")
	lines = append(lines, SubtextStyle.Render(fmt.Sprintf(
		"  Avg savings per well-timed transfer: ₹%.0f", bt.AvgSavingsPerTransfer)))

	return lines
}

func (m BacktestModel) renderFactorsView() []string {
	factors := m.data.Recommendation.Factors
	var lines []string

	if len(factors) == 0 {
		lines = append(lines, SubtextStyle.Render("  No factor breakdown available."))
		return lines
	}

	lines = append(lines, HeaderStyle.Render("  Decision Factors"))
	lines = append(lines, "")

	for _, f := range factors {
		marker := RateFlatStyle.Render("·")
		switch f.Signal {
		case domain.FactorBullish:
			marker = RateUpStyle.Render("▲")
		case domain.FactorBearish:
			marker = RateDownStyle.Render("▼")
		}
		lines = append(lines, fmt.Sprintf("  %s %-22s %4.1f  %s",
			marker, f.Name, f.Weight, SubtextStyle.Render(f.Description)))
	}

	return lines
}

func (m BacktestModel) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		if m.services.Intelligence == nil {
			return backtestErrMsg{err: fmt.Errorf("intelligence service not available")}
		}
		data, err := m.services.Intelligence.GetIntelligence(context.Background())
		if err != nil {
			return backtestErrMsg{err: err}
		}
		return backtestMsg(data)
	}
}
