package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Tab bar styles
	TabStyle       = lipgloss.NewStyle().Padding(0, 2)
	ActiveTabStyle = TabStyle.Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))
	InactiveTabStyle = TabStyle.
				Foreground(lipgloss.Color("#888888"))

	// Rate movement colors
	RateUpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	RateDownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	RateFlatStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

	// Timing signal colors
	SignalSendStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)
	SignalWaitStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00")).Bold(true)
	SignalUrgentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)

	// General styles
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	SubtextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	BorderStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#555555"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	SpinnerColor = lipgloss.Color("#7D56F4")

	// Chat styles
	UserMsgStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	AssistantMsgStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))

	// Provider ranking styles
	BestQuoteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)
	BadgeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#FFFF00"))

	// Accuracy bar colors
	AccuracyGoodStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	AccuracyOkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))
	AccuracyBadStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
)
