package tui

import (
	"fmt"
	"math"
	"strings"

	"remitiq/internal/domain"
)

// FormatQuote renders a ranked provider quote as a single line.
func FormatQuote(rank int, q domain.ProviderQuote) string {
	nameStyle := SubtextStyle
	if rank == 1 {
		nameStyle = BestQuoteStyle
	}

	line := fmt.Sprintf("%d. %-14s %8.4f  fee A$%-7.2f ₹%-10s",
		rank,
		nameStyle.Render(q.Name),
		q.Rate,
		q.Fee,
		addCommas(fmt.Sprintf("%.0f", q.Received)),
	)
	if q.Savings > 0 {
		line += RateUpStyle.Render(fmt.Sprintf(" +₹%s vs worst", addCommas(fmt.Sprintf("%.0f", q.Savings))))
	}
	if q.Badge != "" {
		line += "  " + BadgeStyle.Render(" "+q.Badge+" ")
	}
	return line
}

// SignalStyleFor picks the display style for a timing signal.
func SignalStyleFor(signal domain.TimingSignal) func(...string) string {
	switch signal {
	case domain.SignalUrgent:
		return SignalUrgentStyle.Render
	case domain.SignalWait:
		return SignalWaitStyle.Render
	default:
		return SignalSendStyle.Render
	}
}

// RenderSparkline draws the rate series as a one-line unicode sparkline.
func RenderSparkline(points []domain.RatePoint, width int) string {
	if len(points) == 0 {
		return SubtextStyle.Render("No rate history")
	}
	if width <= 0 {
		width = 40
	}

	rates := make([]float64, 0, len(points))
	for _, p := range points {
		rates = append(rates, p.Rate)
	}
	if len(rates) > width {
		rates = rates[len(rates)-width:]
	}

	low, high := rates[0], rates[0]
	for _, r := range rates {
		if r < low {
			low = r
		}
		if r > high {
			high = r
		}
	}

	bars := []rune("▁▂▃▄▅▆▇█")
	span := high - low
	var b strings.Builder
	for _, r := range rates {
		idx := 0
		if span > 0 {
			idx = int((r - low) / span * float64(len(bars)-1))
		}
		b.WriteRune(bars[idx])
	}
	return b.String()
}

// RenderBarChart renders an ASCII bar chart of a 0..1 fraction.
func RenderBarChart(label string, fraction float64, barWidth int) string {
	if barWidth <= 0 {
		barWidth = 20
	}
	filled := int(math.Round(fraction * float64(barWidth)))
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	empty := barWidth - filled

	style := AccuracyGoodStyle
	if fraction < 0.6 {
		style = AccuracyBadStyle
	} else if fraction < 0.75 {
		style = AccuracyOkStyle
	}

	bar := style.Render(strings.Repeat("█", filled)) + SubtextStyle.Render(strings.Repeat("░", empty))
	return fmt.Sprintf("%-20s %s %.1f%%", label, bar, fraction*100)
}

// FormatChange renders a signed change with movement color.
func FormatChange(change, changePct float64) string {
	style := RateFlatStyle
	sign := ""
	if change > 0 {
		style = RateUpStyle
		sign = "+"
	} else if change < 0 {
		style = RateDownStyle
	}
	return style.Render(fmt.Sprintf("%s%.4f (%s%.2f%%)", sign, change, sign, changePct))
}

func addCommas(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var result strings.Builder
	for i, ch := range s {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteByte(',')
		}
		result.WriteRune(ch)
	}
	return result.String()
}
