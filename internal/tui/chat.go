package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"remitiq/internal/domain"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Chat message types.
type advisorReplyMsg string
type advisorErrMsg struct{ err error }
type marketContextMsg domain.IntelligenceData

type chatMessage struct {
	Role    string
	Content string
	Time    time.Time
}

// ChatModel is the Bubble Tea model for the advisor chat screen. The
// header carries a live market strip so the user sees the rate and
// timing signal the advisor is reasoning about, and the empty state
// offers starter questions tuned to that signal.
type ChatModel struct {
	services Services
	market   *domain.IntelligenceData
	messages []chatMessage
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	waiting  bool
	err      error
	width    int
	height   int
	ready    bool
}

// NewChatModel creates a new chat model.
func NewChatModel(svc Services) ChatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask about AUD/INR transfer timing..."
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(SpinnerColor)

	return ChatModel{
		services: svc,
		input:    ti,
		spinner:  sp,
	}
}

// Init starts the cursor blink and fetches the market snapshot for the
// header strip.
func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.fetchMarketCmd())
}

// Update handles incoming messages.
func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case marketContextMsg:
		data := domain.IntelligenceData(msg)
		m.market = &data
		if m.ready && len(m.messages) == 0 {
			m.viewport.SetContent(m.renderMessages())
		}
		return m, nil

	case advisorReplyMsg:
		m.messages = append(m.messages, chatMessage{
			Role:    "assistant",
			Content: string(msg),
			Time:    time.Now(),
		})
		m.waiting = false
		m.err = nil
		m.viewport.SetContent(m.renderMessages())
		m.viewport.GotoBottom()
		// Refresh the strip; the advisor may have been asked after a
		// rate move the dashboard already picked up.
		return m, m.fetchMarketCmd()

	case advisorErrMsg:
		m.waiting = false
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter && !m.waiting {
			text := strings.TrimSpace(m.input.Value())
			if text != "" {
				m.messages = append(m.messages, chatMessage{
					Role:    "user",
					Content: text,
					Time:    time.Now(),
				})
				m.input.SetValue("")
				m.waiting = true
				m.viewport.SetContent(m.renderMessages())
				m.viewport.GotoBottom()
				return m, tea.Batch(
					m.askAdvisorCmd(text),
					m.spinner.Tick,
				)
			}
		}

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Update text input
	if !m.waiting {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Update viewport
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the chat screen.
func (m ChatModel) View() string {
	if m.services.Advisor == nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			"",
			HeaderStyle.Render("  Chat with RemitIQ Advisor"),
			"",
			SubtextStyle.Render("  Advisor not available. Set OPENAI_API_KEY to enable."),
		)
	}

	var sections []string

	sections = append(sections, HeaderStyle.Render("  Chat with RemitIQ Advisor"))
	if strip := m.marketStrip(); strip != "" {
		sections = append(sections, strip)
	}
	sections = append(sections, SubtextStyle.Render(strings.Repeat("─", m.width-2)))

	// Message viewport
	if !m.ready {
		m.initViewport()
	}
	sections = append(sections, m.viewport.View())

	sections = append(sections, SubtextStyle.Render(strings.Repeat("─", m.width-2)))

	// Input bar
	if m.waiting {
		sections = append(sections, fmt.Sprintf("  %s Thinking...", m.spinner.View()))
	} else {
		if m.err != nil {
			sections = append(sections, ErrorStyle.Render(fmt.Sprintf("  Error: %v", m.err)))
		}
		sections = append(sections, "  "+m.input.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// marketStrip renders the one-line snapshot under the header: current
// best rate, mid-market reference and the timing signal.
func (m ChatModel) marketStrip() string {
	if m.market == nil {
		return ""
	}
	signal := string(m.market.Recommendation.Signal)
	var styled string
	switch m.market.Recommendation.Signal {
	case domain.SignalSendNow:
		styled = SignalSendStyle.Render(signal)
	case domain.SignalUrgent:
		styled = SignalUrgentStyle.Render(signal)
	default:
		styled = SignalWaitStyle.Render(signal)
	}
	return fmt.Sprintf("  %s %s",
		SubtextStyle.Render(fmt.Sprintf("AUD/INR %.4f · mid-market %.4f ·",
			m.market.Stats.Current, m.market.MidMarketRate)),
		fmt.Sprintf("%s %s", styled,
			SubtextStyle.Render(fmt.Sprintf("(%d%% confidence)", m.market.Recommendation.Confidence))),
	)
}

// starterPrompts suggests first questions. The lead suggestion follows
// the current timing signal so the conversation starts where the
// dashboard left off.
func (m ChatModel) starterPrompts() []string {
	prompts := []string{"What's driving AUD/INR this week?"}
	if m.market != nil {
		switch m.market.Recommendation.Signal {
		case domain.SignalSendNow:
			prompts = append([]string{"Why is now a good time to send?"}, prompts...)
		case domain.SignalUrgent:
			prompts = append([]string{"How long is this rate window likely to last?"}, prompts...)
		default:
			prompts = append([]string{"What would make the rate improve?"}, prompts...)
		}
	}
	amount := m.services.DefaultAmount
	if amount <= 0 {
		amount = defaultCompareAmount
	}
	prompts = append(prompts, fmt.Sprintf("Which provider pays the most for A$%s?",
		addCommas(fmt.Sprintf("%.0f", amount))))
	return prompts
}

// SetSize updates the model dimensions.
func (m *ChatModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.input.Width = w - 6
	if m.ready {
		m.viewport.Width = w - 2
		m.viewport.Height = h - 7 // account for header, strip, borders, input
	}
	m.ready = false // re-initialize viewport on next View
}

// Focus gives focus to the text input.
func (m *ChatModel) Focus() {
	m.input.Focus()
}

// Blur removes focus from the text input.
func (m *ChatModel) Blur() {
	m.input.Blur()
}

// IsWaiting returns whether the model is waiting for a response (for testing).
func (m ChatModel) IsWaiting() bool { return m.waiting }

// MessageCount returns the number of messages (for testing).
func (m ChatModel) MessageCount() int { return len(m.messages) }

func (m *ChatModel) initViewport() {
	vpHeight := m.height - 7
	if vpHeight < 3 {
		vpHeight = 3
	}
	vpWidth := m.width - 2
	if vpWidth < 10 {
		vpWidth = 10
	}
	m.viewport = viewport.New(vpWidth, vpHeight)
	m.viewport.SetContent(m.renderMessages())
	m.ready = true
}

func (m ChatModel) renderMessages() string {
	if len(m.messages) == 0 {
		lines := []string{SubtextStyle.Render("  Start a conversation by typing a question below. For example:")}
		for _, p := range m.starterPrompts() {
			lines = append(lines, SubtextStyle.Render("    · ")+p)
		}
		return strings.Join(lines, "\n")
	}

	var lines []string
	for _, msg := range m.messages {
		timestamp := SubtextStyle.Render(msg.Time.Format("15:04"))
		switch msg.Role {
		case "user":
			lines = append(lines, fmt.Sprintf("  %s  %s %s",
				timestamp,
				UserMsgStyle.Render("You:"),
				msg.Content,
			))
		case "assistant":
			lines = append(lines, fmt.Sprintf("  %s  %s",
				timestamp,
				AssistantMsgStyle.Render("Advisor:"),
			))
			// Wrap long advisor responses
			for _, line := range strings.Split(msg.Content, "\n") {
				lines = append(lines, "         "+line)
			}
		}
		lines = append(lines, "")
	}

	if m.waiting {
		lines = append(lines, fmt.Sprintf("  %s  %s",
			SubtextStyle.Render(time.Now().Format("15:04")),
			SubtextStyle.Render("Advisor is thinking..."),
		))
	}

	return strings.Join(lines, "\n")
}

func (m ChatModel) fetchMarketCmd() tea.Cmd {
	return func() tea.Msg {
		if m.services.Intelligence == nil {
			return nil
		}
		data, err := m.services.Intelligence.GetIntelligence(context.Background())
		if err != nil {
			// The strip is decoration; the dashboard surfaces fetch errors.
			return nil
		}
		return marketContextMsg(data)
	}
}

func (m ChatModel) askAdvisorCmd(question string) tea.Cmd {
	chatID := m.services.ChatID()
	return func() tea.Msg {
		if m.services.Advisor == nil {
			return advisorErrMsg{err: fmt.Errorf("advisor not available")}
		}
		reply, err := m.services.Advisor.Ask(context.Background(), chatID, question)
		if err != nil {
			return advisorErrMsg{err: err}
		}
		return advisorReplyMsg(reply)
	}
}
