package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines key bindings used across the TUI.
type KeyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Quit     key.Binding
	Refresh  key.Binding

	// Provider comparison amount controls
	AmountUp   key.Binding
	AmountDown key.Binding

	// Backtest view toggle
	ToggleView key.Binding
}

// DefaultKeyMap provides the default key bindings for the TUI.
var DefaultKeyMap = KeyMap{
	Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
	ShiftTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Refresh:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "refresh")),

	AmountUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "raise amount")),
	AmountDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "lower amount")),

	ToggleView: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "toggle view")),
}
