package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Card stack
	Open       key.Binding
	SwipeLeft  key.Binding
	SwipeRight key.Binding
	Write      key.Binding

	// Letter
	Back   key.Binding
	Delete key.Binding
	Reply  key.Binding
	Send   key.Binding

	// Overlays
	Help    key.Binding
	Command key.Binding

	Quit key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "next card"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "previous card"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open letter"),
		),
		SwipeLeft: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "swipe toward delete"),
		),
		SwipeRight: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "swipe toward important"),
		),
		Write: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "write"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Delete: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete letter"),
		),
		Reply: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "reply"),
		),
		Send: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "send"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Open, k.SwipeLeft, k.SwipeRight,
		k.Write, k.Help, k.Quit,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Write},
		{k.SwipeLeft, k.SwipeRight},
		{k.Back, k.Delete, k.Reply, k.Send},
		{k.Help, k.Command, k.Quit},
	}
}
