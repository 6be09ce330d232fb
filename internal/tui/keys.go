package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the application
type KeyMap struct {
	// Population entry
	NextField key.Binding
	Submit    key.Binding
	Escape    key.Binding

	// Frequency search
	Lower     key.Binding
	Raise     key.Binding
	LowerFast key.Binding
	RaiseFast key.Binding
	Overwrite key.Binding

	// Simulation
	Start       key.Binding
	Step        key.Binding
	FastForward key.Binding
	Drift       key.Binding
	DriftSmall  key.Binding
	DriftLarge  key.Binding
	Conclude    key.Binding

	// General
	Reset     key.Binding
	Help      key.Binding
	Quit      key.Binding
	Interrupt key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit counts"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave input"),
		),
		Lower: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "p -0.01"),
		),
		Raise: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "p +0.01"),
		),
		LowerFast: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "p -0.10"),
		),
		RaiseFast: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "p +0.10"),
		),
		Overwrite: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "use theoretical counts"),
		),
		Start: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "start simulation"),
		),
		Step: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "+1 generation"),
		),
		FastForward: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fast forward"),
		),
		Drift: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "drift comparison"),
		),
		DriftSmall: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "advance small population"),
		),
		DriftLarge: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "advance large population"),
		),
		Conclude: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "conclude"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Interrupt: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp returns a short help string
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Reset, k.Quit}
}

// FullHelp returns the full help string
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.Submit, k.Escape},
		{k.Lower, k.Raise, k.LowerFast, k.RaiseFast, k.Overwrite},
		{k.Start, k.Step, k.FastForward, k.Drift, k.DriftSmall, k.DriftLarge, k.Conclude},
		{k.Reset, k.Help, k.Quit},
	}
}
