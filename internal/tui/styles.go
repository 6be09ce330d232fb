package tui

import "github.com/charmbracelet/lipgloss"

// One Dark Pro color palette
var (
	// Foreground colors
	ColorFgPrimary   = lipgloss.Color("#ABB2BF")
	ColorFgSecondary = lipgloss.Color("#828997")
	ColorFgMuted     = lipgloss.Color("#636B78")
	ColorFgComment   = lipgloss.Color("#5C6370")

	// Syntax colors
	ColorRed     = lipgloss.Color("#E06C75")
	ColorGreen   = lipgloss.Color("#98C379")
	ColorYellow  = lipgloss.Color("#E5C07B")
	ColorBlue    = lipgloss.Color("#61AFEF")
	ColorMagenta = lipgloss.Color("#C678DD")
	ColorCyan    = lipgloss.Color("#56B6C2")

	// UI colors
	ColorBorder = lipgloss.Color("#3F4451")
)

// Component styles
var (
	// Header style
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true).
			PaddingLeft(1)

	// Panel styles
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	PanelTitleStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta).
			Bold(true)

	// Genotype styles, one per phenotype color
	DominantStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	HeterozygousStyle = lipgloss.NewStyle().
				Foreground(ColorMagenta).
				Bold(true)

	RecessiveStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	// Frequency styles
	FreqPStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	FreqQStyle = lipgloss.NewStyle().
			Foreground(ColorBlue)

	ChartStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	// Input styles
	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	InputFocusedStyle = InputStyle.
				BorderForeground(ColorGreen)

	InputPromptStyle = lipgloss.NewStyle().
				Foreground(ColorGreen)

	// Status bar styles
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			PaddingLeft(1).
			PaddingRight(1)

	StateStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	// Help overlay styles
	HelpStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	HelpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary)

	// Error styles
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	// Success styles
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	// Warning styles
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	// Dimmed/info style for less important messages
	DimStyle = lipgloss.NewStyle().
			Foreground(ColorFgComment)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorFgSecondary)
)
