// Package tui is a terminal front end for a single in-process exercise.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iammorganparry/hwsim/internal/chart"
	"github.com/iammorganparry/hwsim/internal/simulation"
)

// ViewMode represents the current view
type ViewMode int

const (
	ViewModeMain ViewMode = iota
	ViewModeHelp
)

// Input fields
const (
	fieldDominant = iota
	fieldRecessive
)

const (
	chartHeight   = 8
	minChartWidth = 20
)

// Conditions under which allele frequencies stay in equilibrium.
var equilibriumConditions = []string{
	"Large population size",
	"Random mating",
	"No natural selection",
	"No mutation",
	"No migration (gene flow)",
}

// Model is the main application model
type Model struct {
	sess *simulation.Session
	keys KeyMap

	// Population entry
	inputs       [2]textinput.Model
	field        int
	inputFocused bool

	match     simulation.MatchResult
	status    string
	statusErr bool

	// UI state
	width    int
	height   int
	ready    bool
	viewMode ViewMode
}

// NewRootModel creates a model driving sess. The count inputs start filled
// with the scenario's default population and focused.
func NewRootModel(sess *simulation.Session) Model {
	var inputs [2]textinput.Model
	for i, label := range []string{"Blue (RR): ", "Green (rr): "} {
		ti := textinput.New()
		ti.Prompt = label
		ti.PromptStyle = InputPromptStyle
		ti.CharLimit = 9
		ti.Width = 12
		inputs[i] = ti
	}

	m := Model{
		sess:     sess,
		keys:     DefaultKeyMap(),
		inputs:   inputs,
		viewMode: ViewModeMain,
	}
	m.fillDefaults()
	m.focusInput(fieldDominant)
	m.match = sess.Snapshot().Match
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Interrupt) {
			return m, tea.Quit
		}
		if m.inputFocused {
			return m.updateInput(msg)
		}
		return m.updateMain(msg)
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextField):
		m.focusInput((m.field + 1) % len(m.inputs))
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Escape):
		m.blurInputs()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		m.submitPopulation()
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.field], cmd = m.inputs[m.field].Update(msg)
	return m, cmd
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.viewMode == ViewModeHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Escape) {
			m.viewMode = ViewModeMain
		} else if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	scenario := m.sess.Scenario()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.viewMode = ViewModeHelp

	case key.Matches(msg, m.keys.NextField):
		m.focusInput(m.field)
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Lower):
		m.propose(-0.01)
	case key.Matches(msg, m.keys.Raise):
		m.propose(0.01)
	case key.Matches(msg, m.keys.LowerFast):
		m.propose(-0.10)
	case key.Matches(msg, m.keys.RaiseFast):
		m.propose(0.10)

	case key.Matches(msg, m.keys.Overwrite):
		res, err := m.sess.OverwriteWithTheoretical()
		if m.report(err) {
			m.match = res
			m.inputs[fieldDominant].SetValue(strconv.Itoa(res.Observed.Dominant))
			m.inputs[fieldRecessive].SetValue(strconv.Itoa(res.Observed.Recessive))
			m.setStatus("Population replaced with the theoretical counts", false)
		}

	case key.Matches(msg, m.keys.Start):
		if _, err := m.sess.StartSimulation(); m.report(err) {
			m.setStatus("Simulation started", false)
		}

	case key.Matches(msg, m.keys.Step):
		m.advancePaired(1)
	case key.Matches(msg, m.keys.FastForward):
		m.advancePaired(scenario.FastForward)

	case key.Matches(msg, m.keys.Drift):
		if _, err := m.sess.BeginDriftComparison(); m.report(err) {
			m.setStatus(fmt.Sprintf("Drift comparison started at p=%.2f", m.sess.Snapshot().InitialP), false)
		}

	case key.Matches(msg, m.keys.DriftSmall):
		m.advanceDrift(0, scenario.DriftSteps)
	case key.Matches(msg, m.keys.DriftLarge):
		m.advanceDrift(len(scenario.DriftSizes)-1, scenario.DriftSteps)

	case key.Matches(msg, m.keys.Conclude):
		if err := m.sess.Conclude(); m.report(err) {
			m.setStatus("Exercise concluded", false)
		}

	case key.Matches(msg, m.keys.Reset):
		m.sess.Reset()
		m.match = m.sess.Snapshot().Match
		m.fillDefaults()
		m.focusInput(fieldDominant)
		m.setStatus("Exercise reset", false)
		return m, textinput.Blink
	}
	return m, nil
}

func (m *Model) submitPopulation() {
	dominant, err := parseCount(m.inputs[fieldDominant].Value())
	if err != nil {
		m.setStatus("Blue count: "+err.Error(), true)
		return
	}
	recessive, err := parseCount(m.inputs[fieldRecessive].Value())
	if err != nil {
		m.setStatus("Green count: "+err.Error(), true)
		return
	}
	res, err := m.sess.DefinePopulation(dominant, recessive)
	if !m.report(err) {
		return
	}
	m.match = res
	m.blurInputs()
	if res.Warning != "" {
		m.setStatus(res.Warning, true)
		return
	}
	m.setStatus(fmt.Sprintf("Population defined: %s", res.Observed), false)
}

func (m *Model) propose(delta float64) {
	res, err := m.sess.ProposeFrequency(m.match.Candidate + delta)
	if !m.report(err) {
		return
	}
	m.match = res
	if res.Matched {
		m.setStatus(fmt.Sprintf("p=%.2f explains the population", res.Candidate), false)
	}
}

func (m *Model) advancePaired(steps int) {
	if _, err := m.sess.AdvanceAll(steps); m.report(err) {
		m.status = ""
	}
}

func (m *Model) advanceDrift(index, steps int) {
	if _, err := m.sess.Advance(simulation.GroupDrift, index, steps); m.report(err) {
		m.status = ""
	}
}

// report shows err in the status bar and returns whether the command succeeded.
func (m *Model) report(err error) bool {
	if err != nil {
		m.setStatus(err.Error(), true)
		return false
	}
	return true
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *Model) fillDefaults() {
	d := m.sess.Scenario().DefaultPopulation
	m.inputs[fieldDominant].SetValue(strconv.Itoa(d.Dominant))
	m.inputs[fieldRecessive].SetValue(strconv.Itoa(d.Recessive))
}

func (m *Model) focusInput(field int) {
	m.blurInputs()
	m.field = field
	m.inputFocused = true
	m.inputs[field].Focus()
	m.inputs[field].CursorEnd()
}

func (m *Model) blurInputs() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.inputFocused = false
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%d is negative", n)
	}
	return n, nil
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.viewMode == ViewModeHelp {
		return m.helpView()
	}
	return m.mainView()
}

func (m Model) mainView() string {
	snap := m.sess.Snapshot()

	sections := []string{m.renderHeader(snap), m.renderPopulation(snap)}
	if len(snap.Paired) > 0 {
		sections = append(sections, m.renderTracks("Paired populations", simulation.GroupPaired))
	}
	if len(snap.Drift) > 0 {
		sections = append(sections, m.renderTracks("Genetic drift", simulation.GroupDrift))
	}
	if snap.State == simulation.StateConcluded {
		sections = append(sections, m.renderConclusion())
	}
	sections = append(sections, m.renderStatusBar(snap))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(snap simulation.Snapshot) string {
	title := HeaderStyle.Render("Hardy-Weinberg simulator")
	state := StateStyle.Render(snap.State.String())
	seed := DimStyle.Render(fmt.Sprintf("seed %d", snap.Seed))
	return title + "  " + state + "  " + seed
}

func (m Model) renderPopulation(snap simulation.Snapshot) string {
	var b strings.Builder
	b.WriteString(PanelTitleStyle.Render("Observed population"))
	b.WriteString("\n")

	for i, in := range m.inputs {
		style := InputStyle
		if m.inputFocused && m.field == i {
			style = InputFocusedStyle
		}
		b.WriteString(style.Render(in.View()))
		b.WriteString(" ")
	}
	b.WriteString("\n")

	if snap.State == simulation.StateUninitialized {
		b.WriteString(DimStyle.Render("Enter the blue and green counts, then press enter."))
		return PanelStyle.Render(b.String())
	}

	res := m.match
	b.WriteString(fmt.Sprintf("%-14s %10s %12s\n", "", LabelStyle.Render("observed"), LabelStyle.Render("theoretical")))
	rows := []struct {
		label    string
		style    lipgloss.Style
		obs, exp int
	}{
		{"Blue (RR)", DominantStyle, res.Observed.Dominant, res.Theoretical.Dominant},
		{"Magenta (Rr)", HeterozygousStyle, res.Observed.Heterozygous, res.Theoretical.Heterozygous},
		{"Green (rr)", RecessiveStyle, res.Observed.Recessive, res.Theoretical.Recessive},
	}
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%-14s %10d %12d\n", r.style.Render(r.label), r.obs, r.exp))
	}

	b.WriteString(fmt.Sprintf("%s  %s  attempts %d/%d\n",
		FreqPStyle.Render(fmt.Sprintf("p = %.2f", res.Candidate)),
		FreqQStyle.Render(fmt.Sprintf("q = %.2f", res.Q)),
		res.Attempts, snap.Scenario.MaxAttempts))

	switch {
	case res.Matched:
		b.WriteString(SuccessStyle.Render("Match found. Press enter to start the simulation."))
	case res.OverwriteOffered:
		b.WriteString(WarningStyle.Render("Still no match. Press o to use the theoretical counts."))
	case snap.State == simulation.StatePopulationDefined:
		b.WriteString(DimStyle.Render("Adjust p with ← → or [ ] until the counts match."))
	}
	return PanelStyle.Render(b.String())
}

func (m Model) renderTracks(title string, group simulation.Group) string {
	tracks := m.sess.Tracks(group)

	var b strings.Builder
	b.WriteString(PanelTitleStyle.Render(title))
	b.WriteString("\n")
	for _, t := range tracks {
		b.WriteString(fmt.Sprintf("%-8s gen %-4d %s  %s\n", t.Name, t.Generation,
			FreqPStyle.Render(fmt.Sprintf("p=%.3f", t.P)),
			FreqQStyle.Render(fmt.Sprintf("q=%.3f", t.Q))))
	}

	plot, err := chart.RenderText(chart.FromTracks(tracks), m.chartWidth(), chartHeight)
	if err == nil {
		b.WriteString(ChartStyle.Render(plot))
	}
	return PanelStyle.Render(b.String())
}

func (m Model) renderConclusion() string {
	var b strings.Builder
	b.WriteString(PanelTitleStyle.Render("Conclusion"))
	b.WriteString("\n")
	for _, s := range m.sess.Stats() {
		b.WriteString(fmt.Sprintf("%-8s %-7s p %.3f → %.3f  sd %.4f  range %.3f",
			s.Name, s.Group, s.InitialP, s.CurrentP, s.StdDevP, s.Range))
		if s.Fixed {
			b.WriteString(WarningStyle.Render("  fixed"))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Allele frequencies stay constant only with:"))
	b.WriteString("\n")
	for i, c := range equilibriumConditions {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, c))
	}
	b.WriteString(DimStyle.Render("Small populations drift further from the starting frequency."))
	return PanelStyle.Render(b.String())
}

func (m Model) renderStatusBar(snap simulation.Snapshot) string {
	mutedStyle := lipgloss.NewStyle().Foreground(ColorFgMuted)
	keyStyle := lipgloss.NewStyle().Foreground(ColorFgPrimary)

	hint := func(k, desc string) string {
		return keyStyle.Render(k) + mutedStyle.Render(" "+desc+" │ ")
	}

	var hints string
	switch {
	case m.inputFocused:
		hints = hint("Enter", "submit") + hint("Tab", "next field") + hint("Esc", "unfocus")
	case snap.State == simulation.StatePopulationDefined:
		hints = hint("←/→", "p") + hint("[/]", "p ±0.1") + hint("Tab", "edit counts")
	case snap.State == simulation.StateTheoreticalMatchFound:
		hints = hint("Enter", "start") + hint("←/→", "p")
	case snap.State == simulation.StateSimulating:
		hints = hint("n", "+1") + hint("f", fmt.Sprintf("+%d", snap.Scenario.FastForward))
		if snap.DriftReady {
			hints += hint("d", "drift")
		}
	case snap.State == simulation.StateDriftComparisonActive:
		hints = hint("s/l", fmt.Sprintf("+%d drift", snap.Scenario.DriftSteps))
		if snap.ConcludeReady {
			hints += hint("c", "conclude")
		}
	}
	hints += hint("r", "reset") + hint("?", "help") + keyStyle.Render("q") + mutedStyle.Render(" quit")

	bar := StatusBarStyle.Render(hints)
	if m.status == "" {
		return bar
	}
	style := SuccessStyle
	if m.statusErr {
		style = ErrorStyle
	}
	return style.Render(" "+m.status) + "\n" + bar
}

func (m Model) chartWidth() int {
	return max(minChartWidth, m.width-16)
}

func (m Model) helpView() string {
	title := HelpTitleStyle.Render("Keyboard Shortcuts")

	var b strings.Builder
	for _, group := range m.keys.FullHelp() {
		for _, k := range group {
			h := k.Help()
			b.WriteString(HelpKeyStyle.Render(fmt.Sprintf("%-8s", h.Key)))
			b.WriteString(HelpDescStyle.Render(h.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	content := title + "\n\n" + b.String() + HelpDescStyle.Render("Press ? or Esc to close")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, HelpStyle.Render(content))
}

