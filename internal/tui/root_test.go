package tui

import (
	"strconv"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iammorganparry/hwsim/internal/simulation"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	sess, err := simulation.New(simulation.DefaultScenario(), 42)
	if err != nil {
		t.Fatalf("simulation.New: %v", err)
	}
	m := NewRootModel(sess)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 60})
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds every message to the model in order.
func press(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func repeat(msg tea.Msg, n int) []tea.Msg {
	out := make([]tea.Msg, n)
	for i := range out {
		out[i] = msg
	}
	return out
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{"plain", "1500", 1500, false},
		{"padded", " 42 ", 42, false},
		{"zero", "0", 0, false},
		{"negative", "-1", 0, true},
		{"empty", "", 0, true},
		{"letters", "12a", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCount(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseCount(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseCount(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestExerciseWalkthrough(t *testing.T) {
	m := newTestModel(t)
	if !m.inputFocused {
		t.Fatal("count inputs should start focused")
	}

	steps := []struct {
		name  string
		msgs  []tea.Msg
		state simulation.State
	}{
		{"define default population", []tea.Msg{tea.KeyMsg{Type: tea.KeyEnter}}, simulation.StatePopulationDefined},
		{"raise p to 0.55", repeat(tea.KeyMsg{Type: tea.KeyRight}, 5), simulation.StateTheoreticalMatchFound},
		{"start simulation", []tea.Msg{tea.KeyMsg{Type: tea.KeyEnter}}, simulation.StateSimulating},
		{"fast forward", []tea.Msg{runes("f")}, simulation.StateSimulating},
		{"begin drift", []tea.Msg{runes("d")}, simulation.StateDriftComparisonActive},
		{"advance both drift tracks", []tea.Msg{runes("s"), runes("l")}, simulation.StateDriftComparisonActive},
		{"conclude", []tea.Msg{runes("c")}, simulation.StateConcluded},
	}

	for _, step := range steps {
		m = press(m, step.msgs...)
		if got := m.sess.State(); got != step.state {
			t.Fatalf("%s: state = %s, want %s (status %q)", step.name, got, step.state, m.status)
		}
		if m.statusErr {
			t.Fatalf("%s: unexpected error status %q", step.name, m.status)
		}
	}

	if m.match.Candidate != 0.55 {
		t.Errorf("candidate = %v, want 0.55", m.match.Candidate)
	}
	for _, tr := range m.sess.Tracks(simulation.GroupPaired) {
		if tr.Generation != 10 {
			t.Errorf("%s at generation %d, want 10", tr.Name, tr.Generation)
		}
	}
	for _, tr := range m.sess.Tracks(simulation.GroupDrift) {
		if tr.Generation != 20 {
			t.Errorf("drift %s at generation %d, want 20", tr.Name, tr.Generation)
		}
	}

	view := m.View()
	for _, want := range []string{"Conclusion", "No mutation", "Genetic drift"} {
		if !strings.Contains(view, want) {
			t.Errorf("concluded view missing %q", want)
		}
	}
}

func TestCommandsRejectedOutOfOrder(t *testing.T) {
	tests := []struct {
		name  string
		msgs  []tea.Msg
		state simulation.State
	}{
		{
			name:  "start before match",
			msgs:  []tea.Msg{tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEnter}},
			state: simulation.StatePopulationDefined,
		},
		{
			name: "drift before enough generations",
			msgs: append(append([]tea.Msg{tea.KeyMsg{Type: tea.KeyEnter}},
				repeat(tea.KeyMsg{Type: tea.KeyRight}, 5)...),
				tea.KeyMsg{Type: tea.KeyEnter}, runes("n"), runes("d")),
			state: simulation.StateSimulating,
		},
		{
			name:  "overwrite before attempts run out",
			msgs:  []tea.Msg{tea.KeyMsg{Type: tea.KeyEnter}, runes("o")},
			state: simulation.StatePopulationDefined,
		},
		{
			name:  "conclude without drift",
			msgs:  []tea.Msg{tea.KeyMsg{Type: tea.KeyEsc}, runes("c")},
			state: simulation.StateUninitialized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(newTestModel(t), tt.msgs...)
			if got := m.sess.State(); got != tt.state {
				t.Errorf("state = %s, want %s", got, tt.state)
			}
			if !m.statusErr || m.status == "" {
				t.Errorf("expected an error in the status bar, got %q", m.status)
			}
		})
	}
}

func TestOverwriteAfterFailedAttempts(t *testing.T) {
	m := newTestModel(t)
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(m, repeat(tea.KeyMsg{Type: tea.KeyLeft}, 11)...)
	if !m.match.OverwriteOffered {
		t.Fatalf("overwrite not offered after %d attempts", m.match.Attempts)
	}

	m = press(m, runes("o"))
	if m.sess.State() != simulation.StateTheoreticalMatchFound {
		t.Fatalf("state = %s, want %s", m.sess.State(), simulation.StateTheoreticalMatchFound)
	}
	if m.match.Attempts != 0 {
		t.Errorf("attempts = %d, want 0 after overwrite", m.match.Attempts)
	}
	want := m.match.Observed
	if got := m.inputs[fieldDominant].Value(); got != strconv.Itoa(want.Dominant) {
		t.Errorf("blue input = %q, want %d", got, want.Dominant)
	}
	if got := m.inputs[fieldRecessive].Value(); got != strconv.Itoa(want.Recessive) {
		t.Errorf("green input = %q, want %d", got, want.Recessive)
	}
}

func TestInputEditing(t *testing.T) {
	m := newTestModel(t)

	m = press(m, runes("q"))
	if got := m.inputs[fieldDominant].Value(); got != "1500q" {
		t.Errorf("typing into focused input: value = %q, want %q", got, "1500q")
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.sess.State() != simulation.StateUninitialized || !m.statusErr {
		t.Errorf("invalid count accepted: state %s, status %q", m.sess.State(), m.status)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.field != fieldRecessive {
		t.Errorf("tab moved focus to field %d, want %d", m.field, fieldRecessive)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.inputFocused {
		t.Error("esc should leave the inputs")
	}
}

func TestOverfullPopulationWarns(t *testing.T) {
	m := newTestModel(t)
	m.inputs[fieldDominant].SetValue("4000")
	m.inputs[fieldRecessive].SetValue("2000")

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.sess.State() != simulation.StatePopulationDefined {
		t.Fatalf("state = %s, want %s", m.sess.State(), simulation.StatePopulationDefined)
	}
	if m.status != simulation.WarnInvalidPopulationTotal {
		t.Errorf("status = %q, want the overfull warning", m.status)
	}
	if m.match.Observed.Heterozygous != 0 {
		t.Errorf("heterozygous = %d, want 0", m.match.Observed.Heterozygous)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	m := newTestModel(t)
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter}, runes("]"), runes("r"))

	if m.sess.State() != simulation.StateUninitialized {
		t.Errorf("state = %s, want %s", m.sess.State(), simulation.StateUninitialized)
	}
	if !m.inputFocused || m.field != fieldDominant {
		t.Error("reset should focus the blue count input")
	}
	if got := m.inputs[fieldRecessive].Value(); got != "1000" {
		t.Errorf("green input = %q, want 1000", got)
	}
}

func TestQuitKeys(t *testing.T) {
	tests := []struct {
		name string
		msgs []tea.Msg
	}{
		{"q outside inputs", []tea.Msg{tea.KeyMsg{Type: tea.KeyEsc}, runes("q")}},
		{"ctrl+c while typing", []tea.Msg{tea.KeyMsg{Type: tea.KeyCtrlC}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			var cmd tea.Cmd
			for _, msg := range tt.msgs {
				var next tea.Model
				next, cmd = m.Update(msg)
				m = next.(Model)
			}
			if cmd == nil {
				t.Fatal("expected a quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("command is not tea.Quit")
			}
		})
	}
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t)
	m = press(m, tea.KeyMsg{Type: tea.KeyEsc}, runes("?"))
	if m.viewMode != ViewModeHelp {
		t.Fatal("? should open help")
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help view missing title")
	}

	m = press(m, runes("f"))
	if m.viewMode != ViewModeHelp {
		t.Error("keys other than ? and esc should not close help")
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.viewMode != ViewModeMain {
		t.Error("esc should close help")
	}
}

func TestViewBeforeResize(t *testing.T) {
	sess, err := simulation.New(simulation.DefaultScenario(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := NewRootModel(sess).View(); got != "Loading..." {
		t.Errorf("View() = %q, want Loading...", got)
	}
}
