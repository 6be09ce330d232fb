package chart

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/iammorganparry/hwsim/internal/simulation"
)

func driftedTracks(t *testing.T) []simulation.TrackView {
	t.Helper()
	s, err := simulation.New(simulation.DefaultScenario(), 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := s.DefinePopulation(1250, 1250); err != nil {
		t.Fatalf("DefinePopulation: %v", err)
	}
	if _, err := s.StartSimulation(); err != nil {
		t.Fatalf("StartSimulation: %v", err)
	}
	if _, err := s.AdvanceAll(12); err != nil {
		t.Fatalf("AdvanceAll: %v", err)
	}
	return s.Tracks(simulation.GroupPaired)
}

func TestFromTracks(t *testing.T) {
	tracks := driftedTracks(t)
	series := FromTracks(tracks)

	if len(series) != 2*len(tracks) {
		t.Fatalf("len = %d, want %d", len(series), 2*len(tracks))
	}
	for i := 0; i < len(series); i += 2 {
		p, q := series[i], series[i+1]
		if len(p.Values) != 13 || len(q.Values) != 13 {
			t.Fatalf("%s: %d values, want 13", p.Name, len(p.Values))
		}
		for g := range p.Values {
			if sum := p.Values[g] + q.Values[g]; sum < 1-1e-12 || sum > 1+1e-12 {
				t.Errorf("%s gen %d: p+q = %v", p.Name, g, sum)
			}
		}
	}
	if series[0].Name != "N=5000 p (R)" {
		t.Errorf("first series = %q", series[0].Name)
	}
}

func TestRenderPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPNG(&buf, "Paired", FromTracks(driftedTracks(t)), 640, 360); err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("output is not a PNG")
	}
}

func TestRenderPNGSingleGeneration(t *testing.T) {
	var buf bytes.Buffer
	series := []Series{{Name: "N=500 p (R)", Values: []float64{0.5}, Color: colorP}}
	if err := RenderPNG(&buf, "", series, 320, 240); err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
}

func TestRenderEmpty(t *testing.T) {
	if err := RenderPNG(&bytes.Buffer{}, "", nil, 100, 100); !errors.Is(err, ErrNoSeries) {
		t.Errorf("RenderPNG(nil) error = %v, want ErrNoSeries", err)
	}
	if _, err := RenderText([]Series{{Name: "empty"}}, 40, 5); !errors.Is(err, ErrNoSeries) {
		t.Errorf("RenderText(empty) error = %v, want ErrNoSeries", err)
	}
}

func TestRenderText(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	vals := make([]float64, 30)
	for i := range vals {
		vals[i] = r.Float64()
	}

	out, err := RenderText([]Series{{Name: "walk", Values: vals}}, 40, 6)
	if err != nil {
		t.Fatalf("RenderText: %v", err)
	}
	if !strings.Contains(out, "walk") {
		t.Errorf("caption missing:\n%s", out)
	}
	if lines := strings.Count(out, "\n"); lines < 6 {
		t.Errorf("got %d lines, want at least 6:\n%s", lines, out)
	}
}
