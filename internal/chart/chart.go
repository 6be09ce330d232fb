// Package chart draws allele-frequency trajectories, as PNG for the HTTP API
// and as text for terminals.
package chart

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iammorganparry/hwsim/internal/genetics"
	"github.com/iammorganparry/hwsim/internal/simulation"
)

// ErrNoSeries is returned when there is nothing to draw.
var ErrNoSeries = errors.New("no series to draw")

// Series is one frequency per generation, starting at generation 0.
type Series struct {
	Name   string
	Values []float64
	Color  drawing.Color
}

var (
	colorP = drawing.Color{R: 220, G: 50, B: 47, A: 255}
	colorQ = drawing.Color{R: 38, G: 139, B: 210, A: 255}
)

// FromTracks returns a p series and a q series for every track.
func FromTracks(tracks []simulation.TrackView) []Series {
	out := make([]Series, 0, 2*len(tracks))
	for _, t := range tracks {
		ps := make([]float64, len(t.History))
		qs := make([]float64, len(t.History))
		for i, rec := range t.History {
			ps[i] = rec.P
			qs[i] = genetics.Q(rec.P)
		}
		out = append(out,
			Series{Name: t.Name + " p (R)", Values: ps, Color: colorP},
			Series{Name: t.Name + " q (r)", Values: qs, Color: colorQ},
		)
	}
	return out
}

// RenderPNG writes a line chart of series, y fixed to [0,1], to w.
func RenderPNG(w io.Writer, title string, series []Series, width, height int) error {
	if len(series) == 0 {
		return ErrNoSeries
	}

	maxGen := 1
	cs := make([]chart.Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		xs := make([]float64, len(s.Values))
		for i := range xs {
			xs[i] = float64(i)
		}
		maxGen = max(maxGen, len(s.Values)-1)
		cs = append(cs, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: s.Values,
			Style:   chart.Style{StrokeColor: s.Color, StrokeWidth: 2.0},
		})
	}
	if len(cs) == 0 {
		return ErrNoSeries
	}

	graph := chart.Chart{
		Title:  title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name:  "Generation",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxGen)},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  "Frequency",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: cs,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// RenderText plots series as an ASCII chart with a caption line per series.
func RenderText(series []Series, width, height int) (string, error) {
	data := make([][]float64, 0, len(series))
	names := make([]string, 0, len(series))
	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		vals := s.Values
		if len(vals) == 1 {
			// asciigraph needs two points to draw a line
			vals = []float64{vals[0], vals[0]}
		}
		data = append(data, vals)
		names = append(names, s.Name)
	}
	if len(data) == 0 {
		return "", ErrNoSeries
	}

	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Precision(2),
		asciigraph.Caption(strings.Join(names, ", ")),
	}
	if width > 0 {
		opts = append(opts, asciigraph.Width(width))
	}
	return asciigraph.PlotMany(data, opts...), nil
}
