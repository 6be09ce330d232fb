package genetics

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/stat"
)

func TestDrawPartitionsPopulation(t *testing.T) {
	s := NewSeededSampler(42, 0)
	for _, n := range []int{1, 2, 500, 5000, 20000} {
		for i := 0; i <= 20; i++ {
			p := float64(i) / 20
			for trial := 0; trial < 5; trial++ {
				c, newP, err := s.Draw(p, n)
				if err != nil {
					t.Fatalf("Draw(%v, %d): %v", p, n, err)
				}
				if !c.Valid() || c.Total() != n {
					t.Fatalf("Draw(%v, %d) = %v, want non-negative partition of %d", p, n, c, n)
				}
				if newP < 0 || newP > 1 {
					t.Fatalf("Draw(%v, %d) frequency %v outside [0,1]", p, n, newP)
				}
			}
		}
	}
}

func TestDrawRejectsNonPositiveSize(t *testing.T) {
	s := NewSeededSampler(1, 1)
	for _, n := range []int{0, -5} {
		if _, _, err := s.Draw(0.5, n); !errors.Is(err, ErrInvalidPopulationSize) {
			t.Errorf("Draw(0.5, %d) error = %v, want ErrInvalidPopulationSize", n, err)
		}
	}
}

func TestDrawDegenerateFrequencies(t *testing.T) {
	s := NewSeededSampler(7, 3)
	tests := []struct {
		name  string
		p     float64
		want  Counts
		wantP float64
	}{
		{"lost", 0, Counts{0, 0, 1000}, 0},
		{"fixed", 1, Counts{1000, 0, 0}, 1},
		{"clamped below", -0.3, Counts{0, 0, 1000}, 0},
		{"clamped above", 1.7, Counts{1000, 0, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, p, err := s.Draw(tt.p, 1000)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c != tt.want || p != tt.wantP {
				t.Errorf("Draw(%v) = %v p=%v, want %v p=%v", tt.p, c, p, tt.want, tt.wantP)
			}
		})
	}
}

func TestDrawIsReproducible(t *testing.T) {
	a := NewSeededSampler(2024, 9)
	b := NewSeededSampler(2024, 9)
	p1, p2 := 0.5, 0.5
	for i := 0; i < 50; i++ {
		c1, n1, _ := a.Draw(p1, 20000)
		c2, n2, _ := b.Draw(p2, 20000)
		if c1 != c2 || n1 != n2 {
			t.Fatalf("step %d diverged: %v vs %v", i, c1, c2)
		}
		p1, p2 = n1, n2
	}
}

func TestDrawMeanNearPrior(t *testing.T) {
	s := NewSeededSampler(99, 0)
	const trials = 400
	ps := make([]float64, trials)
	for i := range ps {
		_, p, _ := s.Draw(0.3, 5000)
		ps[i] = p
	}
	if mean := stat.Mean(ps, nil); mean < 0.29 || mean > 0.31 {
		t.Errorf("mean next-generation p = %v, want about 0.3", mean)
	}
}

func TestSmallerPopulationsDriftMore(t *testing.T) {
	const trials = 300
	variance := func(n int) float64 {
		s := NewSeededSampler(11, uint64(n))
		ps := make([]float64, trials)
		for i := range ps {
			_, p, _ := s.Draw(0.5, n)
			ps[i] = p
		}
		return stat.Variance(ps, nil)
	}

	pairs := [][2]int{{500, 20000}, {5000, 10000}, {50, 500}}
	for _, pair := range pairs {
		small, large := variance(pair[0]), variance(pair[1])
		if small <= large {
			t.Errorf("variance N=%d (%g) should exceed N=%d (%g)", pair[0], small, pair[1], large)
		}
	}
}
