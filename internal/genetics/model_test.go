package genetics

import (
	"math"
	"testing"
)

func TestTheoreticalCounts(t *testing.T) {
	tests := []struct {
		name string
		p    float64
		n    int
		want Counts
	}{
		{"half", 0.5, 5000, Counts{1250, 2500, 1250}},
		{"fixed dominant", 1, 5000, Counts{5000, 0, 0}},
		{"fixed recessive", 0, 5000, Counts{0, 0, 5000}},
		{"quarter", 0.25, 10000, Counts{625, 3750, 5625}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TheoreticalCounts(tt.p, tt.n)
			if got != tt.want {
				t.Errorf("TheoreticalCounts(%v, %d) = %v, want %v", tt.p, tt.n, got, tt.want)
			}
		})
	}
}

func TestTheoreticalCountsNeverOvershoot(t *testing.T) {
	for _, n := range []int{1, 7, 500, 5000, 10000, 20000} {
		for i := 0; i <= 100; i++ {
			p := float64(i) / 100
			c := TheoreticalCounts(p, n)
			if !c.Valid() {
				t.Fatalf("TheoreticalCounts(%v, %d) has a negative class: %v", p, n, c)
			}
			if c.Total() > n {
				t.Fatalf("TheoreticalCounts(%v, %d) sums to %d > %d", p, n, c.Total(), n)
			}
			if again := TheoreticalCounts(p, n); again != c {
				t.Fatalf("TheoreticalCounts(%v, %d) not stable: %v then %v", p, n, c, again)
			}
		}
	}
}

func TestExpectedPartitionSumsToN(t *testing.T) {
	for _, n := range []int{1, 3, 500, 20000} {
		for i := 0; i <= 100; i++ {
			p := float64(i) / 100
			if got := ExpectedPartition(p, n).Total(); got != n {
				t.Fatalf("ExpectedPartition(%v, %d) sums to %d", p, n, got)
			}
		}
	}
}

func TestAlleleFrequency(t *testing.T) {
	tests := []struct {
		name   string
		counts Counts
		n      int
		want   float64
	}{
		{"balanced", Counts{1250, 2500, 1250}, 5000, 0.5},
		{"skewed", Counts{4000, 900, 100}, 5000, 0.89},
		{"all dominant", Counts{10, 0, 0}, 10, 1},
		{"all recessive", Counts{0, 0, 10}, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AlleleFrequency(tt.counts, tt.n)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("AlleleFrequency(%v, %d) = %v, want %v", tt.counts, tt.n, got, tt.want)
			}
		})
	}

	t.Run("zero population is NaN", func(t *testing.T) {
		if got := AlleleFrequency(Counts{}, 0); !math.IsNaN(got) {
			t.Errorf("AlleleFrequency with n=0 = %v, want NaN", got)
		}
	})
}

func TestAlleleFrequencyInUnitInterval(t *testing.T) {
	n := 12
	for rr := 0; rr <= n; rr++ {
		for het := 0; het <= n-rr; het++ {
			c := Counts{rr, het, n - rr - het}
			p := AlleleFrequency(c, n)
			if p < 0 || p > 1 {
				t.Fatalf("AlleleFrequency(%v) = %v outside [0,1]", c, p)
			}
		}
	}
}

func TestMatches(t *testing.T) {
	t.Run("balanced population matches p=0.5", func(t *testing.T) {
		observed := Counts{1250, 2500, 1250}
		p := AlleleFrequency(observed, 5000)
		if p != 0.5 {
			t.Fatalf("p = %v, want 0.5", p)
		}
		if !Matches(observed, TheoreticalCounts(p, 5000), DefaultTolerance) {
			t.Error("expected match")
		}
	})

	t.Run("skewed population matches p=0.89", func(t *testing.T) {
		observed := Counts{4000, 900, 100}
		theo := TheoreticalCounts(0.89, 5000)
		if theo.Dominant != 3960 {
			t.Errorf("theoretical RR = %d, want 3960", theo.Dominant)
		}
		if theo.Recessive < 60 || theo.Recessive > 61 {
			t.Errorf("theoretical rr = %d, want 60 or 61", theo.Recessive)
		}
		if !Matches(observed, theo, DefaultTolerance) {
			t.Errorf("expected %v to match %v", observed, theo)
		}
	})

	t.Run("heterozygous class is ignored", func(t *testing.T) {
		if !Matches(Counts{100, 0, 100}, Counts{100, 4800, 100}, 0) {
			t.Error("expected match on homozygous classes only")
		}
	})

	t.Run("outside tolerance", func(t *testing.T) {
		if Matches(Counts{1500, 2500, 1000}, TheoreticalCounts(0.5, 5000), DefaultTolerance) {
			t.Error("expected no match")
		}
	})
}

func TestClampAndRound(t *testing.T) {
	if Clamp(-0.2) != 0 || Clamp(1.3) != 1 || Clamp(math.NaN()) != 0 || Clamp(0.4) != 0.4 {
		t.Error("Clamp did not bound to [0,1]")
	}
	if got := RoundHundredths(0.456); got != 0.46 {
		t.Errorf("RoundHundredths(0.456) = %v, want 0.46", got)
	}
	if got := Q(0.25); got != 0.75 {
		t.Errorf("Q(0.25) = %v, want 0.75", got)
	}
}
