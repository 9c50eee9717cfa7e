package consensus

import (
	"math"
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"identical", "Paris", "Paris", 1.0},
		{"case and punctuation fold", "Paris.", "paris", 1.0},
		{"containment", "Paris", "Paris France", 0.8},
		{"containment reversed", "Paris France", "Paris", 0.8},
		{"word overlap", "red green blue", "red green yellow", 2.0 / 3.0},
		{"no overlap", "Paris", "Lyon", 0.0},
		{"empty left", "", "Paris", 0.0},
		{"empty right", "Paris", "", 0.0},
		{"both empty", "", "", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Score(%q, %q) = %.4f, want %.4f", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestScoreSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"red green blue", "green yellow"},
		{"Paris", "paris france"},
		{"one two", "three four"},
	}
	for _, p := range pairs {
		if Score(p[0], p[1]) != Score(p[1], p[0]) {
			t.Errorf("Score not symmetric for %q / %q", p[0], p[1])
		}
	}
}
