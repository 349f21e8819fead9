package ocr

import "testing"

func TestSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "ravi kumar 1234", "ravi kumar 1234", 1},
		{"case insensitive", "RAVI Kumar", "ravi kumar", 1},
		{"disjoint", "alpha beta", "gamma delta", 0},
		{"partial overlap", "alpha beta gamma", "alpha beta delta", 2.0 / 3.0},
		{"both empty", "", "", 1},
		{"one empty", "alpha", "", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Similarity(tc.a, tc.b)
			if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("Similarity(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}
