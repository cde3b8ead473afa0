package shipping

import "testing"

func TestRate(t *testing.T) {
	cases := []struct {
		weight float64
		want   float64
	}{
		{0, 0},
		{-1, 0},
		{0.5, 8.0},
		{1.0, 8.0},
		{1.2, 10.0},
		{2.0, 10.0},
		{5.5, 18.0},
	}
	for _, tc := range cases {
		if got := Rate(tc.weight); got != tc.want {
			t.Fatalf("Rate(%v) = %v, want %v", tc.weight, got, tc.want)
		}
	}
}
