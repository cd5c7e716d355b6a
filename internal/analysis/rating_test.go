package analysis

import "testing"

func TestRatingScore(t *testing.T) {
	t.Parallel()

	cases := []struct {
		rating int
		want   float64
	}{
		{1, -1.0},
		{2, -0.5},
		{3, 0.0},
		{4, 0.5},
		{5, 1.0},
		{0, 0.0},
		{6, 0.0},
		{-3, 0.0},
		{42, 0.0},
	}

	for _, tc := range cases {
		if got := RatingScore(tc.rating); got != tc.want {
			t.Fatalf("RatingScore(%d) = %v, want %v", tc.rating, got, tc.want)
		}
	}
}
