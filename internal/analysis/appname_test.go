package analysis

import (
	"testing"

	"reviewalyze/internal/domain"
)

func TestResolveAppName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		appIDs  []string
		want    string
	}{
		{name: "most frequent wins", appIDs: []string{"a", "b", "b"}, want: "b"},
		{name: "blank ids ignored", appIDs: []string{"", "", "x"}, want: "x"},
		{name: "no ids falls back", appIDs: []string{"", ""}, want: UnknownApp},
		{name: "empty batch falls back", appIDs: nil, want: UnknownApp},
		{name: "tie breaks lexicographically", appIDs: []string{"b", "a"}, want: "a"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			reviews := make([]domain.Review, 0, len(tc.appIDs))
			for _, id := range tc.appIDs {
				reviews = append(reviews, domain.Review{AppID: id})
			}
			if got := ResolveAppName(reviews); got != tc.want {
				t.Fatalf("ResolveAppName = %q, want %q", got, tc.want)
			}
		})
	}
}
