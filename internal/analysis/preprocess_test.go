package analysis

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "mixed whitespace", in: "  a\n\tb  ", want: "a b"},
		{name: "plain text untouched", in: "works fine", want: "works fine"},
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: " \t\n ", want: ""},
		{name: "case preserved", in: "  GREAT App  ", want: "GREAT App"},
		{name: "punctuation preserved", in: "wow!!  (really)", want: "wow!! (really)"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Normalize(tc.in)
			if got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
			if again := Normalize(got); again != got {
				t.Fatalf("Normalize is not idempotent: %q -> %q", got, again)
			}
		})
	}
}
