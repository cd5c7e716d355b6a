package analysis

import (
	"regexp"
	"strings"
)

var whitespaceExpr = regexp.MustCompile(`\s+`)

// Normalize collapses every run of whitespace (spaces, tabs, newlines) to a
// single space and trims the ends. Case and punctuation are left alone;
// case-insensitivity is a matching concern, not a preprocessing one.
// Idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	return whitespaceExpr.ReplaceAllString(strings.TrimSpace(text), " ")
}
