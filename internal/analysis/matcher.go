package analysis

import (
	"log/slog"
	"strings"

	"reviewalyze/internal/domain"
)

// Strategy selects how a taxonomy is matched against reviews. It is decided
// once per run from the shape of the input, not re-evaluated per keyword.
type Strategy int

const (
	// StrategySubstring finds the keyword as a case-insensitive literal
	// substring of the review's clean text.
	StrategySubstring Strategy = iota
	// StrategyMembership exact-matches keywords against the per-review
	// keyword annotations, after trimming whitespace.
	StrategyMembership
)

// Matcher pairs a keyword taxonomy with reviews, emitting one match row per
// (keyword, matching review) pair. Grouped taxonomies carry the group name
// through to every row.
type Matcher struct {
	keywords []domain.Keyword
	grouped  bool
	logger   *slog.Logger
}

// NewMatcher builds a matcher over the given taxonomy. grouped reports
// whether keywords belong to named groups; it controls both the membership
// fallback and the group column in the output.
func NewMatcher(keywords []domain.Keyword, grouped bool, logger *slog.Logger) *Matcher {
	return &Matcher{keywords: keywords, grouped: grouped, logger: logger}
}

// Match runs the matcher over the scored reviews. An empty result is a legal
// outcome meaning "nothing to aggregate", never an error. The produced set is
// uniquely determined by (reviews, taxonomy) regardless of iteration order.
func (m *Matcher) Match(reviews []domain.Review) []domain.MatchRow {
	if m.strategy(reviews) == StrategyMembership {
		return m.matchByMembership(reviews)
	}
	return m.matchBySubstring(reviews)
}

// strategy prefers membership matching when the taxonomy is grouped and the
// reviews already carry keyword annotations.
func (m *Matcher) strategy(reviews []domain.Review) Strategy {
	if !m.grouped {
		return StrategySubstring
	}
	for i := range reviews {
		if len(reviews[i].Keywords) > 0 {
			return StrategyMembership
		}
	}
	return StrategySubstring
}

// matchBySubstring selects reviews whose clean text contains the keyword
// text. strings.Contains keeps user-supplied keywords literal; nothing here
// interprets pattern syntax, so "." or "(" match only themselves.
func (m *Matcher) matchBySubstring(reviews []domain.Review) []domain.MatchRow {
	var rows []domain.MatchRow
	for _, kw := range m.keywords {
		text := strings.TrimSpace(kw.Text)
		if text == "" {
			continue
		}

		needle := strings.ToLower(text)
		matched := 0
		for i := range reviews {
			if !strings.Contains(strings.ToLower(reviews[i].CleanText), needle) {
				continue
			}
			rows = append(rows, m.row(kw, &reviews[i]))
			matched++
		}
		m.debug("keyword matched", "group", kw.Group, "keyword", text, "reviews", matched)
	}
	return rows
}

// matchByMembership emits a row for each taxonomy entry whose keyword text
// exactly equals one of the review's own annotations.
func (m *Matcher) matchByMembership(reviews []domain.Review) []domain.MatchRow {
	var rows []domain.MatchRow
	for _, kw := range m.keywords {
		text := strings.TrimSpace(kw.Text)
		if text == "" {
			continue
		}

		for i := range reviews {
			for _, annotation := range reviews[i].Keywords {
				if strings.TrimSpace(annotation) == text {
					rows = append(rows, m.row(kw, &reviews[i]))
					break
				}
			}
		}
	}
	return rows
}

func (m *Matcher) row(kw domain.Keyword, review *domain.Review) domain.MatchRow {
	group := kw.Group
	if !m.grouped {
		group = ""
	}
	return domain.MatchRow{
		Group:          group,
		Keyword:        strings.TrimSpace(kw.Text),
		ReviewID:       review.ID,
		AppID:          review.AppID,
		Rating:         review.Rating,
		Text:           review.Text,
		SentimentScore: review.SentimentScore,
		RatingScore:    review.RatingScore,
		TextScore:      review.TextScore,
	}
}

func (m *Matcher) debug(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, args...)
	}
}
