package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"reviewalyze/internal/domain"
)

// Sentiment bucket thresholds. Boundary values are neutral. The same
// thresholds classify individual rows and the per-keyword average, applied
// independently of each other.
const (
	positiveThreshold = 0.2
	negativeThreshold = -0.2
)

// Aggregate groups match rows by (group, keyword) and derives per-keyword
// statistics: distinct-review volume, mean sentiment rounded to 3 decimals,
// polarity bucket counts over rows, and a categorical label. Summary rows
// come out in first-appearance order, which follows taxonomy order. Empty
// input yields an empty (non-nil) summary.
func Aggregate(rows []domain.MatchRow) []domain.SummaryRow {
	if len(rows) == 0 {
		return []domain.SummaryRow{}
	}

	type key struct {
		group   string
		keyword string
	}
	var order []key
	buckets := make(map[key][]domain.MatchRow)
	for _, row := range rows {
		k := key{group: row.Group, keyword: row.Keyword}
		if _, ok := buckets[k]; !ok {
			order = append(order, k)
		}
		buckets[k] = append(buckets[k], row)
	}

	summary := make([]domain.SummaryRow, 0, len(order))
	for _, k := range order {
		matched := buckets[k]
		scores := make([]float64, len(matched))
		distinct := make(map[string]struct{}, len(matched))
		var positive, negative, neutral int
		for i, row := range matched {
			scores[i] = row.SentimentScore
			distinct[row.ReviewID] = struct{}{}
			switch {
			case row.SentimentScore > positiveThreshold:
				positive++
			case row.SentimentScore < negativeThreshold:
				negative++
			default:
				neutral++
			}
		}

		avg := round3(stat.Mean(scores, nil))
		summary = append(summary, domain.SummaryRow{
			Group:         k.group,
			Keyword:       k.keyword,
			TotalReviews:  len(distinct),
			AvgSentiment:  avg,
			PositiveCount: positive,
			NegativeCount: negative,
			NeutralCount:  neutral,
			Label:         Label(avg),
		})
	}
	return summary
}

// Label classifies an average sentiment value.
func Label(avg float64) string {
	switch {
	case avg > positiveThreshold:
		return "positive"
	case avg < negativeThreshold:
		return "negative"
	default:
		return "neutral"
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
