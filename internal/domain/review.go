package domain

// Review is one user-submitted app-store entry flowing through an analysis run.
// Derived fields are filled in by the pipeline stages in a fixed order:
// preprocess, score, match, aggregate.
type Review struct {
	ID       string
	AppID    string
	Text     string
	Rating   int
	Keywords []string

	// CleanText is the normalized comparison form of Text. Reviews whose
	// CleanText is empty are dropped before scoring.
	CleanText string

	RatingScore float64
	// TextScore is absent when no classifier is available or the item failed
	// classification; fusion then degrades to the rating score alone.
	TextScore      *float64
	SentimentScore float64
}

// Keyword is a single matchable term. Group is empty in the flat taxonomy.
type Keyword struct {
	Group string
	Text  string
}

// MatchRow associates one keyword occurrence with one scored review. A review
// may appear in many rows, one per keyword it matched.
type MatchRow struct {
	Group          string
	Keyword        string
	ReviewID       string
	AppID          string
	Rating         int
	Text           string
	SentimentScore float64
	RatingScore    float64
	TextScore      *float64
}

// SummaryRow aggregates all match rows of one keyword (or group+keyword).
// Field names and the 3-decimal rounding of AvgSentiment are part of the
// output contract consumed downstream.
type SummaryRow struct {
	Group         string  `json:"keyword_group,omitempty"`
	Keyword       string  `json:"keyword"`
	TotalReviews  int     `json:"total_reviews"`
	AvgSentiment  float64 `json:"avg_sentiment"`
	PositiveCount int     `json:"positive_count"`
	NegativeCount int     `json:"negative_count"`
	NeutralCount  int     `json:"neutral_count"`
	Label         string  `json:"sentiment_label"`
	AppName       string  `json:"app_name"`
}

// Report is the result of one analysis run.
type Report struct {
	AppName        string       `json:"app_name"`
	Summary        []SummaryRow `json:"summary"`
	MatchedReviews int          `json:"matched_reviews"`
	Digest         string       `json:"digest,omitempty"`
}

// Prediction is a raw classifier verdict before score normalization. Label
// conventions vary per backend (POSITIVE/NEGATIVE, LABEL_0/LABEL_1, ...).
type Prediction struct {
	Label      string
	Confidence float64
}
