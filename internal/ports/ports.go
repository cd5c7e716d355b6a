package ports

import (
	"context"

	"reviewalyze/internal/domain"
)

// ReviewSource provides the already-fetched review batch for one analysis run.
type ReviewSource interface {
	Fetch(ctx context.Context) ([]domain.Review, error)
}

// Classifier produces a raw sentiment verdict for a piece of text. It may
// fail per call; callers absorb failures and degrade to rating-only scoring.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, text string) (domain.Prediction, error)
}

// ClassifierSource resolves the process-wide classifier, initializing it at
// most once. A nil result means no classifier is available, which is a valid
// state, not an error.
type ClassifierSource interface {
	Classifier() Classifier
}

// SummaryRepository persists run summaries for later history queries.
type SummaryRepository interface {
	SaveSummary(ctx context.Context, appName string, rows []domain.SummaryRow) error
	RecentSummaries(ctx context.Context, appNames []string, limit int) ([]domain.SummaryRow, error)
}

// ResultWriter emits a finished report to its output location and returns a
// reference to where it was written.
type ResultWriter interface {
	Write(report domain.Report) (string, error)
}

// ReportSummarizer turns a finished report into a short natural-language
// digest via an external generative model.
type ReportSummarizer interface {
	Summarize(ctx context.Context, report domain.Report) (string, error)
}
