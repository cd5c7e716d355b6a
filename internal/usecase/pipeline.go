package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"reviewalyze/internal/analysis"
	"reviewalyze/internal/domain"
	"reviewalyze/internal/ports"
)

// ErrNoMatches reports that no keyword matched any review. Callers decide
// whether that is an error; the pipeline only names the condition.
var ErrNoMatches = errors.New("no keyword matches to aggregate")

// PipelineDeps wires all driven adapters into the analysis pipeline. Only
// Classifiers is consulted lazily; everything else may be nil and is then
// skipped.
type PipelineDeps struct {
	Source      ports.ReviewSource
	Classifiers ports.ClassifierSource
	Repository  ports.SummaryRepository
	Writer      ports.ResultWriter
	Summarizer  ports.ReportSummarizer
	Logger      *slog.Logger

	RatingWeight float64
	TextWeight   float64
	Workers      int
}

// Pipeline implements the review-analysis workflow: preprocess, score, fuse,
// match, aggregate, persist.
type Pipeline struct {
	source       ports.ReviewSource
	classifiers  ports.ClassifierSource
	repository   ports.SummaryRepository
	writer       ports.ResultWriter
	summarizer   ports.ReportSummarizer
	logger       *slog.Logger
	ratingWeight float64
	textWeight   float64
	workers      int
}

// NewPipeline constructs the orchestration component. Zero weights fall back
// to the package defaults.
func NewPipeline(deps PipelineDeps) *Pipeline {
	ratingWeight, textWeight := deps.RatingWeight, deps.TextWeight
	if ratingWeight <= 0 && textWeight <= 0 {
		ratingWeight, textWeight = analysis.DefaultRatingWeight, analysis.DefaultTextWeight
	}
	workers := deps.Workers
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		source:       deps.Source,
		classifiers:  deps.Classifiers,
		repository:   deps.Repository,
		writer:       deps.Writer,
		summarizer:   deps.Summarizer,
		logger:       deps.Logger,
		ratingWeight: ratingWeight,
		textWeight:   textWeight,
		workers:      workers,
	}
}

// Run fetches reviews from the bound source and analyzes them against the
// taxonomy.
func (p *Pipeline) Run(ctx context.Context, keywords []domain.Keyword, grouped bool) (domain.Report, error) {
	if p.source == nil {
		return domain.Report{}, fmt.Errorf("no review source configured")
	}

	reviews, err := p.source.Fetch(ctx)
	if err != nil {
		return domain.Report{}, fmt.Errorf("fetch reviews: %w", err)
	}

	return p.Analyze(ctx, reviews, keywords, grouped)
}

// Analyze runs the full pipeline over an in-memory review batch. It returns
// ErrNoMatches together with an empty-summary report when no keyword matched;
// per-review classification failures degrade those items, never the batch.
func (p *Pipeline) Analyze(ctx context.Context, reviews []domain.Review, keywords []domain.Keyword, grouped bool) (domain.Report, error) {
	prepared := prepare(reviews)
	appName := analysis.ResolveAppName(prepared)
	p.info("reviews prepared", "app", appName, "total", len(reviews), "usable", len(prepared))

	scorer := analysis.NewTextScorer(p.classifier(), p.logger)
	scorer.ScoreAll(ctx, prepared, p.workers)
	for i := range prepared {
		prepared[i].SentimentScore = analysis.Fuse(
			prepared[i].RatingScore, prepared[i].TextScore, p.ratingWeight, p.textWeight)
	}

	matcher := analysis.NewMatcher(keywords, grouped, p.logger)
	rows := matcher.Match(prepared)
	if len(rows) == 0 {
		p.info("no keyword matches", "app", appName, "keywords", len(keywords))
		return domain.Report{AppName: appName, Summary: []domain.SummaryRow{}}, ErrNoMatches
	}

	summary := analysis.Aggregate(rows)
	for i := range summary {
		summary[i].AppName = appName
	}

	report := domain.Report{
		AppName:        appName,
		Summary:        summary,
		MatchedReviews: distinctReviews(rows),
	}

	if p.summarizer != nil {
		digest, dErr := p.summarizer.Summarize(ctx, report)
		if dErr != nil {
			p.warn("report digest unavailable", "error", dErr)
		} else {
			report.Digest = digest
		}
	}

	if p.repository != nil {
		if err := p.repository.SaveSummary(ctx, appName, summary); err != nil {
			return domain.Report{}, fmt.Errorf("persist summary: %w", err)
		}
	}

	if p.writer != nil {
		path, wErr := p.writer.Write(report)
		if wErr != nil {
			return domain.Report{}, fmt.Errorf("write results: %w", wErr)
		}
		if path != "" {
			p.info("results written", "path", path)
		}
	}

	p.info("analysis done", "app", appName, "keywords", len(summary), "matched_reviews", report.MatchedReviews)
	return report, nil
}

// prepare normalizes raw text, drops reviews that are empty after
// normalization, and assigns rating scores. The input slice is not mutated.
func prepare(reviews []domain.Review) []domain.Review {
	prepared := make([]domain.Review, 0, len(reviews))
	for _, review := range reviews {
		review.CleanText = analysis.Normalize(review.Text)
		if review.CleanText == "" {
			continue
		}
		review.RatingScore = analysis.RatingScore(review.Rating)
		prepared = append(prepared, review)
	}
	return prepared
}

func distinctReviews(rows []domain.MatchRow) int {
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		seen[row.ReviewID] = struct{}{}
	}
	return len(seen)
}

func (p *Pipeline) classifier() ports.Classifier {
	if p.classifiers == nil {
		return nil
	}
	return p.classifiers.Classifier()
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
