package analysis

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"reviewalyze/internal/domain"
	"reviewalyze/internal/ports"
)

// maxClassifierInput caps the characters handed to the classifier.
// Longer text is silently truncated; the stored clean text is unaffected.
const maxClassifierInput = 512

// Label markers seen across classifier backends. Checked in order: a label
// matching a positive marker is positive even if it would also match a
// negative one.
var (
	positiveMarkers = []string{"POS", "LABEL_1", "1"}
	negativeMarkers = []string{"NEG", "LABEL_0", "0"}
)

// TextScorer turns classifier verdicts into signed sentiment scores in
// [-1, 1]. A nil classifier means text scoring is disabled for the run.
type TextScorer struct {
	classifier ports.Classifier
	logger     *slog.Logger
}

// NewTextScorer wraps the classifier collaborator. Both arguments may be nil.
func NewTextScorer(classifier ports.Classifier, logger *slog.Logger) *TextScorer {
	return &TextScorer{classifier: classifier, logger: logger}
}

// Score classifies one text. It returns nil when no classifier is configured
// or the classification fails; failures are absorbed here, never propagated.
// Empty or whitespace-only text scores neutral without invoking the
// classifier.
func (s *TextScorer) Score(ctx context.Context, text string) *float64 {
	if s == nil || s.classifier == nil {
		return nil
	}

	if strings.TrimSpace(text) == "" {
		neutral := 0.0
		return &neutral
	}

	if runes := []rune(text); len(runes) > maxClassifierInput {
		text = string(runes[:maxClassifierInput])
	}

	prediction, err := s.classifier.Classify(ctx, text)
	if err != nil {
		s.debug("classification failed, item degrades to rating-only", "error", err)
		return nil
	}

	score := NormalizePrediction(prediction)
	return &score
}

// ScoreAll classifies every review's clean text, running at most limit calls
// at a time. Scores are written back by position, so the review-to-score
// mapping never depends on completion order. A failed item stays unscored
// and the batch continues.
func (s *TextScorer) ScoreAll(ctx context.Context, reviews []domain.Review, limit int) {
	if s == nil || s.classifier == nil {
		return
	}
	if limit < 1 {
		limit = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range reviews {
		g.Go(func() error {
			reviews[i].TextScore = s.Score(ctx, reviews[i].CleanText)
			return nil
		})
	}
	_ = g.Wait()
}

// NormalizePrediction maps a label+confidence verdict onto [-1, 1]. With
// confidence c in [0, 1]: a positive label yields (c-0.5)*2, a negative label
// the negation. An unrecognized label falls back to the positive-branch
// formula, assuming higher confidence leans positive; that is a heuristic,
// not a classifier contract.
func NormalizePrediction(prediction domain.Prediction) float64 {
	label := strings.ToUpper(strings.TrimSpace(prediction.Label))
	c := prediction.Confidence

	switch {
	case containsAny(label, positiveMarkers):
		return (c - 0.5) * 2
	case containsAny(label, negativeMarkers):
		return -(c - 0.5) * 2
	default:
		return (c - 0.5) * 2
	}
}

func containsAny(label string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(label, marker) {
			return true
		}
	}
	return false
}

func (s *TextScorer) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
