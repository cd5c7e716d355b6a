package lexicon

import (
	"context"
	"fmt"

	"github.com/drankou/go-vader/vader"

	"reviewalyze/internal/domain"
	"reviewalyze/internal/ports"
)

// Analyzer adapts the VADER lexicon analyzer to the classifier port. It runs
// fully offline and serves as the fallback when no inference service is
// configured.
type Analyzer struct {
	sia vader.SentimentIntensityAnalyzer
}

var _ ports.Classifier = (*Analyzer)(nil)

// New loads the lexicon files and returns a ready analyzer.
func New(lexiconPath, emojiLexiconPath string) (*Analyzer, error) {
	a := &Analyzer{}
	if err := a.sia.Init(lexiconPath, emojiLexiconPath); err != nil {
		return nil, fmt.Errorf("load vader lexicons: %w", err)
	}
	return a, nil
}

// Name identifies the provider in logs and health reports.
func (a *Analyzer) Name() string {
	return "vader"
}

// Classify maps the compound polarity in [-1, 1] onto a label+confidence
// verdict such that downstream normalization recovers the compound value
// exactly.
func (a *Analyzer) Classify(_ context.Context, text string) (domain.Prediction, error) {
	scores := a.sia.PolarityScores(text)
	compound := scores["compound"]
	if compound >= 0 {
		return domain.Prediction{Label: "POSITIVE", Confidence: 0.5 + compound/2}, nil
	}
	return domain.Prediction{Label: "NEGATIVE", Confidence: 0.5 - compound/2}, nil
}
