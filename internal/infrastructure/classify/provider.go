package classify

import (
	"log/slog"
	"sync"

	"reviewalyze/internal/ports"
)

// Provider constructs one classifier backend, or reports that it cannot.
type Provider struct {
	Name  string
	Build func() (ports.Classifier, error)
}

// Chain tries providers in order and keeps the first one that initializes.
// The winner is process-scoped: initialization runs at most once even under
// concurrent first use, and the handle is reused read-only afterwards.
// No provider succeeding is a valid state; analysis then degrades to
// rating-only scoring.
type Chain struct {
	providers []Provider
	logger    *slog.Logger

	once   sync.Once
	active ports.Classifier
}

var _ ports.ClassifierSource = (*Chain)(nil)

// NewChain orders the candidate providers by preference.
func NewChain(logger *slog.Logger, providers ...Provider) *Chain {
	return &Chain{providers: providers, logger: logger}
}

// Classifier resolves the active classifier, initializing the chain on first
// use. It returns nil when no provider is available.
func (c *Chain) Classifier() ports.Classifier {
	c.once.Do(func() {
		for _, provider := range c.providers {
			classifier, err := provider.Build()
			if err != nil {
				c.warn("classifier provider unavailable", "provider", provider.Name, "error", err)
				continue
			}
			if classifier == nil {
				continue
			}
			c.active = classifier
			c.info("classifier ready", "provider", provider.Name)
			return
		}
		c.warn("no classifier available, runs degrade to rating-only scoring")
	})
	return c.active
}

func (c *Chain) info(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Info(msg, args...)
	}
}

func (c *Chain) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
