package source

import (
	"context"
	"fmt"
	"log/slog"

	"reviewalyze/internal/domain"
	"reviewalyze/internal/ports"
)

// Request carries all parameters required to execute one fetch.
type Request struct {
	// Path locates a local input (CSV file) for file-backed sources.
	Path string
	// AppID identifies the store listing for remote sources.
	AppID   string
	Options map[string]string
}

// Source captures a single review-acquisition strategy (CSV file, Play
// Store page, ...).
type Source interface {
	Name() string
	Fetch(ctx context.Context, req Request) ([]domain.Review, error)
}

// Registry keeps a mapping from source names to their implementations.
type Registry struct {
	sources map[string]Source
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: map[string]Source{}}
}

// Register adds or replaces a source implementation.
func (r *Registry) Register(src Source) {
	if r.sources == nil {
		r.sources = map[string]Source{}
	}
	r.sources[src.Name()] = src
}

// Resolve returns a source by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Source, error) {
	if src, ok := r.sources[name]; ok {
		return src, nil
	}
	return nil, fmt.Errorf("review source %s is not registered", name)
}

// Bound fixes a strategy and request once per run so the pipeline sees a
// plain ReviewSource.
type Bound struct {
	src    Source
	req    Request
	logger *slog.Logger
}

var _ ports.ReviewSource = (*Bound)(nil)

// Bind resolves the named strategy and pairs it with its request.
func Bind(registry *Registry, name string, req Request, logger *slog.Logger) (*Bound, error) {
	if registry == nil {
		return nil, fmt.Errorf("source registry is not configured")
	}
	src, err := registry.Resolve(name)
	if err != nil {
		return nil, err
	}
	return &Bound{src: src, req: req, logger: logger}, nil
}

// Fetch executes the bound strategy.
func (b *Bound) Fetch(ctx context.Context) ([]domain.Review, error) {
	if b.logger != nil {
		b.logger.Debug("fetch reviews", "source", b.src.Name(), "path", b.req.Path, "app_id", b.req.AppID)
	}
	reviews, err := b.src.Fetch(ctx, b.req)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", b.src.Name(), err)
	}
	return reviews, nil
}
