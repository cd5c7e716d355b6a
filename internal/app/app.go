package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"

	"reviewalyze/internal/config"
	"reviewalyze/internal/domain"
	"reviewalyze/internal/infrastructure/classify"
	"reviewalyze/internal/infrastructure/csvsource"
	"reviewalyze/internal/infrastructure/lexicon"
	"reviewalyze/internal/infrastructure/llm"
	"reviewalyze/internal/infrastructure/ml"
	"reviewalyze/internal/infrastructure/playstore"
	"reviewalyze/internal/infrastructure/results"
	"reviewalyze/internal/infrastructure/storage"
	"reviewalyze/internal/logging"
	"reviewalyze/internal/ports"
	"reviewalyze/internal/server"
	"reviewalyze/internal/source"
	"reviewalyze/internal/usecase"
)

// Application wires configuration to use cases and lifecycle orchestration.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	pipeline   *usecase.Pipeline
	chain      *classify.Chain
	repository ports.SummaryRepository
	db         *sql.DB
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := source.NewRegistry()
	registry.Register(csvsource.ReviewSource{})
	registry.Register(playstore.NewScanner(nil))

	chain := buildClassifierChain(cfg, baseLogger.With("component", "classify"))

	var db *sql.DB
	var repository ports.SummaryRepository
	if cfg.Database.DSN != "" {
		opened, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			baseLogger.Warn("summary storage disabled", "error", err)
		} else {
			db = opened
			repository = storage.NewPostgresRepository(db)
		}
	}

	var summarizer ports.ReportSummarizer
	if cfg.Gemini.APIKey != "" {
		summarizer = llm.NewGeminiClient(cfg.Gemini)
	}

	reviewSource, err := source.Bind(registry, cfg.Source.Strategy, source.Request{
		Path:  cfg.Source.ReviewsPath,
		AppID: cfg.Source.AppID,
	}, baseLogger.With("component", "source"))
	if err != nil {
		baseLogger.Warn("review source unavailable", "strategy", cfg.Source.Strategy, "error", err)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:       nilIfUnbound(reviewSource),
		Classifiers:  chain,
		Repository:   repository,
		Writer:       results.NewWriter(cfg.Results.Dir),
		Summarizer:   summarizer,
		Logger:       baseLogger.With("component", "pipeline"),
		RatingWeight: cfg.Scoring.RatingWeight,
		TextWeight:   cfg.Scoring.TextWeight,
		Workers:      cfg.Scoring.Workers,
	})

	return &Application{
		cfg:        cfg,
		logger:     baseLogger,
		pipeline:   pipeline,
		chain:      chain,
		repository: repository,
		db:         db,
	}
}

// Run performs a single analysis over the configured source and taxonomy.
func (a *Application) Run(ctx context.Context) error {
	keywords, grouped, err := a.loadTaxonomy()
	if err != nil {
		return err
	}

	_, err = a.pipeline.Run(ctx, keywords, grouped)
	return err
}

// Serve starts the HTTP API and blocks until the context is canceled.
func (a *Application) Serve(ctx context.Context) error {
	srv := server.New(server.Deps{
		Pipeline:      a.pipeline,
		Classifiers:   a.chain,
		Repository:    a.repository,
		DefaultGroups: csvsource.GroupsFromMap(a.cfg.KeywordGroups),
		Logger:        a.logger.With("component", "server"),
	})

	httpServer := &http.Server{
		Addr:    a.cfg.Server.Address,
		Handler: srv.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	a.logger.Info("http api listening", "addr", a.cfg.Server.Address)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve http: %w", err)
	}
	return nil
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// loadTaxonomy resolves the keyword input for a one-shot run: grouped CSV
// wins over flat CSV, and the built-in grouped taxonomy is the fallback.
func (a *Application) loadTaxonomy() ([]domain.Keyword, bool, error) {
	if path := a.cfg.Source.GroupsPath; path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, false, fmt.Errorf("open keyword groups file: %w", err)
		}
		defer f.Close()
		keywords, err := csvsource.ReadKeywordGroups(f)
		if err != nil {
			return nil, false, err
		}
		return keywords, true, nil
	}

	if path := a.cfg.Source.KeywordsPath; path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, false, fmt.Errorf("open keywords file: %w", err)
		}
		defer f.Close()
		keywords, err := csvsource.ReadKeywords(f)
		if err != nil {
			return nil, false, err
		}
		return keywords, false, nil
	}

	return csvsource.GroupsFromMap(a.cfg.KeywordGroups), true, nil
}

// buildClassifierChain orders the classifier providers: the remote inference
// service when configured, then the offline lexicon. Either or both may turn
// out unavailable; the chain reports that lazily on first use.
func buildClassifierChain(cfg config.Config, logger *slog.Logger) *classify.Chain {
	var providers []classify.Provider

	if cfg.Inference.Endpoint != "" {
		providers = append(providers, classify.Provider{
			Name: "inference",
			Build: func() (ports.Classifier, error) {
				return ml.NewClient(cfg.Inference), nil
			},
		})
	}

	if cfg.Lexicon.LexiconPath != "" {
		providers = append(providers, classify.Provider{
			Name: "vader",
			Build: func() (ports.Classifier, error) {
				return lexicon.New(cfg.Lexicon.LexiconPath, cfg.Lexicon.EmojiLexiconPath)
			},
		})
	}

	return classify.NewChain(logger, providers...)
}

func nilIfUnbound(bound *source.Bound) ports.ReviewSource {
	if bound == nil {
		return nil
	}
	return bound
}
