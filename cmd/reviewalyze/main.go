package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"reviewalyze/internal/app"
	"reviewalyze/internal/config"
	"reviewalyze/internal/logging"
	"reviewalyze/internal/usecase"
)

func main() {
	var (
		reviewsPath  = flag.String("reviews", "", "review CSV path (overrides config)")
		keywordsPath = flag.String("keywords", "", "flat keyword CSV path")
		groupsPath   = flag.String("groups", "", "grouped keyword CSV path (keyword_group,keyword)")
		outputDir    = flag.String("output", "", "results directory")
		appID        = flag.String("app", "", "store app id for the playstore source")
		serve        = flag.Bool("serve", false, "start the HTTP API instead of a one-shot run")
	)
	flag.Parse()

	cfg := config.Load()
	if *reviewsPath != "" {
		cfg.Source.ReviewsPath = *reviewsPath
	}
	if *keywordsPath != "" {
		cfg.Source.KeywordsPath = *keywordsPath
	}
	if *groupsPath != "" {
		cfg.Source.GroupsPath = *groupsPath
	}
	if *outputDir != "" {
		cfg.Results.Dir = *outputDir
	}
	if *appID != "" {
		cfg.Source.AppID = *appID
		cfg.Source.Strategy = "playstore"
	}

	logger := logging.New(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg, logger)
	defer application.Close()

	var err error
	if *serve {
		err = application.Serve(ctx)
	} else {
		err = application.Run(ctx)
	}

	switch {
	case errors.Is(err, usecase.ErrNoMatches):
		logger.Warn("no keyword matched any review; nothing to aggregate")
	case err != nil:
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
