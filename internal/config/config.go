package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv        = "REVIEWALYZE_CONFIG"
	databaseDSNEnv       = "DATABASE_DSN"
	inferenceEndpointEnv = "INFERENCE_ENDPOINT"
	inferenceAPIKeyEnv   = "INFERENCE_API_KEY"
	inferenceModelEnv    = "INFERENCE_MODEL"
	geminiAPIKeyEnv      = "GEMINI_API_KEY"
	serverAddrEnv        = "SERVER_ADDR"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig       `yaml:"logging"`
	Scoring       ScoringConfig       `yaml:"scoring"`
	Inference     InferenceConfig     `yaml:"inference"`
	Lexicon       LexiconConfig       `yaml:"lexicon"`
	Gemini        GeminiConfig        `yaml:"gemini"`
	Source        SourceConfig        `yaml:"source"`
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Results       ResultsConfig       `yaml:"results"`
	KeywordGroups map[string][]string `yaml:"keywordGroups"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ScoringConfig tunes the hybrid fusion and classification fan-out.
type ScoringConfig struct {
	RatingWeight float64 `yaml:"ratingWeight"`
	TextWeight   float64 `yaml:"textWeight"`
	Workers      int     `yaml:"workers"`
}

// InferenceConfig describes the remote text-classification service. An empty
// endpoint disables the provider.
type InferenceConfig struct {
	Endpoint       string `yaml:"endpoint"`
	Model          string `yaml:"model"`
	APIKey         string `yaml:"apiKey"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// LexiconConfig locates the local VADER lexicon files used as the fallback
// classifier when no inference service is configured.
type LexiconConfig struct {
	LexiconPath      string `yaml:"lexiconPath"`
	EmojiLexiconPath string `yaml:"emojiLexiconPath"`
}

// GeminiConfig defines how to contact the generative API that writes report
// digests. An empty API key disables the feature.
type GeminiConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// SourceConfig selects the review-acquisition strategy and its inputs.
type SourceConfig struct {
	Strategy     string `yaml:"strategy"`
	ReviewsPath  string `yaml:"reviewsPath"`
	KeywordsPath string `yaml:"keywordsPath"`
	GroupsPath   string `yaml:"groupsPath"`
	AppID        string `yaml:"appId"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// DatabaseConfig describes Postgres connection details. An empty DSN disables
// summary persistence.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// ResultsConfig controls JSON result output.
type ResultsConfig struct {
	Dir string `yaml:"dir"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides. It never fails: unreadable or unparsable files fall back to
// defaults with a log line.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.KeywordGroups) == 0 {
		cfg.KeywordGroups = defaultKeywordGroups()
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(inferenceEndpointEnv); v != "" {
		c.Inference.Endpoint = v
	}

	if v := os.Getenv(inferenceAPIKeyEnv); v != "" {
		c.Inference.APIKey = v
	}

	if v := os.Getenv(inferenceModelEnv); v != "" {
		c.Inference.Model = v
	}

	if v := os.Getenv(geminiAPIKeyEnv); v != "" {
		c.Gemini.APIKey = v
	}

	if v := os.Getenv(serverAddrEnv); v != "" {
		c.Server.Address = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Scoring.RatingWeight > 0 || override.Scoring.TextWeight > 0 {
		base.Scoring.RatingWeight = override.Scoring.RatingWeight
		base.Scoring.TextWeight = override.Scoring.TextWeight
	}
	if override.Scoring.Workers > 0 {
		base.Scoring.Workers = override.Scoring.Workers
	}

	if override.Inference.Endpoint != "" {
		base.Inference.Endpoint = override.Inference.Endpoint
	}
	if override.Inference.Model != "" {
		base.Inference.Model = override.Inference.Model
	}
	if override.Inference.APIKey != "" {
		base.Inference.APIKey = override.Inference.APIKey
	}
	if override.Inference.TimeoutSeconds > 0 {
		base.Inference.TimeoutSeconds = override.Inference.TimeoutSeconds
	}

	if override.Lexicon.LexiconPath != "" {
		base.Lexicon.LexiconPath = override.Lexicon.LexiconPath
	}
	if override.Lexicon.EmojiLexiconPath != "" {
		base.Lexicon.EmojiLexiconPath = override.Lexicon.EmojiLexiconPath
	}

	if override.Gemini.Endpoint != "" {
		base.Gemini.Endpoint = override.Gemini.Endpoint
	}
	if override.Gemini.Model != "" {
		base.Gemini.Model = override.Gemini.Model
	}
	if override.Gemini.APIKey != "" {
		base.Gemini.APIKey = override.Gemini.APIKey
	}

	if override.Source.Strategy != "" {
		base.Source.Strategy = override.Source.Strategy
	}
	if override.Source.ReviewsPath != "" {
		base.Source.ReviewsPath = override.Source.ReviewsPath
	}
	if override.Source.KeywordsPath != "" {
		base.Source.KeywordsPath = override.Source.KeywordsPath
	}
	if override.Source.GroupsPath != "" {
		base.Source.GroupsPath = override.Source.GroupsPath
	}
	if override.Source.AppID != "" {
		base.Source.AppID = override.Source.AppID
	}

	if override.Server.Address != "" {
		base.Server = override.Server
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Results.Dir != "" {
		base.Results = override.Results
	}

	if len(override.KeywordGroups) > 0 {
		base.KeywordGroups = override.KeywordGroups
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Scoring: ScoringConfig{
			RatingWeight: 0.4,
			TextWeight:   0.6,
			Workers:      4,
		},
		Inference: InferenceConfig{
			Endpoint:       "",
			Model:          "sentiment-base",
			TimeoutSeconds: 15,
		},
		Lexicon: LexiconConfig{
			LexiconPath:      "data/vader_lexicon.txt",
			EmojiLexiconPath: "data/emoji_utf8_lexicon.txt",
		},
		Gemini: GeminiConfig{
			Endpoint: "https://generativelanguage.googleapis.com/v1beta",
			Model:    "gemini-1.5-flash",
		},
		Source: SourceConfig{
			Strategy:    "csv",
			ReviewsPath: "reviews.csv",
		},
		Server:        ServerConfig{Address: ":5000"},
		Database:      DatabaseConfig{DSN: ""},
		Results:       ResultsConfig{Dir: "results"},
		KeywordGroups: defaultKeywordGroups(),
	}
}

// defaultKeywordGroups is the built-in grouped taxonomy used when no keyword
// file is supplied.
func defaultKeywordGroups() map[string][]string {
	return map[string][]string{
		"Ads":        {"ad", "ads", "advert", "commercial", "banner"},
		"Difficulty": {"difficulty", "level", "easy", "hard", "tutorial"},
		"Billing":    {"billing", "payment", "purchase", "price", "subscription"},
		"Errors":     {"error", "bug", "crash", "freeze", "glitch"},
		"UI":         {"ui", "design", "layout", "interface", "screen"},
		"Features":   {"mode", "challenge", "record", "save", "timer"},
	}
}
