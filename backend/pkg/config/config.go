package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "scripture-graph/backend/pkg/errors"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// App
	Port     string
	Env      string
	LogLevel string

	// Upstream sources
	OpenBibleURL     string
	BibleAPIURL      string
	HTTPTimeout      time.Duration
	UserAgent        string
	FetchConcurrency int

	// Graph building
	MaxPassages      int // default passages per topic
	MaxPassagesLimit int // hard cap for a request's max_passages
	EdgePolicy       string
	ExtraStopwords   []string
	Classifier       string // lexicon or llm

	// AI (only used with Classifier == "llm")
	LiteLLMURL       string
	ModelID          string
	OpenRouterAPIKey string

	// Neo4j export
	Neo4jExport   bool
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// Discord
	DiscordBotToken      string
	DiscordCommandPrefix string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		Env:                  getEnv("ENV", "development"),
		LogLevel:             getEnv("LOG_LEVEL", ""),
		OpenBibleURL:         strings.TrimRight(getEnv("OPENBIBLE_URL", "https://www.openbible.info"), "/"),
		BibleAPIURL:          strings.TrimRight(getEnv("BIBLE_API_URL", "https://bible-api.com"), "/"),
		HTTPTimeout:          getEnvDuration("HTTP_TIMEOUT", 10*time.Second),
		UserAgent:            getEnv("USER_AGENT", "scripture-graph/1.0"),
		FetchConcurrency:     getEnvInt("FETCH_CONCURRENCY", 4),
		MaxPassages:          getEnvInt("MAX_PASSAGES", 5),
		MaxPassagesLimit:     getEnvInt("MAX_PASSAGES_LIMIT", 25),
		EdgePolicy:           getEnv("EDGE_POLICY", "follow"),
		ExtraStopwords:       getEnvList("EXTRA_STOPWORDS"),
		Classifier:           getEnv("CLASSIFIER", "lexicon"),
		LiteLLMURL:           getEnv("LITELLM_URL", "http://localhost:4000"),
		ModelID:              getEnv("MODEL_ID", "openrouter/anthropic/claude-3.5-sonnet"),
		OpenRouterAPIKey:     getEnv("OPENROUTER_API_KEY", ""),
		Neo4jExport:          getEnvBool("NEO4J_EXPORT", false),
		Neo4jURI:             getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:            getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:        getEnv("NEO4J_PASSWORD", ""),
		DiscordBotToken:      getEnv("DISCORD_BOT_TOKEN", ""),
		DiscordCommandPrefix: getEnv("DISCORD_COMMAND_PREFIX", "!graph"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.OpenBibleURL == "" {
		return apperrors.NewConfigMissingRequired("OPENBIBLE_URL")
	}
	if c.BibleAPIURL == "" {
		return apperrors.NewConfigMissingRequired("BIBLE_API_URL")
	}
	if c.MaxPassages < 1 {
		return apperrors.NewConfigValidationFailed("MAX_PASSAGES", "must be at least 1")
	}
	if c.MaxPassagesLimit < c.MaxPassages {
		return apperrors.NewConfigValidationFailed("MAX_PASSAGES_LIMIT", "must not be below MAX_PASSAGES")
	}
	if c.FetchConcurrency < 1 {
		return apperrors.NewConfigValidationFailed("FETCH_CONCURRENCY", "must be at least 1")
	}
	switch c.EdgePolicy {
	case "follow", "ignore":
	default:
		return apperrors.NewConfigValidationFailed("EDGE_POLICY", "must be follow or ignore")
	}
	switch c.Classifier {
	case "lexicon":
	case "llm":
		if c.LiteLLMURL == "" {
			return apperrors.NewConfigMissingRequired("LITELLM_URL")
		}
		if c.ModelID == "" {
			return apperrors.NewConfigMissingRequired("MODEL_ID")
		}
	default:
		return apperrors.NewConfigValidationFailed("CLASSIFIER", "must be lexicon or llm")
	}
	if c.Neo4jExport {
		if c.Neo4jURI == "" {
			return apperrors.NewConfigMissingRequired("NEO4J_URI")
		}
		if c.Neo4jUser == "" {
			return apperrors.NewConfigMissingRequired("NEO4J_USER")
		}
		if c.Neo4jPassword == "" {
			return apperrors.NewConfigMissingRequired("NEO4J_PASSWORD")
		}
	}
	// Discord token is only checked by the bot binary
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if result, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return result
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated variable, dropping empty items
func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
