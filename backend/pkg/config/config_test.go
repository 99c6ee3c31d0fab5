package config

import (
	"testing"
	"time"

	apperrors "scripture-graph/backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MAX_PASSAGES", "")
	t.Setenv("EDGE_POLICY", "")
	t.Setenv("CLASSIFIER", "")
	t.Setenv("NEO4J_EXPORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MaxPassages)
	assert.Equal(t, "follow", cfg.EdgePolicy)
	assert.Equal(t, "lexicon", cfg.Classifier)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.Neo4jExport)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MAX_PASSAGES", "8")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("EXTRA_STOPWORDS", "Lord, Behold ,,Then")
	t.Setenv("BIBLE_API_URL", "http://localhost:9999/")
	t.Setenv("EDGE_POLICY", "ignore")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.MaxPassages)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, []string{"Lord", "Behold", "Then"}, cfg.ExtraStopwords)
	assert.Equal(t, "http://localhost:9999", cfg.BibleAPIURL)
	assert.Equal(t, "ignore", cfg.EdgePolicy)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			OpenBibleURL:     "https://www.openbible.info",
			BibleAPIURL:      "https://bible-api.com",
			MaxPassages:      5,
			MaxPassagesLimit: 25,
			FetchConcurrency: 4,
			EdgePolicy:       "follow",
			Classifier:       "lexicon",
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad edge policy", func(c *Config) { c.EdgePolicy = "sometimes" }, "EDGE_POLICY"},
		{"zero passages", func(c *Config) { c.MaxPassages = 0 }, "MAX_PASSAGES"},
		{"limit below default", func(c *Config) { c.MaxPassagesLimit = 2 }, "MAX_PASSAGES_LIMIT"},
		{"bad classifier", func(c *Config) { c.Classifier = "oracle" }, "CLASSIFIER"},
		{"export without password", func(c *Config) {
			c.Neo4jExport = true
			c.Neo4jURI = "bolt://localhost:7687"
			c.Neo4jUser = "neo4j"
		}, "NEO4J_PASSWORD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConfig))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}
