package explorer

import (
	"context"

	"scripture-graph/backend/internal/adapter"
	"scripture-graph/backend/internal/entity"
	"scripture-graph/backend/internal/graph"
	"scripture-graph/backend/internal/sources"
	"scripture-graph/backend/pkg/config"

	"go.uber.org/zap"
)

// Setup holds an explorer built from configuration and what it owns
type Setup struct {
	Explorer   *Explorer
	EdgePolicy graph.EdgePolicy
	repo       *graph.Repository
}

// DefaultOptions are the per-request defaults: every category shown and the
// configured edge policy
func (s *Setup) DefaultOptions() graph.Options {
	opts := graph.DefaultOptions()
	opts.EdgePolicy = s.EdgePolicy
	return opts
}

// Close releases the Neo4j driver, if any
func (s *Setup) Close() {
	if s.repo != nil {
		_ = s.repo.Close()
	}
}

// FromConfig wires sources, strategies, builder and exporter.
func FromConfig(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Setup, error) {
	policy, err := graph.ParseEdgePolicy(cfg.EdgePolicy)
	if err != nil {
		return nil, err
	}

	client := sources.NewHTTPClient(cfg.HTTPTimeout)
	topics := sources.NewOpenBibleTopics(cfg.OpenBibleURL, cfg.UserAgent, client)
	passages := sources.NewBibleAPI(cfg.BibleAPIURL, cfg.UserAgent, client)
	fetcher := sources.NewFetcher(passages, cfg.FetchConcurrency)

	extractor := entity.NewCapitalizedExtractor(cfg.ExtraStopwords...)
	var classifier entity.Classifier = entity.NewLexiconClassifier()
	if cfg.Classifier == "llm" {
		llm := adapter.NewLLMAdapter(cfg.LiteLLMURL, cfg.OpenRouterAPIKey, cfg.ModelID)
		classifier = entity.NewLLMClassifier(llm, classifier, cfg.HTTPTimeout, log.Named("classifier"))
		log.Info("Using LLM classifier", zap.String("model", cfg.ModelID))
	}

	setup := &Setup{EdgePolicy: policy}
	opts := []Option{
		WithLimits(cfg.MaxPassages, cfg.MaxPassagesLimit),
		WithLogger(log.Named("explorer")),
	}

	if cfg.Neo4jExport {
		driver, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
		if err != nil {
			return nil, err
		}
		setup.repo = graph.NewRepository(driver)
		opts = append(opts, WithExporter(setup.repo))
		log.Info("Neo4j export enabled", zap.String("uri", cfg.Neo4jURI))
	}

	setup.Explorer = New(topics, fetcher, graph.NewBuilder(extractor, classifier), opts...)
	return setup, nil
}
