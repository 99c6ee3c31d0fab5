// Package explorer runs a topic request end to end: topic lookup, passage
// fetch, graph build and optional export.
package explorer

import (
	"context"
	"strings"
	"time"

	"scripture-graph/backend/internal/constants"
	"scripture-graph/backend/internal/graph"
	"scripture-graph/backend/internal/sources"
	apperrors "scripture-graph/backend/pkg/errors"
	"scripture-graph/backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PassageFetcher resolves references to passages, nil for failures
type PassageFetcher interface {
	FetchAll(ctx context.Context, references []string) []*graph.Passage
}

// Exporter receives every finished build
type Exporter interface {
	Export(ctx context.Context, buildID, topic string, res *graph.Result) error
}

// Request is one topic submission
type Request struct {
	Topic       string
	MaxPassages int // 0 means the configured default
	Options     graph.Options
}

// Response is the outcome of one build
type Response struct {
	BuildID    string
	Topic      string
	References []string
	Passages   []*graph.Passage
	Result     *graph.Result
	Duration   time.Duration
}

// Explorer wires the sources to the builder
type Explorer struct {
	topics        sources.TopicSource
	fetcher       PassageFetcher
	builder       *graph.Builder
	exporter      Exporter
	exportTimeout time.Duration
	defaultMax    int
	maxLimit      int
	logger        *zap.Logger
}

// Option customizes an Explorer
type Option func(*Explorer)

// WithExporter sends each build to e after it is built
func WithExporter(e Exporter) Option {
	return func(x *Explorer) { x.exporter = e }
}

// WithLimits sets the default and maximum passages per request
func WithLimits(defaultMax, maxLimit int) Option {
	return func(x *Explorer) {
		if defaultMax > 0 {
			x.defaultMax = defaultMax
		}
		if maxLimit >= x.defaultMax {
			x.maxLimit = maxLimit
		}
	}
}

// WithLogger replaces the component logger
func WithLogger(l *zap.Logger) Option {
	return func(x *Explorer) {
		if l != nil {
			x.logger = l
		}
	}
}

// New creates an explorer
func New(topics sources.TopicSource, fetcher PassageFetcher, builder *graph.Builder, opts ...Option) *Explorer {
	x := &Explorer{
		topics:        topics,
		fetcher:       fetcher,
		builder:       builder,
		exportTimeout: 10 * time.Second,
		defaultMax:    constants.DefaultMaxPassages,
		maxLimit:      25,
		logger:        logger.Named("explorer"),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Limit clamps a requested passage count to 1..maxLimit; 0 means the default
func (x *Explorer) Limit(requested int) int {
	switch {
	case requested <= 0:
		return x.defaultMax
	case requested > x.maxLimit:
		return x.maxLimit
	}
	return requested
}

// Explore builds the graph for a topic. It fails only when the topic yields no
// references; missing passages just shrink the graph.
func (x *Explorer) Explore(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	topic := strings.TrimSpace(req.Topic)
	limit := x.Limit(req.MaxPassages)

	refs := x.topics.References(ctx, topic, limit)
	if len(refs) > limit {
		refs = refs[:limit]
	}
	if len(refs) == 0 {
		x.logger.Info("No references for topic", zap.String("topic", topic))
		return nil, apperrors.NewSourceNoReferences(topic)
	}

	passages := x.fetcher.FetchAll(ctx, refs)
	resp := x.build(ctx, topic, passages, req.Options)
	resp.References = refs
	resp.Duration = time.Since(start)

	x.logger.Info("Topic graph built",
		zap.String("build_id", resp.BuildID),
		zap.String("topic", topic),
		zap.Int("references", len(refs)),
		zap.Int("passages", resp.Result.Stats.Passages),
		zap.Int("skipped", resp.Result.Stats.Skipped),
		zap.Int("entities", resp.Result.Stats.Entities),
		zap.Int("nodes", len(resp.Result.Graph.Nodes)),
		zap.Int("edges", len(resp.Result.Graph.Edges)),
		zap.Duration("duration", resp.Duration),
	)
	return resp, nil
}

// BuildPassages runs only the builder over caller-supplied passages.
func (x *Explorer) BuildPassages(ctx context.Context, topic string, passages []*graph.Passage, opts graph.Options) *Response {
	start := time.Now()
	resp := x.build(ctx, strings.TrimSpace(topic), passages, opts)
	resp.Duration = time.Since(start)

	x.logger.Debug("Passage graph built",
		zap.String("build_id", resp.BuildID),
		zap.Int("passages", resp.Result.Stats.Passages),
		zap.Int("nodes", len(resp.Result.Graph.Nodes)),
	)
	return resp
}

func (x *Explorer) build(ctx context.Context, topic string, passages []*graph.Passage, opts graph.Options) *Response {
	resp := &Response{
		BuildID:  uuid.New().String(),
		Topic:    topic,
		Passages: passages,
		Result:   x.builder.Build(passages, opts),
	}
	x.export(ctx, resp)
	return resp
}

// export never fails the request
func (x *Explorer) export(ctx context.Context, resp *Response) {
	if x.exporter == nil || resp.Result.Graph.Empty() {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, x.exportTimeout)
	defer cancel()

	if err := x.exporter.Export(ctx, resp.BuildID, resp.Topic, resp.Result); err != nil {
		x.logger.Warn("Graph export failed",
			zap.String("build_id", resp.BuildID),
			zap.Bool("retryable", apperrors.IsRetryable(err)),
			zap.Error(err),
		)
	}
}
