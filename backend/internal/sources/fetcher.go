package sources

import (
	"context"

	"scripture-graph/backend/internal/graph"

	"golang.org/x/sync/errgroup"
)

// Fetcher resolves many references concurrently while keeping their order.
type Fetcher struct {
	source      PassageSource
	concurrency int
}

// NewFetcher bounds in-flight lookups to concurrency (minimum 1)
func NewFetcher(source PassageSource, concurrency int) *Fetcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Fetcher{source: source, concurrency: concurrency}
}

// FetchAll returns one slot per reference, in reference order. Failed lookups
// leave a nil slot. Cancelling ctx stops scheduling further lookups.
func (f *Fetcher) FetchAll(ctx context.Context, references []string) []*graph.Passage {
	passages := make([]*graph.Passage, len(references))
	if len(references) == 0 {
		return passages
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for i, ref := range references {
		idx := i
		reference := ref
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return nil
			default:
			}
			// each goroutine owns its slot
			passages[idx] = f.source.Passage(gctx, reference)
			return nil
		})
	}

	_ = g.Wait()
	return passages
}
