package graph

import (
	"fmt"

	"scripture-graph/backend/internal/constants"
	"scripture-graph/backend/internal/entity"
)

// ============================================================================
// Graph Builder
// ============================================================================

// Builder turns a passage sequence into a graph. It holds no per-build state,
// so one Builder can serve concurrent requests.
type Builder struct {
	extractor  entity.Extractor
	classifier entity.Classifier
}

// NewBuilder creates a builder. Nil strategies fall back to the capitalized
// extractor and the lexicon classifier.
func NewBuilder(extractor entity.Extractor, classifier entity.Classifier) *Builder {
	if extractor == nil {
		extractor = entity.NewCapitalizedExtractor()
	}
	if classifier == nil {
		classifier = entity.NewLexiconClassifier()
	}
	return &Builder{extractor: extractor, classifier: classifier}
}

// BuildContext is the mutable state of a single build.
type BuildContext struct {
	opts       Options
	nodes      *Registry
	categories *CategoryMap
	counts     map[string]int
	seen       []string // distinct entities in first-sighting order
	edges      []Edge
	stats      Stats
}

// NewBuildContext returns fresh state for one build
func NewBuildContext(opts Options) *BuildContext {
	if opts.EdgePolicy == "" {
		opts.EdgePolicy = EdgesFollowVisibility
	}
	return &BuildContext{
		opts:       opts,
		nodes:      NewRegistry(),
		categories: NewCategoryMap(),
		counts:     make(map[string]int),
	}
}

// Build folds passages, in order, into a new graph. Nil passages are skipped;
// a passage with empty text still gets its node. An empty input yields an
// empty graph.
func (b *Builder) Build(passages []*Passage, opts Options) *Result {
	bc := NewBuildContext(opts)
	for _, p := range passages {
		b.AddPassage(bc, p)
	}
	return bc.Result()
}

// AddPassage applies one passage to bc.
func (b *Builder) AddPassage(bc *BuildContext, p *Passage) {
	if p == nil {
		bc.stats.Skipped++
		return
	}
	bc.stats.Passages++

	reference := p.Reference
	if reference == "" {
		reference = constants.UnknownReference
	}

	entities := dedupe(b.extractor.Extract(p.Text))

	for _, name := range entities {
		if bc.counts[name] == 0 {
			bc.seen = append(bc.seen, name)
		}
		bc.counts[name]++
		bc.categories.RegisterIfAbsent(name, b.classifier.Classify)
	}

	bc.nodes.RegisterIfAbsent(Node{
		Key:     reference,
		Kind:    NodeKindPassage,
		Label:   reference,
		Tooltip: p.Text,
		Style: Style{
			Shape: constants.PassageShape,
			Color: constants.PassageColor,
		},
	})

	for _, name := range entities {
		if !bc.visible(name) {
			continue
		}
		bc.upsertEntityNode(name)
		bc.addEdge(Edge{
			From:  reference,
			To:    name,
			Kind:  EdgeKindAttribution,
			Color: constants.AttributionEdgeColor,
		})
	}

	for i := 0; i < len(entities); i++ {
		for j := i + 1; j < len(entities); j++ {
			if bc.opts.EdgePolicy == EdgesFollowVisibility &&
				(!bc.visible(entities[i]) || !bc.visible(entities[j])) {
				continue
			}
			bc.addEdge(Edge{
				From:  entities[i],
				To:    entities[j],
				Kind:  EdgeKindCooccurrence,
				Label: reference,
				Color: constants.CooccurrenceEdgeColor,
			})
		}
	}
}

// Result snapshots the accumulated graph
func (bc *BuildContext) Result() *Result {
	records := make([]EntityRecord, 0, len(bc.seen))
	stats := bc.stats
	stats.Entities = len(bc.seen)
	for _, name := range bc.seen {
		category, _ := bc.categories.Get(name)
		visible := bc.opts.Visible(category)
		if !visible {
			stats.HiddenEntities++
		}
		records = append(records, EntityRecord{
			Name:     name,
			Count:    bc.counts[name],
			Category: category,
			Visible:  visible,
		})
	}

	edges := make([]Edge, len(bc.edges))
	copy(edges, bc.edges)

	return &Result{
		Graph:    &Graph{Nodes: bc.nodes.Nodes(), Edges: edges},
		Entities: records,
		Stats:    stats,
	}
}

func (bc *BuildContext) visible(name string) bool {
	category, _ := bc.categories.Get(name)
	return bc.opts.Visible(category)
}

// upsertEntityNode registers the node on first sighting and refreshes its
// count-derived attributes afterwards.
func (bc *BuildContext) upsertEntityNode(name string) {
	category, _ := bc.categories.Get(name)
	color := categoryColor(category)
	if bc.opts.Highlighted(name) {
		color = constants.HighlightColor
	}

	node, _ := bc.nodes.RegisterIfAbsent(Node{
		Key:      name,
		Kind:     NodeKindEntity,
		Label:    name,
		Category: category,
		Style: Style{
			Shape: constants.EntityShape,
			Color: color,
		},
	})
	// a reference can collide with an entity name; the passage node keeps the key
	if node.Kind != NodeKindEntity {
		return
	}

	count := bc.counts[name]
	node.Count = count
	node.Tooltip = entityTooltip(name, count)
	node.Style.Size = entitySize(count)
}

func (bc *BuildContext) addEdge(e Edge) {
	switch e.Kind {
	case EdgeKindAttribution:
		bc.stats.AttributionEdges++
	case EdgeKindCooccurrence:
		bc.stats.CooccurrenceEdges++
	}
	bc.edges = append(bc.edges, e)
}

// dedupe keeps the first occurrence of each entity
func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func categoryColor(c entity.Category) string {
	switch c {
	case entity.CategoryPerson:
		return constants.PersonColor
	case entity.CategoryPlace:
		return constants.PlaceColor
	default:
		return constants.ThemeColor
	}
}

func entitySize(count int) int {
	return constants.EntityBaseSize + constants.EntitySizeFactor*count
}

func entityTooltip(name string, count int) string {
	if count == 1 {
		return fmt.Sprintf("%s (mentioned in 1 passage)", name)
	}
	return fmt.Sprintf("%s (mentioned in %d passages)", name, count)
}
