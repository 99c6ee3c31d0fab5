// Package render serializes a built graph for display.
package render

import (
	"encoding/json"
	"io"
	"strings"

	"scripture-graph/backend/internal/graph"
	apperrors "scripture-graph/backend/pkg/errors"
)

// Format names accepted by ForFormat
const (
	FormatHTML = "html"
	FormatJSON = "json"
)

// Page is what a renderer draws: the build result plus request context.
type Page struct {
	Topic     string
	Highlight string
	BuildID   string
	Result    *graph.Result
}

// Renderer writes a page in one output format.
type Renderer interface {
	Format() string
	ContentType() string
	Render(w io.Writer, page Page) error
}

// ForFormat picks a renderer; empty means JSON
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		return JSONRenderer{}, nil
	case FormatHTML:
		return NewHTMLRenderer(), nil
	}
	return nil, apperrors.NewRenderUnknownFormat(format)
}

// JSONRenderer emits the graph, entity records and stats.
type JSONRenderer struct{}

type jsonPage struct {
	Topic    string               `json:"topic,omitempty"`
	BuildID  string               `json:"build_id,omitempty"`
	Graph    *graph.Graph         `json:"graph"`
	Entities []graph.EntityRecord `json:"entities"`
	Stats    graph.Stats          `json:"stats"`
}

func (JSONRenderer) Format() string      { return FormatJSON }
func (JSONRenderer) ContentType() string { return "application/json; charset=utf-8" }

func (JSONRenderer) Render(w io.Writer, page Page) error {
	res := resultOrEmpty(page.Result)
	out := jsonPage{
		Topic:    page.Topic,
		BuildID:  page.BuildID,
		Graph:    res.Graph,
		Entities: res.Entities,
		Stats:    res.Stats,
	}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		return apperrors.NewRenderFailed(FormatJSON, err)
	}
	return nil
}

// resultOrEmpty keeps renderers from emitting null collections
func resultOrEmpty(res *graph.Result) *graph.Result {
	if res == nil {
		res = &graph.Result{}
	}
	g := res.Graph
	if g == nil {
		g = &graph.Graph{}
	}
	nodes, edges := g.Nodes, g.Edges
	if nodes == nil {
		nodes = []graph.Node{}
	}
	if edges == nil {
		edges = []graph.Edge{}
	}
	entities := res.Entities
	if entities == nil {
		entities = []graph.EntityRecord{}
	}
	return &graph.Result{
		Graph:    &graph.Graph{Nodes: nodes, Edges: edges},
		Entities: entities,
		Stats:    res.Stats,
	}
}
