package graph

import (
	"scripture-graph/backend/internal/entity"
)

// ============================================================================
// Graph Types
// ============================================================================

// Passage is one unit of fetched text. A nil *Passage in a build input means
// the lookup failed and the slot is skipped.
type Passage struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

// NodeKind distinguishes passage nodes from entity nodes
type NodeKind string

const (
	NodeKindPassage NodeKind = "passage"
	NodeKindEntity  NodeKind = "entity"
)

// EdgeKind distinguishes the two edge classes
type EdgeKind string

const (
	// EdgeKindAttribution connects a passage to an entity found in it
	EdgeKindAttribution EdgeKind = "attribution"
	// EdgeKindCooccurrence connects two entities found in the same passage
	EdgeKindCooccurrence EdgeKind = "cooccurrence"
)

// Style carries the visual attributes a renderer needs
type Style struct {
	Shape string `json:"shape"`
	Color string `json:"color"`
	Size  int    `json:"size,omitempty"`
}

// Node is a passage or an entity. Key is unique within a graph.
type Node struct {
	Key      string          `json:"key"`
	Kind     NodeKind        `json:"kind"`
	Label    string          `json:"label"`
	Tooltip  string          `json:"tooltip"`
	Category entity.Category `json:"category,omitempty"`
	Count    int             `json:"count,omitempty"`
	Style    Style           `json:"style"`
}

// Edge is a connection between two node keys. Co-occurrence edges are not
// deduplicated: one edge per shared passage.
type Edge struct {
	From  string   `json:"from"`
	To    string   `json:"to"`
	Kind  EdgeKind `json:"kind"`
	Label string   `json:"label,omitempty"`
	Color string   `json:"color"`
}

// Graph is the output of one build
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Empty reports whether the graph has no nodes
func (g *Graph) Empty() bool {
	return g == nil || len(g.Nodes) == 0
}

// Node looks a node up by key
func (g *Graph) Node(key string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.Key == key {
			return n, true
		}
	}
	return Node{}, false
}

// NodesOfKind returns the nodes of one kind in graph order
func (g *Graph) NodesOfKind(kind NodeKind) []Node {
	var out []Node
	for _, n := range g.Nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// EdgesOfKind returns the edges of one kind in graph order
func (g *Graph) EdgesOfKind(kind EdgeKind) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// EntityRecord is the per-build bookkeeping for one distinct entity
type EntityRecord struct {
	Name     string          `json:"name"`
	Count    int             `json:"count"`
	Category entity.Category `json:"category"`
	Visible  bool            `json:"visible"`
}

// Stats summarizes a build
type Stats struct {
	Passages          int `json:"passages"`
	Skipped           int `json:"skipped"`
	Entities          int `json:"entities"`
	HiddenEntities    int `json:"hidden_entities"`
	AttributionEdges  int `json:"attribution_edges"`
	CooccurrenceEdges int `json:"cooccurrence_edges"`
}

// Result is everything a build produces
type Result struct {
	Graph    *Graph         `json:"graph"`
	Entities []EntityRecord `json:"entities"`
	Stats    Stats          `json:"stats"`
}
