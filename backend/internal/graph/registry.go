package graph

import "scripture-graph/backend/internal/entity"

// ============================================================================
// Insert-if-absent stores
// ============================================================================

// Registry holds the nodes of one build in insertion order.
type Registry struct {
	order []string
	nodes map[string]*Node
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{nodes: make(map[string]*Node)}
}

// RegisterIfAbsent stores n unless its key is already present. It returns the
// stored node (the existing one when the key was taken) and whether n was
// inserted. An existing node is never replaced.
func (r *Registry) RegisterIfAbsent(n Node) (*Node, bool) {
	if existing, ok := r.nodes[n.Key]; ok {
		return existing, false
	}
	stored := n
	r.nodes[n.Key] = &stored
	r.order = append(r.order, n.Key)
	return &stored, true
}

// Get returns the node stored under key
func (r *Registry) Get(key string) (*Node, bool) {
	n, ok := r.nodes[key]
	return n, ok
}

// Len is the number of registered nodes
func (r *Registry) Len() int {
	return len(r.order)
}

// Nodes copies the registered nodes in insertion order
func (r *Registry) Nodes() []Node {
	out := make([]Node, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, *r.nodes[key])
	}
	return out
}

// CategoryMap remembers the first category assigned to each entity.
type CategoryMap struct {
	categories map[string]entity.Category
}

// NewCategoryMap returns an empty map
func NewCategoryMap() *CategoryMap {
	return &CategoryMap{categories: make(map[string]entity.Category)}
}

// RegisterIfAbsent returns the category stored for name. classify is only
// called when name has none yet; its answer is then stored for good.
func (m *CategoryMap) RegisterIfAbsent(name string, classify func(string) entity.Category) (entity.Category, bool) {
	if c, ok := m.categories[name]; ok {
		return c, false
	}
	c := classify(name)
	if !c.Valid() {
		c = entity.CategoryTheme
	}
	m.categories[name] = c
	return c, true
}

// Get returns the stored category for name
func (m *CategoryMap) Get(name string) (entity.Category, bool) {
	c, ok := m.categories[name]
	return c, ok
}
