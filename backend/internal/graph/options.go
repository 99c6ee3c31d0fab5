package graph

import (
	"fmt"
	"strings"

	"scripture-graph/backend/internal/entity"
)

// EdgePolicy decides whether co-occurrence edges respect category filters
type EdgePolicy string

const (
	// EdgesFollowVisibility only links entities that both have a node
	EdgesFollowVisibility EdgePolicy = "follow"
	// EdgesIgnoreVisibility links every pair, even when an endpoint is hidden
	EdgesIgnoreVisibility EdgePolicy = "ignore"
)

// ParseEdgePolicy maps "follow" / "ignore" (empty means follow)
func ParseEdgePolicy(s string) (EdgePolicy, error) {
	switch EdgePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", EdgesFollowVisibility:
		return EdgesFollowVisibility, nil
	case EdgesIgnoreVisibility:
		return EdgesIgnoreVisibility, nil
	}
	return "", fmt.Errorf("unknown edge policy: %q", s)
}

// Options configures what a build shows
type Options struct {
	ShowPerson bool
	ShowPlace  bool
	ShowTheme  bool
	// Highlight is matched case-insensitively against entity names; empty disables it
	Highlight  string
	EdgePolicy EdgePolicy
}

// DefaultOptions shows every category and keeps edges within visible nodes
func DefaultOptions() Options {
	return Options{
		ShowPerson: true,
		ShowPlace:  true,
		ShowTheme:  true,
		EdgePolicy: EdgesFollowVisibility,
	}
}

// Visible reports whether entities of category c get nodes
func (o Options) Visible(c entity.Category) bool {
	switch c {
	case entity.CategoryPerson:
		return o.ShowPerson
	case entity.CategoryPlace:
		return o.ShowPlace
	default:
		return o.ShowTheme
	}
}

// Highlighted reports whether name matches the highlight target
func (o Options) Highlighted(name string) bool {
	target := strings.TrimSpace(o.Highlight)
	return target != "" && strings.EqualFold(name, target)
}
