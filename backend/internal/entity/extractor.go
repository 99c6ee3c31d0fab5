// Package entity holds the shallow named-entity heuristics used by the graph
// builder: a capitalized-word extractor and a lexicon classifier.
package entity

import "regexp"

// Extractor derives candidate entity strings from passage text.
type Extractor interface {
	Extract(text string) []string
}

// capitalizedWord is ASCII only; all-caps words such as LORD never match whole.
var capitalizedWord = regexp.MustCompile(`[A-Z][a-z]+`)

// DefaultStopwords are capitalized sentence starters that are never entities.
var DefaultStopwords = []string{"The", "And", "For", "That", "This", "Shall", "Will", "Your", "Have"}

// CapitalizedExtractor treats every capitalized word outside the stoplist as an entity.
type CapitalizedExtractor struct {
	stopwords map[string]struct{}
}

// NewCapitalizedExtractor builds an extractor using DefaultStopwords plus extra.
func NewCapitalizedExtractor(extra ...string) *CapitalizedExtractor {
	stop := make(map[string]struct{}, len(DefaultStopwords)+len(extra))
	for _, w := range DefaultStopwords {
		stop[w] = struct{}{}
	}
	for _, w := range extra {
		stop[w] = struct{}{}
	}
	return &CapitalizedExtractor{stopwords: stop}
}

// Extract returns matches in order of appearance. Duplicates are kept.
func (e *CapitalizedExtractor) Extract(text string) []string {
	words := capitalizedWord.FindAllString(text, -1)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if _, stop := e.stopwords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}
