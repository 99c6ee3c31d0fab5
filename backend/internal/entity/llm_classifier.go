package entity

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "scripture-graph/backend/pkg/errors"

	"go.uber.org/zap"
)

// Generator is the chat completion call the LLM classifier needs.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userMsg string) (string, error)
	GetModel() string
}

const classifySystemPrompt = "You label words taken from Bible verses. " +
	"Answer with exactly one word: person, place or theme. " +
	"Use person for a named individual, place for a named location, theme for anything else."

// LLMClassifier asks a chat model for the category and falls back to another
// classifier when the call fails or the answer is not a known category.
type LLMClassifier struct {
	gen      Generator
	fallback Classifier
	timeout  time.Duration
	logger   *zap.Logger
}

// NewLLMClassifier wraps gen; fallback defaults to the lexicon classifier.
func NewLLMClassifier(gen Generator, fallback Classifier, timeout time.Duration, logger *zap.Logger) *LLMClassifier {
	if fallback == nil {
		fallback = NewLexiconClassifier()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMClassifier{gen: gen, fallback: fallback, timeout: timeout, logger: logger}
}

// Classify never fails; errors degrade to the fallback classifier.
func (c *LLMClassifier) Classify(entity string) Category {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	category, err := c.classify(ctx, entity)
	if err != nil {
		c.logger.Warn("LLM classification failed, using fallback",
			zap.String("entity", entity),
			zap.Error(err),
		)
		return c.fallback.Classify(entity)
	}
	return category
}

func (c *LLMClassifier) classify(ctx context.Context, entity string) (Category, error) {
	answer, err := c.gen.Generate(ctx, classifySystemPrompt, fmt.Sprintf("Word: %s", entity))
	if err != nil {
		return "", apperrors.NewClassifierFailed(entity, c.gen.GetModel(), err)
	}
	category := parseCategory(answer)
	if !category.Valid() {
		return "", apperrors.NewClassifierFailed(entity, c.gen.GetModel(),
			fmt.Errorf("unexpected answer %q", answer))
	}
	return category, nil
}

// parseCategory takes the first word of the answer, ignoring case and punctuation.
func parseCategory(answer string) Category {
	fields := strings.Fields(strings.ToLower(answer))
	if len(fields) == 0 {
		return ""
	}
	return Category(strings.Trim(fields[0], ".,:;!\"'`*"))
}
