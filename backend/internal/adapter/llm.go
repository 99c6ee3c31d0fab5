package adapter

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"scripture-graph/backend/pkg/logger"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// LLMAdapter handles communication with the LLM via LiteLLM
type LLMAdapter struct {
	client     *openai.Client
	model      string
	maxRetries int
	mu         sync.RWMutex // Protects model field for concurrent access
	logger     *zap.Logger
}

// NewLLMAdapter creates a new LLM adapter
func NewLLMAdapter(baseURL, apiKey, modelID string) *LLMAdapter {
	// For LiteLLM, we can use a dummy API key if not provided
	if apiKey == "" {
		apiKey = "dummy-key"
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = strings.TrimRight(baseURL, "/") + "/v1"

	return &LLMAdapter{
		client:     openai.NewClientWithConfig(config),
		model:      modelID,
		maxRetries: 3,
		logger:     logger.Named("llm"),
	}
}

// SetModel updates the model used by this adapter
func (a *LLMAdapter) SetModel(model string) {
	if model != "" {
		a.mu.Lock()
		a.model = model
		a.mu.Unlock()
		a.logger.Debug("LLM adapter model updated", zap.String("model", model))
	}
}

// GetModel returns the current model
func (a *LLMAdapter) GetModel() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.model
}

// Generate sends a single system+user exchange and returns the reply text.
// Labels must be stable, so the temperature is zero.
func (a *LLMAdapter) Generate(ctx context.Context, systemPrompt, userMsg string) (string, error) {
	currentModel := a.GetModel()

	req := openai.ChatCompletionRequest{
		Model: currentModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMsg},
		},
		Temperature: 0,
		MaxTokens:   8,
	}

	// Retry with linear backoff
	var resp openai.ChatCompletionResponse
	var err error
	for attempt := 0; attempt < a.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			a.logger.Warn("Retrying LLM request",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("LLM request cancelled: %w", ctx.Err())
			case <-time.After(backoff):
			}
		}

		resp, err = a.client.CreateChatCompletion(ctx, req)
		if err == nil {
			break
		}

		a.logger.Error("LLM request failed",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.String("model", currentModel),
		)
		if ctx.Err() != nil {
			break
		}
	}

	if err != nil {
		return "", fmt.Errorf("failed to generate response after %d attempts: %w", a.maxRetries, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in LLM response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	a.logger.Debug("LLM response generated",
		zap.String("model", currentModel),
		zap.Int("content_length", len(content)),
	)
	return content, nil
}
