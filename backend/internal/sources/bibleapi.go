package sources

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"scripture-graph/backend/internal/constants"
	"scripture-graph/backend/internal/graph"
	apperrors "scripture-graph/backend/pkg/errors"
	"scripture-graph/backend/pkg/logger"

	"go.uber.org/zap"
)

// BibleAPI fetches verse text from https://bible-api.com/<reference>.
type BibleAPI struct {
	baseURL   string
	userAgent string
	client    *http.Client
	logger    *zap.Logger
}

// bibleAPIResponse is the subset of the reply we use. Text is a pointer so a
// missing field can be told apart from an empty one.
type bibleAPIResponse struct {
	Reference *string `json:"reference"`
	Text      *string `json:"text"`
}

// NewBibleAPI creates a passage source rooted at baseURL
func NewBibleAPI(baseURL, userAgent string, client *http.Client) *BibleAPI {
	if client == nil {
		client = NewHTTPClient(0)
	}
	return &BibleAPI{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    client,
		logger:    logger.Named("bibleapi"),
	}
}

// PassageURL builds the lookup URL; spaces become '+'
func (b *BibleAPI) PassageURL(reference string) string {
	parts := strings.Fields(reference)
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return b.baseURL + "/" + strings.Join(parts, "+")
}

// Passage returns nil when the reference cannot be resolved to text
func (b *BibleAPI) Passage(ctx context.Context, reference string) *graph.Passage {
	if strings.TrimSpace(reference) == "" {
		return nil
	}

	passageURL := b.PassageURL(reference)
	body, err := get(ctx, b.client, passageURL, b.userAgent, "application/json")
	if err != nil {
		b.logger.Warn("Passage lookup failed",
			zap.String("reference", reference),
			zap.Error(err),
		)
		return nil
	}

	passage, err := decodePassage(body)
	if err != nil {
		b.logger.Warn("Passage response unusable",
			zap.String("reference", reference),
			zap.Error(apperrors.NewSourceMalformed(passageURL, err)),
		)
		return nil
	}
	return passage
}

func decodePassage(body []byte) (*graph.Passage, error) {
	var resp bibleAPIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	if resp.Text == nil {
		return nil, errMissingText
	}

	reference := constants.UnknownReference
	if resp.Reference != nil && strings.TrimSpace(*resp.Reference) != "" {
		reference = strings.TrimSpace(*resp.Reference)
	}
	return &graph.Passage{
		Reference: reference,
		Text:      *resp.Text,
	}, nil
}

var errMissingText = errors.New("response has no text field")
