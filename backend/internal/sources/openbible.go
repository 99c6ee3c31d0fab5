package sources

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"

	apperrors "scripture-graph/backend/pkg/errors"
	"scripture-graph/backend/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// OpenBibleTopics scrapes https://www.openbible.info/topics/<topic>.
type OpenBibleTopics struct {
	baseURL   string
	userAgent string
	client    *http.Client
	logger    *zap.Logger
}

// NewOpenBibleTopics creates a topic source rooted at baseURL
func NewOpenBibleTopics(baseURL, userAgent string, client *http.Client) *OpenBibleTopics {
	if client == nil {
		client = NewHTTPClient(0)
	}
	return &OpenBibleTopics{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    client,
		logger:    logger.Named("openbible"),
	}
}

// TopicURL builds the page URL; spaces become underscores
func (o *OpenBibleTopics) TopicURL(topic string) string {
	slug := strings.ReplaceAll(strings.TrimSpace(topic), " ", "_")
	return o.baseURL + "/topics/" + url.PathEscape(slug)
}

// References returns at most max references in page order
func (o *OpenBibleTopics) References(ctx context.Context, topic string, max int) []string {
	if strings.TrimSpace(topic) == "" || max <= 0 {
		return []string{}
	}

	pageURL := o.TopicURL(topic)
	body, err := get(ctx, o.client, pageURL, o.userAgent, "text/html")
	if err != nil {
		o.logger.Warn("Topic lookup failed",
			zap.String("topic", topic),
			zap.String("url", pageURL),
			zap.Error(err),
		)
		return []string{}
	}

	refs, err := parseTopicPage(body, max)
	if err != nil {
		o.logger.Warn("Topic page could not be parsed",
			zap.String("topic", topic),
			zap.Error(apperrors.NewSourceMalformed(pageURL, err)),
		)
		return []string{}
	}

	o.logger.Debug("Topic references found",
		zap.String("topic", topic),
		zap.Int("count", len(refs)),
	)
	return refs
}

// parseTopicPage takes the first link text of every div.verse block
func parseTopicPage(body []byte, max int) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	refs := []string{}
	doc.Find("div.verse").EachWithBreak(func(_ int, verse *goquery.Selection) bool {
		link := verse.Find("a").First()
		if link.Length() == 0 {
			return true
		}
		ref := strings.TrimSpace(link.Text())
		if ref != "" {
			refs = append(refs, ref)
		}
		return len(refs) < max
	})
	return refs, nil
}
