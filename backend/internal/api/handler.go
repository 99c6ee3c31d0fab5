package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"scripture-graph/backend/internal/explorer"
	"scripture-graph/backend/internal/graph"
	"scripture-graph/backend/internal/render"
	apperrors "scripture-graph/backend/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GraphService is the part of the explorer the handlers use
type GraphService interface {
	Explore(ctx context.Context, req explorer.Request) (*explorer.Response, error)
	BuildPassages(ctx context.Context, topic string, passages []*graph.Passage, opts graph.Options) *explorer.Response
}

// Handler serves the graph endpoints
type Handler struct {
	svc      GraphService
	defaults graph.Options
	logger   *zap.Logger
}

// NewHandler creates a handler; defaults seeds every request's options
func NewHandler(svc GraphService, defaults graph.Options, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, defaults: defaults, logger: log}
}

// optionsBody holds the options shared by both POST bodies. Nil flags keep the
// default.
type optionsBody struct {
	ShowPerson *bool  `json:"show_person"`
	ShowPlace  *bool  `json:"show_place"`
	ShowTheme  *bool  `json:"show_theme"`
	Highlight  string `json:"highlight"`
	EdgePolicy string `json:"edge_policy"`
	Format     string `json:"format"`
}

type graphBody struct {
	Topic       string `json:"topic" binding:"required"`
	MaxPassages int    `json:"max_passages"`
	optionsBody
}

type buildBody struct {
	Topic    string           `json:"topic"`
	Passages []*graph.Passage `json:"passages" binding:"required"`
	optionsBody
}

// GetGraph handles GET /api/graph
func (h *Handler) GetGraph(c *gin.Context) {
	topic := strings.TrimSpace(c.Query("topic"))
	if topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topic is required"})
		return
	}

	renderer, err := render.ForFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit := 0
	if raw := c.Query("max"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max must be an integer"})
			return
		}
	}

	opts, err := h.queryOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.explore(c, renderer, explorer.Request{Topic: topic, MaxPassages: limit, Options: opts})
}

// PostGraph handles POST /api/graph
func (h *Handler) PostGraph(c *gin.Context) {
	var req graphBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topic is required"})
		return
	}

	renderer, err := render.ForFormat(req.Format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	opts, err := h.bodyOptions(req.optionsBody)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.explore(c, renderer, explorer.Request{Topic: req.Topic, MaxPassages: req.MaxPassages, Options: opts})
}

// BuildGraph handles POST /api/graph/build: caller-supplied passages, no
// upstream lookups
func (h *Handler) BuildGraph(c *gin.Context) {
	var req buildBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	renderer, err := render.ForFormat(req.Format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	opts, err := h.bodyOptions(req.optionsBody)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := h.svc.BuildPassages(c.Request.Context(), req.Topic, req.Passages, opts)
	h.write(c, renderer, resp, opts)
}

func (h *Handler) explore(c *gin.Context, renderer render.Renderer, req explorer.Request) {
	resp, err := h.svc.Explore(c.Request.Context(), req)
	if err != nil {
		var noRefs *apperrors.ErrSourceNoReferences
		if errors.As(err, &noRefs) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": fmt.Sprintf("No passages found for topic %q", noRefs.Topic),
				"topic": noRefs.Topic,
			})
			return
		}
		h.logger.Error("Failed to build topic graph", zap.String("topic", req.Topic), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build graph"})
		return
	}
	h.write(c, renderer, resp, req.Options)
}

func (h *Handler) write(c *gin.Context, renderer render.Renderer, resp *explorer.Response, opts graph.Options) {
	var buf bytes.Buffer
	page := render.Page{
		Topic:     resp.Topic,
		Highlight: opts.Highlight,
		BuildID:   resp.BuildID,
		Result:    resp.Result,
	}
	if err := renderer.Render(&buf, page); err != nil {
		h.logger.Error("Failed to render graph", zap.String("format", renderer.Format()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render graph"})
		return
	}
	c.Header("X-Build-ID", resp.BuildID)
	c.Data(http.StatusOK, renderer.ContentType(), buf.Bytes())
}

func (h *Handler) queryOptions(c *gin.Context) (graph.Options, error) {
	opts := h.defaults

	flags := []struct {
		key string
		dst *bool
	}{
		{"person", &opts.ShowPerson},
		{"place", &opts.ShowPlace},
		{"theme", &opts.ShowTheme},
	}
	for _, f := range flags {
		raw := c.Query(f.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, fmt.Errorf("%s must be a boolean", f.key)
		}
		*f.dst = v
	}

	opts.Highlight = strings.TrimSpace(c.Query("highlight"))
	if raw := c.Query("edge_policy"); raw != "" {
		policy, err := graph.ParseEdgePolicy(raw)
		if err != nil {
			return opts, err
		}
		opts.EdgePolicy = policy
	}
	return opts, nil
}

func (h *Handler) bodyOptions(body optionsBody) (graph.Options, error) {
	opts := h.defaults
	if body.ShowPerson != nil {
		opts.ShowPerson = *body.ShowPerson
	}
	if body.ShowPlace != nil {
		opts.ShowPlace = *body.ShowPlace
	}
	if body.ShowTheme != nil {
		opts.ShowTheme = *body.ShowTheme
	}
	opts.Highlight = strings.TrimSpace(body.Highlight)
	if body.EdgePolicy != "" {
		policy, err := graph.ParseEdgePolicy(body.EdgePolicy)
		if err != nil {
			return opts, err
		}
		opts.EdgePolicy = policy
	}
	return opts, nil
}
