package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"scripture-graph/backend/internal/graph"
	apperrors "scripture-graph/backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *graph.Result {
	return graph.NewBuilder(nil, nil).Build([]*graph.Passage{
		{Reference: "John 3:16", Text: "For God so loved the world that he gave his one and only Son"},
	}, graph.DefaultOptions())
}

func TestForFormat(t *testing.T) {
	r, err := ForFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, r.Format())

	r, err = ForFormat(" HTML ")
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, r.Format())
	assert.Contains(t, r.ContentType(), "text/html")

	_, err = ForFormat("svg")
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeRender))
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONRenderer{}.Render(&buf, Page{Topic: "love", BuildID: "b-1", Result: sampleResult()}))

	var out struct {
		Topic   string `json:"topic"`
		BuildID string `json:"build_id"`
		Graph   struct {
			Nodes []map[string]interface{} `json:"nodes"`
			Edges []map[string]interface{} `json:"edges"`
		} `json:"graph"`
		Stats graph.Stats `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "love", out.Topic)
	assert.Equal(t, "b-1", out.BuildID)
	assert.Len(t, out.Graph.Nodes, 3)
	assert.Len(t, out.Graph.Edges, 3)
	assert.Equal(t, "passage", out.Graph.Nodes[0]["kind"])
	assert.Equal(t, "theme", out.Graph.Nodes[1]["category"])
	assert.Equal(t, 2, out.Stats.Entities)
}

func TestJSONRenderer_EmptyGraphHasArrays(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONRenderer{}.Render(&buf, Page{}))

	s := buf.String()
	assert.Contains(t, s, `"nodes":[]`)
	assert.Contains(t, s, `"edges":[]`)
	assert.Contains(t, s, `"entities":[]`)
}

func TestHTMLRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewHTMLRenderer().Render(&buf, Page{Topic: "love", Highlight: "god", Result: sampleResult()}))

	page := buf.String()
	assert.Contains(t, page, "vis-network")
	assert.Contains(t, page, "forceAtlas2Based")
	assert.Contains(t, page, `"id":"John 3:16"`)
	assert.Contains(t, page, `"shape":"box"`)
	assert.Contains(t, page, `"title":"John 3:16"`)
	assert.Contains(t, page, `highlighting "god"`)
	assert.NotContains(t, page, "No passages with usable text")
}

func TestHTMLRenderer_EscapesText(t *testing.T) {
	res := graph.NewBuilder(nil, nil).Build([]*graph.Passage{
		{Reference: "X 1:1", Text: "</script><script>alert(1)</script> Grace"},
	}, graph.DefaultOptions())

	var buf bytes.Buffer
	require.NoError(t, NewHTMLRenderer().Render(&buf, Page{Topic: "<b>x</b>", Result: res}))

	page := buf.String()
	assert.Equal(t, 1, strings.Count(page, "<script>\n"), "only the page's own inline script")
	assert.NotContains(t, page, "<b>x</b>")
}

func TestHTMLRenderer_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewHTMLRenderer().Render(&buf, Page{Topic: "zzz"}))
	assert.Contains(t, buf.String(), "No passages with usable text")
}
