package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"scripture-graph/backend/internal/api"
	"scripture-graph/backend/internal/explorer"
	"scripture-graph/backend/internal/graph"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticTopics struct{ refs []string }

func (s staticTopics) References(ctx context.Context, topic string, max int) []string {
	return s.refs
}

type staticFetcher struct{ passages map[string]string }

func (s staticFetcher) FetchAll(ctx context.Context, refs []string) []*graph.Passage {
	out := make([]*graph.Passage, len(refs))
	for i, ref := range refs {
		if text, ok := s.passages[ref]; ok {
			out[i] = &graph.Passage{Reference: ref, Text: text}
		}
	}
	return out
}

func TestNewServer(t *testing.T) {
	srv := newServer("9090", http.NotFoundHandler())

	assert.Equal(t, ":9090", srv.Addr)
	assert.NotZero(t, srv.ReadHeaderTimeout)
	assert.NotZero(t, srv.WriteTimeout)
}

func TestServerWiring(t *testing.T) {
	gin.SetMode(gin.TestMode)

	x := explorer.New(
		staticTopics{refs: []string{"Gn 12:1"}},
		staticFetcher{passages: map[string]string{"Gn 12:1": "The Lord said to Abraham, Go to Canaan"}},
		graph.NewBuilder(nil, nil),
		explorer.WithLogger(zap.NewNop()),
	)
	router := api.NewRouter(api.NewHandler(x, graph.DefaultOptions(), zap.NewNop()), zap.NewNop())
	ts := httptest.NewServer(newServer("0", router).Handler)
	defer ts.Close()

	res, err := http.Get(ts.URL + "/api/graph?topic=calling")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		Graph graph.Graph `json:"graph"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))

	for _, key := range []string{"Gn 12:1", "Lord", "Abraham", "Go", "Canaan"} {
		_, ok := body.Graph.Node(key)
		assert.True(t, ok, key)
	}
	assert.Len(t, body.Graph.EdgesOfKind(graph.EdgeKindCooccurrence), 6)
}

func TestHealthEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := api.NewRouter(api.NewHandler(nil, graph.DefaultOptions(), nil), zap.NewNop())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response["status"])
}
