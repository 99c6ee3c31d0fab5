package discord

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"scripture-graph/backend/internal/explorer"
	"scripture-graph/backend/internal/graph"
	apperrors "scripture-graph/backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type mockService struct {
	passages []*graph.Passage
	refs     []string
	err      error
	lastReq  explorer.Request
	calls    int
	block    bool
}

func (m *mockService) Explore(ctx context.Context, req explorer.Request) (*explorer.Response, error) {
	m.calls++
	m.lastReq = req
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.err != nil {
		return nil, m.err
	}
	return &explorer.Response{
		BuildID:    "build-42",
		Topic:      req.Topic,
		References: m.refs,
		Result:     graph.NewBuilder(nil, nil).Build(m.passages, req.Options),
	}, nil
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		content string
		args    string
		ok      bool
	}{
		{"topic", "!graph love", "love", true},
		{"case insensitive", "!GRAPH  love  ", "love", true},
		{"bare prefix", "!graph", "", true},
		{"leading space", "   !graph faith", "faith", true},
		{"glued word", "!graphs love", "", false},
		{"other command", "!help", "", false},
		{"plain chat", "hello there", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, ok := ParseCommand(tt.content, "!graph")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestParseArgs(t *testing.T) {
	cmd, err := ParseArgs("holy spirit --no-place --highlight=Jesus --max=3 --edges=ignore", graph.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "holy spirit", cmd.Topic)
	assert.Equal(t, 3, cmd.MaxPassages)
	assert.True(t, cmd.Options.ShowPerson)
	assert.False(t, cmd.Options.ShowPlace)
	assert.True(t, cmd.Options.ShowTheme)
	assert.Equal(t, "Jesus", cmd.Options.Highlight)
	assert.Equal(t, graph.EdgesIgnoreVisibility, cmd.Options.EdgePolicy)
}

func TestParseArgs_Errors(t *testing.T) {
	for _, args := range []string{"love --max=0", "love --max=x", "love --edges=sometimes", "love --colour"} {
		_, err := ParseArgs(args, graph.DefaultOptions())
		assert.Error(t, err, args)
	}
}

func TestReply_Graph(t *testing.T) {
	svc := &mockService{
		refs: []string{"Mt 2:1", "Lk 2:4"},
		passages: []*graph.Passage{
			{Reference: "Mt 2:1", Text: "Jesus was born in Bethlehem"},
			{Reference: "Lk 2:4", Text: "Joseph went up to Bethlehem"},
		},
	}
	h := NewHandler(svc, graph.DefaultOptions(), "!graph", nil)

	msg := h.Reply(context.Background(), "Nativity --highlight=jesus")

	assert.Equal(t, "Nativity", svc.lastReq.Topic)
	require.Len(t, msg.Embeds, 1)
	embed := msg.Embeds[0]
	assert.Contains(t, embed.Title, "Nativity")
	assert.Contains(t, embed.Footer.Text, "build-42")

	require.Len(t, embed.Fields, 2)
	top := embed.Fields[0].Value
	assert.True(t, strings.HasPrefix(top, "1. **Bethlehem** (place) x2"), top)
	assert.Contains(t, top, "**Jesus** (person) x1")
	assert.Equal(t, "Mt 2:1, Lk 2:4", embed.Fields[1].Value)

	require.Len(t, msg.Files, 1)
	assert.Equal(t, "nativity-graph.html", msg.Files[0].Name)
	page, err := io.ReadAll(msg.Files[0].Reader)
	require.NoError(t, err)
	assert.Contains(t, string(page), "vis-network")
}

func TestReply_Usage(t *testing.T) {
	svc := &mockService{}
	h := NewHandler(svc, graph.DefaultOptions(), "!graph", nil)

	msg := h.Reply(context.Background(), "")
	assert.Contains(t, msg.Content, "Usage")

	msg = h.Reply(context.Background(), "love --bogus")
	assert.Contains(t, msg.Content, "unknown flag")
	assert.Equal(t, 0, svc.calls)
}

func TestReply_NotFound(t *testing.T) {
	h := NewHandler(&mockService{err: apperrors.NewSourceNoReferences("qwerty")}, graph.DefaultOptions(), "!graph", nil)

	msg := h.Reply(context.Background(), "qwerty")

	assert.Contains(t, msg.Content, "No passages found")
	assert.Empty(t, msg.Embeds)
	assert.Empty(t, msg.Files)
}

func TestReply_Failure(t *testing.T) {
	h := NewHandler(&mockService{err: errors.New("boom")}, graph.DefaultOptions(), "!graph", nil)

	msg := h.Reply(context.Background(), "love")

	assert.Contains(t, msg.Content, "Sorry")
}

func TestReply_Timeout(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	h := NewHandler(&mockService{block: true}, graph.DefaultOptions(), "!graph", zap.New(core))
	h.timeout = 20 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	msg := h.Reply(ctx, "love")

	assert.Contains(t, msg.Content, "took too long")
	assert.Empty(t, msg.Files)

	entries := logs.FilterMessage("Graph command timed out").All()
	require.Len(t, entries, 1)
	err, ok := entries[0].ContextMap()["error"].(string)
	require.True(t, ok)
	assert.Contains(t, err, "graph command")
	assert.Contains(t, err, "[context]")
}

func TestTopEntities(t *testing.T) {
	records := []graph.EntityRecord{
		{Name: "A", Count: 1},
		{Name: "B", Count: 3},
		{Name: "C", Count: 1},
		{Name: "D", Count: 3},
	}

	top := topEntities(records, 3)

	names := []string{top[0].Name, top[1].Name, top[2].Name}
	assert.Equal(t, []string{"B", "D", "A"}, names)
	assert.Equal(t, "A", records[0].Name, "input is not reordered")
}

func TestAttachmentName(t *testing.T) {
	assert.Equal(t, "holy-spirit-graph.html", attachmentName("Holy Spirit"))
	assert.Equal(t, "topic-graph.html", attachmentName("???"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate(strings.Repeat("abcdefghij", 3), 10))

	refs := strings.Repeat("Gen 1:1–2:3, ", 20)
	for _, limit := range []int{10, 11, 12, 13, 40} {
		got := truncate(refs, limit)
		assert.True(t, utf8.ValidString(got), "limit %d", limit)
		assert.Equal(t, limit, utf8.RuneCountInString(got), "limit %d", limit)
		assert.True(t, strings.HasSuffix(got, "..."))
	}
	assert.Equal(t, "Gen 1:1–...", truncate(refs, 11))
}
