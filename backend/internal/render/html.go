package render

import (
	"html/template"
	"io"

	"scripture-graph/backend/internal/graph"
	apperrors "scripture-graph/backend/pkg/errors"
)

// visNode and visEdge mirror the vis-network DataSet item shapes
type visNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Title string `json:"title"`
	Shape string `json:"shape"`
	Color string `json:"color"`
	Size  int    `json:"size,omitempty"`
	Group string `json:"group"`
}

type visEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Title string `json:"title,omitempty"`
	Color string `json:"color"`
}

type htmlData struct {
	Topic     string
	Highlight string
	Stats     graph.Stats
	Empty     bool
	Nodes     []visNode
	Edges     []visEdge
}

// HTMLRenderer draws an interactive force-directed page with vis-network.
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer parses the page template
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{tmpl: template.Must(template.New("graph").Parse(pageTemplate))}
}

func (r *HTMLRenderer) Format() string      { return FormatHTML }
func (r *HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }

func (r *HTMLRenderer) Render(w io.Writer, page Page) error {
	res := resultOrEmpty(page.Result)

	data := htmlData{
		Topic:     page.Topic,
		Highlight: page.Highlight,
		Stats:     res.Stats,
		Empty:     res.Graph.Empty(),
		Nodes:     make([]visNode, 0, len(res.Graph.Nodes)),
		Edges:     make([]visEdge, 0, len(res.Graph.Edges)),
	}
	for _, n := range res.Graph.Nodes {
		group := string(n.Kind)
		if n.Kind == graph.NodeKindEntity {
			group = string(n.Category)
		}
		data.Nodes = append(data.Nodes, visNode{
			ID:    n.Key,
			Label: n.Label,
			Title: n.Tooltip,
			Shape: n.Style.Shape,
			Color: n.Style.Color,
			Size:  n.Style.Size,
			Group: group,
		})
	}
	for _, e := range res.Graph.Edges {
		data.Edges = append(data.Edges, visEdge{
			From:  e.From,
			To:    e.To,
			Title: e.Label,
			Color: e.Color,
		})
	}

	if err := r.tmpl.Execute(w, data); err != nil {
		return apperrors.NewRenderFailed(FormatHTML, err)
	}
	return nil
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{if .Topic}}{{.Topic}} · {{end}}Bible Topic Network</title>
<script src="https://unpkg.com/vis-network@9.1.9/standalone/umd/vis-network.min.js"></script>
<style>
  body { font-family: sans-serif; margin: 0; background: #fff; color: black; }
  header { padding: 8px 16px; }
  #network { width: 100%; height: 600px; border-top: 1px solid #ddd; }
  .empty { padding: 16px; }
</style>
</head>
<body>
<header>
  <h1>Bible Topic Network{{if .Topic}}: {{.Topic}}{{end}}</h1>
  <p>{{.Stats.Passages}} passages, {{.Stats.Entities}} entities ({{.Stats.HiddenEntities}} hidden){{if .Highlight}}, highlighting "{{.Highlight}}"{{end}}</p>
</header>
{{if .Empty}}<p class="empty">No passages with usable text were found.</p>{{end}}
<div id="network"></div>
<script>
  var nodes = new vis.DataSet({{.Nodes}});
  var edges = new vis.DataSet({{.Edges}});
  var options = {
    nodes: { font: { color: "black" } },
    physics: { solver: "forceAtlas2Based", stabilization: { iterations: 150 } },
    interaction: { hover: true, tooltipDelay: 150 }
  };
  new vis.Network(document.getElementById("network"), { nodes: nodes, edges: edges }, options);
</script>
</body>
</html>
`
