package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"scripture-graph/backend/internal/explorer"
	"scripture-graph/backend/internal/graph"
	"scripture-graph/backend/internal/render"
	"scripture-graph/backend/pkg/config"
	"scripture-graph/backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	topic := flag.String("topic", "", "Topic to look up (required unless -passages is set)")
	passagesFile := flag.String("passages", "", "Build from a JSON file of {reference, text} objects instead of looking the topic up")
	maxPassages := flag.Int("max", 0, "Passages to fetch (0 uses MAX_PASSAGES)")
	format := flag.String("format", render.FormatHTML, "Output format: html or json")
	out := flag.String("out", "", "Output file (defaults to <topic>-graph.<format>, - for stdout)")
	highlight := flag.String("highlight", "", "Entity to highlight")
	noPerson := flag.Bool("no-person", false, "Hide person entities")
	noPlace := flag.Bool("no-place", false, "Hide place entities")
	noTheme := flag.Bool("no-theme", false, "Hide theme entities")
	edges := flag.String("edges", "", "Co-occurrence edge policy: follow or ignore (defaults to EDGE_POLICY)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()

	if *topic == "" && *passagesFile == "" {
		log.Fatal("-topic or -passages is required")
	}

	renderer, err := render.ForFormat(*format)
	if err != nil {
		log.Fatal("Invalid format", zap.Error(err))
	}

	ctx := context.Background()
	setup, err := explorer.FromConfig(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize graph explorer", zap.Error(err))
	}
	defer setup.Close()

	opts := setup.DefaultOptions()
	opts.ShowPerson = !*noPerson
	opts.ShowPlace = !*noPlace
	opts.ShowTheme = !*noTheme
	opts.Highlight = *highlight
	if *edges != "" {
		if opts.EdgePolicy, err = graph.ParseEdgePolicy(*edges); err != nil {
			log.Fatal("Invalid edge policy", zap.Error(err))
		}
	}

	var resp *explorer.Response
	if *passagesFile != "" {
		f, err := os.Open(*passagesFile)
		if err != nil {
			log.Fatal("Failed to open passages file", zap.Error(err))
		}
		passages, err := loadPassages(f)
		f.Close()
		if err != nil {
			log.Fatal("Failed to read passages file", zap.Error(err))
		}
		resp = setup.Explorer.BuildPassages(ctx, *topic, passages, opts)
	} else {
		resp, err = setup.Explorer.Explore(ctx, explorer.Request{Topic: *topic, MaxPassages: *maxPassages, Options: opts})
		if err != nil {
			log.Fatal("Failed to build graph", zap.String("topic", *topic), zap.Error(err))
		}
	}

	path := outputPath(*out, resp.Topic, renderer.Format())
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			log.Fatal("Failed to create output file", zap.Error(err))
		}
		defer f.Close()
		w = f
	}

	page := render.Page{Topic: resp.Topic, Highlight: opts.Highlight, BuildID: resp.BuildID, Result: resp.Result}
	if err := renderer.Render(w, page); err != nil {
		log.Fatal("Failed to render graph", zap.Error(err))
	}

	log.Info("Graph written",
		zap.String("path", path),
		zap.Int("nodes", len(resp.Result.Graph.Nodes)),
		zap.Int("edges", len(resp.Result.Graph.Edges)),
	)
}

// loadPassages reads a JSON array; null entries stay as skipped slots
func loadPassages(r io.Reader) ([]*graph.Passage, error) {
	var passages []*graph.Passage
	if err := json.NewDecoder(r).Decode(&passages); err != nil {
		return nil, err
	}
	return passages, nil
}

func outputPath(out, topic, format string) string {
	if out != "" {
		return out
	}
	slug := strings.ToLower(strings.Join(strings.Fields(topic), "-"))
	if slug == "" {
		slug = "scripture"
	}
	return fmt.Sprintf("%s-graph.%s", slug, format)
}
