package discord

import (
	"fmt"
	"strconv"
	"strings"

	"scripture-graph/backend/internal/graph"
)

// Command is a parsed "!graph" invocation
type Command struct {
	Topic       string
	MaxPassages int
	Options     graph.Options
}

// ParseCommand reports whether content invokes prefix. The prefix match is
// case-insensitive and must be followed by whitespace or the end of the message.
func ParseCommand(content, prefix string) (string, bool) {
	content = strings.TrimSpace(content)
	if prefix == "" || len(content) < len(prefix) || !strings.EqualFold(content[:len(prefix)], prefix) {
		return "", false
	}
	rest := content[len(prefix):]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' && rest[0] != '\n' {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// ParseArgs splits the text after the prefix into topic words and flags:
//
//	--no-person --no-place --no-theme --highlight=<name> --max=<n> --edges=follow|ignore
func ParseArgs(args string, defaults graph.Options) (Command, error) {
	cmd := Command{Options: defaults}
	var words []string

	for _, tok := range strings.Fields(args) {
		if !strings.HasPrefix(tok, "--") {
			words = append(words, tok)
			continue
		}
		name, value, _ := strings.Cut(strings.TrimPrefix(tok, "--"), "=")
		switch strings.ToLower(name) {
		case "no-person":
			cmd.Options.ShowPerson = false
		case "no-place":
			cmd.Options.ShowPlace = false
		case "no-theme":
			cmd.Options.ShowTheme = false
		case "highlight":
			cmd.Options.Highlight = value
		case "max":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return cmd, fmt.Errorf("--max needs a positive number, got %q", value)
			}
			cmd.MaxPassages = n
		case "edges":
			policy, err := graph.ParseEdgePolicy(value)
			if err != nil {
				return cmd, err
			}
			cmd.Options.EdgePolicy = policy
		default:
			return cmd, fmt.Errorf("unknown flag --%s", name)
		}
	}

	cmd.Topic = strings.Join(words, " ")
	return cmd, nil
}

// usage is sent for a bare prefix or bad flags
func usage(prefix string) string {
	return fmt.Sprintf("Usage: `%s <topic> [--no-person] [--no-place] [--no-theme] [--highlight=Name] [--max=N] [--edges=follow|ignore]`\nExample: `%s love --highlight=Jesus`", prefix, prefix)
}
