package discord

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"scripture-graph/backend/internal/constants"
	"scripture-graph/backend/internal/explorer"
	"scripture-graph/backend/internal/graph"
	"scripture-graph/backend/internal/render"

	"github.com/bwmarrin/discordgo"
)

// embed field values are capped at 1024 characters
const maxFieldLength = 1024

// notFoundReply is the "nothing found" message for a topic without references
func notFoundReply(topic string) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content: fmt.Sprintf("No passages found for **%s**. Try a broader topic such as `love` or `faith`.", topic),
	}
}

// graphReply builds the summary embed and attaches the rendered page
func graphReply(resp *explorer.Response, page []byte) *discordgo.MessageSend {
	stats := resp.Result.Stats
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Entity graph: %s", resp.Topic),
		Description: fmt.Sprintf("%d passages, %d entities (%d hidden), %d co-occurrence links",
			stats.Passages, stats.Entities, stats.HiddenEntities, stats.CooccurrenceEdges),
		Color: constants.DiscordEmbedColor,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Build " + resp.BuildID,
		},
	}

	if top := topEntities(resp.Result.Entities, constants.DiscordTopEntities); len(top) > 0 {
		lines := make([]string, 0, len(top))
		for i, rec := range top {
			line := fmt.Sprintf("%d. **%s** (%s) x%d", i+1, rec.Name, rec.Category, rec.Count)
			if !rec.Visible {
				line += " *hidden*"
			}
			lines = append(lines, line)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Top entities",
			Value: truncate(strings.Join(lines, "\n"), maxFieldLength),
		})
	}

	if len(resp.References) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "References",
			Value: truncate(strings.Join(resp.References, ", "), maxFieldLength),
		})
	}

	msg := &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}}
	if len(page) > 0 {
		msg.Files = []*discordgo.File{{
			Name:        attachmentName(resp.Topic),
			ContentType: "text/html",
			Reader:      bytes.NewReader(page),
		}}
	}
	return msg
}

// topEntities orders by count, ties keep first-sighting order
func topEntities(records []graph.EntityRecord, n int) []graph.EntityRecord {
	sorted := make([]graph.EntityRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func attachmentName(topic string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return '-'
	}, strings.TrimSpace(topic))
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "topic"
	}
	return slug + "-graph." + render.FormatHTML
}

// truncate caps s at limit characters, cutting on a rune boundary
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit-3]) + "..."
}
