// Package discord answers "!graph <topic>" commands with a summary embed and
// the rendered graph page.
package discord

import (
	"bytes"
	"context"
	"errors"
	"time"

	"scripture-graph/backend/internal/explorer"
	"scripture-graph/backend/internal/graph"
	"scripture-graph/backend/internal/render"
	apperrors "scripture-graph/backend/pkg/errors"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// GraphService is the part of the explorer the bot uses
type GraphService interface {
	Explore(ctx context.Context, req explorer.Request) (*explorer.Response, error)
}

// Handler handles Discord message processing
type Handler struct {
	svc      GraphService
	defaults graph.Options
	prefix   string
	renderer render.Renderer
	timeout  time.Duration
	logger   *zap.Logger
}

// NewHandler creates a new Discord message handler
func NewHandler(svc GraphService, defaults graph.Options, prefix string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		svc:      svc,
		defaults: defaults,
		prefix:   prefix,
		renderer: render.NewHTMLRenderer(),
		timeout:  2 * time.Minute,
		logger:   logger,
	}
}

// HandleMessage processes a Discord message
func (h *Handler) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	// Ignore messages from the bot itself
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	args, ok := ParseCommand(m.Content, h.prefix)
	if !ok {
		return
	}

	h.logger.Info("Processing graph command",
		zap.String("user_id", m.Author.ID),
		zap.String("channel_id", m.ChannelID),
		zap.Bool("is_dm", m.GuildID == ""),
	)

	_ = s.ChannelTyping(m.ChannelID)

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	msg := h.Reply(ctx, args)
	if _, err := s.ChannelMessageSendComplex(m.ChannelID, msg); err != nil {
		h.logger.Error("Failed to send reply",
			zap.Error(err),
			zap.String("channel_id", m.ChannelID),
		)
	}
}

// Reply runs one command and returns the message to send. Failures become
// user-facing text.
func (h *Handler) Reply(ctx context.Context, args string) *discordgo.MessageSend {
	cmd, err := ParseArgs(args, h.defaults)
	if err != nil {
		return &discordgo.MessageSend{Content: err.Error() + "\n" + usage(h.prefix)}
	}
	if cmd.Topic == "" {
		return &discordgo.MessageSend{Content: usage(h.prefix)}
	}

	resp, err := h.svc.Explore(ctx, explorer.Request{
		Topic:       cmd.Topic,
		MaxPassages: cmd.MaxPassages,
		Options:     cmd.Options,
	})
	if err != nil {
		var noRefs *apperrors.ErrSourceNoReferences
		if errors.As(err, &noRefs) {
			return notFoundReply(cmd.Topic)
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			h.logger.Warn("Graph command timed out",
				zap.String("topic", cmd.Topic),
				zap.Error(apperrors.NewContextTimeout("graph command", h.timeout)),
			)
			return &discordgo.MessageSend{Content: "That lookup took too long. Try a smaller `max` or a narrower topic."}
		}
		h.logger.Error("Failed to build topic graph", zap.String("topic", cmd.Topic), zap.Error(err))
		return &discordgo.MessageSend{Content: "Sorry, I couldn't build that graph right now."}
	}

	var page bytes.Buffer
	err = h.renderer.Render(&page, render.Page{
		Topic:     resp.Topic,
		Highlight: cmd.Options.Highlight,
		BuildID:   resp.BuildID,
		Result:    resp.Result,
	})
	if err != nil {
		// the embed still goes out without the attachment
		h.logger.Warn("Failed to render graph page", zap.String("build_id", resp.BuildID), zap.Error(err))
		page.Reset()
	}

	return graphReply(resp, page.Bytes())
}
