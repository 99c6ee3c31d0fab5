package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"scripture-graph/backend/internal/discord"
	"scripture-graph/backend/internal/explorer"
	"scripture-graph/backend/pkg/config"
	"scripture-graph/backend/pkg/logger"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func main() {
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
	log.Info("Starting Discord bot...")

	if cfg.DiscordBotToken == "" {
		log.Fatal("DISCORD_BOT_TOKEN is required")
	}

	setup, err := explorer.FromConfig(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize graph explorer", zap.Error(err))
	}
	defer setup.Close()

	// Create Discord session
	dg, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		log.Fatal("Failed to create Discord session", zap.Error(err))
	}

	messageHandler := discord.NewHandler(setup.Explorer, setup.DefaultOptions(), cfg.DiscordCommandPrefix, log.Named("discord"))
	dg.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		messageHandler.HandleMessage(s, m)
	})

	dg.Identify.Intents = botIntents()
	log.Info("Discord bot intents configured",
		zap.Bool("guild_messages", (dg.Identify.Intents&discordgo.IntentsGuildMessages) != 0),
		zap.Bool("direct_messages", (dg.Identify.Intents&discordgo.IntentsDirectMessages) != 0),
		zap.Bool("message_content", (dg.Identify.Intents&discordgo.IntentsMessageContent) != 0),
	)

	// Open connection
	if err := dg.Open(); err != nil {
		log.Fatal("Failed to open Discord connection", zap.Error(err))
	}
	defer dg.Close()

	log.Info("Discord bot is running. Press CTRL-C to exit.",
		zap.String("prefix", cfg.DiscordCommandPrefix),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down Discord bot...")
}

// botIntents covers prefix commands in guilds and DMs; reading the command
// text needs the message content intent
func botIntents() discordgo.Intent {
	return discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent
}
