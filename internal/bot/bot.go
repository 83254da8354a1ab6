// Package bot is the Discord transport: session lifecycle, slash
// command registration, interaction routing, and the 05:00 JST energy
// sweep. All game decisions live in internal/game; this package only
// translates interactions to engine calls and outcomes to embeds.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"

	"github.com/kessoku-hq/bocchi-life/internal/config"
	"github.com/kessoku-hq/bocchi-life/internal/game"
	"github.com/kessoku-hq/bocchi-life/internal/store"
	"github.com/kessoku-hq/bocchi-life/pkg/player"
)

const handlerTimeout = 60 * time.Second

type Bot struct {
	session *discordgo.Session
	engine  *game.Engine
	store   store.PlayerStore
	cfg     *config.Config
	cron    *cron.Cron
	logger  *slog.Logger
}

func New(cfg *config.Config, engine *game.Engine, st store.PlayerStore, logger *slog.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	b := &Bot{
		session: session,
		engine:  engine,
		store:   st,
		cfg:     cfg,
		logger:  logger,
	}

	session.AddHandler(b.onReady)
	session.AddHandler(b.onInteraction)
	return b, nil
}

// Start opens the gateway connection, pushes the command definitions,
// and schedules the daily sweep.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord connection: %w", err)
	}
	if err := b.registerCommands(); err != nil {
		return err
	}
	if err := b.startCron(); err != nil {
		return err
	}
	return nil
}

func (b *Bot) Stop() {
	if b.cron != nil {
		ctx := b.cron.Stop()
		<-ctx.Done()
	}
	if err := b.session.Close(); err != nil {
		b.logger.Error("failed to close discord session", "error", err)
	}
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("discord gateway ready",
		"username", r.User.Username,
		"guilds", len(r.Guilds))
}

// startCron schedules the daily energy restore at 05:00 in-world time.
// Players who were offline across the boundary are caught by the lazy
// reset on their next command.
func (b *Bot) startCron() error {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		b.logger.Warn("JST unavailable, daily sweep uses host time", "error", err)
		loc = time.Local
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc("0 5 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := b.store.RestoreAllEnergy(ctx, player.MaxEnergy); err != nil {
			b.logger.Error("daily energy sweep failed", "error", err)
			return
		}
		b.logger.Info("daily energy sweep complete")
	})
	if err != nil {
		return fmt.Errorf("failed to schedule daily sweep: %w", err)
	}
	c.Start()
	b.cron = c
	return nil
}
