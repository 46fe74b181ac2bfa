// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/danielhkuo/pollbot/middleware"
	"github.com/danielhkuo/pollbot/session"
)

// NewSession creates a gateway session for a bot token.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages
	return s, nil
}

// Bot feeds gateway events to the session controller.
type Bot struct {
	s       *discordgo.Session
	ctrl    *session.Controller
	guildID string

	// Base context for event handlers, cancelled on shutdown.
	ctx context.Context
}

func NewBot(s *discordgo.Session, ctrl *session.Controller, guildID string) *Bot {
	return &Bot{s: s, ctrl: ctrl, guildID: guildID, ctx: context.Background()}
}

// Open registers handlers and connects to the gateway. Events are handled
// with ctx until Close.
func (b *Bot) Open(ctx context.Context) error {
	b.ctx = ctx
	b.s.AddHandler(b.onReady)
	b.s.AddHandler(b.onInteraction)

	if err := b.s.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}
	return nil
}

func (b *Bot) Close() error {
	b.ctrl.Close()
	return b.s.Close()
}

// onReady registers commands, then recovers polls from channel history.
// Ready fires again after a full reconnect; both steps are idempotent.
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	middleware.HandleEvent(b.ctx, "ready", func(ctx context.Context) {
		slog.Info("connected to gateway",
			"user", r.User.Username,
			"guilds", len(r.Guilds),
		)

		appID := r.User.ID
		if r.Application != nil && r.Application.ID != "" {
			appID = r.Application.ID
		}
		if err := registerCommands(ctx, s, appID, b.guildID); err != nil {
			slog.Error("failed to register commands", "guild_id", b.guildID, "error", err)
		}

		if _, err := b.ctrl.Recover(ctx); err != nil {
			slog.Error("failed to recover polls", "error", err)
		}
	})
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	middleware.HandleEvent(b.ctx, "interaction", func(ctx context.Context) {
		if err := route(ctx, b.ctrl, newInteraction(s, i.Interaction), i); err != nil {
			slog.Warn("ignored interaction", "interaction_id", i.ID, "error", err)
		}
	}, "type", i.Type.String(), "guild_id", i.GuildID)
}
