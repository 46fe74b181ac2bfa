// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/danielhkuo/pollbot/models"
	"github.com/danielhkuo/pollbot/render"
)

// Most messages one history request may return
const maxPageSize = 100

// Platform sends and reads poll messages over the REST API.
type Platform struct {
	s *discordgo.Session
}

func NewPlatform(s *discordgo.Session) *Platform {
	return &Platform{s: s}
}

func (p *Platform) SendPoll(ctx context.Context, channelID string, msg render.Message) (string, error) {
	sent, err := p.s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    msg.Content,
		Components: components(msg),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("send poll: %w", classify(err))
	}
	return sent.ID, nil
}

func (p *Platform) EditPoll(ctx context.Context, channelID, messageID string, msg render.Message) error {
	rows := components(msg)
	edit := discordgo.NewMessageEdit(channelID, messageID).SetContent(msg.Content)
	edit.Components = &rows

	if _, err := p.s.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("edit poll: %w", classify(err))
	}
	return nil
}

func (p *Platform) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := p.s.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("delete message: %w", classify(err))
	}
	return nil
}

// Servers lists the guilds known to the gateway state.
func (p *Platform) Servers() []string {
	if p.s.State == nil {
		return nil
	}
	p.s.State.RLock()
	defer p.s.State.RUnlock()

	ids := make([]string, 0, len(p.s.State.Guilds))
	for _, g := range p.s.State.Guilds {
		ids = append(ids, g.ID)
	}
	return ids
}

// TextChannels lists the text and announcement channels of one guild.
func (p *Platform) TextChannels(ctx context.Context, scopeID string) ([]string, error) {
	channels, err := p.s.GuildChannels(scopeID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("list channels of %s: %w", scopeID, classify(err))
	}
	return textChannelIDs(channels), nil
}

func textChannelIDs(channels []*discordgo.Channel) []string {
	var ids []string
	for _, ch := range channels {
		switch ch.Type {
		case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
			ids = append(ids, ch.ID)
		}
	}
	return ids
}

// History pages backwards from the newest message until limit messages are
// read or the channel is exhausted.
func (p *Platform) History(ctx context.Context, channelID string, limit int) ([]models.HistoryMessage, error) {
	out := make([]models.HistoryMessage, 0, limit)
	before := ""

	for len(out) < limit {
		batch := min(limit-len(out), maxPageSize)
		msgs, err := p.s.ChannelMessages(channelID, batch, before, "", "", discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("read history of %s: %w", channelID, classify(err))
		}
		for _, m := range msgs {
			out = append(out, historyMessage(m))
		}
		if len(msgs) < batch {
			break
		}
		before = msgs[len(msgs)-1].ID
	}
	return out, nil
}

func historyMessage(m *discordgo.Message) models.HistoryMessage {
	h := models.HistoryMessage{ID: m.ID, ChannelID: m.ChannelID, Content: m.Content}
	if m.Author != nil {
		h.AuthorID = m.Author.ID
	}
	return h
}

// BotUserID is empty until the gateway session is ready.
func (p *Platform) BotUserID() string {
	if p.s.State == nil || p.s.State.User == nil {
		return ""
	}
	return p.s.State.User.ID
}
