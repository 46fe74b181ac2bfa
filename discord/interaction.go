// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package discord

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/danielhkuo/pollbot/render"
)

// interaction answers one interaction. The first reply is the interaction
// response; later notices are ephemeral followups.
type interaction struct {
	s *discordgo.Session
	i *discordgo.Interaction

	mu        sync.Mutex
	responded bool
}

func newInteraction(s *discordgo.Session, i *discordgo.Interaction) *interaction {
	return &interaction{s: s, i: i}
}

// Ack defers the reply. Button presses defer a message update so the poll
// message itself is not replaced.
func (ix *interaction) Ack(ctx context.Context) error {
	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}
	if ix.i.Type == discordgo.InteractionMessageComponent {
		resp = &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredMessageUpdate}
	}
	return ix.respond(ctx, resp)
}

func (ix *interaction) Notify(ctx context.Context, text string) error {
	ix.mu.Lock()
	responded := ix.responded
	ix.mu.Unlock()

	if !responded {
		return ix.respond(ctx, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: text,
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
	}

	_, err := ix.s.FollowupMessageCreate(ix.i, true, &discordgo.WebhookParams{
		Content: text,
		Flags:   discordgo.MessageFlagsEphemeral,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("followup: %w", classify(err))
	}
	return nil
}

func (ix *interaction) Confirm(ctx context.Context, dialog render.Dialog) error {
	return ix.respond(ctx, confirmModal(dialog))
}

func (ix *interaction) respond(ctx context.Context, resp *discordgo.InteractionResponse) error {
	if err := ix.s.InteractionRespond(ix.i, resp, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("respond: %w", classify(err))
	}
	ix.mu.Lock()
	ix.responded = true
	ix.mu.Unlock()
	return nil
}
