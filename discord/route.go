// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/danielhkuo/pollbot/auth"
	"github.com/danielhkuo/pollbot/models"
	"github.com/danielhkuo/pollbot/render"
	"github.com/danielhkuo/pollbot/session"
)

// handler is implemented by *session.Controller.
type handler interface {
	CreatePoll(ctx context.Context, ix session.Interaction, cmd models.CreatePollCommand)
	Vote(ctx context.Context, ix session.Interaction, ev models.VoteEvent)
	DeleteTrigger(ctx context.Context, ix session.Interaction, ev models.DeleteEvent)
	DeleteCommand(ctx context.Context, ix session.Interaction, cmd models.DeleteCommand)
	ConfirmDelete(ctx context.Context, ix session.Interaction, ev models.ConfirmEvent)
}

// route decodes an interaction and hands it to h. Interactions this bot did
// not create are returned as errors.
func route(ctx context.Context, h handler, ix session.Interaction, i *discordgo.InteractionCreate) error {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		return routeCommand(ctx, h, ix, i)

	case discordgo.InteractionMessageComponent:
		id, err := render.ParseControlID(i.MessageComponentData().CustomID)
		if err != nil {
			return err
		}
		channelID, messageID := messageLocation(i)

		switch id.Action {
		case render.ActionVote:
			h.Vote(ctx, ix, models.VoteEvent{
				Actor:     actorOf(i),
				ChannelID: channelID,
				MessageID: messageID,
				PollID:    id.PollID,
				OptionID:  id.OptionID,
			})
		case render.ActionDelete:
			h.DeleteTrigger(ctx, ix, models.DeleteEvent{
				Actor:     actorOf(i),
				ChannelID: channelID,
				MessageID: messageID,
				PollID:    id.PollID,
			})
		default:
			return fmt.Errorf("unexpected control action %q", id.Action)
		}
		return nil

	case discordgo.InteractionModalSubmit:
		data := i.ModalSubmitData()
		id, err := render.ParseControlID(data.CustomID)
		if err != nil {
			return err
		}
		if id.Action != render.ActionConfirm {
			return fmt.Errorf("unexpected modal action %q", id.Action)
		}
		h.ConfirmDelete(ctx, ix, models.ConfirmEvent{
			Actor:     actorOf(i),
			PollID:    id.PollID,
			ChannelID: id.ChannelID,
			MessageID: id.MessageID,
			Value:     modalValue(data.Components),
		})
		return nil

	default:
		return fmt.Errorf("unsupported interaction type %s", i.Type)
	}
}

func routeCommand(ctx context.Context, h handler, ix session.Interaction, i *discordgo.InteractionCreate) error {
	data := i.ApplicationCommandData()

	switch data.Name {
	case cmdCreatePoll:
		cmd := models.CreatePollCommand{Actor: actorOf(i), ChannelID: i.ChannelID}
		for _, opt := range data.Options {
			switch opt.Name {
			case optQuestion:
				cmd.Question = opt.StringValue()
			case optOptions:
				cmd.Options = opt.StringValue()
			}
		}
		h.CreatePoll(ctx, ix, cmd)

	case cmdDeletePoll:
		cmd := models.DeleteCommand{Actor: actorOf(i)}
		for _, opt := range data.Options {
			if opt.Name == optPollID {
				cmd.PollID = opt.IntValue()
			}
		}
		h.DeleteCommand(ctx, ix, cmd)

	default:
		return fmt.Errorf("unknown command %q", data.Name)
	}
	return nil
}

// actorOf reads the acting user. Member is only set for interactions inside
// a server and carries the resolved permissions.
func actorOf(i *discordgo.InteractionCreate) models.Actor {
	actor := models.Actor{ScopeID: i.GuildID}
	switch {
	case i.Member != nil && i.Member.User != nil:
		actor.UserID = i.Member.User.ID
		actor.IsAdmin = auth.IsAdministrator(i.Member.Permissions)
	case i.User != nil:
		actor.UserID = i.User.ID
	}
	return actor
}

func messageLocation(i *discordgo.InteractionCreate) (channelID, messageID string) {
	channelID = i.ChannelID
	if i.Message != nil {
		messageID = i.Message.ID
		if i.Message.ChannelID != "" {
			channelID = i.Message.ChannelID
		}
	}
	return channelID, messageID
}
