// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const (
	cmdCreatePoll = "createpoll"
	cmdDeletePoll = "deletepoll"

	optQuestion = "question"
	optOptions  = "options"
	optPollID   = "poll_id"
)

var (
	dmDisabled = false
	minPollID  = 1.0
)

func commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:         cmdCreatePoll,
			Description:  "Create a poll",
			DMPermission: &dmDisabled,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optQuestion,
					Description: "The poll question",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optOptions,
					Description: "Comma-separated options",
					Required:    true,
				},
			},
		},
		{
			Name:         cmdDeletePoll,
			Description:  "Delete a poll (administrators only)",
			DMPermission: &dmDisabled,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        optPollID,
					Description: "ID of the poll to delete",
					Required:    true,
					MinValue:    &minPollID,
				},
			},
		},
	}
}

// registerCommands replaces the bot's slash commands, globally or in one
// server when guildID is set.
func registerCommands(ctx context.Context, s *discordgo.Session, appID, guildID string) error {
	if _, err := s.ApplicationCommandBulkOverwrite(appID, guildID, commands(), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	return nil
}
