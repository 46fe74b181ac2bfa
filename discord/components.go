// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/danielhkuo/pollbot/render"
)

const (
	maxButtonsPerRow = 5
	maxButtonLabel   = 80
	confirmInputID   = "confirmation"
)

// components lays controls out in rows of five buttons.
func components(msg render.Message) []discordgo.MessageComponent {
	rows := []discordgo.MessageComponent{}
	var row discordgo.ActionsRow

	for _, c := range msg.Controls {
		row.Components = append(row.Components, discordgo.Button{
			Label:    truncate(c.Label, maxButtonLabel),
			Style:    buttonStyle(c.Style),
			CustomID: c.ID.String(),
		})
		if len(row.Components) == maxButtonsPerRow {
			rows = append(rows, row)
			row = discordgo.ActionsRow{}
		}
	}
	if len(row.Components) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func buttonStyle(s render.Style) discordgo.ButtonStyle {
	switch s {
	case render.StyleSuccess:
		return discordgo.SuccessButton
	case render.StyleDanger:
		return discordgo.DangerButton
	default:
		return discordgo.PrimaryButton
	}
}

// confirmModal builds the typed confirmation dialog.
func confirmModal(d render.Dialog) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: d.ID.String(),
			Title:    d.Title,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:  confirmInputID,
							Label:     d.InputLabel,
							Style:     discordgo.TextInputShort,
							Required:  true,
							MaxLength: 16,
						},
					},
				},
			},
		},
	}
}

// modalValue returns the typed confirmation from a submitted modal.
func modalValue(rows []discordgo.MessageComponent) string {
	for _, c := range rows {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			if input, ok := inner.(*discordgo.TextInput); ok && input.CustomID == confirmInputID {
				return input.Value
			}
		}
	}
	return ""
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
