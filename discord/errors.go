// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package discord

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/danielhkuo/pollbot/models"
)

// JSON error codes meaning the target is gone
const (
	codeUnknownChannel     = 10003
	codeUnknownMessage     = 10008
	codeUnknownWebhook     = 10015
	codeUnknownInteraction = 10062
)

// classify marks REST errors for vanished messages, channels, and expired
// interactions as models.ErrTransientDelivery. Other errors pass through.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var rest *discordgo.RESTError
	if !errors.As(err, &rest) {
		return err
	}

	if rest.Message != nil {
		switch rest.Message.Code {
		case codeUnknownChannel, codeUnknownMessage, codeUnknownWebhook, codeUnknownInteraction:
			return fmt.Errorf("%w: %w", models.ErrTransientDelivery, err)
		}
	}
	if rest.Response != nil && rest.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", models.ErrTransientDelivery, err)
	}
	return err
}
