// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const controlPrefix = "poll"

// Control actions
const (
	ActionVote    = "vote"
	ActionDelete  = "delete"
	ActionConfirm = "confirm"
)

var ErrInvalidControlID = errors.New("invalid control id")

// ControlID describes what a control does. It is encoded into the platform's
// custom ID so handlers are resolved from data when the event arrives.
//
//	poll:vote:<poll>:<option>
//	poll:delete:<poll>
//	poll:confirm:<poll>:<channel>:<message>
type ControlID struct {
	Action    string
	PollID    int64
	OptionID  int64
	ChannelID string
	MessageID string
}

func (c ControlID) String() string {
	switch c.Action {
	case ActionVote:
		return fmt.Sprintf("%s:%s:%d:%d", controlPrefix, ActionVote, c.PollID, c.OptionID)
	case ActionConfirm:
		return fmt.Sprintf("%s:%s:%d:%s:%s", controlPrefix, ActionConfirm, c.PollID, c.ChannelID, c.MessageID)
	default:
		return fmt.Sprintf("%s:%s:%d", controlPrefix, c.Action, c.PollID)
	}
}

// ParseControlID decodes a custom ID produced by ControlID.String.
func ParseControlID(s string) (ControlID, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 3 || parts[0] != controlPrefix {
		return ControlID{}, fmt.Errorf("%w: %q", ErrInvalidControlID, s)
	}

	pollID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || pollID <= 0 {
		return ControlID{}, fmt.Errorf("%w: %q", ErrInvalidControlID, s)
	}
	c := ControlID{Action: parts[1], PollID: pollID}

	switch c.Action {
	case ActionVote:
		if len(parts) != 4 {
			return ControlID{}, fmt.Errorf("%w: %q", ErrInvalidControlID, s)
		}
		c.OptionID, err = strconv.ParseInt(parts[3], 10, 64)
		if err != nil || c.OptionID <= 0 {
			return ControlID{}, fmt.Errorf("%w: %q", ErrInvalidControlID, s)
		}
	case ActionDelete:
		if len(parts) != 3 {
			return ControlID{}, fmt.Errorf("%w: %q", ErrInvalidControlID, s)
		}
	case ActionConfirm:
		if len(parts) != 5 || parts[3] == "" || parts[4] == "" {
			return ControlID{}, fmt.Errorf("%w: %q", ErrInvalidControlID, s)
		}
		c.ChannelID, c.MessageID = parts[3], parts[4]
	default:
		return ControlID{}, fmt.Errorf("%w: %q", ErrInvalidControlID, s)
	}

	return c, nil
}

// ConfirmationPhrase must be typed to confirm a delete.
const ConfirmationPhrase = "DELETE"

// Dialog is the typed confirmation shown before a poll is deleted.
type Dialog struct {
	ID         ControlID
	Title      string
	InputLabel string
}

// ConfirmDialog describes the delete confirmation for a poll message.
func ConfirmDialog(pollID int64, channelID, messageID string) Dialog {
	return Dialog{
		ID:         ControlID{Action: ActionConfirm, PollID: pollID, ChannelID: channelID, MessageID: messageID},
		Title:      "Confirm Delete Poll",
		InputLabel: fmt.Sprintf("Type '%s' to confirm", ConfirmationPhrase),
	}
}
