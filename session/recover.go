// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/pollbot/models"
	"github.com/danielhkuo/pollbot/render"
)

// Recover re-binds poll messages found in recent channel history after a
// restart. Messages whose poll no longer exists are left untouched. A server
// or channel that cannot be read is logged and skipped. It returns the number
// of polls re-bound.
func (c *Controller) Recover(ctx context.Context) (int, error) {
	const op = "session.Recover"

	var channels []string
	for _, scopeID := range c.platform.Servers() {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		found, err := c.platform.TextChannels(ctx, scopeID)
		if err != nil {
			slog.Error("failed to list channels for recovery",
				"server_id", scopeID,
				"error", err,
			)
			continue
		}
		channels = append(channels, found...)
	}

	var recovered atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.RecoverWorkers)

	for _, channelID := range channels {
		g.Go(func() error {
			n, err := c.recoverChannel(gctx, channelID)
			if err != nil {
				slog.Error("failed to recover polls in channel",
					"channel_id", channelID,
					"error", err,
				)
			}
			recovered.Add(int32(n))
			return nil
		})
	}
	_ = g.Wait()

	slog.Info("poll recovery finished",
		"channels", len(channels),
		"recovered", recovered.Load(),
	)
	return int(recovered.Load()), nil
}

func (c *Controller) recoverChannel(ctx context.Context, channelID string) (int, error) {
	history, err := c.platform.History(ctx, channelID, c.opts.HistoryLimit)
	if err != nil {
		return 0, err
	}

	botID := c.platform.BotUserID()
	n := 0
	for _, msg := range history {
		if msg.AuthorID != botID {
			continue
		}
		pollID, ok := render.ParsePollID(msg.Content)
		if !ok {
			continue
		}
		// History is newest first; an older copy of a bound poll is stale.
		if s, ok := c.Session(pollID); ok && s.State() == StateActive {
			continue
		}

		s := newSession(pollID, channelID, msg.ID, false)
		if err := c.restore(ctx, s); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				slog.Debug("skipping message for unknown poll",
					"poll_id", pollID,
					"message_id", msg.ID,
				)
				continue
			}
			slog.Warn("failed to recover poll",
				"poll_id", pollID,
				"channel_id", channelID,
				"message_id", msg.ID,
				"error", err,
			)
			continue
		}
		c.register(s)
		n++
	}
	return n, nil
}

// restore renders a recovered session into its existing message.
func (c *Controller) restore(ctx context.Context, s *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx, c.store, ""); err != nil {
		return err
	}
	if err := c.platform.EditPoll(ctx, s.channelID, s.messageID, s.render()); err != nil {
		return err
	}
	s.state = StateActive
	return nil
}

// locate finds the live message showing a poll, first among bound sessions,
// then in the recent history of the server's channels.
func (c *Controller) locate(ctx context.Context, pollID int64, scopeID string) (models.HistoryMessage, error) {
	const op = "session.locate"

	if s, ok := c.Session(pollID); ok && s.State() == StateActive {
		return models.HistoryMessage{ID: s.MessageID(), ChannelID: s.channelID}, nil
	}

	exists, err := c.store.PollExists(ctx, pollID)
	if err != nil {
		return models.HistoryMessage{}, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return models.HistoryMessage{}, fmt.Errorf("%s: poll %d: %w", op, pollID, models.ErrNotFound)
	}

	channels, err := c.platform.TextChannels(ctx, scopeID)
	if err != nil {
		return models.HistoryMessage{}, fmt.Errorf("%s: list channels: %w", op, err)
	}

	botID := c.platform.BotUserID()
	for _, channelID := range channels {
		history, err := c.platform.History(ctx, channelID, c.opts.HistoryLimit)
		if err != nil {
			slog.Warn("failed to read channel history", "channel_id", channelID, "error", err)
			continue
		}
		for _, msg := range history {
			if msg.AuthorID != botID {
				continue
			}
			if id, ok := render.ParsePollID(msg.Content); ok && id == pollID {
				return msg, nil
			}
		}
	}

	return models.HistoryMessage{}, fmt.Errorf("%s: message for poll %d: %w", op, pollID, models.ErrNotFound)
}
