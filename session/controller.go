// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/danielhkuo/pollbot/auth"
	"github.com/danielhkuo/pollbot/models"
	"github.com/danielhkuo/pollbot/render"
)

// Store is the part of the poll store the controller uses.
type Store interface {
	CreatePoll(ctx context.Context, question string, options []string, scopeID string) (int64, error)
	GetPoll(ctx context.Context, pollID int64) (models.PollData, error)
	GetUserVotes(ctx context.Context, pollID int64, userID string) (map[int64]bool, error)
	DeletePoll(ctx context.Context, pollID int64, scopeID string) error
	PollExists(ctx context.Context, pollID int64) (bool, error)
}

type Voter interface {
	Cast(ctx context.Context, req models.VoteRequest) (models.VoteResult, error)
}

// Platform sends and reads channel messages. Implementations report a message
// or interaction that no longer exists as models.ErrTransientDelivery.
type Platform interface {
	SendPoll(ctx context.Context, channelID string, msg render.Message) (messageID string, err error)
	EditPoll(ctx context.Context, channelID, messageID string, msg render.Message) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	// Servers lists the servers the bot is a member of.
	Servers() []string
	// TextChannels lists the text channels of one server.
	TextChannels(ctx context.Context, scopeID string) ([]string, error)
	// History returns up to limit recent messages, newest first.
	History(ctx context.Context, channelID string, limit int) ([]models.HistoryMessage, error)
	BotUserID() string
}

// Interaction is the reply channel of a single user action.
type Interaction interface {
	// Ack tells the platform the action is being handled.
	Ack(ctx context.Context) error
	// Notify shows text to the acting user only.
	Notify(ctx context.Context, text string) error
	// Confirm opens the typed confirmation dialog.
	Confirm(ctx context.Context, dialog render.Dialog) error
}

type Options struct {
	// HistoryLimit bounds the messages read per channel when scanning.
	HistoryLimit int
	// RecoverWorkers bounds the channels scanned at once.
	RecoverWorkers int
}

const (
	DefaultHistoryLimit   = 100
	DefaultRecoverWorkers = 4
)

// Controller drives poll sessions from platform events.
type Controller struct {
	store    Store
	voter    Voter
	platform Platform
	opts     Options

	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewController(st Store, voter Voter, platform Platform, opts Options) *Controller {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	if opts.RecoverWorkers <= 0 {
		opts.RecoverWorkers = DefaultRecoverWorkers
	}
	return &Controller{
		store:    st,
		voter:    voter,
		platform: platform,
		opts:     opts,
		sessions: map[int64]*Session{},
	}
}

// Session returns the bound session for a poll.
func (c *Controller) Session(pollID int64) (*Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.sessions[pollID]
	return s, ok
}

// Close drops every session binding. Messages stay as they are.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	slog.Info("closing poll sessions", "sessions", len(c.sessions))
	c.sessions = map[int64]*Session{}
}

// CreatePoll validates the command, stores the poll, and posts its message.
func (c *Controller) CreatePoll(ctx context.Context, ix Interaction, cmd models.CreatePollCommand) {
	const op = "session.CreatePoll"

	if cmd.Actor.ScopeID == "" {
		c.notify(ctx, ix, NoticeNotInServer)
		return
	}
	question, err := models.NormalizeQuestion(cmd.Question)
	if err != nil {
		c.notify(ctx, ix, NoticeEmptyQuestion)
		return
	}
	labels, err := models.NormalizeOptions(models.SplitOptions(cmd.Options))
	if errors.Is(err, models.ErrTooManyOptions) {
		c.notify(ctx, ix, NoticeTooManyOptions)
		return
	}
	if err != nil {
		c.notify(ctx, ix, NoticeTooFewOptions)
		return
	}

	if err := ix.Ack(ctx); err != nil {
		c.fail(ctx, ix, op, 0, err)
		return
	}

	pollID, err := c.store.CreatePoll(ctx, question, labels, cmd.Actor.ScopeID)
	if err != nil {
		c.fail(ctx, ix, op, 0, err)
		return
	}

	s := newSession(pollID, cmd.ChannelID, "", cmd.Actor.IsAdmin)
	if err := s.Refresh(ctx, c.store, ""); err != nil {
		c.fail(ctx, ix, op, pollID, err)
		return
	}
	messageID, err := c.platform.SendPoll(ctx, cmd.ChannelID, s.Message())
	if err != nil {
		// An unsent poll cannot be located or deleted later
		if derr := c.store.DeletePoll(ctx, pollID, cmd.Actor.ScopeID); derr != nil {
			slog.Error("failed to remove unsent poll", "poll_id", pollID, "error", derr)
		}
		c.fail(ctx, ix, op, pollID, err)
		return
	}
	s.activate(messageID)
	c.register(s)

	slog.Info("poll created",
		"poll_id", pollID,
		"server_id", cmd.Actor.ScopeID,
		"channel_id", cmd.ChannelID,
		"options", len(labels),
	)
	c.notify(ctx, ix, createdNotice(pollID))
}

// Vote applies a vote press and re-renders the poll message in place.
func (c *Controller) Vote(ctx context.Context, ix Interaction, ev models.VoteEvent) {
	const op = "session.Vote"

	if err := ix.Ack(ctx); err != nil {
		c.fail(ctx, ix, op, ev.PollID, err)
		return
	}

	result, err := c.voter.Cast(ctx, models.VoteRequest{
		PollID:   ev.PollID,
		UserID:   ev.Actor.UserID,
		OptionID: ev.OptionID,
	})
	if err != nil {
		c.fail(ctx, ix, op, ev.PollID, err)
		return
	}
	slog.Debug("vote cast",
		"poll_id", ev.PollID,
		"option_id", ev.OptionID,
		"outcome", result.Outcome.String(),
	)
	if result.Outcome == models.VoteRejected {
		c.notify(ctx, ix, result.Warning)
	}

	s := c.bind(ev.PollID, ev.ChannelID, ev.MessageID)
	if err := c.publish(ctx, s, ev.Actor.UserID); err != nil {
		c.fail(ctx, ix, op, ev.PollID, err)
	}
}

// DeleteTrigger opens the confirmation dialog for the pressed delete control.
func (c *Controller) DeleteTrigger(ctx context.Context, ix Interaction, ev models.DeleteEvent) {
	const op = "session.DeleteTrigger"

	if err := auth.RequireAdmin(ev.Actor); err != nil {
		c.notify(ctx, ix, NoticeNotAdmin)
		return
	}
	if err := ix.Confirm(ctx, render.ConfirmDialog(ev.PollID, ev.ChannelID, ev.MessageID)); err != nil {
		c.fail(ctx, ix, op, ev.PollID, err)
	}
}

// DeleteCommand finds the poll's message and opens the confirmation dialog.
func (c *Controller) DeleteCommand(ctx context.Context, ix Interaction, cmd models.DeleteCommand) {
	const op = "session.DeleteCommand"

	if err := auth.RequireAdmin(cmd.Actor); err != nil {
		c.notify(ctx, ix, NoticeNotAdmin)
		return
	}

	msg, err := c.locate(ctx, cmd.PollID, cmd.Actor.ScopeID)
	if err != nil {
		c.fail(ctx, ix, op, cmd.PollID, err)
		return
	}
	if err := ix.Confirm(ctx, render.ConfirmDialog(cmd.PollID, msg.ChannelID, msg.ID)); err != nil {
		c.fail(ctx, ix, op, cmd.PollID, err)
	}
}

// ConfirmDelete deletes the poll when the typed confirmation matches, then
// removes its message.
func (c *Controller) ConfirmDelete(ctx context.Context, ix Interaction, ev models.ConfirmEvent) {
	const op = "session.ConfirmDelete"

	if err := auth.RequireAdmin(ev.Actor); err != nil {
		c.notify(ctx, ix, NoticeNotAdmin)
		return
	}
	if !auth.CheckConfirmation(ev.Value, render.ConfirmationPhrase) {
		c.notify(ctx, ix, NoticeDeleteCanceled)
		return
	}

	if err := c.store.DeletePoll(ctx, ev.PollID, ev.Actor.ScopeID); err != nil {
		c.fail(ctx, ix, op, ev.PollID, err)
		return
	}
	if s, ok := c.Session(ev.PollID); ok {
		s.markDeleted()
		c.unbind(s)
	}
	slog.Info("poll deleted",
		"poll_id", ev.PollID,
		"server_id", ev.Actor.ScopeID,
		"user_id", ev.Actor.UserID,
	)

	if err := c.platform.DeleteMessage(ctx, ev.ChannelID, ev.MessageID); err != nil {
		slog.Warn("failed to delete poll message",
			"poll_id", ev.PollID,
			"channel_id", ev.ChannelID,
			"message_id", ev.MessageID,
			"error", err,
		)
		c.notify(ctx, ix, deletedMessageKeptNotice(ev.PollID))
		return
	}
	c.notify(ctx, ix, deletedNotice(ev.PollID))
}

// publish re-reads the poll for viewerID and edits its message.
func (c *Controller) publish(ctx context.Context, s *Session, viewerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDeleted {
		return models.ErrNotFound
	}
	if err := s.load(ctx, c.store, viewerID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.state = StateDeleted
			c.unbind(s)
		}
		return err
	}
	return c.platform.EditPoll(ctx, s.channelID, s.messageID, s.render())
}

func (c *Controller) register(s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[s.pollID] = s
}

// bind returns the session for the message an event came from, creating one
// when the poll has no session or is shown elsewhere.
func (c *Controller) bind(pollID int64, channelID, messageID string) *Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	// messageID is fixed before a session is registered.
	prev, ok := c.sessions[pollID]
	if ok && prev.channelID == channelID && prev.messageID == messageID {
		return prev
	}

	s := newSession(pollID, channelID, messageID, ok && prev.showDelete)
	s.state = StateActive
	c.sessions[pollID] = s
	return s
}

// Lock order is s.mu then c.mu; unbind may run under s.mu.
func (c *Controller) unbind(s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sessions[s.pollID] == s {
		delete(c.sessions, s.pollID)
	}
}

func (c *Controller) notify(ctx context.Context, ix Interaction, text string) {
	if err := ix.Notify(ctx, text); err != nil {
		slog.Warn("failed to send notice", "error", err)
	}
}

// fail reports err to the user once. Only unexpected failures are logged as
// errors.
func (c *Controller) fail(ctx context.Context, ix Interaction, op string, pollID int64, err error) {
	switch {
	case errors.Is(err, models.ErrTransientDelivery):
		slog.Warn("poll no longer deliverable", "op", op, "poll_id", pollID, "error", err)
		c.notify(ctx, ix, NoticeUnavailable)
	case errors.Is(err, models.ErrNotFound):
		c.notify(ctx, ix, NoticeNotFound)
	case errors.Is(err, models.ErrPermissionDenied):
		c.notify(ctx, ix, NoticeNotAdmin)
	case errors.Is(err, models.ErrValidation):
		c.notify(ctx, ix, NoticeInvalidVote)
	default:
		slog.Error("poll operation failed", "op", op, "poll_id", pollID, "error", err)
		c.notify(ctx, ix, NoticeFailed)
	}
}
