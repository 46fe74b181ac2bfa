// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/pollbot/models"
	"github.com/danielhkuo/pollbot/render"
	"github.com/danielhkuo/pollbot/testutil"
)

// postPoll writes a rendered poll into a channel as the bot, as a previous
// process would have.
func postPoll(t *testing.T, h *harness, channelID string, pollID int64) string {
	t.Helper()
	data, err := h.store.GetPoll(context.Background(), pollID)
	require.NoError(t, err)
	return h.platform.post(channelID, botID, render.Text(data))
}

func TestRecover(t *testing.T) {
	h := newHarness(t, models.PolicyToggle)
	h.platform.addChannel(testutil.TestServerID, "chan-2")
	h.platform.addChannel("200000000000000002", "chan-3")

	lunch := testutil.CreateTestPoll(t, h.store, "Lunch?", "Pizza", "Tacos")
	ids := testutil.OptionIDs(t, h.store, lunch)
	_, err := h.store.RecordVote(context.Background(), lunch, "u1", ids[0], true)
	require.NoError(t, err)
	dinner := testutil.CreateTestPoll(t, h.store, "Dinner?", "Soup", "Salad")

	lunchMsg := postPoll(t, h, testChannel, lunch)
	dinnerMsg := postPoll(t, h, "chan-3", dinner)
	chatter := h.platform.post("chan-2", "someone", "hello")
	quoted := h.platform.post("chan-2", "someone", fmt.Sprintf("look at Poll ID: %d", lunch))
	stale := h.platform.post("chan-2", botID, "**Old?**\n\nPoll Results:\n\nPoll ID: 9999")

	n, err := h.ctrl.Recover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for pollID, messageID := range map[int64]string{lunch: lunchMsg, dinner: dinnerMsg} {
		s, ok := h.ctrl.Session(pollID)
		require.True(t, ok, "poll %d not recovered", pollID)
		assert.Equal(t, StateActive, s.State())
		assert.Equal(t, messageID, s.MessageID())

		m, _ := h.platform.message(messageID)
		assert.Equal(t, 1, m.edits)
		assert.NotEmpty(t, m.msg.Controls)
	}

	m, _ := h.platform.message(lunchMsg)
	assert.Contains(t, m.msg.Content, "Pizza: 1 vote - 100%")
	// Recovered polls render without the delete control
	assert.Len(t, m.msg.Controls, 2)

	for _, id := range []string{chatter, quoted, stale} {
		m, ok := h.platform.message(id)
		require.True(t, ok)
		assert.Zero(t, m.edits, "message %s should be untouched", id)
	}
	_, ok := h.ctrl.Session(9999)
	assert.False(t, ok)
}

func TestRecover_VoteAfterRestart(t *testing.T) {
	h := newHarness(t, models.PolicyToggle)
	pollID := testutil.CreateTestPoll(t, h.store, "Lunch?", "Pizza", "Tacos")
	ids := testutil.OptionIDs(t, h.store, pollID)
	messageID := postPoll(t, h, testChannel, pollID)

	_, err := h.ctrl.Recover(context.Background())
	require.NoError(t, err)

	s, ok := h.ctrl.Session(pollID)
	require.True(t, ok)
	ix := h.vote(s, member, ids[1])
	assert.Empty(t, ix.notices)

	m, _ := h.platform.message(messageID)
	assert.Equal(t, 2, m.edits)
	assert.Contains(t, m.msg.Content, "Tacos: 1 vote - 100%")
	assert.Equal(t, "Tacos ✔️", m.msg.Controls[1].Label)
}

func TestRecover_ChannelFailureDoesNotStopScan(t *testing.T) {
	h := newHarness(t, models.PolicyToggle)
	h.platform.addChannel(testutil.TestServerID, "chan-2")
	h.platform.historyErr["chan-2"] = errors.New("missing access")

	pollID := testutil.CreateTestPoll(t, h.store, "Lunch?", "Pizza", "Tacos")
	postPoll(t, h, testChannel, pollID)

	n, err := h.ctrl.Recover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecover_ServerFailureDoesNotStopScan(t *testing.T) {
	h := newHarness(t, models.PolicyToggle)
	// Sorts before the working server so it is listed first
	h.platform.addChannel("000000000000000009", "chan-broken")
	h.platform.listErr["000000000000000009"] = errors.New("503 service unavailable")

	pollID := testutil.CreateTestPoll(t, h.store, "Lunch?", "Pizza", "Tacos")
	messageID := postPoll(t, h, testChannel, pollID)

	n, err := h.ctrl.Recover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	s, ok := h.ctrl.Session(pollID)
	require.True(t, ok)
	assert.Equal(t, messageID, s.MessageID())
}

func TestRecover_CanceledContext(t *testing.T) {
	h := newHarness(t, models.PolicyToggle)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.ctrl.Recover(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecover_NewestMessageWins(t *testing.T) {
	h := newHarness(t, models.PolicyToggle)
	pollID := testutil.CreateTestPoll(t, h.store, "Lunch?", "Pizza", "Tacos")
	older := postPoll(t, h, testChannel, pollID)
	newer := postPoll(t, h, testChannel, pollID)

	n, err := h.ctrl.Recover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	s, ok := h.ctrl.Session(pollID)
	require.True(t, ok)
	assert.Equal(t, newer, s.MessageID())

	m, _ := h.platform.message(older)
	assert.Zero(t, m.edits)
}

func TestRecover_HistoryLimit(t *testing.T) {
	h := newHarness(t, models.PolicyToggle)
	h.ctrl = NewController(h.counting, nil, h.platform, Options{HistoryLimit: 2})

	pollID := testutil.CreateTestPoll(t, h.store, "Lunch?", "Pizza", "Tacos")
	postPoll(t, h, testChannel, pollID)
	h.platform.post(testChannel, "someone", "one")
	h.platform.post(testChannel, "someone", "two")

	n, err := h.ctrl.Recover(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRecover_DeletedPollLeftAlone(t *testing.T) {
	h := newHarness(t, models.PolicyToggle)
	pollID := testutil.CreateTestPoll(t, h.store, "Lunch?", "Pizza", "Tacos")
	messageID := postPoll(t, h, testChannel, pollID)
	require.NoError(t, h.store.DeletePoll(context.Background(), pollID, testutil.TestServerID))

	n, err := h.ctrl.Recover(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	m, ok := h.platform.message(messageID)
	require.True(t, ok)
	assert.Zero(t, m.edits)
}
