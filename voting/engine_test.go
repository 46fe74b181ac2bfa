// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/pollbot/models"
	"github.com/danielhkuo/pollbot/testutil"
)

func TestEngineTogglePolicy(t *testing.T) {
	st, conn := testutil.SetupTestStore(t)
	pollID := testutil.CreateTestPoll(t, st, "Pick", "Pizza", "Tacos")
	opts := testutil.OptionIDs(t, st, pollID)
	engine := NewEngine(st, models.PolicyToggle)
	ctx := context.Background()

	req := models.VoteRequest{PollID: pollID, UserID: "alice", OptionID: opts[0]}

	res, err := engine.Cast(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.VoteRecorded, res.Outcome)

	res, err = engine.Cast(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.VoteRemoved, res.Outcome)
	assert.Empty(t, res.Warning)

	assert.Zero(t, testutil.SumOptionVotes(t, conn, pollID))
}

func TestEngineWarnPolicy(t *testing.T) {
	st, conn := testutil.SetupTestStore(t)
	pollID := testutil.CreateTestPoll(t, st, "Pick", "Pizza", "Tacos")
	opts := testutil.OptionIDs(t, st, pollID)
	engine := NewEngine(st, models.PolicyWarn)
	ctx := context.Background()

	req := models.VoteRequest{PollID: pollID, UserID: "alice", OptionID: opts[1]}

	res, err := engine.Cast(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.VoteRecorded, res.Outcome)

	res, err = engine.Cast(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.VoteRejected, res.Outcome)
	assert.Equal(t, "Tacos", res.OptionLabel)
	assert.Equal(t, Warning("Tacos", pollID), res.Warning)
	assert.Contains(t, res.Warning, "'Tacos'")

	data, err := st.GetPoll(ctx, pollID)
	require.NoError(t, err)
	assert.Equal(t, 1, data.Options[1].Votes, "rejected vote must not change the count")
	testutil.AssertVoteCounts(t, conn, pollID)

	// A different option is still allowed.
	res, err = engine.Cast(ctx, models.VoteRequest{PollID: pollID, UserID: "alice", OptionID: opts[0]})
	require.NoError(t, err)
	assert.Equal(t, models.VoteRecorded, res.Outcome)
}

func TestEngineValidation(t *testing.T) {
	engine := NewEngine(stubStore{}, models.PolicyToggle)

	tests := []struct {
		name string
		req  models.VoteRequest
	}{
		{"missing user", models.VoteRequest{PollID: 1, OptionID: 1}},
		{"blank user", models.VoteRequest{PollID: 1, UserID: "  ", OptionID: 1}},
		{"zero poll", models.VoteRequest{UserID: "u", OptionID: 1}},
		{"zero option", models.VoteRequest{PollID: 1, UserID: "u"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Cast(context.Background(), tt.req)
			require.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestEngineStoreFailure(t *testing.T) {
	boom := errors.New("connection reset")
	engine := NewEngine(stubStore{err: boom}, models.PolicyWarn)

	_, err := engine.Cast(context.Background(), models.VoteRequest{PollID: 1, UserID: "u", OptionID: 1})
	require.ErrorIs(t, err, boom)
}

func TestNewEngineDefaultsToToggle(t *testing.T) {
	engine := NewEngine(stubStore{}, models.VotePolicy("ranked"))
	assert.Equal(t, models.PolicyToggle, engine.Policy())
}

type stubStore struct {
	err error
}

func (s stubStore) RecordVote(context.Context, int64, string, int64, bool) (models.VoteOutcome, error) {
	return 0, s.err
}

func (s stubStore) GetPoll(context.Context, int64) (models.PollData, error) {
	return models.PollData{}, s.err
}
