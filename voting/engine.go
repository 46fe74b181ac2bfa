// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"fmt"
	"strings"

	"github.com/danielhkuo/pollbot/models"
)

// VoteStore is the subset of the poll store the engine needs.
type VoteStore interface {
	RecordVote(ctx context.Context, pollID int64, userID string, optionID int64, toggle bool) (models.VoteOutcome, error)
	GetPoll(ctx context.Context, pollID int64) (models.PollData, error)
}

// Engine applies a vote policy on top of the store's atomic vote primitive.
type Engine struct {
	store  VoteStore
	policy models.VotePolicy
}

func NewEngine(store VoteStore, policy models.VotePolicy) *Engine {
	if !policy.Valid() {
		policy = models.PolicyToggle
	}
	return &Engine{store: store, policy: policy}
}

func (e *Engine) Policy() models.VotePolicy {
	return e.policy
}

// Cast applies one button press. Under the toggle policy a repeated press
// removes the vote; under the warn policy it is rejected and the result carries
// a warning naming the option already chosen.
func (e *Engine) Cast(ctx context.Context, req models.VoteRequest) (models.VoteResult, error) {
	const op = "voting.Cast"

	if strings.TrimSpace(req.UserID) == "" || req.PollID <= 0 || req.OptionID <= 0 {
		return models.VoteResult{}, fmt.Errorf("%s: %w: incomplete vote request", op, models.ErrValidation)
	}

	outcome, err := e.store.RecordVote(ctx, req.PollID, req.UserID, req.OptionID, e.policy == models.PolicyToggle)
	if err != nil {
		return models.VoteResult{}, fmt.Errorf("%s: %w", op, err)
	}

	result := models.VoteResult{Outcome: outcome}
	if outcome != models.VoteRejected {
		return result, nil
	}

	data, err := e.store.GetPoll(ctx, req.PollID)
	if err != nil {
		return models.VoteResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if opt, ok := data.Option(req.OptionID); ok {
		result.OptionLabel = opt.Label
	}
	result.Warning = Warning(result.OptionLabel, req.PollID)

	return result, nil
}

// Warning is the notice shown when a vote is rejected as already recorded.
func Warning(optionLabel string, pollID int64) string {
	return fmt.Sprintf("Warning: Your vote for '%s' in Poll ID '%d' has already been recorded.", optionLabel, pollID)
}
