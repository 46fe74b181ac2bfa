// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import "github.com/doug-martin/goqu/v9"

const (
	PollsTableName       = "polls"
	PollServersTableName = "poll_servers"
	OptionsTableName     = "options"
	VotesTableName       = "votes"
)

var (
	PollsTable            = goqu.T(PollsTableName)
	PollsTablePollIDCol   = PollsTable.Col("poll_id")
	PollsTableQuestionCol = PollsTable.Col("question")

	PollServersTable            = goqu.T(PollServersTableName)
	PollServersTablePollIDCol   = PollServersTable.Col("poll_id")
	PollServersTableServerIDCol = PollServersTable.Col("server_id")

	OptionsTable            = goqu.T(OptionsTableName)
	OptionsTableOptionIDCol = OptionsTable.Col("option_id")
	OptionsTablePollIDCol   = OptionsTable.Col("poll_id")
	OptionsTableOptionCol   = OptionsTable.Col("option")
	OptionsTableVotesCol    = OptionsTable.Col("votes")

	VotesTable            = goqu.T(VotesTableName)
	VotesTableVoteIDCol   = VotesTable.Col("vote_id")
	VotesTablePollIDCol   = VotesTable.Col("poll_id")
	VotesTableUserIDCol   = VotesTable.Col("user_id")
	VotesTableOptionIDCol = VotesTable.Col("option_id")
)
