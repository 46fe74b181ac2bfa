// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the poll store: the only owner of durable poll state.

	st := store.New(conn, cfg.DatabaseType)
	pollID, err := st.CreatePoll(ctx, "Lunch?", []string{"Pizza", "Tacos"}, serverID)

# Operations

  - CreatePoll: poll, server binding, and options in one transaction
  - GetPoll: question and options in insertion order
  - RecordVote: atomic insert/remove/reject of one vote row plus the count delta
  - DeletePoll: scoped delete of the poll and everything under it
  - GetUserVotes: option IDs a user has voted for

# Vote Counts

options.votes is denormalized. RecordVote changes it with an in-place
delta (votes = votes + 1) in the same transaction as the vote row, after
locking the option row with SELECT ... FOR UPDATE on PostgreSQL. On SQLite
the pool has a single connection, so transactions never interleave. Either
way options.votes always equals the number of vote rows for the option.

# Errors

Errors are wrapped with the operation name. Callers classify them with
errors.Is against models.ErrValidation and models.ErrNotFound; anything else
is a database failure and never leaves partial writes behind.

# Tracing

Mutating operations and GetPoll open an OpenTelemetry span carrying poll.id.
Without a configured provider the spans are no-ops.
*/
package store
