// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles schema migrations, connections, and table definitions.

# Opening

Open applies the embedded migrations and returns a pinged pool:

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

Two database types are supported:

  - postgres: DATABASE_URL is a lib/pq connection string
  - sqlite: DATABASE_URL is a file path (modernc.org/sqlite, no cgo)

SQLite pools are capped at one open connection so that every write is
serialized through a single writer.

# Migrations

Migrations live under migrations/<type>/ and are applied with
golang-migrate from an embedded filesystem. Migrate is safe to call on every
start; an up-to-date schema is not an error.

# Tables

	polls(poll_id, question, created_at)
	poll_servers(poll_id, server_id)
	options(option_id, poll_id, option, votes)
	votes(vote_id, poll_id, user_id, option_id, created_at)

votes has a unique (poll_id, user_id, option_id) key, and options.votes has a
non-negative check. Table and column identifiers are exported as goqu
expressions (PollsTable, OptionsTableVotesCol, ...) and Dialect returns the
matching goqu dialect for building queries.

# Relationships

	polls 1──1 poll_servers
	polls 1──* options
	polls 1──* votes
	options 1──* votes

All foreign keys use ON DELETE CASCADE.
*/
package db
