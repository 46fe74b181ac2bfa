// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for pollbot.

pollbot is a Discord bot for quick button polls. An administrator or member
runs /createpoll with a question and comma-separated options; the bot posts a
message with one button per option and edits it in place as votes come in.
Administrators delete polls with the delete button or /deletepoll after typing
DELETE into a confirmation dialog. After a restart the bot finds its poll
messages in recent channel history and makes their buttons live again.

# Starting the Bot

	BOT_TOKEN=... DATABASE_URL=polls.db go run .

Or with flags:

	go run . -token ... -d "postgres://..." -t postgres -policy warn

A .env file in the working directory is loaded first.

# Configuration

Required settings:

  - BOT_TOKEN (-token): Discord bot token
  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string

Optional settings:

  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - VOTE_POLICY (-policy): toggle (default) or warn
  - GUILD_ID (-guild): register commands in one server only
  - HISTORY_LIMIT (-history): messages scanned per channel on startup (default: 100)
  - PORT (-p): HTTP port for health and results (default: 3318, 0 disables)
  - APP_ENV (-env): local (pretty logs, default), dev, or prod (JSON logs)
  - OTEL_ENDPOINT (-otel): OTLP/HTTP trace endpoint

# Architecture

  - models: domain types, sentinel errors, option normalization
  - db: connection setup and embedded migrations (golang-migrate)
  - store: transactional poll store (goqu over database/sql)
  - voting: toggle and warn vote policies
  - render: poll text, buttons, control IDs
  - auth: administrator and confirmation checks
  - session: per-poll state machine and event flows
  - discord: discordgo gateway and REST adapter
  - middleware: event isolation, HTTP logging, JSON helpers
  - handlers, router: read-only HTTP API
  - cliparse, logger, telemetry: configuration, slog setup, tracing

See package documentation for each component.
*/
package main
