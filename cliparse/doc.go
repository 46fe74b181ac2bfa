// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

The environment is decoded first with caarlos0/env, then CLI flags are parsed
with the environment values as their defaults. main loads a .env file with
godotenv before calling ParseFlags.

# Settings

	Env var         Flag       Default   Meaning
	BOT_TOKEN       -token               Bot token (required)
	DATABASE_URL    -d                   Database URL or SQLite path (required)
	DATABASE_TYPE   -t         sqlite    sqlite or postgres
	GUILD_ID        -guild               Register commands in one server only
	VOTE_POLICY     -policy    toggle    toggle or warn
	HISTORY_LIMIT   -history   100       Messages scanned per channel on startup
	PORT            -p         3318      HTTP port; 0 disables the HTTP server
	APP_ENV         -env       local     local selects the pretty log handler
	OTEL_ENDPOINT   -otel                OTLP/HTTP traces; empty disables tracing

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL or BOT_TOKEN is missing
  - DATABASE_TYPE is not sqlite or postgres
  - VOTE_POLICY is not toggle or warn
  - PORT is negative or HISTORY_LIMIT is not positive
*/
package cliparse
