// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/danielhkuo/pollbot/db"
	"github.com/danielhkuo/pollbot/models"
)

type Config struct {
	Port         int               `env:"PORT" envDefault:"3318"`
	DatabaseURL  string            `env:"DATABASE_URL"`
	DatabaseType string            `env:"DATABASE_TYPE" envDefault:"sqlite"`
	BotToken     string            `env:"BOT_TOKEN"`
	GuildID      string            `env:"GUILD_ID"`
	VotePolicy   models.VotePolicy `env:"VOTE_POLICY" envDefault:"toggle"`
	HistoryLimit int               `env:"HISTORY_LIMIT" envDefault:"100"`
	Env          string            `env:"APP_ENV" envDefault:"local"`
	OtelEndpoint string            `env:"OTEL_ENDPOINT"`
}

// ParseFlags reads the environment, then lets CLI flags override it.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid environment: %w", err)
	}

	fs := flag.NewFlagSet("pollbot", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", cfg.Port, "HTTP port (0 disables the HTTP server)")
	fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", cfg.DatabaseType, "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.BotToken, "token", cfg.BotToken, "Bot token (prefer env)")

	fs.StringVar(&cfg.GuildID, "guild", cfg.GuildID, "Register commands in this server only")
	policy := fs.String("policy", string(cfg.VotePolicy), "Vote policy (toggle or warn)")
	fs.IntVar(&cfg.HistoryLimit, "history", cfg.HistoryLimit, "Messages scanned per channel on startup")
	fs.StringVar(&cfg.Env, "env", cfg.Env, "Environment (local, dev, prod)")
	fs.StringVar(&cfg.OtelEndpoint, "otel", cfg.OtelEndpoint, "OTLP/HTTP trace endpoint")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.VotePolicy = models.VotePolicy(*policy)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if c.DatabaseType != db.TypeSQLite && c.DatabaseType != db.TypePostgres {
		return fmt.Errorf("unsupported database type %q", c.DatabaseType)
	}
	if c.BotToken == "" {
		return errors.New("BOT_TOKEN required")
	}
	if !c.VotePolicy.Valid() {
		return fmt.Errorf("unknown vote policy %q (use toggle or warn)", c.VotePolicy)
	}
	if c.Port < 0 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("history limit must be positive, got %d", c.HistoryLimit)
	}
	return nil
}
