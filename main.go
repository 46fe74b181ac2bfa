// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/pollbot/cliparse"
	"github.com/danielhkuo/pollbot/db"
	"github.com/danielhkuo/pollbot/discord"
	"github.com/danielhkuo/pollbot/logger"
	"github.com/danielhkuo/pollbot/router"
	"github.com/danielhkuo/pollbot/session"
	"github.com/danielhkuo/pollbot/store"
	"github.com/danielhkuo/pollbot/telemetry"
	"github.com/danielhkuo/pollbot/voting"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("pollbot stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine; the environment may be set directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		return err
	}
	slog.SetDefault(logger.New(cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "pollbot", cfg.OtelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}()

	// Connect and migrate
	dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	st := store.New(dbConn, cfg.DatabaseType)
	defer st.Close()
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	engine := voting.NewEngine(st, cfg.VotePolicy)

	dg, err := discord.NewSession(cfg.BotToken)
	if err != nil {
		return err
	}
	ctrl := session.NewController(st, engine, discord.NewPlatform(dg), session.Options{
		HistoryLimit: cfg.HistoryLimit,
	})

	bot := discord.NewBot(dg, ctrl, cfg.GuildID)
	if err := bot.Open(ctx); err != nil {
		return err
	}
	defer bot.Close()
	slog.Info("Bot connected", "vote_policy", engine.Policy(), "guild_id", cfg.GuildID)

	var server *http.Server
	if cfg.Port > 0 {
		server = &http.Server{
			Handler:           router.NewRouter(st),
			Addr:              ":" + strconv.Itoa(cfg.Port),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			slog.Info("Listening", "port", cfg.Port)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("HTTP server failed", "error", err)
				stop()
			}
		}()
	}

	<-ctx.Done()
	slog.Info("Shutting down")

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("HTTP server shutdown", "error", err)
		}
	}
	return nil
}
