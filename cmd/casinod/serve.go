package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rinapen/discord-game-bot/internal/api"
	"github.com/rinapen/discord-game-bot/internal/config"
	"github.com/rinapen/discord-game-bot/internal/ledger"
	"github.com/rinapen/discord-game-bot/internal/logger"
	"github.com/rinapen/discord-game-bot/internal/seeds"
	"github.com/rinapen/discord-game-bot/internal/session"
	"github.com/rinapen/discord-game-bot/internal/store"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the game engine HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			debug, err := cmd.Flags().GetBool("debug")
			if err != nil {
				return err
			}
			return runServe(configPath, debug)
		},
	}
	cmd.Flags().StringP("config", "c", "", "path to config file")
	cmd.Flags().Bool("debug", false, "enable debug logs")
	return cmd
}

func runServe(configPath string, debug bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if debug || cfg.Log.Level == "debug" {
		level = slog.LevelDebug
	}
	logger.Init(&logger.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	})
	log := logger.L()

	sessionCfg, err := cfg.SessionConfig()
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	seedStore := seeds.NewSQLiteStore(db)
	if err := seedStore.Migrate(); err != nil {
		return err
	}
	bank := ledger.NewSQLiteLedger(db)
	if err := bank.Migrate(); err != nil {
		return err
	}

	seedMgr := seeds.NewManager(seedStore)
	machine := session.New(sessionCfg, bank, seedMgr, log, session.LogSink{Logger: log})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go machine.Run(ctx, cfg.Casino.SweepInterval)

	server := api.NewServer(api.Options{
		Machine: machine,
		Seeds:   seedMgr,
		Ledger:  bank,
		Journal: bank,
		DB:      db,
		Logger:  log,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      server.Routes(),
		ReadTimeout:  cfg.Server.RequestTimeout,
		WriteTimeout: cfg.Server.RequestTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Server.ListenAddr, "db", cfg.Database.Path)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
