package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quote-templater/internal/placeholder"
	"quote-templater/internal/quaily"
	"quote-templater/internal/redisclient"
	"quote-templater/internal/repository"
	"quote-templater/internal/storage"
	"quote-templater/worker"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the outbox dispatchers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		interval, err := time.ParseDuration(cfg.Outbox.Interval)
		if err != nil {
			return fmt.Errorf("invalid outbox.interval: %w", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()
		if _, err := redisclient.Ping(ctx, rdb, 2*time.Second); err != nil {
			return err
		}
		outbox := storage.NewRedisStore(rdb)

		store, err := repository.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		mgr, err := newManager(cfg, store)
		if err != nil {
			return err
		}

		var send worker.SendFunc
		if cli := newQuaily(cfg); cli != nil {
			send = func(ctx context.Context, channel, slug string, msg *placeholder.Template) error {
				return quaily.SendMessage(ctx, cli, channel, slug, msg)
			}
		} else {
			slog.Warn("quaily not configured; messages are only written to disk", "dir", cfg.Outbox.OutputDir)
		}

		var ws []worker.Worker
		for i := 0; i < cfg.Outbox.Workers; i++ {
			ws = append(ws, &worker.Dispatcher{
				Name:           fmt.Sprintf("dispatcher-%d", i+1),
				Outbox:         outbox,
				Templates:      mgr,
				Repo:           store,
				TemplatesDir:   cfg.Templates.Dir,
				OutputDir:      cfg.Outbox.OutputDir,
				Interval:       interval,
				BatchSize:      cfg.Outbox.BatchSize,
				MaxAttempts:    cfg.Outbox.MaxAttempts,
				DefaultChannel: cfg.Quaily.Channel,
				Send:           send,
			})
		}
		slog.Info("starting dispatchers", "workers", len(ws), "interval", interval, "store", cfg.Store.Backend)

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			slog.Info("received signal, shutting down", "signal", s.String())
			cancel()
		}()

		return worker.NewManager(ws...).Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
