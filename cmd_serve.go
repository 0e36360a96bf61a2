package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ongw/whatword/internal/history"
	"github.com/ongw/whatword/internal/httpserver"
	"github.com/ongw/whatword/internal/hub"
	"github.com/ongw/whatword/internal/store"
)

func serveCmd() *cobra.Command {
	var (
		port string
		db   string
		idle time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve games over HTTP and WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("db") {
				cfg.DBPath = db
			}
			closeLog, err := setupLogging(false)
			if err != nil {
				return err
			}
			defer closeLog()

			cat, err := loadCatalog()
			if err != nil {
				log.Error().Err(err).Msg("load categories")
				return err
			}
			hist, err := history.Open(cfg.DBPath)
			if err != nil {
				log.Error().Err(err).Str("db", cfg.DBPath).Msg("open history")
				return err
			}
			defer hist.Close()

			if cfg.JWTSecret == "dev_secret_change_me" {
				log.Warn().Msg("JWT_SECRET is the development default")
			}

			srv := httpserver.New(httpserver.Options{
				Catalog:      cat,
				Store:        store.NewMemoryStore(),
				History:      hist,
				Hub:          hub.New(hub.DefaultConfig()),
				Seconds:      cfg.Seconds,
				Pulse:        cfg.Pulse,
				JWTSecret:    cfg.JWTSecret,
				TokenTTL:     cfg.TokenTTL,
				ClientOrigin: cfg.ClientOrigin,
				DailySalt:    cfg.DailySalt,
				IdleTimeout:  idle,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			log.Info().
				Str("port", cfg.Port).
				Int("categories", cat.Len()).
				Msg("starting whatword server")
			if err := srv.Run(ctx, ":"+cfg.Port); err != nil {
				log.Error().Err(err).Msg("server exited")
				return err
			}
			log.Info().Msg("server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&port, "port", "5175", "listen port")
	cmd.Flags().StringVar(&db, "db", "./data/whatword.db", "SQLite history database")
	cmd.Flags().DurationVar(&idle, "idle", 30*time.Minute, "drop games with no input for this long")
	return cmd
}
