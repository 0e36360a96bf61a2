package main

import (
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ongw/whatword/internal/audio"
	"github.com/ongw/whatword/internal/game"
	"github.com/ongw/whatword/internal/tui"
)

func playCmd() *cobra.Command {
	var mute bool
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			closeLog, err := setupLogging(true)
			if err != nil {
				return err
			}
			defer closeLog()

			cat, err := loadCatalog()
			if err != nil {
				log.Error().Err(err).Msg("load categories")
				return err
			}

			var au game.Audio = audio.NewBell(os.Stderr)
			if mute {
				au = audio.Logged{}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			log.Info().Int("categories", cat.Len()).Int("seconds", cfg.Seconds).Msg("starting terminal game")
			return tui.Run(ctx, tui.Options{
				Catalog: cat,
				Seconds: cfg.Seconds,
				Pulse:   cfg.Pulse,
				Audio:   au,
			})
		},
	}
	cmd.Flags().BoolVar(&mute, "mute", false, "do not ring the terminal bell")
	return cmd
}
