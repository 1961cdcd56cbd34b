package main

import (
	"os"
	"os/signal"
	"time"

	"github.com/sandevgo/lingobot/internal/service/srs"
	"github.com/sandevgo/lingobot/pkg/log"
	"github.com/sandevgo/lingobot/pkg/srv"
	"github.com/spf13/cobra"
)

var sweepInterval time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run background services",
	Long:  `Keeps LingoBot running with the review sweeper, which periodically reports vocabulary waiting for review.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting lingobot")

		a := newApp(ctx)

		services := []srv.Service{
			srv.NewCleanup(a.Close),
			srs.NewSweeper(a.scheduler, a.users, username, sweepInterval),
		}

		srv.StartServices(ctx, services)
		srv.ShutdownServices(ctx, services)
		logger.Info().Msg("lingobot has been shut down gracefully")
		return nil
	},
}

func init() {
	serveCmd.Flags().DurationVar(&sweepInterval, "sweep-interval", time.Hour, "how often to check for due reviews")
	rootCmd.AddCommand(serveCmd)
}
