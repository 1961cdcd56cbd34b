package main

import (
	"context"
	"os"

	"github.com/sandevgo/lingobot/internal/config"
	"github.com/sandevgo/lingobot/pkg/log"
	"github.com/spf13/cobra"
)

var (
	debug    bool
	username string
)

var rootCmd = &cobra.Command{
	Use:   "lingo",
	Short: "LingoBot — a conversational language tutor",
	Long:  `LingoBot is a voice-first language tutor with roleplay scenarios, spaced repetition and personalized quizzes.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&username, "user", "u", "default", "learner profile to act as")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}
