package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a := newApp(ctx)
		defer a.Close()
		user := a.currentUser(ctx)

		p, err := a.engine.Stats(ctx, user.ID)
		if err != nil {
			return err
		}
		due, err := a.scheduler.DueCount(ctx, user.ID)
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", user.Username)
		fmt.Printf("  level %d, %d XP, streak %d day(s)\n", p.Level, p.Experience, p.Streak)
		fmt.Printf("  %d word(s) due for review\n", due)
		return nil
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Top learners by experience",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a := newApp(ctx)
		defer a.Close()
		user := a.currentUser(ctx)

		entries, err := a.engine.Leaderboard(ctx, user.ID)
		if err != nil {
			return err
		}
		for i, e := range entries {
			marker := "  "
			if e.IsMe {
				marker = "* "
			}
			fmt.Printf("%s%2d. %-20s level %d, %d XP\n", marker, i+1, e.Username, e.Level, e.Experience)
		}
		return nil
	},
}

var mistakesCmd = &cobra.Command{
	Use:   "mistakes",
	Short: "Recent corrections and pronunciation tips",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a := newApp(ctx)
		defer a.Close()
		user := a.currentUser(ctx)

		corrections, err := a.corrections.RecentCorrections(ctx, user.ID, 10)
		if err != nil {
			return err
		}
		if len(corrections) > 0 {
			fmt.Println("grammar:")
			for _, c := range corrections {
				fmt.Printf("  %q -> %q\n", c.Original, c.Corrected)
				if c.Explanation != "" {
					fmt.Printf("    %s\n", c.Explanation)
				}
			}
		}

		slips, err := a.corrections.RecentSlips(ctx, user.ID, "", 10)
		if err != nil {
			return err
		}
		if len(slips) > 0 {
			fmt.Println("pronunciation:")
			for _, s := range slips {
				fmt.Printf("  %q: %s\n", s.Original, s.Tip)
			}
		}
		return nil
	},
}

func writeAudio(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(mistakesCmd)
}
