package main

import (
	"fmt"
	"strconv"

	"github.com/sandevgo/lingobot/internal/core"
	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Show vocabulary due for review",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a := newApp(ctx)
		defer a.Close()
		user := a.currentUser(ctx)

		due, err := a.scheduler.DueWords(ctx, user.ID)
		if err != nil {
			return err
		}
		if len(due) == 0 {
			fmt.Println("nothing due, come back later")
			return nil
		}
		for _, w := range due {
			fmt.Printf("#%d  %s = %s  (mastery %d)\n", w.ID, w.Word, w.Translation, w.MasteryLevel)
			if w.Example != "" {
				fmt.Printf("     e.g. %s\n", w.Example)
			}
		}
		return nil
	},
}

var gradeCmd = &cobra.Command{
	Use:   "grade [word-id] [easy|good|hard]",
	Short: "Grade a reviewed word",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a := newApp(ctx)
		defer a.Close()
		user := a.currentUser(ctx)

		wordID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid word id %q", args[0])
		}

		item, err := a.scheduler.Review(ctx, user.ID, wordID, core.Grade(args[1]))
		if err != nil {
			return err
		}
		fmt.Printf("%s -> mastery %d, next review %s\n", item.Word, item.MasteryLevel, item.NextReviewAt.Format("2006-01-02 15:04"))
		return nil
	},
}

var sayCmd = &cobra.Command{
	Use:   "say [word]",
	Short: "Pronounce a word in the target voice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a := newApp(ctx)
		defer a.Close()
		user := a.currentUser(ctx)

		audio, err := a.voices.SpeakWord(ctx, user.ID, args[0])
		if err != nil {
			return err
		}
		path := args[0] + ".mp3"
		if err := writeAudio(path, audio); err != nil {
			return err
		}
		fmt.Printf("audio: %s\n", path)
		return nil
	},
}

func init() {
	reviewCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(sayCmd)
}
