package main

import (
	"fmt"
	"strings"

	"github.com/sandevgo/lingobot/internal/service/voice"
	"github.com/spf13/cobra"
)

var (
	setTargetVoice  string
	setNativeVoice  string
	setRate         float64
	setNativeLang   string
	setTargetLang   string
	setCooldownDays int
	setShowGame     bool
	setPublicBoard  bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show current voice and gamification settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a := newApp(ctx)
		defer a.Close()
		user := a.currentUser(ctx)

		p, err := a.voices.Profile(ctx, user.ID)
		if err != nil {
			return err
		}
		fmt.Printf("learning %s (native %s)\n", p.TargetLanguage, p.NativeLanguage)
		fmt.Printf("  target voice: %s\n", p.TargetVoice)
		fmt.Printf("  native voice: %s\n", p.NativeVoice)
		fmt.Printf("  speaking rate: %.2f\n", p.SpeakingRate)
		fmt.Printf("  quiz cooldown: %d day(s)\n", p.CooldownDays)

		primary, alts := voice.RecognitionHints(p)
		fmt.Printf("  recognition: %s", primary)
		if len(alts) > 0 {
			fmt.Printf(" (alternatives: %s)", strings.Join(alts, ", "))
		}
		fmt.Println()
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update voice and gamification settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a := newApp(ctx)
		defer a.Close()
		user := a.currentUser(ctx)

		p, err := a.voices.Profile(ctx, user.ID)
		if err != nil {
			return err
		}
		p.UserID = user.ID

		if cmd.Flags().Changed("target-voice") {
			p.TargetVoice = setTargetVoice
		}
		if cmd.Flags().Changed("native-voice") {
			p.NativeVoice = setNativeVoice
		}
		if cmd.Flags().Changed("rate") {
			p.SpeakingRate = setRate
		}
		if cmd.Flags().Changed("native-lang") {
			p.NativeLanguage = setNativeLang
		}
		if cmd.Flags().Changed("target-lang") {
			p.TargetLanguage = setTargetLang
		}
		if cmd.Flags().Changed("cooldown") {
			p.CooldownDays = setCooldownDays
		}

		if err := a.voices.UpdateSettings(ctx, p); err != nil {
			return err
		}

		if cmd.Flags().Changed("show-gamification") || cmd.Flags().Changed("public-leaderboard") {
			current, err := a.engine.Stats(ctx, user.ID)
			if err != nil {
				return err
			}
			show := current.ShowGamification
			public := current.PublicOnLeaderboard
			if cmd.Flags().Changed("show-gamification") {
				show = setShowGame
			}
			if cmd.Flags().Changed("public-leaderboard") {
				public = setPublicBoard
			}
			if err := a.engine.UpdateSettings(ctx, user.ID, show, public); err != nil {
				return err
			}
		}

		fmt.Println("settings saved")
		return nil
	},
}

var settingsPreviewCmd = &cobra.Command{
	Use:   "preview [voice-code]",
	Short: "Synthesize a short sample with a voice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a := newApp(ctx)
		defer a.Close()
		user := a.currentUser(ctx)

		audio, err := a.voices.Preview(ctx, user.ID, args[0], "")
		if err != nil {
			return err
		}
		path := "preview.mp3"
		if err := writeAudio(path, audio); err != nil {
			return err
		}
		fmt.Printf("audio: %s\n", path)
		return nil
	},
}

func init() {
	settingsSetCmd.Flags().StringVar(&setTargetVoice, "target-voice", "", "TTS voice for the language you learn")
	settingsSetCmd.Flags().StringVar(&setNativeVoice, "native-voice", "", "TTS voice for your native language")
	settingsSetCmd.Flags().Float64Var(&setRate, "rate", 1.0, "speaking rate, 0.5 to 1.5")
	settingsSetCmd.Flags().StringVar(&setNativeLang, "native-lang", "", "your native language, e.g. Spanish")
	settingsSetCmd.Flags().StringVar(&setTargetLang, "target-lang", "", "language you are learning, e.g. English")
	settingsSetCmd.Flags().IntVar(&setCooldownDays, "cooldown", 3, "quiz retake cooldown in days, 1 to 30")
	settingsSetCmd.Flags().BoolVar(&setShowGame, "show-gamification", true, "show XP and streaks")
	settingsSetCmd.Flags().BoolVar(&setPublicBoard, "public-leaderboard", false, "appear on the public leaderboard")

	settingsCmd.AddCommand(settingsSetCmd, settingsPreviewCmd)
	rootCmd.AddCommand(settingsCmd)
}
