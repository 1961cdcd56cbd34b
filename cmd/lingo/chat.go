package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sandevgo/lingobot/internal/service/conversation"
	"github.com/sandevgo/lingobot/pkg/log"
	"github.com/spf13/cobra"
)

var (
	chatSession    string
	chatScenario   string
	chatLang       string
	chatConfidence float64
	chatAudioOut   string
)

var chatCmd = &cobra.Command{
	Use:   "chat [text]",
	Short: "Send one message to the tutor",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a := newApp(ctx)
		defer a.Close()
		user := a.currentUser(ctx)

		res, err := a.orchestrator.Turn(ctx, conversation.TurnInput{
			UserID:       user.ID,
			SessionID:    chatSession,
			Utterance:    strings.Join(args, " "),
			DetectedLang: chatLang,
			Scenario:     chatScenario,
			Confidence:   chatConfidence,
		})
		if err != nil {
			return err
		}

		fmt.Printf("[%s] %s\n", res.SessionID, res.BotText)
		if res.HasError && res.Correction != "" {
			fmt.Printf("  correction: %s\n", res.Correction)
			if res.Explanation != "" {
				fmt.Printf("  why: %s\n", res.Explanation)
			}
		}
		if res.PronunciationTip != "" {
			fmt.Printf("  pronunciation: %s\n", res.PronunciationTip)
		}
		if !res.Degraded && res.Progress.XPGained > 0 {
			fmt.Printf("  +%d XP (level %d, streak %d)\n", res.Progress.XPGained, res.Progress.Level, res.Progress.Streak)
		}

		if chatAudioOut != "" && len(res.Audio) > 0 {
			if err := os.WriteFile(chatAudioOut, res.Audio, 0o644); err != nil {
				log.FromCtx(ctx).Error().Err(err).Str("path", chatAudioOut).Msg("failed to write audio")
			} else {
				fmt.Printf("  audio: %s (%s)\n", chatAudioOut, res.VoiceCode)
			}
		}
		return nil
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List conversation sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a := newApp(ctx)
		defer a.Close()
		user := a.currentUser(ctx)

		sessions, err := a.orchestrator.Sessions(ctx, user.ID)
		if err != nil {
			return err
		}
		for _, s := range sessions {
			fmt.Printf("%s  %s  %s\n", s.ID, s.CreatedAt.Format("2006-01-02 15:04"), s.Title)
		}
		return nil
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatSession, "session", "", "continue an existing session")
	chatCmd.Flags().StringVar(&chatScenario, "scenario", "general", "roleplay scenario: general, cafe, airport, interview, doctor")
	chatCmd.Flags().StringVar(&chatLang, "lang", "es-ES", "detected input language tag")
	chatCmd.Flags().Float64Var(&chatConfidence, "confidence", 1.0, "speech recognition confidence")
	chatCmd.Flags().StringVar(&chatAudioOut, "audio-out", "", "write reply audio (mp3) to this file")
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(sessionsCmd)
}
