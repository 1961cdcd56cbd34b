package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Personalized quizzes from your conversations",
}

var quizNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a quiz from recent conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a := newApp(ctx)
		defer a.Close()
		user := a.currentUser(ctx)

		q, questions, err := a.quizzes.Generate(ctx, user.ID)
		if err != nil {
			return err
		}

		fmt.Printf("quiz #%d: %s\n\n", q.ID, q.Title)
		for _, question := range questions {
			fmt.Printf("%d. %s [%s]\n", question.Number, question.Question, question.Category)
			for i, opt := range question.Options {
				fmt.Printf("   %c) %s\n", 'a'+rune(i), opt)
			}
		}
		fmt.Printf("\nanswer with: lingo quiz submit %d a,b,c,...\n", q.ID)
		return nil
	},
}

var quizListCmd = &cobra.Command{
	Use:   "list",
	Short: "List generated quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a := newApp(ctx)
		defer a.Close()
		user := a.currentUser(ctx)

		quizzes, err := a.quizzes.List(ctx, user.ID)
		if err != nil {
			return err
		}
		for _, q := range quizzes {
			ok, days, err := a.quizzes.CanRetry(ctx, q.ID, user.ID)
			if err != nil {
				return err
			}
			status := "ready"
			if !ok {
				status = fmt.Sprintf("locked, %d day(s) left", days)
			}
			fmt.Printf("#%d  %s  (%d questions, %s)\n", q.ID, q.Title, q.QuestionCount, status)
		}
		return nil
	},
}

var quizSubmitCmd = &cobra.Command{
	Use:   "submit [quiz-id] [answers]",
	Short: "Submit answers as a comma-separated list, e.g. a,c,b,d,a,a,b,c",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a := newApp(ctx)
		defer a.Close()
		user := a.currentUser(ctx)

		quizID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid quiz id %q", args[0])
		}

		questions, err := a.quizzes.Questions(ctx, quizID)
		if err != nil {
			return err
		}

		letters := strings.Split(args[1], ",")
		answers := make(map[int64]int, len(letters))
		for i, letter := range letters {
			if i >= len(questions) {
				break
			}
			letter = strings.ToLower(strings.TrimSpace(letter))
			if len(letter) != 1 || letter[0] < 'a' || letter[0] > 'd' {
				return fmt.Errorf("answer %d must be a-d, got %q", i+1, letter)
			}
			answers[questions[i].ID] = int(letter[0] - 'a')
		}

		attempt, err := a.quizzes.Submit(ctx, quizID, user.ID, answers)
		if err != nil {
			return err
		}
		fmt.Printf("score: %.1f%%\n", attempt.Score)

		for _, q := range questions {
			if chosen, ok := answers[q.ID]; !ok || chosen != q.CorrectOption {
				fmt.Printf("  %d. %s\n     correct: %s — %s\n", q.Number, q.Question, q.Options[q.CorrectOption], q.Explanation)
			}
		}
		return nil
	},
}

var quizStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Quiz performance by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a := newApp(ctx)
		defer a.Close()
		user := a.currentUser(ctx)

		stats, attempts, err := a.quizzes.Dashboard(ctx, user.ID)
		if err != nil {
			return err
		}

		for _, s := range stats {
			pct := 0.0
			if s.Total > 0 {
				pct = float64(s.Correct) / float64(s.Total) * 100
			}
			fmt.Printf("%-12s %d/%d (%.0f%%)\n", s.Category, s.Correct, s.Total, pct)
		}
		fmt.Printf("\ncompleted attempts: %d\n", len(attempts))
		return nil
	},
}

func init() {
	quizCmd.AddCommand(quizNewCmd, quizListCmd, quizSubmitCmd, quizStatsCmd)
	rootCmd.AddCommand(quizCmd)
}
