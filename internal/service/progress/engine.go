package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/lingobot/internal/core"
	"github.com/sandevgo/lingobot/pkg/log"
)

const (
	turnXP          = 10
	quizXP          = 50
	leaderboardSize = 10

	// XP needed for level N under the absolute curve used by turns.
	turnLevelStep = 100
	// Per-level threshold step under the carry-over curve used by quizzes.
	quizLevelStep = 500
)

// Engine tracks XP, levels and streaks. Conversation turns and quiz
// completions run different leveling curves; both are long-standing and
// users' stored levels depend on them staying as they are.
type Engine struct {
	progress core.ProgressRepository
	now      func() time.Time
}

func NewEngine(progress core.ProgressRepository) *Engine {
	return &Engine{progress: progress, now: time.Now}
}

// AwardTurn grants XP for one conversation turn, maintains the daily
// streak, and recomputes the level from total XP.
func (e *Engine) AwardTurn(ctx context.Context, userID int64) (core.ProgressDelta, error) {
	p, err := e.progress.GetOrCreate(ctx, userID)
	if err != nil {
		return core.ProgressDelta{}, fmt.Errorf("load progress: %w", err)
	}

	p.Experience += turnXP

	delta := core.ProgressDelta{XPGained: turnXP}
	today := dateOf(e.now())
	last := dateOf(p.LastActivity)
	switch {
	case last.Equal(today):
		// Already counted today.
		if p.Streak < 1 {
			p.Streak = 1
		}
	case last.Equal(today.AddDate(0, 0, -1)):
		p.Streak++
		delta.StreakIncreased = true
		p.LastActivity = today
	default:
		p.Streak = 1
		p.LastActivity = today
	}

	level := p.Experience/turnLevelStep + 1
	if level > p.Level {
		p.Level = level
		delta.LeveledUp = true
	}

	if err := e.progress.Update(ctx, p); err != nil {
		return core.ProgressDelta{}, fmt.Errorf("save progress: %w", err)
	}

	delta.Level = p.Level
	delta.Experience = p.Experience
	delta.Streak = p.Streak
	return delta, nil
}

// AwardQuiz grants XP for a completed quiz. The quiz curve spends XP on
// level-up: when the total crosses the current level's threshold, one
// level is gained and the threshold is subtracted. A single award never
// gains more than one level.
func (e *Engine) AwardQuiz(ctx context.Context, userID int64) (core.ProgressDelta, error) {
	p, err := e.progress.GetOrCreate(ctx, userID)
	if err != nil {
		return core.ProgressDelta{}, fmt.Errorf("load progress: %w", err)
	}

	p.Experience += quizXP

	delta := core.ProgressDelta{XPGained: quizXP}
	threshold := p.Level * quizLevelStep
	if p.Experience >= threshold {
		p.Level++
		p.Experience -= threshold
		delta.LeveledUp = true
	}

	if err := e.progress.Update(ctx, p); err != nil {
		return core.ProgressDelta{}, fmt.Errorf("save progress: %w", err)
	}

	log.FromCtx(ctx).Info().
		Int64("user_id", userID).
		Int("level", p.Level).
		Int("experience", p.Experience).
		Bool("level_up", delta.LeveledUp).
		Msg("quiz xp awarded")

	delta.Level = p.Level
	delta.Experience = p.Experience
	delta.Streak = p.Streak
	return delta, nil
}

func (e *Engine) Stats(ctx context.Context, userID int64) (core.Progress, error) {
	return e.progress.GetOrCreate(ctx, userID)
}

// UpdateSettings toggles gamification visibility flags.
func (e *Engine) UpdateSettings(ctx context.Context, userID int64, showGamification, publicOnLeaderboard bool) error {
	p, err := e.progress.GetOrCreate(ctx, userID)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	p.ShowGamification = showGamification
	p.PublicOnLeaderboard = publicOnLeaderboard
	if err := e.progress.Update(ctx, p); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// Leaderboard returns the top public learners by XP, flagging the
// viewer's own row.
func (e *Engine) Leaderboard(ctx context.Context, viewerID int64) ([]core.LeaderboardEntry, error) {
	ranked, err := e.progress.TopByExperience(ctx, leaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}

	entries := make([]core.LeaderboardEntry, 0, len(ranked))
	for _, r := range ranked {
		entries = append(entries, core.LeaderboardEntry{
			Username:   r.Username,
			Experience: r.Experience,
			Level:      r.Level,
			IsMe:       r.UserID == viewerID,
		})
	}
	return entries, nil
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
