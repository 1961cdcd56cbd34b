package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/lingobot/internal/core"
)

type ProgressRepo struct {
	db *sql.DB
}

func NewProgressRepo(db *sql.DB) *ProgressRepo {
	return &ProgressRepo{db: db}
}

func (r *ProgressRepo) GetOrCreate(ctx context.Context, userID int64) (core.Progress, error) {
	p, err := r.get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return core.Progress{}, fmt.Errorf("failed to query progress: %w", err)
	}

	p = core.Progress{
		UserID:              userID,
		Level:               1,
		LastActivity:        time.Now().UTC().Truncate(24 * time.Hour),
		ShowGamification:    true,
		PublicOnLeaderboard: true,
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO progress (user_id, level, experience, streak, last_activity, show_gamification, public_on_leaderboard)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id) DO NOTHING`,
		p.UserID, p.Level, p.Experience, p.Streak, p.LastActivity, p.ShowGamification, p.PublicOnLeaderboard)
	if err != nil {
		return core.Progress{}, fmt.Errorf("failed to insert progress: %w", err)
	}

	// Re-read in case a concurrent turn created the row first.
	p, err = r.get(ctx, userID)
	if err != nil {
		return core.Progress{}, fmt.Errorf("failed to re-read progress: %w", err)
	}
	return p, nil
}

func (r *ProgressRepo) get(ctx context.Context, userID int64) (core.Progress, error) {
	var p core.Progress
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, level, experience, streak, last_activity, show_gamification, public_on_leaderboard
		 FROM progress WHERE user_id = ?`, userID).
		Scan(&p.UserID, &p.Level, &p.Experience, &p.Streak, &p.LastActivity,
			&p.ShowGamification, &p.PublicOnLeaderboard)
	return p, err
}

func (r *ProgressRepo) Update(ctx context.Context, p core.Progress) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE progress
		 SET level = ?, experience = ?, streak = ?, last_activity = ?, show_gamification = ?, public_on_leaderboard = ?
		 WHERE user_id = ?`,
		p.Level, p.Experience, p.Streak, p.LastActivity, p.ShowGamification, p.PublicOnLeaderboard, p.UserID)
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}
	return nil
}

func (r *ProgressRepo) TopByExperience(ctx context.Context, limit int) ([]core.RankedProgress, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.user_id, u.username, p.experience, p.level
		 FROM progress p JOIN users u ON u.id = p.user_id
		 WHERE p.public_on_leaderboard = 1
		 ORDER BY p.experience DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var ranked []core.RankedProgress
	for rows.Next() {
		var rp core.RankedProgress
		if err := rows.Scan(&rp.UserID, &rp.Username, &rp.Experience, &rp.Level); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		ranked = append(ranked, rp)
	}
	return ranked, rows.Err()
}
