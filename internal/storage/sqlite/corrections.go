package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/lingobot/internal/core"
)

type CorrectionsRepo struct {
	db *sql.DB
}

func NewCorrectionsRepo(db *sql.DB) *CorrectionsRepo {
	return &CorrectionsRepo{db: db}
}

func (r *CorrectionsRepo) AddCorrection(ctx context.Context, c core.Correction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO corrections (user_id, message_id, original, corrected, explanation)
		 VALUES (?, ?, ?, ?, ?)`,
		c.UserID, c.MessageID, c.Original, c.Corrected, c.Explanation)
	if err != nil {
		return fmt.Errorf("failed to insert correction: %w", err)
	}
	return nil
}

func (r *CorrectionsRepo) RecentCorrections(ctx context.Context, userID int64, limit int) ([]core.Correction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, message_id, original, corrected, explanation, created_at
		 FROM corrections WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query corrections: %w", err)
	}
	defer rows.Close()

	var corrections []core.Correction
	for rows.Next() {
		var c core.Correction
		if err := rows.Scan(&c.ID, &c.UserID, &c.MessageID, &c.Original, &c.Corrected, &c.Explanation, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan correction: %w", err)
		}
		corrections = append(corrections, c)
	}
	return corrections, rows.Err()
}

func (r *CorrectionsRepo) AddPronunciationSlip(ctx context.Context, s core.PronunciationSlip) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pronunciation_slips (user_id, session_id, original, phonetic_guess, tip, confidence)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.UserID, s.SessionID, s.Original, s.PhoneticGuess, s.Tip, s.Confidence)
	if err != nil {
		return fmt.Errorf("failed to insert pronunciation slip: %w", err)
	}
	return nil
}

func (r *CorrectionsRepo) RecentSlips(ctx context.Context, userID int64, sessionID string, limit int) ([]core.PronunciationSlip, error) {
	query := `SELECT id, user_id, session_id, original, phonetic_guess, tip, confidence, created_at
		 FROM pronunciation_slips WHERE user_id = ?`
	args := []any{userID}
	if sessionID != "" {
		query += ` AND session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pronunciation slips: %w", err)
	}
	defer rows.Close()

	var slips []core.PronunciationSlip
	for rows.Next() {
		var s core.PronunciationSlip
		if err := rows.Scan(&s.ID, &s.UserID, &s.SessionID, &s.Original, &s.PhoneticGuess, &s.Tip, &s.Confidence, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pronunciation slip: %w", err)
		}
		slips = append(slips, s)
	}
	return slips, rows.Err()
}
