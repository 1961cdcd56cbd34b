package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/lingobot/internal/core"
)

type VocabularyRepo struct {
	db *sql.DB
}

func NewVocabularyRepo(db *sql.DB) *VocabularyRepo {
	return &VocabularyRepo{db: db}
}

func (r *VocabularyRepo) AddWord(ctx context.Context, item core.VocabularyItem) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO vocabulary
		   (user_id, word, translation, example, mastery_level, next_review_at, last_reviewed_at, language_tag)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, word COLLATE NOCASE) DO NOTHING`,
		item.UserID, item.Word, item.Translation, item.Example,
		item.MasteryLevel, item.NextReviewAt, item.LastReviewedAt, item.LanguageTag)
	if err != nil {
		if isDuplicateError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert vocabulary item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *VocabularyRepo) GetWord(ctx context.Context, id, userID int64) (core.VocabularyItem, error) {
	var item core.VocabularyItem
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, word, translation, example, mastery_level, next_review_at, last_reviewed_at, language_tag
		 FROM vocabulary WHERE id = ? AND user_id = ?`,
		id, userID).
		Scan(&item.ID, &item.UserID, &item.Word, &item.Translation, &item.Example,
			&item.MasteryLevel, &item.NextReviewAt, &item.LastReviewedAt, &item.LanguageTag)
	if errors.Is(err, sql.ErrNoRows) {
		return core.VocabularyItem{}, core.ErrNotFound
	}
	if err != nil {
		return core.VocabularyItem{}, fmt.Errorf("failed to query vocabulary item: %w", err)
	}
	return item, nil
}

func (r *VocabularyRepo) UpdateWord(ctx context.Context, item core.VocabularyItem) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE vocabulary
		 SET mastery_level = ?, next_review_at = ?, last_reviewed_at = ?
		 WHERE id = ? AND user_id = ?`,
		item.MasteryLevel, item.NextReviewAt, item.LastReviewedAt, item.ID, item.UserID)
	if err != nil {
		return fmt.Errorf("failed to update vocabulary item: %w", err)
	}
	return nil
}

func (r *VocabularyRepo) Due(ctx context.Context, userID int64, now time.Time) ([]core.VocabularyItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, word, translation, example, mastery_level, next_review_at, last_reviewed_at, language_tag
		 FROM vocabulary WHERE user_id = ? AND next_review_at <= ?
		 ORDER BY next_review_at`,
		userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query due vocabulary: %w", err)
	}
	defer rows.Close()

	var items []core.VocabularyItem
	for rows.Next() {
		var item core.VocabularyItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.Word, &item.Translation, &item.Example,
			&item.MasteryLevel, &item.NextReviewAt, &item.LastReviewedAt, &item.LanguageTag); err != nil {
			return nil, fmt.Errorf("failed to scan vocabulary item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *VocabularyRepo) CountDue(ctx context.Context, userID int64, now time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM vocabulary WHERE user_id = ? AND next_review_at <= ?`,
		userID, now).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count due vocabulary: %w", err)
	}
	return n, nil
}
