package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/lingobot/internal/core"
)

type NotesRepo struct {
	db *sql.DB
}

func NewNotesRepo(db *sql.DB) *NotesRepo {
	return &NotesRepo{db: db}
}

func (r *NotesRepo) AddNote(ctx context.Context, userID int64, content string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO notes (user_id, content) VALUES (?, ?)`, userID, content)
	if err != nil {
		return 0, fmt.Errorf("failed to insert note: %w", err)
	}
	return res.LastInsertId()
}

func (r *NotesRepo) ListNotes(ctx context.Context, userID int64) ([]core.Note, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, content, created_at FROM notes WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []core.Note
	for rows.Next() {
		var n core.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Content, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *NotesRepo) DeleteNote(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM notes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
