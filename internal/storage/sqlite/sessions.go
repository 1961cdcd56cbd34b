package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sandevgo/lingobot/internal/core"
)

type SessionsRepo struct {
	db *sql.DB
}

func NewSessionsRepo(db *sql.DB) *SessionsRepo {
	return &SessionsRepo{db: db}
}

func (r *SessionsRepo) CreateSession(ctx context.Context, s core.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, title) VALUES (?, ?, ?)`,
		s.ID, s.UserID, s.Title)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (r *SessionsRepo) GetSession(ctx context.Context, id string, userID int64) (core.Session, error) {
	var s core.Session
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, created_at FROM sessions WHERE id = ? AND user_id = ?`,
		id, userID).
		Scan(&s.ID, &s.UserID, &s.Title, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Session{}, core.ErrNotFound
	}
	if err != nil {
		return core.Session{}, fmt.Errorf("failed to query session: %w", err)
	}
	return s, nil
}

func (r *SessionsRepo) ListSessions(ctx context.Context, userID int64) ([]core.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, created_at FROM sessions WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []core.Session
	for rows.Next() {
		var s core.Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *SessionsRepo) AddMessage(ctx context.Context, msg core.Message) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (session_id, role, content) VALUES (?, ?, ?)`,
		msg.SessionID, msg.Role, msg.Content)
	if err != nil {
		return 0, fmt.Errorf("failed to insert message: %w", err)
	}
	return res.LastInsertId()
}

// RecentMessages returns up to limit messages of the session older than
// beforeID, in chronological order. Pass the id of the message just
// written to exclude it from short-term memory.
func (r *SessionsRepo) RecentMessages(ctx context.Context, sessionID string, limit int, beforeID int64) ([]core.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, session_id, role, content, created_at
		 FROM messages WHERE session_id = ? AND id < ?
		 ORDER BY id DESC LIMIT ?`,
		sessionID, beforeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}

	// Rows arrived newest-first; flip back to chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *SessionsRepo) SessionMessages(ctx context.Context, sessionID string) ([]core.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, session_id, role, content, created_at
		 FROM messages WHERE session_id = ? ORDER BY id`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

func (r *SessionsRepo) UserMessages(ctx context.Context, userID int64, limit int) ([]core.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT m.id, m.session_id, m.role, m.content, m.created_at
		 FROM messages m JOIN sessions s ON s.id = m.session_id
		 WHERE s.user_id = ? ORDER BY m.id DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query user messages: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

func (r *SessionsRepo) SetAudit(ctx context.Context, messageID int64, audit core.SafetyAudit) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE messages SET toxic = ?, safety_category = ?, safety_confidence = ? WHERE id = ?`,
		audit.Toxic, audit.Category, audit.Confidence, messageID)
	if err != nil {
		return fmt.Errorf("failed to update message audit: %w", err)
	}
	return nil
}

func scanMessages(rows *sql.Rows) ([]core.Message, error) {
	var messages []core.Message
	for rows.Next() {
		var msg core.Message
		var content sql.NullString
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Content = content.String
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
