package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sandevgo/lingobot/internal/core"
)

type FactsRepo struct {
	db *sql.DB
}

func NewFactsRepo(db *sql.DB) *FactsRepo {
	return &FactsRepo{db: db}
}

func (r *FactsRepo) ListFacts(ctx context.Context, userID int64) ([]core.UserFact, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, fact, created_at FROM user_facts WHERE user_id = ? ORDER BY id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query facts: %w", err)
	}
	defer rows.Close()

	var facts []core.UserFact
	for rows.Next() {
		var f core.UserFact
		if err := rows.Scan(&f.ID, &f.UserID, &f.Fact, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fact: %w", err)
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

func (r *FactsRepo) AddFact(ctx context.Context, userID int64, fact string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO user_facts (user_id, fact) VALUES (?, ?)
		 ON CONFLICT (user_id, fact) DO NOTHING`,
		userID, fact)
	if err != nil {
		if isDuplicateError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert fact: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "constraint failed")
}
