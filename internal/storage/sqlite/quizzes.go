package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sandevgo/lingobot/internal/core"
)

type QuizzesRepo struct {
	db *sql.DB
}

func NewQuizzesRepo(db *sql.DB) *QuizzesRepo {
	return &QuizzesRepo{db: db}
}

func (r *QuizzesRepo) CreateQuiz(ctx context.Context, quiz core.Quiz, questions []core.QuizQuestion) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO quizzes (user_id, title, language_tag, question_count) VALUES (?, ?, ?, ?)`,
		quiz.UserID, quiz.Title, quiz.LanguageTag, len(questions))
	if err != nil {
		return 0, fmt.Errorf("failed to insert quiz: %w", err)
	}
	quizID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, q := range questions {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO quiz_questions
			   (quiz_id, number, question, option_a, option_b, option_c, option_d, correct_option, explanation, category)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			quizID, q.Number, q.Question,
			q.Options[0], q.Options[1], q.Options[2], q.Options[3],
			q.CorrectOption, q.Explanation, q.Category)
		if err != nil {
			return 0, fmt.Errorf("failed to insert question %d: %w", q.Number, err)
		}
	}

	return quizID, tx.Commit()
}

func (r *QuizzesRepo) GetQuiz(ctx context.Context, id, userID int64) (core.Quiz, error) {
	var q core.Quiz
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, language_tag, question_count, created_at
		 FROM quizzes WHERE id = ? AND user_id = ?`, id, userID).
		Scan(&q.ID, &q.UserID, &q.Title, &q.LanguageTag, &q.QuestionCount, &q.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Quiz{}, core.ErrNotFound
	}
	if err != nil {
		return core.Quiz{}, fmt.Errorf("failed to query quiz: %w", err)
	}
	return q, nil
}

func (r *QuizzesRepo) ListQuizzes(ctx context.Context, userID int64) ([]core.Quiz, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, language_tag, question_count, created_at
		 FROM quizzes WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []core.Quiz
	for rows.Next() {
		var q core.Quiz
		if err := rows.Scan(&q.ID, &q.UserID, &q.Title, &q.LanguageTag, &q.QuestionCount, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

func (r *QuizzesRepo) Questions(ctx context.Context, quizID int64) ([]core.QuizQuestion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, quiz_id, number, question, option_a, option_b, option_c, option_d, correct_option, explanation, category
		 FROM quiz_questions WHERE quiz_id = ? ORDER BY number`, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []core.QuizQuestion
	for rows.Next() {
		var q core.QuizQuestion
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Number, &q.Question,
			&q.Options[0], &q.Options[1], &q.Options[2], &q.Options[3],
			&q.CorrectOption, &q.Explanation, &q.Category); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *QuizzesRepo) CreateAttempt(ctx context.Context, a core.QuizAttempt) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO quiz_attempts (quiz_id, user_id, score, completed) VALUES (?, ?, 0, 0)`,
		a.QuizID, a.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert attempt: %w", err)
	}
	return res.LastInsertId()
}

func (r *QuizzesRepo) AddResponse(ctx context.Context, resp core.QuestionResponse) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO question_responses (attempt_id, question_id, chosen, correct) VALUES (?, ?, ?, ?)`,
		resp.AttemptID, resp.QuestionID, resp.Chosen, resp.Correct)
	if err != nil {
		return fmt.Errorf("failed to insert response: %w", err)
	}
	return nil
}

func (r *QuizzesRepo) FinalizeAttempt(ctx context.Context, attemptID int64, score float64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE quiz_attempts SET score = ?, completed = 1 WHERE id = ? AND completed = 0`,
		score, attemptID)
	if err != nil {
		return fmt.Errorf("failed to finalize attempt: %w", err)
	}
	return nil
}

func (r *QuizzesRepo) LastCompletedAttempt(ctx context.Context, quizID int64) (*core.QuizAttempt, error) {
	var a core.QuizAttempt
	err := r.db.QueryRowContext(ctx,
		`SELECT id, quiz_id, user_id, score, completed, created_at
		 FROM quiz_attempts WHERE quiz_id = ? AND completed = 1
		 ORDER BY created_at DESC LIMIT 1`, quizID).
		Scan(&a.ID, &a.QuizID, &a.UserID, &a.Score, &a.Completed, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last attempt: %w", err)
	}
	return &a, nil
}

func (r *QuizzesRepo) BestScore(ctx context.Context, quizID int64) (*float64, error) {
	var best sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(score) FROM quiz_attempts WHERE quiz_id = ? AND completed = 1`, quizID).
		Scan(&best)
	if err != nil {
		return nil, fmt.Errorf("failed to query best score: %w", err)
	}
	if !best.Valid {
		return nil, nil
	}
	return &best.Float64, nil
}

func (r *QuizzesRepo) CompletedAttemptCount(ctx context.Context, quizID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM quiz_attempts WHERE quiz_id = ? AND completed = 1`, quizID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count attempts: %w", err)
	}
	return n, nil
}

func (r *QuizzesRepo) CompletedAttempts(ctx context.Context, userID int64) ([]core.QuizAttempt, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, quiz_id, user_id, score, completed, created_at
		 FROM quiz_attempts WHERE user_id = ? AND completed = 1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []core.QuizAttempt
	for rows.Next() {
		var a core.QuizAttempt
		if err := rows.Scan(&a.ID, &a.QuizID, &a.UserID, &a.Score, &a.Completed, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

func (r *QuizzesRepo) AttemptResponses(ctx context.Context, attemptID int64) ([]core.QuestionResponse, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, attempt_id, question_id, chosen, correct
		 FROM question_responses WHERE attempt_id = ? ORDER BY id`, attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()

	var responses []core.QuestionResponse
	for rows.Next() {
		var resp core.QuestionResponse
		if err := rows.Scan(&resp.ID, &resp.AttemptID, &resp.QuestionID, &resp.Chosen, &resp.Correct); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

func (r *QuizzesRepo) CategoryStats(ctx context.Context, userID int64) ([]core.CategoryStat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT q.category, COUNT(*), SUM(resp.correct)
		 FROM question_responses resp
		 JOIN quiz_attempts a ON a.id = resp.attempt_id
		 JOIN quiz_questions q ON q.id = resp.question_id
		 WHERE a.user_id = ? AND a.completed = 1
		 GROUP BY q.category`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query category stats: %w", err)
	}
	defer rows.Close()

	var stats []core.CategoryStat
	for rows.Next() {
		var s core.CategoryStat
		if err := rows.Scan(&s.Category, &s.Total, &s.Correct); err != nil {
			return nil, fmt.Errorf("failed to scan category stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
