package core

import (
	"context"
	"time"
)

type UsersRepository interface {
	GetOrCreateByName(ctx context.Context, username string) (User, error)
}

type SessionsRepository interface {
	CreateSession(ctx context.Context, s Session) error
	GetSession(ctx context.Context, id string, userID int64) (Session, error)
	ListSessions(ctx context.Context, userID int64) ([]Session, error)

	AddMessage(ctx context.Context, msg Message) (int64, error)
	// RecentMessages returns up to limit messages of a session older than
	// beforeID, oldest first.
	RecentMessages(ctx context.Context, sessionID string, limit int, beforeID int64) ([]Message, error)
	SessionMessages(ctx context.Context, sessionID string) ([]Message, error)
	// UserMessages returns the latest messages across all of the user's
	// sessions, newest first.
	UserMessages(ctx context.Context, userID int64, limit int) ([]Message, error)
	SetAudit(ctx context.Context, messageID int64, audit SafetyAudit) error
}

type FactsRepository interface {
	ListFacts(ctx context.Context, userID int64) ([]UserFact, error)
	// AddFact inserts a fact unless the exact text already exists.
	// Reports whether a row was created.
	AddFact(ctx context.Context, userID int64, fact string) (bool, error)
}

type VocabularyRepository interface {
	// AddWord inserts unless the word already exists for the user
	// (case-insensitive). Reports whether a row was created.
	AddWord(ctx context.Context, item VocabularyItem) (bool, error)
	GetWord(ctx context.Context, id, userID int64) (VocabularyItem, error)
	UpdateWord(ctx context.Context, item VocabularyItem) error
	// Due returns items with next_review_at <= now, ascending.
	Due(ctx context.Context, userID int64, now time.Time) ([]VocabularyItem, error)
	CountDue(ctx context.Context, userID int64, now time.Time) (int, error)
}

type ProgressRepository interface {
	GetOrCreate(ctx context.Context, userID int64) (Progress, error)
	Update(ctx context.Context, p Progress) error
	TopByExperience(ctx context.Context, limit int) ([]RankedProgress, error)
}

// RankedProgress is a leaderboard row before the per-viewer IsMe flag is
// applied.
type RankedProgress struct {
	UserID     int64
	Username   string
	Experience int
	Level      int
}

type ProfilesRepository interface {
	// GetProfile returns the stored profile, or the defaults when the user
	// never saved one.
	GetProfile(ctx context.Context, userID int64) (VoiceProfile, error)
	UpsertProfile(ctx context.Context, p VoiceProfile) error
}

type QuizzesRepository interface {
	CreateQuiz(ctx context.Context, quiz Quiz, questions []QuizQuestion) (int64, error)
	GetQuiz(ctx context.Context, id, userID int64) (Quiz, error)
	ListQuizzes(ctx context.Context, userID int64) ([]Quiz, error)
	Questions(ctx context.Context, quizID int64) ([]QuizQuestion, error)

	CreateAttempt(ctx context.Context, a QuizAttempt) (int64, error)
	AddResponse(ctx context.Context, r QuestionResponse) error
	FinalizeAttempt(ctx context.Context, attemptID int64, score float64) error
	// LastCompletedAttempt returns nil when the quiz has never been
	// completed. Incomplete attempts are invisible here.
	LastCompletedAttempt(ctx context.Context, quizID int64) (*QuizAttempt, error)
	BestScore(ctx context.Context, quizID int64) (*float64, error)
	CompletedAttemptCount(ctx context.Context, quizID int64) (int, error)
	CompletedAttempts(ctx context.Context, userID int64) ([]QuizAttempt, error)
	AttemptResponses(ctx context.Context, attemptID int64) ([]QuestionResponse, error)
	CategoryStats(ctx context.Context, userID int64) ([]CategoryStat, error)
}

type CategoryStat struct {
	Category string
	Total    int
	Correct  int
}

type CorrectionsRepository interface {
	AddCorrection(ctx context.Context, c Correction) error
	RecentCorrections(ctx context.Context, userID int64, limit int) ([]Correction, error)
	AddPronunciationSlip(ctx context.Context, s PronunciationSlip) error
	RecentSlips(ctx context.Context, userID int64, sessionID string, limit int) ([]PronunciationSlip, error)
}

type NotesRepository interface {
	AddNote(ctx context.Context, userID int64, content string) (int64, error)
	ListNotes(ctx context.Context, userID int64) ([]Note, error)
	DeleteNote(ctx context.Context, id, userID int64) error
}
