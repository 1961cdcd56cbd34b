package core

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

const (
	DefaultScenario     = "general"
	DefaultCooldownDays = 3
	MaxMasteryLevel     = 5
)

type User struct {
	ID        int64
	Username  string
	CreatedAt time.Time
}

// Session is one conversation thread. Messages are append-only.
type Session struct {
	ID        string
	UserID    int64
	Title     string
	CreatedAt time.Time
}

type Message struct {
	ID        int64
	SessionID string
	Role      string
	Content   string
	CreatedAt time.Time
	Audit     *SafetyAudit
}

// SafetyAudit is attached to the user message after the provider call.
type SafetyAudit struct {
	Toxic      bool
	Category   string
	Confidence float64
}

// UserFact is a durable long-term memory item, deduplicated by exact text.
type UserFact struct {
	ID        int64
	UserID    int64
	Fact      string
	CreatedAt time.Time
}

type VocabularyItem struct {
	ID             int64
	UserID         int64
	Word           string
	Translation    string
	Example        string
	MasteryLevel   int
	NextReviewAt   time.Time
	LastReviewedAt time.Time
	LanguageTag    string
}

type Grade string

const (
	GradeEasy Grade = "easy"
	GradeGood Grade = "good"
	GradeHard Grade = "hard"
)

type Progress struct {
	UserID              int64
	Level               int
	Experience          int
	Streak              int
	LastActivity        time.Time // date granularity
	ShowGamification    bool
	PublicOnLeaderboard bool
}

// ProgressDelta reports what a single award changed.
type ProgressDelta struct {
	XPGained        int
	LeveledUp       bool
	StreakIncreased bool
	Level           int
	Experience      int
	Streak          int
}

type VoiceProfile struct {
	UserID         int64
	TargetVoice    string
	NativeVoice    string
	SpeakingRate   float64
	NativeLanguage string
	TargetLanguage string
	CooldownDays   int
}

// DefaultVoiceProfile mirrors the defaults applied when a user has never
// saved settings.
func DefaultVoiceProfile(userID int64) VoiceProfile {
	return VoiceProfile{
		UserID:         userID,
		TargetVoice:    "en-US-Studio-O",
		NativeVoice:    "es-ES-Neural2-B",
		SpeakingRate:   1.0,
		NativeLanguage: "Spanish",
		TargetLanguage: "English",
		CooldownDays:   DefaultCooldownDays,
	}
}

const (
	CategoryVocabulary  = "vocabulary"
	CategoryGrammar     = "grammar"
	CategoryConjugation = "conjugation"
)

type Quiz struct {
	ID            int64
	UserID        int64
	Title         string
	LanguageTag   string
	QuestionCount int
	CreatedAt     time.Time
}

type QuizQuestion struct {
	ID            int64
	QuizID        int64
	Number        int
	Question      string
	Options       [4]string
	CorrectOption int // 0..3
	Explanation   string
	Category      string
}

type QuizAttempt struct {
	ID        int64
	QuizID    int64
	UserID    int64
	Score     float64 // 0..100
	Completed bool
	CreatedAt time.Time
}

type QuestionResponse struct {
	ID         int64
	AttemptID  int64
	QuestionID int64
	Chosen     int
	Correct    bool
}

// Correction records a grammar slip the tutor pointed out, linked to the
// assistant message that carried the correction.
type Correction struct {
	ID          int64
	UserID      int64
	MessageID   int64
	Original    string
	Corrected   string
	Explanation string
	CreatedAt   time.Time
}

type PronunciationSlip struct {
	ID            int64
	UserID        int64
	SessionID     string
	Original      string
	PhoneticGuess string
	Tip           string
	Confidence    float64
	CreatedAt     time.Time
}

type Note struct {
	ID        int64
	UserID    int64
	Content   string
	CreatedAt time.Time
}

type LeaderboardEntry struct {
	Username   string
	Experience int
	Level      int
	IsMe       bool
}
