package quiz

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sandevgo/lingobot/internal/core"
	"github.com/sandevgo/lingobot/pkg/log"
)

const (
	// transcriptDepth is how many recent user messages feed generation.
	transcriptDepth = 200
	// minMessages is the floor below which there is nothing to quiz on.
	minMessages   = 5
	questionCount = 8
)

// Dispatcher is the slice of the provider gateway the quiz manager needs.
type Dispatcher interface {
	DispatchQuiz(ctx context.Context, instruction, transcript string) (*core.QuizSheet, error)
}

// Awarder grants quiz XP on completion.
type Awarder interface {
	AwardQuiz(ctx context.Context, userID int64) (core.ProgressDelta, error)
}

// Manager generates personalized quizzes from conversation history and
// runs attempts with a per-user retake cooldown.
type Manager struct {
	quizzes  core.QuizzesRepository
	sessions core.SessionsRepository
	profiles core.ProfilesRepository
	gateway  Dispatcher
	awarder  Awarder
	now      func() time.Time
}

func NewManager(quizzes core.QuizzesRepository, sessions core.SessionsRepository, profiles core.ProfilesRepository, gateway Dispatcher, awarder Awarder) *Manager {
	return &Manager{
		quizzes:  quizzes,
		sessions: sessions,
		profiles: profiles,
		gateway:  gateway,
		awarder:  awarder,
		now:      time.Now,
	}
}

// Generate builds a fresh quiz from the user's recent conversation
// material. It fails when there is not enough history to quiz on.
func (m *Manager) Generate(ctx context.Context, userID int64) (core.Quiz, []core.QuizQuestion, error) {
	msgs, err := m.sessions.UserMessages(ctx, userID, transcriptDepth)
	if err != nil {
		return core.Quiz{}, nil, fmt.Errorf("load history: %w", err)
	}
	if len(msgs) < minMessages {
		return core.Quiz{}, nil, core.Invalidf("need at least %d messages before a quiz, have %d", minMessages, len(msgs))
	}

	profile, err := m.profiles.GetProfile(ctx, userID)
	if err != nil {
		return core.Quiz{}, nil, fmt.Errorf("load profile: %w", err)
	}

	var b strings.Builder
	for i := len(msgs) - 1; i >= 0; i-- {
		b.WriteString("- ")
		b.WriteString(msgs[i].Content)
		b.WriteString("\n")
	}

	instruction := buildInstruction(profile)
	sheet, err := m.gateway.DispatchQuiz(ctx, instruction, b.String())
	if err != nil {
		return core.Quiz{}, nil, fmt.Errorf("generate quiz: %w", err)
	}

	quiz, questions, err := sheetToQuiz(userID, profile.TargetLanguage, sheet)
	if err != nil {
		return core.Quiz{}, nil, err
	}

	quizID, err := m.quizzes.CreateQuiz(ctx, quiz, questions)
	if err != nil {
		return core.Quiz{}, nil, fmt.Errorf("save quiz: %w", err)
	}
	quiz.ID = quizID
	for i := range questions {
		questions[i].QuizID = quizID
	}

	log.FromCtx(ctx).Info().
		Int64("user_id", userID).
		Int64("quiz_id", quizID).
		Int("questions", len(questions)).
		Msg("quiz generated")
	return quiz, questions, nil
}

func buildInstruction(profile core.VoiceProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a %s teacher creating a quiz for a %s-speaking student.\n", profile.TargetLanguage, profile.NativeLanguage)
	fmt.Fprintf(&b, "From the student's own recent phrases below, write exactly %d multiple-choice questions.\n", questionCount)
	b.WriteString("Mix the categories vocabulary, grammar and conjugation. Each question has 4 options and exactly one correct answer.\n")
	fmt.Fprintf(&b, "Write questions in %s and explanations in %s.\n", profile.TargetLanguage, profile.NativeLanguage)
	b.WriteString("Respond ONLY with a JSON object:\n")
	b.WriteString(`{"titulo":"...","preguntas":[{"numero":1,"pregunta":"...","opciones":["...","...","...","..."],"respuesta_correcta":0,"explicacion":"...","categoria":"vocabulary|grammar|conjugation"}]}`)
	return b.String()
}

func sheetToQuiz(userID int64, language string, sheet *core.QuizSheet) (core.Quiz, []core.QuizQuestion, error) {
	title := sheet.Title
	if title == "" {
		title = fmt.Sprintf("%s practice quiz", language)
	}

	questions := make([]core.QuizQuestion, 0, len(sheet.Questions))
	for i, q := range sheet.Questions {
		if len(q.Options) != 4 {
			return core.Quiz{}, nil, fmt.Errorf("%w: question %d has %d options", core.ErrContentParse, i+1, len(q.Options))
		}
		if q.CorrectOption < 0 || q.CorrectOption > 3 {
			return core.Quiz{}, nil, fmt.Errorf("%w: question %d has correct option %d", core.ErrContentParse, i+1, q.CorrectOption)
		}
		qq := core.QuizQuestion{
			Number:        i + 1,
			Question:      q.Question,
			CorrectOption: q.CorrectOption,
			Explanation:   q.Explanation,
			Category:      normalizeCategory(q.Category),
		}
		copy(qq.Options[:], q.Options)
		questions = append(questions, qq)
	}

	quiz := core.Quiz{
		UserID:        userID,
		Title:         title,
		LanguageTag:   language,
		QuestionCount: len(questions),
	}
	return quiz, questions, nil
}

func normalizeCategory(c string) string {
	switch strings.ToLower(strings.TrimSpace(c)) {
	case "vocabulario", core.CategoryVocabulary:
		return core.CategoryVocabulary
	case "gramatica", "gramática", core.CategoryGrammar:
		return core.CategoryGrammar
	case "conjugacion", "conjugación", core.CategoryConjugation:
		return core.CategoryConjugation
	default:
		return core.CategoryVocabulary
	}
}

// CanRetry reports whether the quiz may be attempted now, plus whole
// days left on the cooldown when it may not.
func (m *Manager) CanRetry(ctx context.Context, quizID, userID int64) (bool, int, error) {
	last, err := m.quizzes.LastCompletedAttempt(ctx, quizID)
	if err != nil {
		return false, 0, fmt.Errorf("load attempts: %w", err)
	}
	if last == nil {
		return true, 0, nil
	}

	profile, err := m.profiles.GetProfile(ctx, userID)
	if err != nil {
		return false, 0, fmt.Errorf("load profile: %w", err)
	}

	now := m.now()
	readyAt := last.CreatedAt.AddDate(0, 0, profile.CooldownDays)
	if !now.Before(readyAt) {
		return true, 0, nil
	}

	days := int(readyAt.Sub(now).Hours()/24) + 1
	if days < 0 {
		days = 0
	}
	return false, days, nil
}

// Submit grades an attempt. Answers map question IDs to chosen option
// indices; unanswered questions count as wrong. The cooldown is checked
// before anything is written.
func (m *Manager) Submit(ctx context.Context, quizID, userID int64, answers map[int64]int) (core.QuizAttempt, error) {
	// Ownership check before anything is written.
	if _, err := m.quizzes.GetQuiz(ctx, quizID, userID); err != nil {
		return core.QuizAttempt{}, fmt.Errorf("load quiz: %w", err)
	}

	allowed, days, err := m.CanRetry(ctx, quizID, userID)
	if err != nil {
		return core.QuizAttempt{}, err
	}
	if !allowed {
		return core.QuizAttempt{}, fmt.Errorf("%w: %d days remaining", core.ErrCooldownActive, days)
	}

	questions, err := m.quizzes.Questions(ctx, quizID)
	if err != nil {
		return core.QuizAttempt{}, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		return core.QuizAttempt{}, fmt.Errorf("quiz %d has no questions", quizID)
	}

	attemptID, err := m.quizzes.CreateAttempt(ctx, core.QuizAttempt{QuizID: quizID, UserID: userID})
	if err != nil {
		return core.QuizAttempt{}, fmt.Errorf("create attempt: %w", err)
	}

	correct := 0
	for _, q := range questions {
		chosen, answered := answers[q.ID]
		if !answered {
			chosen = -1
		}
		isCorrect := chosen == q.CorrectOption
		if isCorrect {
			correct++
		}
		if err := m.quizzes.AddResponse(ctx, core.QuestionResponse{
			AttemptID:  attemptID,
			QuestionID: q.ID,
			Chosen:     chosen,
			Correct:    isCorrect,
		}); err != nil {
			return core.QuizAttempt{}, fmt.Errorf("save response: %w", err)
		}
	}

	score := roundScore(float64(correct) / float64(len(questions)) * 100)
	if err := m.quizzes.FinalizeAttempt(ctx, attemptID, score); err != nil {
		return core.QuizAttempt{}, fmt.Errorf("finalize attempt: %w", err)
	}

	if _, err := m.awarder.AwardQuiz(ctx, userID); err != nil {
		// The attempt already stands; losing the XP is worth logging, not
		// failing the submission over.
		log.FromCtx(ctx).Error().Err(err).Int64("user_id", userID).Msg("quiz xp award failed")
	}

	return core.QuizAttempt{
		ID:        attemptID,
		QuizID:    quizID,
		UserID:    userID,
		Score:     score,
		Completed: true,
		CreatedAt: m.now(),
	}, nil
}

// Dashboard summarizes quiz performance per category.
func (m *Manager) Dashboard(ctx context.Context, userID int64) ([]core.CategoryStat, []core.QuizAttempt, error) {
	stats, err := m.quizzes.CategoryStats(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load category stats: %w", err)
	}
	attempts, err := m.quizzes.CompletedAttempts(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load attempts: %w", err)
	}
	return stats, attempts, nil
}

func (m *Manager) List(ctx context.Context, userID int64) ([]core.Quiz, error) {
	return m.quizzes.ListQuizzes(ctx, userID)
}

func (m *Manager) Questions(ctx context.Context, quizID int64) ([]core.QuizQuestion, error) {
	return m.quizzes.Questions(ctx, quizID)
}

// roundScore keeps one decimal place, half away from zero.
func roundScore(v float64) float64 {
	return math.Round(v*10) / 10
}
