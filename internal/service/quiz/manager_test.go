package quiz

import (
	"context"
	"testing"
	"time"

	"github.com/sandevgo/lingobot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuizzes struct {
	quizzes       map[int64]core.Quiz
	questions     map[int64][]core.QuizQuestion
	lastCompleted *core.QuizAttempt
	attempts      []core.QuizAttempt
	responses     []core.QuestionResponse
	finalized     map[int64]float64
	nextID        int64
}

func newFakeQuizzes() *fakeQuizzes {
	return &fakeQuizzes{
		quizzes:   map[int64]core.Quiz{},
		questions: map[int64][]core.QuizQuestion{},
		finalized: map[int64]float64{},
		nextID:    1,
	}
}

func (f *fakeQuizzes) CreateQuiz(ctx context.Context, quiz core.Quiz, questions []core.QuizQuestion) (int64, error) {
	id := f.nextID
	f.nextID++
	quiz.ID = id
	f.quizzes[id] = quiz
	f.questions[id] = questions
	return id, nil
}

func (f *fakeQuizzes) GetQuiz(ctx context.Context, id, userID int64) (core.Quiz, error) {
	q, ok := f.quizzes[id]
	if !ok || q.UserID != userID {
		return core.Quiz{}, core.ErrNotFound
	}
	return q, nil
}

func (f *fakeQuizzes) ListQuizzes(ctx context.Context, userID int64) ([]core.Quiz, error) {
	return nil, nil
}

func (f *fakeQuizzes) Questions(ctx context.Context, quizID int64) ([]core.QuizQuestion, error) {
	return f.questions[quizID], nil
}

func (f *fakeQuizzes) CreateAttempt(ctx context.Context, a core.QuizAttempt) (int64, error) {
	id := f.nextID
	f.nextID++
	a.ID = id
	f.attempts = append(f.attempts, a)
	return id, nil
}

func (f *fakeQuizzes) AddResponse(ctx context.Context, r core.QuestionResponse) error {
	f.responses = append(f.responses, r)
	return nil
}

func (f *fakeQuizzes) FinalizeAttempt(ctx context.Context, attemptID int64, score float64) error {
	f.finalized[attemptID] = score
	return nil
}

func (f *fakeQuizzes) LastCompletedAttempt(ctx context.Context, quizID int64) (*core.QuizAttempt, error) {
	return f.lastCompleted, nil
}

func (f *fakeQuizzes) BestScore(ctx context.Context, quizID int64) (*float64, error) {
	return nil, nil
}

func (f *fakeQuizzes) CompletedAttemptCount(ctx context.Context, quizID int64) (int, error) {
	return 0, nil
}

func (f *fakeQuizzes) CompletedAttempts(ctx context.Context, userID int64) ([]core.QuizAttempt, error) {
	return nil, nil
}

func (f *fakeQuizzes) AttemptResponses(ctx context.Context, attemptID int64) ([]core.QuestionResponse, error) {
	return nil, nil
}

func (f *fakeQuizzes) CategoryStats(ctx context.Context, userID int64) ([]core.CategoryStat, error) {
	return nil, nil
}

type fakeSessions struct {
	core.SessionsRepository
	userMessages []core.Message
}

func (f *fakeSessions) UserMessages(ctx context.Context, userID int64, limit int) ([]core.Message, error) {
	return f.userMessages, nil
}

type fakeProfiles struct{}

func (fakeProfiles) GetProfile(ctx context.Context, userID int64) (core.VoiceProfile, error) {
	return core.DefaultVoiceProfile(userID), nil
}

func (fakeProfiles) UpsertProfile(ctx context.Context, p core.VoiceProfile) error { return nil }

type fakeDispatcher struct {
	sheet *core.QuizSheet
	err   error
}

func (f *fakeDispatcher) DispatchQuiz(ctx context.Context, instruction, transcript string) (*core.QuizSheet, error) {
	return f.sheet, f.err
}

type fakeAwarder struct {
	awarded int
}

func (f *fakeAwarder) AwardQuiz(ctx context.Context, userID int64) (core.ProgressDelta, error) {
	f.awarded++
	return core.ProgressDelta{XPGained: 50}, nil
}

func messages(n int) []core.Message {
	msgs := make([]core.Message, n)
	for i := range msgs {
		msgs[i] = core.Message{Role: core.RoleUser, Content: "message"}
	}
	return msgs
}

func sheetQuestion(correct int) core.SheetQuestion {
	return core.SheetQuestion{
		Question:      "Pick one",
		Options:       []string{"a", "b", "c", "d"},
		CorrectOption: correct,
		Category:      "grammar",
	}
}

func testManager(repo *fakeQuizzes, sessions *fakeSessions, dispatcher *fakeDispatcher, awarder *fakeAwarder, now time.Time) *Manager {
	m := NewManager(repo, sessions, fakeProfiles{}, dispatcher, awarder)
	m.now = func() time.Time { return now }
	return m
}

func TestGenerate_NeedsEnoughHistory(t *testing.T) {
	repo := newFakeQuizzes()
	m := testManager(repo, &fakeSessions{userMessages: messages(4)}, &fakeDispatcher{}, &fakeAwarder{}, time.Now())

	_, _, err := m.Generate(context.Background(), 1)
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestGenerate_SavesSheet(t *testing.T) {
	repo := newFakeQuizzes()
	dispatcher := &fakeDispatcher{sheet: &core.QuizSheet{
		Title:     "English Quiz",
		Questions: []core.SheetQuestion{sheetQuestion(1), sheetQuestion(3)},
	}}
	m := testManager(repo, &fakeSessions{userMessages: messages(10)}, dispatcher, &fakeAwarder{}, time.Now())

	quiz, questions, err := m.Generate(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "English Quiz", quiz.Title)
	assert.Equal(t, 2, quiz.QuestionCount)
	require.Len(t, questions, 2)
	assert.Equal(t, 1, questions[0].Number)
	assert.Equal(t, core.CategoryGrammar, questions[0].Category)
}

func TestGenerate_RejectsMalformedQuestions(t *testing.T) {
	repo := newFakeQuizzes()
	bad := sheetQuestion(1)
	bad.Options = []string{"only", "two"}
	dispatcher := &fakeDispatcher{sheet: &core.QuizSheet{Questions: []core.SheetQuestion{bad}}}
	m := testManager(repo, &fakeSessions{userMessages: messages(10)}, dispatcher, &fakeAwarder{}, time.Now())

	_, _, err := m.Generate(context.Background(), 1)
	require.ErrorIs(t, err, core.ErrContentParse)
	assert.Empty(t, repo.quizzes)
}

func TestCanRetry_NoCompletedAttempt(t *testing.T) {
	repo := newFakeQuizzes()
	m := testManager(repo, &fakeSessions{}, &fakeDispatcher{}, &fakeAwarder{}, time.Now())

	ok, days, err := m.CanRetry(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, days)
}

func TestCanRetry_CooldownWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeQuizzes()
	// Default profile cooldown is 3 days. Completed a day and a half
	// ago, so a day and a half remains and partial days round up.
	repo.lastCompleted = &core.QuizAttempt{CreatedAt: now.Add(-36 * time.Hour), Completed: true}
	m := testManager(repo, &fakeSessions{}, &fakeDispatcher{}, &fakeAwarder{}, now)

	ok, days, err := m.CanRetry(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, days)
}

func TestCanRetry_CooldownExpired(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeQuizzes()
	repo.lastCompleted = &core.QuizAttempt{CreatedAt: now.AddDate(0, 0, -3), Completed: true}
	m := testManager(repo, &fakeSessions{}, &fakeDispatcher{}, &fakeAwarder{}, now)

	ok, days, err := m.CanRetry(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, days)
}

func TestSubmit_ScoresAndAwards(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeQuizzes()
	quizID, err := repo.CreateQuiz(context.Background(), core.Quiz{UserID: 1}, nil)
	require.NoError(t, err)
	repo.questions[quizID] = []core.QuizQuestion{
		{ID: 100, CorrectOption: 1},
		{ID: 101, CorrectOption: 2},
		{ID: 102, CorrectOption: 0},
	}
	awarder := &fakeAwarder{}
	m := testManager(repo, &fakeSessions{}, &fakeDispatcher{}, awarder, now)

	attempt, err := m.Submit(context.Background(), quizID, 1, map[int64]int{
		100: 1, // right
		101: 3, // wrong
		// 102 unanswered, counts wrong
	})
	require.NoError(t, err)
	assert.InDelta(t, 33.3, attempt.Score, 0.001)
	assert.True(t, attempt.Completed)
	assert.Equal(t, 1, awarder.awarded)
	assert.Len(t, repo.responses, 3)
	assert.InDelta(t, 33.3, repo.finalized[attempt.ID], 0.001)
}

func TestSubmit_BlockedByCooldownBeforeAnyWrite(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeQuizzes()
	quizID, err := repo.CreateQuiz(context.Background(), core.Quiz{UserID: 1}, nil)
	require.NoError(t, err)
	repo.lastCompleted = &core.QuizAttempt{CreatedAt: now.Add(-time.Hour), Completed: true}
	m := testManager(repo, &fakeSessions{}, &fakeDispatcher{}, &fakeAwarder{}, now)

	_, err = m.Submit(context.Background(), quizID, 1, nil)
	require.ErrorIs(t, err, core.ErrCooldownActive)
	assert.Empty(t, repo.attempts)
	assert.Empty(t, repo.responses)
}

func TestSubmit_WrongOwner(t *testing.T) {
	repo := newFakeQuizzes()
	quizID, err := repo.CreateQuiz(context.Background(), core.Quiz{UserID: 1}, nil)
	require.NoError(t, err)
	m := testManager(repo, &fakeSessions{}, &fakeDispatcher{}, &fakeAwarder{}, time.Now())

	_, err = m.Submit(context.Background(), quizID, 42, nil)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, core.CategoryVocabulary, normalizeCategory("vocabulario"))
	assert.Equal(t, core.CategoryGrammar, normalizeCategory("Gramática"))
	assert.Equal(t, core.CategoryConjugation, normalizeCategory("conjugacion"))
	assert.Equal(t, core.CategoryVocabulary, normalizeCategory("something else"))
}
