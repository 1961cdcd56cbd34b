package progress

import (
	"context"
	"testing"
	"time"

	"github.com/sandevgo/lingobot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProgress struct {
	rows map[int64]core.Progress
	top  []core.RankedProgress
}

func newFakeProgress() *fakeProgress {
	return &fakeProgress{rows: map[int64]core.Progress{}}
}

func (f *fakeProgress) GetOrCreate(ctx context.Context, userID int64) (core.Progress, error) {
	if p, ok := f.rows[userID]; ok {
		return p, nil
	}
	p := core.Progress{UserID: userID, Level: 1, ShowGamification: true}
	f.rows[userID] = p
	return p, nil
}

func (f *fakeProgress) Update(ctx context.Context, p core.Progress) error {
	f.rows[p.UserID] = p
	return nil
}

func (f *fakeProgress) TopByExperience(ctx context.Context, limit int) ([]core.RankedProgress, error) {
	return f.top, nil
}

func testEngine(repo *fakeProgress, now time.Time) *Engine {
	e := NewEngine(repo)
	e.now = func() time.Time { return now }
	return e
}

func TestAwardTurn_XPAndLevel(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	repo := newFakeProgress()
	repo.rows[1] = core.Progress{UserID: 1, Level: 1, Experience: 95, LastActivity: now.AddDate(0, 0, -1)}

	e := testEngine(repo, now)
	delta, err := e.AwardTurn(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 10, delta.XPGained)
	assert.Equal(t, 105, delta.Experience)
	// 105 XP puts the absolute curve at level 2.
	assert.Equal(t, 2, delta.Level)
	assert.True(t, delta.LeveledUp)
}

func TestAwardTurn_StreakContinuesFromYesterday(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	repo := newFakeProgress()
	repo.rows[1] = core.Progress{UserID: 1, Level: 1, Streak: 4, LastActivity: now.AddDate(0, 0, -1)}

	e := testEngine(repo, now)
	delta, err := e.AwardTurn(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 5, delta.Streak)
	assert.True(t, delta.StreakIncreased)
}

func TestAwardTurn_SameDayIsIdempotentForStreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	repo := newFakeProgress()
	repo.rows[1] = core.Progress{UserID: 1, Level: 1, Streak: 4, LastActivity: now}

	e := testEngine(repo, now.Add(3*time.Hour))
	delta, err := e.AwardTurn(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 4, delta.Streak)
	assert.False(t, delta.StreakIncreased)
}

func TestAwardTurn_GapResetsStreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	repo := newFakeProgress()
	repo.rows[1] = core.Progress{UserID: 1, Level: 1, Streak: 9, LastActivity: now.AddDate(0, 0, -3)}

	e := testEngine(repo, now)
	delta, err := e.AwardTurn(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, delta.Streak)
	assert.False(t, delta.StreakIncreased)
}

func TestAwardTurn_FirstEverActivity(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	repo := newFakeProgress()

	e := testEngine(repo, now)
	delta, err := e.AwardTurn(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, delta.Streak)
	assert.Equal(t, 10, delta.Experience)
}

func TestAwardQuiz_CarryOverCurve(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	repo := newFakeProgress()
	repo.rows[1] = core.Progress{UserID: 1, Level: 1, Experience: 470}

	e := testEngine(repo, now)
	delta, err := e.AwardQuiz(context.Background(), 1)
	require.NoError(t, err)

	// 520 >= 500 threshold: level up and spend the threshold.
	assert.Equal(t, 2, delta.Level)
	assert.Equal(t, 20, delta.Experience)
	assert.True(t, delta.LeveledUp)
}

func TestAwardQuiz_SingleStepOnly(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	repo := newFakeProgress()
	// Far above the threshold: still exactly one level per award.
	repo.rows[1] = core.Progress{UserID: 1, Level: 1, Experience: 1960}

	e := testEngine(repo, now)
	delta, err := e.AwardQuiz(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 2, delta.Level)
	assert.Equal(t, 1510, delta.Experience)
}

func TestAwardQuiz_BelowThreshold(t *testing.T) {
	repo := newFakeProgress()
	repo.rows[1] = core.Progress{UserID: 1, Level: 2, Experience: 100}

	e := testEngine(repo, time.Now())
	delta, err := e.AwardQuiz(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 2, delta.Level)
	assert.Equal(t, 150, delta.Experience)
	assert.False(t, delta.LeveledUp)
}

func TestLeaderboard_FlagsViewer(t *testing.T) {
	repo := newFakeProgress()
	repo.top = []core.RankedProgress{
		{UserID: 2, Username: "ana", Experience: 900, Level: 3},
		{UserID: 1, Username: "luis", Experience: 400, Level: 2},
	}

	e := testEngine(repo, time.Now())
	entries, err := e.Leaderboard(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.False(t, entries[0].IsMe)
	assert.True(t, entries[1].IsMe)
}
