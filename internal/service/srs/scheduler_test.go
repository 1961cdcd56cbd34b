package srs

import (
	"context"
	"testing"
	"time"

	"github.com/sandevgo/lingobot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVocab struct {
	items map[int64]core.VocabularyItem
}

func newFakeVocab(items ...core.VocabularyItem) *fakeVocab {
	f := &fakeVocab{items: map[int64]core.VocabularyItem{}}
	for _, it := range items {
		f.items[it.ID] = it
	}
	return f
}

func (f *fakeVocab) AddWord(ctx context.Context, item core.VocabularyItem) (bool, error) {
	if _, ok := f.items[item.ID]; ok {
		return false, nil
	}
	f.items[item.ID] = item
	return true, nil
}

func (f *fakeVocab) GetWord(ctx context.Context, id, userID int64) (core.VocabularyItem, error) {
	it, ok := f.items[id]
	if !ok || it.UserID != userID {
		return core.VocabularyItem{}, core.ErrNotFound
	}
	return it, nil
}

func (f *fakeVocab) UpdateWord(ctx context.Context, item core.VocabularyItem) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeVocab) Due(ctx context.Context, userID int64, now time.Time) ([]core.VocabularyItem, error) {
	var due []core.VocabularyItem
	for _, it := range f.items {
		if it.UserID == userID && !it.NextReviewAt.After(now) {
			due = append(due, it)
		}
	}
	return due, nil
}

func (f *fakeVocab) CountDue(ctx context.Context, userID int64, now time.Time) (int, error) {
	due, _ := f.Due(ctx, userID, now)
	return len(due), nil
}

func word(id int64, level int) core.VocabularyItem {
	return core.VocabularyItem{ID: id, UserID: 1, Word: "hola", MasteryLevel: level}
}

func testScheduler(vocab *fakeVocab, now time.Time) *Scheduler {
	s := NewScheduler(vocab)
	s.now = func() time.Time { return now }
	return s
}

func TestReview_Easy(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		level        int
		wantLevel    int
		wantInterval int // days
	}{
		{"level 0 promotes to 1", 0, 1, 3},
		{"level 2 promotes to 3", 2, 3, 14},
		{"level 4 promotes to max", 4, 5, 60},
		{"max level stays capped", 5, 5, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vocab := newFakeVocab(word(7, tt.level))
			s := testScheduler(vocab, now)

			got, err := s.Review(context.Background(), 1, 7, core.GradeEasy)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, got.MasteryLevel)
			assert.Equal(t, now.AddDate(0, 0, tt.wantInterval), got.NextReviewAt)
			assert.Equal(t, now, got.LastReviewedAt)
		})
	}
}

func TestReview_GoodKeepsLevel(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		level        int
		wantInterval int
	}{
		{0, 1},
		{1, 2},
		{3, 7},
		{5, 30},
	}

	for _, tt := range tests {
		vocab := newFakeVocab(word(7, tt.level))
		s := testScheduler(vocab, now)

		got, err := s.Review(context.Background(), 1, 7, core.GradeGood)
		require.NoError(t, err)
		assert.Equal(t, tt.level, got.MasteryLevel)
		assert.Equal(t, now.AddDate(0, 0, tt.wantInterval), got.NextReviewAt)
	}
}

func TestReview_HardDemotesAndRetriesSoon(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	vocab := newFakeVocab(word(7, 3))
	s := testScheduler(vocab, now)

	got, err := s.Review(context.Background(), 1, 7, core.GradeHard)
	require.NoError(t, err)
	assert.Equal(t, 2, got.MasteryLevel)
	assert.Equal(t, now.Add(time.Minute), got.NextReviewAt)

	// A word at the floor cannot demote further.
	vocab = newFakeVocab(word(8, 0))
	s = testScheduler(vocab, now)
	got, err = s.Review(context.Background(), 1, 8, core.GradeHard)
	require.NoError(t, err)
	assert.Equal(t, 0, got.MasteryLevel)
}

func TestReview_UnknownGrade(t *testing.T) {
	vocab := newFakeVocab(word(7, 1))
	s := testScheduler(vocab, time.Now())

	_, err := s.Review(context.Background(), 1, 7, core.Grade("brutal"))
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestReview_WrongUser(t *testing.T) {
	vocab := newFakeVocab(word(7, 1))
	s := testScheduler(vocab, time.Now())

	_, err := s.Review(context.Background(), 99, 7, core.GradeGood)
	require.Error(t, err)
}
