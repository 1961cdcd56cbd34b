package srs

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/lingobot/internal/core"
	"github.com/sandevgo/lingobot/pkg/log"
)

// Interval tables in days, indexed by mastery level. The easy table is
// indexed by the level AFTER promotion, the good table by the current
// level.
var (
	easyIntervals = [6]int{1, 3, 7, 14, 30, 60}
	goodIntervals = [6]int{1, 2, 4, 7, 15, 30}
)

// hardRetryDelay puts a failed word back at the front of the queue
// almost immediately.
const hardRetryDelay = time.Minute

// Scheduler drives spaced repetition over the vocabulary deck.
type Scheduler struct {
	vocab core.VocabularyRepository
	now   func() time.Time
}

func NewScheduler(vocab core.VocabularyRepository) *Scheduler {
	return &Scheduler{vocab: vocab, now: time.Now}
}

// DueWords returns the review queue, most overdue first.
func (s *Scheduler) DueWords(ctx context.Context, userID int64) ([]core.VocabularyItem, error) {
	return s.vocab.Due(ctx, userID, s.now())
}

func (s *Scheduler) DueCount(ctx context.Context, userID int64) (int, error) {
	return s.vocab.CountDue(ctx, userID, s.now())
}

// Review applies a grade to one word and reschedules it. Easy promotes
// and spaces out, good keeps the level and spaces moderately, hard
// demotes and retries within a minute.
func (s *Scheduler) Review(ctx context.Context, userID, wordID int64, grade core.Grade) (core.VocabularyItem, error) {
	item, err := s.vocab.GetWord(ctx, wordID, userID)
	if err != nil {
		return core.VocabularyItem{}, fmt.Errorf("load word: %w", err)
	}

	now := s.now()
	switch grade {
	case core.GradeEasy:
		if item.MasteryLevel < core.MaxMasteryLevel {
			item.MasteryLevel++
		}
		item.NextReviewAt = now.AddDate(0, 0, easyIntervals[item.MasteryLevel])
	case core.GradeGood:
		item.NextReviewAt = now.AddDate(0, 0, goodIntervals[item.MasteryLevel])
	case core.GradeHard:
		if item.MasteryLevel > 0 {
			item.MasteryLevel--
		}
		item.NextReviewAt = now.Add(hardRetryDelay)
	default:
		return core.VocabularyItem{}, core.Invalidf("unknown grade %q", grade)
	}
	item.LastReviewedAt = now

	if err := s.vocab.UpdateWord(ctx, item); err != nil {
		return core.VocabularyItem{}, fmt.Errorf("save review: %w", err)
	}

	log.FromCtx(ctx).Debug().
		Int64("word_id", item.ID).
		Str("grade", string(grade)).
		Int("mastery", item.MasteryLevel).
		Time("next_review", item.NextReviewAt).
		Msg("word reviewed")
	return item, nil
}
