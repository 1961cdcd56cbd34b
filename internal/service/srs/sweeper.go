package srs

import (
	"context"
	"time"

	"github.com/sandevgo/lingobot/internal/core"
	"github.com/sandevgo/lingobot/pkg/log"
)

// Sweeper periodically reports how many words are waiting for review,
// so a long-running deployment surfaces the queue without being asked.
type Sweeper struct {
	scheduler *Scheduler
	users     core.UsersRepository
	username  string
	interval  time.Duration
	stop      chan struct{}
}

func NewSweeper(scheduler *Scheduler, users core.UsersRepository, username string, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{
		scheduler: scheduler,
		users:     users,
		username:  username,
		interval:  interval,
		stop:      make(chan struct{}),
	}
}

func (s *Sweeper) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stop:
			return nil
		case <-ctx.Done():
			logger.Debug().Msg("review sweeper stopped")
			return nil
		}
	}
}

func (s *Sweeper) Shutdown(ctx context.Context) error {
	close(s.stop)
	return nil
}

func (s *Sweeper) sweep(ctx context.Context) {
	logger := log.FromCtx(ctx)

	user, err := s.users.GetOrCreateByName(ctx, s.username)
	if err != nil {
		logger.Error().Err(err).Msg("sweep: failed to load user")
		return
	}

	due, err := s.scheduler.DueCount(ctx, user.ID)
	if err != nil {
		logger.Error().Err(err).Msg("sweep: failed to count due words")
		return
	}
	if due > 0 {
		logger.Info().Int("due", due).Str("user", s.username).Msg("words waiting for review")
	}
}
