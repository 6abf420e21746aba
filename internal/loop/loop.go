// Package loop runs functions on a single owner goroutine, for state
// that has no display server to own it.
package loop

import (
	"context"
	"log/slog"
	"time"

	"github.com/patrick9487/Smart-dashboard/internal/clock"
	"github.com/patrick9487/Smart-dashboard/internal/cq"
	"github.com/patrick9487/Smart-dashboard/internal/poll"
)

type Loop struct {
	queue  *cq.Queue[func() error]
	clock  clock.Clock
	logger *slog.Logger
}

func New(clk clock.Clock, logger *slog.Logger) *Loop {
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		queue:  cq.New[func() error](),
		clock:  clk,
		logger: logger,
	}
}

// Post queues f. It reports false if the loop has stopped.
func (l *Loop) Post(f func()) bool {
	return l.queue.Push(func() error {
		f()
		return nil
	})
}

// Scheduler returns a poll.Scheduler whose callbacks run on the loop.
func (l *Loop) Scheduler() poll.Scheduler {
	return scheduler{l}
}

// Run calls posted functions until ctx is canceled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.queue.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case queue := <-l.queue.Get():
			for _, err := range cq.Flush(queue) {
				l.logger.Warn("event failed", "err", err)
			}
		}
	}
}

type scheduler struct {
	l *Loop
}

func (s scheduler) AfterFunc(d time.Duration, f func()) *clock.Timer {
	return s.l.clock.AfterFunc(d, func() { s.l.Post(f) })
}
