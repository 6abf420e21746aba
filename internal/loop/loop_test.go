package loop

import (
	"context"
	"testing"
	"time"

	"github.com/patrick9487/Smart-dashboard/internal/clock"
)

func TestSchedulerRunsOnLoop(t *testing.T) {
	clk := clock.Fake(time.Unix(0, 0))
	l := New(clk, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	fired := make(chan int, 2)
	l.Post(func() { fired <- 1 })
	l.Scheduler().AfterFunc(time.Second, func() { fired <- 2 })
	clk.Advance(time.Second)

	for _, want := range []int{1, 2} {
		select {
		case got := <-fired:
			if got != want {
				t.Fatalf("fired %v, want %v", got, want)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timed out")
		}
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Fatalf("Run() = %v, want context.Canceled", err)
	}
	if l.Post(func() {}) {
		t.Fatal("Post() succeeded after the loop stopped")
	}
}
