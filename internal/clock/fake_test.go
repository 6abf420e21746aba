package clock

import (
	"testing"
	"time"
)

func TestFakeAfterFuncOrder(t *testing.T) {
	c := Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	var order []int
	c.AfterFunc(2*time.Second, func() { order = append(order, 2) })
	c.AfterFunc(time.Second, func() { order = append(order, 1) })
	stopped := c.AfterFunc(time.Second, func() { order = append(order, 3) })
	if !stopped.Stop() {
		t.Fatal("Stop() = false for a pending timer")
	}

	c.Advance(500 * time.Millisecond)
	if len(order) != 0 {
		t.Fatalf("fired early: %v", order)
	}

	c.Advance(2 * time.Second)
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("order = %v, want [1 2]", order)
	}
	if c.PendingCount() != 0 {
		t.Fatalf("PendingCount() = %v, want 0", c.PendingCount())
	}
}

func TestFakeAfterFuncChained(t *testing.T) {
	c := Fake(time.Unix(0, 0))

	var fired int
	var schedule func()
	schedule = func() {
		fired++
		if fired < 3 {
			c.AfterFunc(time.Second, schedule)
		}
	}
	c.AfterFunc(time.Second, schedule)

	// Rescheduled timers are relative to the advanced time, so each
	// step only fires one link of the chain.
	for i := 0; i < 5; i++ {
		c.Advance(time.Second)
	}
	if fired != 3 {
		t.Fatalf("fired = %v, want 3", fired)
	}
}

func TestFakeTicker(t *testing.T) {
	c := Fake(time.Unix(0, 0))
	ticker := c.NewTicker(time.Second)
	defer ticker.Stop()

	c.Advance(time.Second)
	select {
	case <-ticker.C:
	default:
		t.Fatal("ticker did not fire")
	}
}
