package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake returns a FakeClock set to initial.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

// FakeClock is a deterministic Clock. It is safe for concurrent use,
// but AfterFunc callbacks must not call Advance.
type FakeClock struct {
	m       sync.Mutex
	current time.Time
	waiters []*fakeWaiter
}

type fakeWaiter struct {
	deadline time.Time
	callback func()
	channel  chan time.Time
	interval time.Duration
	stopped  bool
	fired    bool
}

func (c *FakeClock) Now() time.Time {
	c.m.Lock()
	defer c.m.Unlock()
	return c.current
}

// AfterFunc schedules f. If d <= 0, f is called before AfterFunc
// returns.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	if d <= 0 {
		f()
		return &Timer{stop: func() bool { return false }}
	}

	c.m.Lock()
	defer c.m.Unlock()

	waiter := &fakeWaiter{
		deadline: c.current.Add(d),
		callback: f,
	}
	c.waiters = append(c.waiters, waiter)

	return &Timer{
		stop: func() bool {
			c.m.Lock()
			defer c.m.Unlock()
			if waiter.stopped || waiter.fired {
				return false
			}
			waiter.stopped = true
			return true
		},
	}
}

func (c *FakeClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}

	c.m.Lock()
	defer c.m.Unlock()

	channel := make(chan time.Time, 1)
	waiter := &fakeWaiter{
		deadline: c.current.Add(d),
		channel:  channel,
		interval: d,
	}
	c.waiters = append(c.waiters, waiter)

	return &Ticker{
		C: channel,
		stop: func() {
			c.m.Lock()
			defer c.m.Unlock()
			waiter.stopped = true
		},
	}
}

// Advance moves the clock forward by d, firing everything whose
// deadline has passed in deadline order. Callbacks run on the calling
// goroutine.
func (c *FakeClock) Advance(d time.Duration) {
	c.m.Lock()
	c.current = c.current.Add(d)
	target := c.current
	c.m.Unlock()

	for {
		toFire := c.collectExpired(target)
		if len(toFire) == 0 {
			return
		}

		for _, waiter := range toFire {
			if waiter.callback != nil {
				waiter.callback()
				continue
			}
			select {
			case waiter.channel <- target:
			default:
			}
		}
	}
}

func (c *FakeClock) collectExpired(target time.Time) []*fakeWaiter {
	c.m.Lock()
	defer c.m.Unlock()

	var toFire, remaining []*fakeWaiter
	for _, waiter := range c.waiters {
		if waiter.stopped {
			continue
		}
		if waiter.deadline.After(target) {
			remaining = append(remaining, waiter)
			continue
		}
		toFire = append(toFire, waiter)
	}

	sort.SliceStable(toFire, func(i, j int) bool {
		return toFire[i].deadline.Before(toFire[j].deadline)
	})

	for _, waiter := range toFire {
		if waiter.interval > 0 {
			waiter.deadline = waiter.deadline.Add(waiter.interval)
			remaining = append(remaining, waiter)
			continue
		}
		waiter.fired = true
	}

	c.waiters = remaining
	return toFire
}

// PendingCount returns the number of timers and tickers that have not
// fired or been stopped.
func (c *FakeClock) PendingCount() int {
	c.m.Lock()
	defer c.m.Unlock()

	var n int
	for _, waiter := range c.waiters {
		if !waiter.stopped {
			n++
		}
	}
	return n
}
