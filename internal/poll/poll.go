// Package poll implements bounded, cancellable polling loops.
//
// A Poll owns its timer and its attempt counter, so cancelling a
// request is a single call and no tick can observe state that was torn
// down.
package poll

import (
	"time"

	"github.com/patrick9487/Smart-dashboard/internal/clock"
)

// Scheduler schedules f to run after d. The goroutine f runs on is up
// to the implementation; a Poll must only be used from that goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) *clock.Timer
}

// Policy describes how often and how long to poll.
type Policy struct {
	// Interval is the delay before the second check.
	Interval time.Duration

	// Attempts is the total number of checks, including the immediate
	// first one. Values below one are treated as one.
	Attempts int

	// Backoff multiplies the interval after every failed check. Values
	// below one leave the interval fixed.
	Backoff float64

	// MaxInterval caps the interval when Backoff is in use. Zero means
	// no cap.
	MaxInterval time.Duration
}

// Budget returns the total time spent waiting between checks if every
// check fails.
func (p Policy) Budget() (total time.Duration) {
	interval := p.Interval
	for i := 1; i < p.Attempts; i++ {
		total += interval
		interval = p.next(interval)
	}
	return total
}

func (p Policy) next(interval time.Duration) time.Duration {
	if p.Backoff <= 1 {
		return interval
	}
	interval = time.Duration(float64(interval) * p.Backoff)
	if (p.MaxInterval > 0) && (interval > p.MaxInterval) {
		interval = p.MaxInterval
	}
	return interval
}

// Poll is a running polling loop.
type Poll struct {
	sched     Scheduler
	policy    Policy
	check     func() bool
	onSuccess func()
	onTimeout func()

	attempts int
	interval time.Duration
	timer    *clock.Timer
	done     bool
}

// Start checks immediately and then keeps checking according to
// policy until check returns true or the attempts run out. Exactly one
// of onSuccess and onTimeout is called unless the Poll is cancelled
// first. Either may be nil.
func Start(sched Scheduler, policy Policy, check func() bool, onSuccess, onTimeout func()) *Poll {
	p := Poll{
		sched:     sched,
		policy:    policy,
		check:     check,
		onSuccess: onSuccess,
		onTimeout: onTimeout,
		interval:  policy.Interval,
	}
	p.tick()
	return &p
}

func (p *Poll) tick() {
	if p.done {
		return
	}

	p.timer = nil
	p.attempts++
	if p.check() {
		p.finish(p.onSuccess)
		return
	}

	if p.attempts >= max(p.policy.Attempts, 1) {
		p.finish(p.onTimeout)
		return
	}

	p.timer = p.sched.AfterFunc(p.interval, p.tick)
	p.interval = p.policy.next(p.interval)
}

func (p *Poll) finish(f func()) {
	p.done = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if f != nil {
		f()
	}
}

// Check runs the check immediately, outside the schedule, and finishes
// the Poll successfully if it passes. It does not use up an attempt.
func (p *Poll) Check() {
	if p.done {
		return
	}
	if p.check() {
		p.finish(p.onSuccess)
	}
}

// Cancel stops the Poll without calling either callback. It reports
// false if the Poll had already finished.
func (p *Poll) Cancel() bool {
	if p.done {
		return false
	}
	p.finish(nil)
	return true
}

// Done reports whether the Poll has finished or been cancelled.
func (p *Poll) Done() bool {
	return p.done
}

// Attempts returns the number of scheduled checks run so far.
func (p *Poll) Attempts() int {
	return p.attempts
}
